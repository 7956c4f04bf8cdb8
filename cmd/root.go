package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/vellum/internal/config"
	"github.com/zjrosen/vellum/internal/curry"
	"github.com/zjrosen/vellum/internal/flags"
	"github.com/zjrosen/vellum/internal/log"
	"github.com/zjrosen/vellum/internal/mode/playground"
	"github.com/zjrosen/vellum/internal/tracing"
	"github.com/zjrosen/vellum/internal/tracked"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version   = "dev"
	cfgFile   string
	debugFlag bool

	// Populated by setup before any command runs.
	v            *viper.Viper
	cfg          config.Config
	configPath   string
	configFound  bool
	featureFlags *flags.Registry
	tracer       *tracing.Provider
	logCleanup   func()
)

var rootCmd = &cobra.Command{
	Use:   "vellum",
	Short: "A capability-gated component runtime",
	Long: `Vellum defines components through managers that declare capabilities,
renders them with curried event handlers, and runs their lifecycle hooks.

Use 'vellum playground' to try the demos interactively.`,
	Version:            version,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: shutdown,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .vellum/config.yaml, then ~/.config/vellum/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false,
		"write debug logs (also "+log.EnvDebug+")")
}

// setup loads the config, starts logging and tracing, and reads the
// feature flags.
func setup(cmd *cobra.Command, _ []string) error {
	v = viper.New()
	_ = v.BindPFlag("debug", cmd.Root().PersistentFlags().Lookup("debug"))

	configPath, configFound = config.Locate(cfgFile)
	if !configFound {
		// No config file found anywhere - create the default one
		if err := config.WriteDefaultConfig(configPath); err == nil {
			configFound = true
		}
	}

	var err error
	cfg, err = config.Load(v, configPath)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.Debug || log.DebugFromEnv() {
		cleanup, err := log.InitWithTeaLog(cfg.LogPath, "vellum")
		if err != nil {
			return fmt.Errorf("initializing logging: %w", err)
		}
		logCleanup = cleanup
		log.Info(log.CatConfig, "Vellum starting", "version", version, "config", configPath)
	}

	featureFlags = flags.New(cfg.Flags)

	tracer, err = tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	return nil
}

func shutdown(_ *cobra.Command, _ []string) error {
	var err error
	if tracer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err = tracer.Shutdown(ctx)
	}
	if logCleanup != nil {
		logCleanup()
		logCleanup = nil
	}
	return err
}

// demoEnv builds the environment the demos render in from the config and
// feature flags.
func demoEnv(clock *tracked.Clock) playground.Env {
	env := playground.Env{
		Clock:         clock,
		SettleTimeout: cfg.Render.SettleTimeout,
		AsyncHooks:    featureFlags.Enabled(flags.FlagAsyncHooks),
	}
	if featureFlags.Enabled(flags.FlagCurryMemo) {
		env.Memo = curry.NewMemo(cfg.Curry.MemoTTL, cfg.Curry.MemoCleanup, true)
	}
	if tracer != nil && tracer.Enabled() {
		env.Tracer = tracer.Tracer()
	}
	return env
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
