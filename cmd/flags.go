package cmd

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/zjrosen/vellum/internal/config"
	"github.com/zjrosen/vellum/internal/flags"
	"github.com/zjrosen/vellum/internal/log"
)

var flagsCmd = &cobra.Command{
	Use:   "flags",
	Short: "List feature flags",
	Long: `List the feature flags vellum reads from the flags: section of the
config file, with their current state.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		names := flags.Known()
		width := 0
		for _, name := range names {
			width = max(width, runewidth.StringWidth(name))
		}
		var b strings.Builder
		for _, name := range names {
			state := "off"
			if featureFlags.Enabled(name) {
				state = "on"
			}
			fmt.Fprintf(&b, "%s  %-3s  %s\n", runewidth.FillRight(name, width), state, flags.Describe(name))
		}
		_, err := fmt.Fprint(cmd.OutOrStdout(), b.String())
		return err
	},
}

var flagsSetCmd = &cobra.Command{
	Use:   "set NAME on|off",
	Short: "Turn a feature flag on or off in the config file",
	Long: `Turn a feature flag on or off. The flags: section of the config file
is rewritten; comments and other sections are kept.

Examples:
  vellum flags set async-hooks on
  vellum flags set curry-memo off`,
	Args:      cobra.ExactArgs(2),
	ValidArgs: flags.Known(),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, value := args[0], strings.ToLower(args[1])
		if flags.Describe(name) == "" {
			return fmt.Errorf("unknown flag %q (known: %s)", name, strings.Join(flags.Known(), ", "))
		}

		var on bool
		switch value {
		case "on", "true", "yes", "1":
			on = true
		case "off", "false", "no", "0":
		default:
			return fmt.Errorf("flag value must be on or off, got %q", args[1])
		}

		values := featureFlags.All()
		values[name] = on
		if err := config.SaveFlags(configPath, values); err != nil {
			return fmt.Errorf("saving flags: %w", err)
		}
		log.Info(log.CatConfig, "Feature flag saved", "flag", name, "enabled", on, "path", configPath)

		state := "off"
		if on {
			state = "on"
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s is %s in %s\n", name, state, configPath)
		return err
	},
}

func init() {
	flagsCmd.AddCommand(flagsSetCmd)
	rootCmd.AddCommand(flagsCmd)
}
