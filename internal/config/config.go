// Package config provides configuration types and defaults for vellum.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zjrosen/vellum/internal/flags"
	"github.com/zjrosen/vellum/internal/log"
	"github.com/zjrosen/vellum/internal/tracing"
)

// Config lookup paths, relative to the working directory and home.
const (
	LocalConfigPath = ".vellum/config.yaml"
	UserConfigDir   = ".config/vellum"
)

// Config holds all configuration options for vellum.
type Config struct {
	Debug   bool            `mapstructure:"debug"`
	LogPath string          `mapstructure:"log_path"`
	Render  RenderConfig    `mapstructure:"render"`
	Curry   CurryConfig     `mapstructure:"curry"`
	UI      UIConfig        `mapstructure:"ui"`
	Tracing tracing.Config  `mapstructure:"tracing"`
	Flags   map[string]bool `mapstructure:"flags"`
}

// RenderConfig tunes render passes.
type RenderConfig struct {
	// SettleTimeout bounds how long Settled waits for asynchronous hooks.
	SettleTimeout time.Duration `mapstructure:"settle_timeout"`
}

// CurryConfig tunes curry memoization (flags.curry-memo).
type CurryConfig struct {
	MemoTTL     time.Duration `mapstructure:"memo_ttl"`
	MemoCleanup time.Duration `mapstructure:"memo_cleanup"`
}

// UIConfig holds playground settings.
type UIConfig struct {
	MarkdownStyle string `mapstructure:"markdown_style"` // "dark" or "light"
	ShowLog       bool   `mapstructure:"show_log"`
	ShowDiff      bool   `mapstructure:"show_diff"`
}

// DefaultTracesFilePath returns ~/.config/vellum/traces/traces.jsonl, or ""
// when the home directory is unknown.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, UserConfigDir, "traces", "traces.jsonl")
}

// Defaults returns a Config with default values.
func Defaults() Config {
	tc := tracing.DefaultConfig()
	tc.FilePath = DefaultTracesFilePath()
	return Config{
		LogPath: "debug.log",
		Render: RenderConfig{
			SettleTimeout: 5 * time.Second,
		},
		Curry: CurryConfig{
			MemoTTL:     10 * time.Minute,
			MemoCleanup: 30 * time.Minute,
		},
		UI: UIConfig{
			MarkdownStyle: "dark",
			ShowLog:       true,
			ShowDiff:      true,
		},
		Tracing: tc,
		Flags: map[string]bool{
			flags.FlagCurryMemo:  true,
			flags.FlagAsyncHooks: false,
		},
	}
}

// Validate checks every section. Zero values that have defaults are valid.
func Validate(c Config) error {
	if c.Render.SettleTimeout < 0 {
		return fmt.Errorf("render.settle_timeout must not be negative, got %s", c.Render.SettleTimeout)
	}
	if c.Curry.MemoTTL < 0 {
		return fmt.Errorf("curry.memo_ttl must not be negative, got %s", c.Curry.MemoTTL)
	}
	if c.Curry.MemoCleanup < 0 {
		return fmt.Errorf("curry.memo_cleanup must not be negative, got %s", c.Curry.MemoCleanup)
	}
	switch c.UI.MarkdownStyle {
	case "", "dark", "light":
	default:
		return fmt.Errorf("ui.markdown_style must be \"dark\" or \"light\", got %q", c.UI.MarkdownStyle)
	}
	return ValidateTracing(c.Tracing)
}

// ValidateTracing checks the tracing section.
func ValidateTracing(tc tracing.Config) error {
	if tc.SampleRate < 0.0 || tc.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tc.SampleRate)
	}

	switch tc.Exporter {
	case "", tracing.ExporterNone, tracing.ExporterFile, tracing.ExporterStdout, tracing.ExporterOTLP:
	default:
		return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tc.Exporter)
	}

	if tc.Enabled {
		if tc.Exporter == tracing.ExporterFile && tc.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tc.Exporter == tracing.ExporterOTLP && tc.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}
	return nil
}

// DefaultConfigTemplate returns the default config as commented YAML.
func DefaultConfigTemplate() string {
	return `# Vellum Configuration

# Write debug logs (same as --debug or VELLUM_DEBUG=1)
debug: false
log_path: debug.log

render:
  settle_timeout: 5s      # Max wait for asynchronous create hooks in Settled

curry:
  memo_ttl: 10m           # How long an unchanged fn(...) keeps its curry value
  memo_cleanup: 30m

ui:
  markdown_style: dark    # Help overlay style: "dark" or "light"
  show_log: true          # Log pane in the playground
  show_diff: true         # Markup diff pane in the playground

flags:
  curry-memo: true
  async-hooks: false

# Tracing (OpenTelemetry). Exporters: none, file, stdout, otlp
# tracing:
#   enabled: true
#   exporter: file
#   file_path: ~/.config/vellum/traces/traces.jsonl
#
# tracing:
#   enabled: true
#   exporter: otlp
#   otlp_endpoint: localhost:4317
#   sample_rate: 0.5
`
}

// WriteDefaultConfig writes the default template to configPath, creating
// the parent directory.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
