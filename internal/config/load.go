package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/zjrosen/vellum/internal/log"
)

// SetDefaults registers Defaults() with v so unset keys decode to them.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("debug", d.Debug)
	v.SetDefault("log_path", d.LogPath)
	v.SetDefault("render.settle_timeout", d.Render.SettleTimeout)
	v.SetDefault("curry.memo_ttl", d.Curry.MemoTTL)
	v.SetDefault("curry.memo_cleanup", d.Curry.MemoCleanup)
	v.SetDefault("ui.markdown_style", d.UI.MarkdownStyle)
	v.SetDefault("ui.show_log", d.UI.ShowLog)
	v.SetDefault("ui.show_diff", d.UI.ShowDiff)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.file_path", d.Tracing.FilePath)
	v.SetDefault("tracing.otlp_endpoint", d.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)
	for name, on := range d.Flags {
		v.SetDefault("flags."+name, on)
	}
}

// Locate picks the config file: explicit wins, then .vellum/config.yaml in
// the working directory, then ~/.config/vellum/config.yaml. The second
// result is false when none of them exists.
func Locate(explicit string) (string, bool) {
	if explicit != "" {
		return explicit, true
	}
	if _, err := os.Stat(LocalConfigPath); err == nil {
		return LocalConfigPath, true
	}
	if home, err := os.UserHomeDir(); err == nil {
		p := filepath.Join(home, UserConfigDir, "config.yaml")
		if _, err := os.Stat(p); err == nil {
			return p, true
		}
	}
	return LocalConfigPath, false
}

// Load reads path into v (a missing file leaves the defaults), decodes the
// result and validates it.
func Load(v *viper.Viper, path string) (Config, error) {
	SetDefaults(v)
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return Config{}, fmt.Errorf("reading config %s: %w", path, err)
			}
			log.Debug(log.CatConfig, "No config file, using defaults", "path", path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Watch re-decodes the config whenever its file changes and hands the new
// value to onChange. Invalid edits are logged and skipped.
func Watch(v *viper.Viper, onChange func(Config)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		log.Info(log.CatConfig, "Config file changed", "path", e.Name, "op", e.Op.String())
		var cfg Config
		if err := v.Unmarshal(&cfg); err != nil {
			log.ErrorErr(log.CatConfig, "Failed to decode changed config", err)
			return
		}
		if err := Validate(cfg); err != nil {
			log.ErrorErr(log.CatConfig, "Ignoring invalid config change", err)
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
}
