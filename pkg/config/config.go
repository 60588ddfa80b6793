package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/Dicklesworthstone/responsive_scopes/pkg/model"
	"github.com/Dicklesworthstone/responsive_scopes/pkg/tracker"
)

// EnvPrefix is the prefix of environment variables that override config keys,
// e.g. RSCOPES_SCOPES_INERTIA_MS.
const EnvPrefix = "RSCOPES"

// Config represents the complete rscopes configuration
type Config struct {
	Scopes  ScopesConfig  `mapstructure:"scopes"`
	Logging LoggingConfig `mapstructure:"logging"`
	UI      UIConfig      `mapstructure:"ui"`
}

// ScopesConfig controls how trackers partition and follow the width
type ScopesConfig struct {
	// Separator joins a base name and a scope label in infixed paths (default: "_")
	Separator string `mapstructure:"separator"`
	// InertiaMs is the debounce delay after the last resize notification (default: 400)
	InertiaMs int `mapstructure:"inertia_ms"`
	// AutoUpdate keeps the tracker state live even without listeners (default: true)
	AutoUpdate bool `mapstructure:"auto_update"`
	// Callbacks enables listener dispatch (default: true)
	Callbacks bool `mapstructure:"callbacks"`
	// BreakpointsFile points at a YAML, JSON or JSONL breakpoints file.
	// It takes precedence over Breakpoints.
	BreakpointsFile string `mapstructure:"breakpoints_file"`
	// Breakpoints defines the partition inline. Empty means the built-in breakpoints.
	Breakpoints []BreakpointConfig `mapstructure:"breakpoints"`
}

// BreakpointConfig is one inline breakpoint
type BreakpointConfig struct {
	Label string `mapstructure:"label"`
	Min   *int   `mapstructure:"min"`
}

// LoggingConfig controls diagnostic logging
type LoggingConfig struct {
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
	// File receives log output; empty disables logging
	File string `mapstructure:"file"`
}

// UIConfig controls the live terminal view
type UIConfig struct {
	// MaxLogLines bounds the transition log (default: 500)
	MaxLogLines int `mapstructure:"max_log_lines"`
	// ShowHelp shows the key binding line (default: true)
	ShowHelp bool `mapstructure:"show_help"`
}

// Default returns the built-in configuration
func Default() *Config {
	d := tracker.DefaultDefaults()
	return &Config{
		Scopes: ScopesConfig{
			Separator:  d.Separator,
			InertiaMs:  int(d.Inertia / time.Millisecond),
			AutoUpdate: d.AutoUpdate,
			Callbacks:  d.Callbacks,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		UI: UIConfig{
			MaxLogLines: 500,
			ShowHelp:    true,
		},
	}
}

// Inertia returns the debounce delay as a duration
func (c *ScopesConfig) Inertia() time.Duration {
	return time.Duration(c.InertiaMs) * time.Millisecond
}

// Entries converts the inline breakpoints into model entries
func (c *ScopesConfig) Entries() []model.Entry {
	if len(c.Breakpoints) == 0 {
		return nil
	}
	entries := make([]model.Entry, len(c.Breakpoints))
	for i, b := range c.Breakpoints {
		entries[i] = model.Entry{Label: b.Label}
		if b.Min != nil {
			v := *b.Min
			entries[i].Threshold = &v
		}
	}
	return entries
}

// TrackerDefaults converts the scopes section into tracker defaults.
// Breakpoints come from the inline list, or the built-in set when it is empty.
func (c *Config) TrackerDefaults() tracker.Defaults {
	breakpoints := c.Scopes.Entries()
	if breakpoints == nil {
		breakpoints = tracker.DefaultBreakpoints()
	}
	return tracker.Defaults{
		Breakpoints: breakpoints,
		Separator:   c.Scopes.Separator,
		Inertia:     c.Scopes.Inertia(),
		AutoUpdate:  c.Scopes.AutoUpdate,
		Callbacks:   c.Scopes.Callbacks,
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Scopes defaults
	viper.SetDefault("scopes.separator", defaults.Scopes.Separator)
	viper.SetDefault("scopes.inertia_ms", defaults.Scopes.InertiaMs)
	viper.SetDefault("scopes.auto_update", defaults.Scopes.AutoUpdate)
	viper.SetDefault("scopes.callbacks", defaults.Scopes.Callbacks)
	viper.SetDefault("scopes.breakpoints_file", defaults.Scopes.BreakpointsFile)

	// Logging defaults
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.file", defaults.Logging.File)

	// UI defaults
	viper.SetDefault("ui.max_log_lines", defaults.UI.MaxLogLines)
	viper.SetDefault("ui.show_help", defaults.UI.ShowHelp)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "rscopes")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".rscopes"
	}
	return filepath.Join(home, ".config", "rscopes")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
