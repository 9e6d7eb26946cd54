package canopy

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// Config holds stage settings. Load one from TOML with LoadConfig or start
// from DefaultConfig.
//
//	width = 1280
//	height = 720
//	bounds_margin = 100
//	offscreen_cache = true
//	debug = false
//	log_level = "info"
type Config struct {
	Width          float64 `toml:"width"`
	Height         float64 `toml:"height"`
	BoundsMargin   float64 `toml:"bounds_margin"`   // default hysteresis band, each side
	OffscreenCache bool    `toml:"offscreen_cache"` // reuse unchanged offscreen subtrees
	Debug          bool    `toml:"debug"`
	LogLevel       string  `toml:"log_level"`
}

// DefaultConfig returns the settings used when none are given.
func DefaultConfig() Config {
	return Config{
		Width:          1280,
		Height:         720,
		BoundsMargin:   defaultBoundsMargin,
		OffscreenCache: true,
		LogLevel:       "info",
	}
}

// Validate checks sizes and the log level.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("canopy: invalid viewport %gx%g", c.Width, c.Height)
	}
	if c.BoundsMargin < 0 {
		return fmt.Errorf("canopy: invalid bounds_margin %g: must be >= 0", c.BoundsMargin)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel. An empty level is info.
func (c Config) Level() (log.Level, error) {
	if c.LogLevel == "" {
		return log.InfoLevel, nil
	}
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return 0, fmt.Errorf("canopy: invalid log_level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// ParseConfig decodes TOML data over DefaultConfig and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("canopy: parse config: %w", err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return Config{}, fmt.Errorf("canopy: unknown config key %q", undec[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses a TOML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("canopy: read config: %w", err)
	}
	return ParseConfig(data)
}
