// Package config loads heapctl settings from heapkit.yaml, HEAPKIT_*
// environment variables and built-in defaults, in increasing order of
// precedence for defaults < file < environment.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/joshuapare/heapkit/internal/format"
)

// EnvPrefix prefixes every environment override, e.g. HEAPKIT_WORKERS or
// HEAPKIT_LAYOUT_REGION_SIZE.
const EnvPrefix = "HEAPKIT"

// Config holds every tunable of the reconstruction engine and the CLI.
type Config struct {
	Layout             LayoutConfig `mapstructure:"layout"`
	CompatSentinelRead bool         `mapstructure:"compat_sentinel_read"`
	Workers            int          `mapstructure:"workers"`
	PointerCacheSize   int          `mapstructure:"pointer_cache_size"`
	Charset            string       `mapstructure:"charset"`
	MaxTextBytes       int          `mapstructure:"max_text_bytes"`
	Logs               LogConfig    `mapstructure:"logs"`
}

// LayoutConfig mirrors format.Layout.
type LayoutConfig struct {
	RegionSize  int `mapstructure:"region_size"`
	DataSize    int `mapstructure:"data_size"`
	SizeClasses int `mapstructure:"size_classes"`
	PaddingSize int `mapstructure:"padding_size"`
}

// LogConfig configures the optional rotated log file.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"` // empty disables file logging
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	MaxBackups int    `mapstructure:"max_backups"`
	Compress   bool   `mapstructure:"compress"`
}

// Format returns the configured layout.
func (c LayoutConfig) Format() format.Layout {
	return format.Layout{
		RegionSize:  c.RegionSize,
		DataSize:    c.DataSize,
		SizeClasses: c.SizeClasses,
		PaddingSize: c.PaddingSize,
	}
}

func setDefaults(v *viper.Viper) {
	l := format.DefaultLayout()
	v.SetDefault("layout.region_size", l.RegionSize)
	v.SetDefault("layout.data_size", l.DataSize)
	v.SetDefault("layout.size_classes", l.SizeClasses)
	v.SetDefault("layout.padding_size", l.PaddingSize)
	v.SetDefault("compat_sentinel_read", false)
	v.SetDefault("workers", 1)
	v.SetDefault("pointer_cache_size", 256)
	v.SetDefault("charset", "")
	v.SetDefault("max_text_bytes", 32)
	v.SetDefault("logs.level", "warn")
	v.SetDefault("logs.file", "")
	v.SetDefault("logs.max_size_mb", 10)
	v.SetDefault("logs.max_age_days", 7)
	v.SetDefault("logs.max_backups", 3)
	v.SetDefault("logs.compress", true)
}

// Load reads configuration. An explicit path must exist; without one,
// heapkit.yaml is searched in the working directory, $HOME/.heapkit and
// /etc/heapkit, and a missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("heapkit")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.heapkit")
		v.AddConfigPath("/etc/heapkit")
	}

	// Allow environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail deep inside a phase.
func (c *Config) Validate() error {
	if err := c.Layout.Format().Validate(); err != nil {
		return fmt.Errorf("config: layout: %w", err)
	}
	if c.Workers < 0 {
		return fmt.Errorf("config: workers must be >= 0, got %d", c.Workers)
	}
	if c.PointerCacheSize < 0 {
		return fmt.Errorf("config: pointer_cache_size must be >= 0, got %d", c.PointerCacheSize)
	}
	return nil
}
