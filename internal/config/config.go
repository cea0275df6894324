// Package config provides configuration loading and management for depman.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied when a setting is absent from both file and environment.
const (
	DefaultTimeout     = 10 * time.Second
	DefaultConcurrency = 10
	DefaultCacheTTL    = 24 * time.Hour
)

// Config holds all depman settings.
type Config struct {
	Registries RegistriesConfig `mapstructure:"registries" yaml:"registries"`
	Cache      CacheConfig      `mapstructure:"cache" yaml:"cache"`
	Output     OutputConfig     `mapstructure:"output" yaml:"output"`
}

// RegistriesConfig configures registry access. Empty URLs use the public
// registries.
type RegistriesConfig struct {
	PyPIURL     string        `mapstructure:"pypi_url" yaml:"pypi_url"`
	NpmURL      string        `mapstructure:"npm_url" yaml:"npm_url"`
	GoProxyURL  string        `mapstructure:"goproxy_url" yaml:"goproxy_url"`
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Concurrency int           `mapstructure:"concurrency" yaml:"concurrency"`
}

// CacheConfig configures the on-disk registry cache.
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled" yaml:"enabled"`
	TTL     time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

// OutputConfig configures default rendering.
type OutputConfig struct {
	Format  string `mapstructure:"format" yaml:"format"`
	Verbose bool   `mapstructure:"verbose" yaml:"verbose"`
}

// NewConfig creates a configuration with all defaults applied.
func NewConfig() *Config {
	return &Config{
		Registries: RegistriesConfig{
			Timeout:     DefaultTimeout,
			Concurrency: DefaultConcurrency,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     DefaultCacheTTL,
		},
		Output: OutputConfig{
			Format: "table",
		},
	}
}

// ApplyDefaults fills in any zero values left after loading.
func (c *Config) ApplyDefaults() {
	if c.Registries.Timeout <= 0 {
		c.Registries.Timeout = DefaultTimeout
	}
	if c.Registries.Concurrency <= 0 {
		c.Registries.Concurrency = DefaultConcurrency
	}
	if c.Cache.TTL <= 0 {
		c.Cache.TTL = DefaultCacheTTL
	}
	if c.Output.Format == "" {
		c.Output.Format = "table"
	}
}

// Validate checks for settings that would break at runtime.
func (c *Config) Validate() error {
	switch c.Output.Format {
	case "table", "terminal", "json":
	default:
		return fmt.Errorf("invalid output format %q (want table or json)", c.Output.Format)
	}
	if c.Registries.Concurrency > 100 {
		return fmt.Errorf("registries.concurrency %d exceeds the limit of 100", c.Registries.Concurrency)
	}
	return nil
}

// starterConfig mirrors Config with human-readable duration strings for the
// generated file.
type starterConfig struct {
	Registries struct {
		PyPIURL     string `yaml:"pypi_url"`
		NpmURL      string `yaml:"npm_url"`
		GoProxyURL  string `yaml:"goproxy_url"`
		Timeout     string `yaml:"timeout"`
		Concurrency int    `yaml:"concurrency"`
	} `yaml:"registries"`
	Cache struct {
		Enabled bool   `yaml:"enabled"`
		TTL     string `yaml:"ttl"`
	} `yaml:"cache"`
	Output struct {
		Format  string `yaml:"format"`
		Verbose bool   `yaml:"verbose"`
	} `yaml:"output"`
}

// WriteStarter writes a starter config file with the defaults spelled out.
// It refuses to overwrite an existing file.
func WriteStarter(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	var s starterConfig
	s.Registries.Timeout = DefaultTimeout.String()
	s.Registries.Concurrency = DefaultConcurrency
	s.Cache.Enabled = true
	s.Cache.TTL = DefaultCacheTTL.String()
	s.Output.Format = "table"
	out, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	header := []byte("# depman configuration; all settings are optional.\n")
	return os.WriteFile(path, append(header, out...), 0o644)
}
