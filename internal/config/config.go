package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"vcsmap/internal/paths"
)

// Config represents the complete vcsmap configuration (v1 schema)
type Config struct {
	Version int `json:"version" mapstructure:"version"`

	Backends    BackendsConfig    `json:"backends" mapstructure:"backends"`
	QueryPolicy QueryPolicyConfig `json:"queryPolicy" mapstructure:"queryPolicy"`
	Logging     LoggingConfig     `json:"logging" mapstructure:"logging"`
}

// BackendsConfig contains backend-specific configuration
type BackendsConfig struct {
	Mercurial MercurialConfig `json:"hg" mapstructure:"hg"`
	Git       GitConfig       `json:"git" mapstructure:"git"`
	Perforce  PerforceConfig  `json:"p4" mapstructure:"p4"`
}

// MercurialConfig contains Mercurial backend configuration
type MercurialConfig struct {
	Enabled bool `json:"enabled" mapstructure:"enabled"`
}

// GitConfig contains Git backend configuration
type GitConfig struct {
	Enabled bool `json:"enabled" mapstructure:"enabled"`
}

// PerforceConfig contains Perforce backend configuration
type PerforceConfig struct {
	Enabled bool `json:"enabled" mapstructure:"enabled"`
}

// QueryPolicyConfig contains backend invocation policy
type QueryPolicyConfig struct {
	TimeoutMs map[string]int `json:"timeoutMs" mapstructure:"timeoutMs"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Backends: BackendsConfig{
			Mercurial: MercurialConfig{Enabled: true},
			Git:       GitConfig{Enabled: true},
			Perforce:  PerforceConfig{Enabled: true},
		},
		QueryPolicy: QueryPolicyConfig{
			TimeoutMs: map[string]int{
				"hg":  5000,
				"git": 5000,
				"p4":  5000,
			},
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from the given file, or from
// $VCSMAP_HOME/config.json when path is empty. A missing file yields the
// default configuration.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("version", 1)
	v.SetDefault("backends.hg.enabled", true)
	v.SetDefault("backends.git.enabled", true)
	v.SetDefault("backends.p4.enabled", true)
	v.SetDefault("queryPolicy.timeoutMs", map[string]int{
		"hg": 5000, "git": 5000, "p4": 5000,
	})
	v.SetDefault("logging.format", "human")
	v.SetDefault("logging.level", "info")

	// Environment overrides, e.g. VCSMAP_LOGGING_LEVEL=debug
	v.SetEnvPrefix("VCSMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		home, err := paths.GetVcsmapHome()
		if err != nil {
			return nil, err
		}
		v.SetConfigName("config")
		v.SetConfigType("json")
		v.AddConfigPath(home)
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		// If config doesn't exist, return default config
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultConfig(), nil
		}
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	// Unmarshal into config struct
	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to the given file, or to
// $VCSMAP_HOME/config.json when path is empty
func (c *Config) Save(path string) error {
	if path == "" {
		home, err := paths.EnsureVcsmapHome()
		if err != nil {
			return err
		}
		path = filepath.Join(home, paths.ConfigFile)
	}

	// Marshal to JSON with indentation
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	// Write to file
	return os.WriteFile(path, data, 0644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != 1 {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}

	for backend, ms := range c.QueryPolicy.TimeoutMs {
		if ms < 0 {
			return &ConfigError{Field: "queryPolicy.timeoutMs." + backend, Message: "timeout must not be negative"}
		}
	}

	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
