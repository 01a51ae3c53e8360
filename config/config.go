package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/s0up4200/railctl/filter"
	"github.com/s0up4200/railctl/testrail"
)

// EnvPrefix prefixes every environment override, e.g. RAILCTL_TESTRAIL_API_KEY
const EnvPrefix = "RAILCTL"

// Load loads the configuration from file and environment. Without an
// explicit path a missing config file is not an error, so the tool can run
// from environment variables alone.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".railctl"))
		}
		v.AddConfigPath("/etc/railctl/")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configPath != "" {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values. Every key that may come
// from the environment needs a default so Unmarshal sees it.
func setDefaults(v *viper.Viper) {
	// TestRail defaults
	v.SetDefault("testrail.url", "")
	v.SetDefault("testrail.username", "")
	v.SetDefault("testrail.api_key", "")
	v.SetDefault("testrail.timeout", testrail.DefaultTimeout)

	// Output defaults
	v.SetDefault("output.format", "pretty")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.TestRail.URL == "" {
		return fmt.Errorf("testrail.url is required")
	}
	if cfg.TestRail.Username == "" {
		return fmt.Errorf("testrail.username is required")
	}
	if cfg.TestRail.APIKey == "" || cfg.TestRail.APIKey == "your-api-key-here" {
		return fmt.Errorf("testrail.api_key must be set to a valid API key")
	}
	if cfg.TestRail.Timeout < 0 {
		return fmt.Errorf("testrail.timeout must not be negative")
	}

	validOutput := map[string]bool{
		"pretty": true,
		"json":   true,
	}
	if !validOutput[cfg.Output.Format] {
		return fmt.Errorf("invalid output format: %s (must be 'pretty' or 'json')", cfg.Output.Format)
	}

	compiler := filter.NewCompiler()
	for name, expression := range cfg.Output.FilterPresets {
		if _, err := compiler.Compile(expression); err != nil {
			return fmt.Errorf("invalid filter preset %q: %w", name, err)
		}
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}

// ClientConfig converts the TestRail section into client settings
func (c *Config) ClientConfig() testrail.Config {
	return testrail.Config{
		BaseURL:  c.TestRail.URL,
		Username: c.TestRail.Username,
		Password: c.TestRail.APIKey,
		Timeout:  c.TestRail.Timeout,
		Headers:  c.TestRail.Headers,
	}
}
