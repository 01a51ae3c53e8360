package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	TestRail TestRailConfig `mapstructure:"testrail"`
	Output   OutputConfig   `mapstructure:"output"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// TestRailConfig holds TestRail API connection details
type TestRailConfig struct {
	URL      string            `mapstructure:"url"`
	Username string            `mapstructure:"username"`
	APIKey   string            `mapstructure:"api_key"`
	Timeout  time.Duration     `mapstructure:"timeout"`
	Headers  map[string]string `mapstructure:"headers"`
}

// OutputConfig controls how command results are printed
type OutputConfig struct {
	Format        string            `mapstructure:"format"`
	FilterPresets map[string]string `mapstructure:"filter_presets"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
