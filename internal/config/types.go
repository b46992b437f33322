package config

import "time"

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
}

// Default values.
const (
	DefaultTitle          = "Tasks"
	DefaultLoadingDelayMS = 1000
	DefaultCharLimit      = 256
	DefaultLogDir         = "~/.taskpad"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
)

// Config holds the full configuration for taskpad.
type Config struct {
	// Display
	Title     string `toml:"title"`
	CharLimit int    `toml:"char_limit"`

	// Simulated initial load
	LoadingDelayMS int `toml:"loading_delay_ms"`

	// Logging configuration
	LogDir        string `toml:"log_dir"`
	LogFile       string `toml:"log_file"` // Explicit log file; overrides the per-run file in LogDir
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`
}

// LoadingDelay returns the simulated loading delay as a duration.
func (c *Config) LoadingDelay() time.Duration {
	if c.LoadingDelayMS <= 0 {
		return 0
	}
	return time.Duration(c.LoadingDelayMS) * time.Millisecond
}
