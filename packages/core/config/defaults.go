package config

import "github.com/abdul-hamid-achik/tickspec/packages/core/loader"

const (
	DefaultJoin        = "all"
	DefaultConcurrency = 1
	DefaultLogLevel    = "warn"
	DefaultLogFormat   = "text"
)

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Pattern:     loader.DefaultPattern,
		Join:        DefaultJoin,
		Concurrency: DefaultConcurrency,
		LogLevel:    DefaultLogLevel,
		LogFormat:   DefaultLogFormat,
	}
}

// IsDefault returns true if the config matches defaults
func (c *Config) IsDefault() bool {
	d := DefaultConfig()
	return c.Pattern == d.Pattern &&
		c.Join == d.Join &&
		c.NoColor == nil &&
		c.Verbose == nil &&
		c.Concurrency == d.Concurrency &&
		c.LogLevel == d.LogLevel &&
		c.LogFormat == d.LogFormat
}
