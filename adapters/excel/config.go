package excel

import "gofriedman/internal"

// Config holds settings for reading and writing measurement workbooks
type Config struct {
	// Sheet is the worksheet read from and written to in xlsx files.
	Sheet  string
	Logger *internal.Logger
}

// DefaultConfig returns sensible defaults for workbook processing
func DefaultConfig() Config {
	return Config{
		Sheet:  "Sheet1",
		Logger: internal.NewNopLogger(),
	}
}

// Option adjusts a Config.
type Option func(*Config)

// WithSheet selects the worksheet. Empty keeps the default.
func WithSheet(sheet string) Option {
	return func(c *Config) {
		if sheet != "" {
			c.Sheet = sheet
		}
	}
}

// WithLogger routes adapter logging to l.
func WithLogger(l *internal.Logger) Option {
	return func(c *Config) {
		if l != nil {
			c.Logger = l
		}
	}
}

func newConfig(opts []Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
