// Package sqlite provides SQLite storage configuration options.
package sqlite

import (
	"fmt"

	"github.com/spf13/pflag"
)

const (
	// DefaultPath is the default database file path. ":memory:" keeps
	// the database in process memory.
	DefaultPath = "pactum.db"

	// DefaultMaxOpenConns is the default connection pool size.
	DefaultMaxOpenConns = 1
)

// Options contains SQLite storage configuration.
type Options struct {
	// Path is the database file path, or ":memory:" for an in-process
	// database.
	Path string `json:"path" mapstructure:"path"`

	// MaxOpenConns caps the connection pool. SQLite serializes writers,
	// so the default of 1 avoids SQLITE_BUSY under write load.
	MaxOpenConns int `json:"max-open-conns" mapstructure:"max-open-conns"`

	// LogLevel is the gorm log level (silent, error, warn, info).
	LogLevel string `json:"log-level" mapstructure:"log-level"`
}

// NewOptions creates a new Options with default values.
func NewOptions() *Options {
	return &Options{
		Path:         DefaultPath,
		MaxOpenConns: DefaultMaxOpenConns,
		LogLevel:     "warn",
	}
}

// Complete completes the SQLite options with defaults.
func (o *Options) Complete() error {
	if o.Path == "" {
		o.Path = DefaultPath
	}
	if o.MaxOpenConns == 0 {
		o.MaxOpenConns = DefaultMaxOpenConns
	}
	if o.LogLevel == "" {
		o.LogLevel = "warn"
	}
	return nil
}

// Validate validates the SQLite options.
func (o *Options) Validate() error {
	if o.Path == "" {
		return fmt.Errorf("sqlite.path cannot be empty")
	}
	if o.MaxOpenConns < 1 {
		return fmt.Errorf("sqlite.max-open-conns must be at least 1")
	}
	switch o.LogLevel {
	case "silent", "error", "warn", "info":
	default:
		return fmt.Errorf("sqlite.log-level must be one of silent, error, warn, info")
	}
	return nil
}

// AddFlags adds flags for SQLite options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Path, "sqlite.path", o.Path, "SQLite database file path (\":memory:\" for in-process)")
	fs.IntVar(&o.MaxOpenConns, "sqlite.max-open-conns", o.MaxOpenConns, "Maximum open database connections")
	fs.StringVar(&o.LogLevel, "sqlite.log-level", o.LogLevel, "Database log level (silent, error, warn, info)")
}
