package config

import (
	"github.com/absensi/absensi/internal/config/data"
)

// DefaultRefreshRate is the default table refresh interval in seconds.
const DefaultRefreshRate = 30.0

// DefaultLogLevel is the default logging level.
const DefaultLogLevel = "info"

// NewFlags returns unset flags, apart from the log level. Zero values leave
// the config file in charge. An unset log file resolves to AppLogFile once
// the locations are known.
func NewFlags() *data.Flags {
	logLevel := DefaultLogLevel

	return &data.Flags{
		BaseURL:     new(string),
		Profile:     new(string),
		LogLevel:    &logLevel,
		LogFile:     new(string),
		RefreshRate: new(float32),
		Timeout:     new(int),
		RowsPerPage: new(int),
		Headless:    new(bool),
		Command:     new(string),
	}
}

// IsBoolSet returns true if a bool pointer is non-nil and true.
func IsBoolSet(b *bool) bool {
	return b != nil && *b
}

// IsStringSet returns true if a string pointer is non-nil and non-empty.
func IsStringSet(s *string) bool {
	return s != nil && *s != ""
}
