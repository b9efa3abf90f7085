// Package data provides configuration data types and file helpers.
package data

// Flags represents the CLI flags. A nil or zero value means unset.
type Flags struct {
	BaseURL     *string  // Backend base URL
	Profile     *string  // Session profile to use
	LogLevel    *string  // Log level (debug, info, warn, error)
	LogFile     *string  // Path to log file
	RefreshRate *float32 // Table refresh rate in seconds
	Timeout     *int     // Backend call timeout in seconds
	RowsPerPage *int     // Default rows per page
	Headless    *bool    // Hide the header bar
	Command     *string  // Screen to open on start
}

// UI represents user interface configuration settings.
type UI struct {
	EnableMouse bool `yaml:"enableMouse"`
	Headless    bool `yaml:"headless"`
}
