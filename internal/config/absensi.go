package config

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/absensi/absensi/internal/config/data"
)

// Default values.
const (
	DefaultBaseURL        = "http://localhost:8080/api"
	DefaultTimeoutSeconds = 30
	DefaultRowsPerPage    = 10
	DefaultProfile        = "default"
)

// DefaultRowsPerPageOptions lists the rows per page offered in tables.
var DefaultRowsPerPageOptions = []int{10, 20, 30, 40, 50}

// Export configures where exported tables are uploaded.
type Export struct {
	Bucket     string `yaml:"bucket,omitempty"`
	Prefix     string `yaml:"prefix,omitempty"`
	Region     string `yaml:"region,omitempty"`
	AWSProfile string `yaml:"awsProfile,omitempty"`
}

// Enabled returns true when an upload bucket is configured.
func (e Export) Enabled() bool {
	return e.Bucket != ""
}

// Absensi represents the application settings.
type Absensi struct {
	BaseURL            string            `yaml:"baseURL"`
	Headers            map[string]string `yaml:"headers,omitempty"`
	TimeoutSeconds     int               `yaml:"timeoutSeconds"`
	RowsPerPage        int               `yaml:"rowsPerPage"`
	RowsPerPageOptions []int             `yaml:"rowsPerPageOptions"`
	RefreshRate        float32           `yaml:"refreshRate"`
	ActiveProfile      string            `yaml:"activeProfile"`
	Export             Export            `yaml:"export"`
	UI                 data.UI           `yaml:"ui"`

	activeConfig *data.Config
	dir          *data.Dir
	mx           sync.RWMutex
}

// NewAbsensi returns settings with defaults.
func NewAbsensi() *Absensi {
	return &Absensi{
		BaseURL:            DefaultBaseURL,
		TimeoutSeconds:     DefaultTimeoutSeconds,
		RowsPerPage:        DefaultRowsPerPage,
		RowsPerPageOptions: slices.Clone(DefaultRowsPerPageOptions),
		RefreshRate:        DefaultRefreshRate,
		ActiveProfile:      DefaultProfile,
		dir:                data.NewDir(),
	}
}

// Validate fills in missing settings. The rows per page is always one of
// the offered options.
func (a *Absensi) Validate() {
	a.mx.Lock()
	defer a.mx.Unlock()

	a.BaseURL = strings.TrimRight(a.BaseURL, "/")
	if a.BaseURL == "" {
		a.BaseURL = DefaultBaseURL
	}
	if a.TimeoutSeconds <= 0 {
		a.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if a.RefreshRate <= 0 {
		a.RefreshRate = DefaultRefreshRate
	}
	if a.ActiveProfile == "" {
		a.ActiveProfile = DefaultProfile
	}

	opts := a.RowsPerPageOptions[:0:0]
	for _, o := range a.RowsPerPageOptions {
		if o > 0 {
			opts = append(opts, o)
		}
	}
	if len(opts) == 0 {
		opts = slices.Clone(DefaultRowsPerPageOptions)
	}
	if a.RowsPerPage <= 0 {
		a.RowsPerPage = DefaultRowsPerPage
	}
	if !slices.Contains(opts, a.RowsPerPage) {
		opts = append(opts, a.RowsPerPage)
	}
	slices.Sort(opts)
	a.RowsPerPageOptions = slices.Compact(opts)
	if a.dir == nil {
		a.dir = data.NewDir()
	}
}

// Timeout returns the backend call timeout.
func (a *Absensi) Timeout() time.Duration {
	a.mx.RLock()
	defer a.mx.RUnlock()
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// RefreshDuration returns the table refresh period.
func (a *Absensi) RefreshDuration() time.Duration {
	a.mx.RLock()
	defer a.mx.RUnlock()
	return time.Duration(float64(a.RefreshRate) * float64(time.Second))
}

// ActiveConfig returns the state saved for the active profile.
func (a *Absensi) ActiveConfig() *data.Config {
	a.mx.RLock()
	defer a.mx.RUnlock()
	return a.activeConfig
}

// ActivateProfile switches profile and loads its saved state.
func (a *Absensi) ActivateProfile(profile string) (*data.ProfileContext, error) {
	if profile == "" {
		return nil, fmt.Errorf("profile cannot be empty")
	}

	a.mx.Lock()
	defer a.mx.Unlock()

	if a.dir == nil {
		a.dir = data.NewDir()
	}
	cfg, err := a.dir.Load(profile)
	if err != nil {
		return nil, fmt.Errorf("load state for profile %q: %w", profile, err)
	}
	a.ActiveProfile = profile
	a.activeConfig = cfg

	return cfg.GetContext(), nil
}

// SaveActive persists the state of the active profile.
func (a *Absensi) SaveActive() error {
	a.mx.RLock()
	defer a.mx.RUnlock()

	if a.activeConfig == nil {
		return nil
	}
	return a.dir.Save(a.activeConfig)
}

// Override applies CLI flag overrides.
func (a *Absensi) Override(flags *data.Flags) {
	if flags == nil {
		return
	}

	a.mx.Lock()
	defer a.mx.Unlock()

	if IsStringSet(flags.BaseURL) {
		a.BaseURL = strings.TrimRight(*flags.BaseURL, "/")
	}
	if IsStringSet(flags.Profile) {
		a.ActiveProfile = *flags.Profile
	}
	if flags.RefreshRate != nil && *flags.RefreshRate > 0 {
		a.RefreshRate = *flags.RefreshRate
	}
	if flags.Timeout != nil && *flags.Timeout > 0 {
		a.TimeoutSeconds = *flags.Timeout
	}
	if flags.RowsPerPage != nil && *flags.RowsPerPage > 0 {
		a.RowsPerPage = *flags.RowsPerPage
		if !slices.Contains(a.RowsPerPageOptions, a.RowsPerPage) {
			a.RowsPerPageOptions = append(a.RowsPerPageOptions, a.RowsPerPage)
			slices.Sort(a.RowsPerPageOptions)
		}
	}
	if IsBoolSet(flags.Headless) {
		a.UI.Headless = true
	}
}
