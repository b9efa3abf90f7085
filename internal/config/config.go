package config

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/absensi/absensi/internal/config/data"
)

// ErrNoConfigPath is returned when the config location was never resolved.
const ErrNoConfigPath = Error("no config file path configured")

// Error represents a configuration error.
type Error string

func (e Error) Error() string {
	return string(e)
}

// Config is the root configuration for the application.
type Config struct {
	Absensi *Absensi `yaml:"absensi"`
	mx      sync.RWMutex
}

// NewConfig returns a configuration with defaults.
func NewConfig() *Config {
	return &Config{
		Absensi: NewAbsensi(),
	}
}

// Load reads the configuration at path. A missing file keeps the current
// settings unless force is set.
func (c *Config) Load(path string, force bool) error {
	c.mx.Lock()
	defer c.mx.Unlock()

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if !force {
			return nil
		}
		return fmt.Errorf("config file does not exist: %s", path)
	}
	if err := data.LoadYAML(path, c); err != nil {
		return fmt.Errorf("load config from %s: %w", path, err)
	}
	if c.Absensi == nil {
		c.Absensi = NewAbsensi()
	}
	c.Absensi.Validate()

	return nil
}

// Save writes the configuration. Without force an absent file is not
// created.
func (c *Config) Save(force bool) error {
	return c.SaveTo(AppConfigFile, force)
}

// SaveTo writes the configuration at path.
func (c *Config) SaveTo(path string, force bool) error {
	c.mx.RLock()
	defer c.mx.RUnlock()

	if path == "" {
		return ErrNoConfigPath
	}
	if _, err := os.Stat(path); err != nil && !force {
		return nil
	}
	if err := data.SaveYAML(path, c); err != nil {
		return fmt.Errorf("save config to %s: %w", path, err)
	}

	return nil
}

// Refine applies the CLI flags on top of the file settings and activates
// the resulting profile. Flags win over the file which wins over defaults.
func (c *Config) Refine(flags *data.Flags) error {
	c.mx.Lock()
	defer c.mx.Unlock()

	if c.Absensi == nil {
		c.Absensi = NewAbsensi()
	}
	c.Absensi.Override(flags)
	c.Absensi.Validate()

	if _, err := c.Absensi.ActivateProfile(c.Absensi.ActiveProfile); err != nil {
		return err
	}

	return nil
}
