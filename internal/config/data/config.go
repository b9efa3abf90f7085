package data

import "sync"

// DefaultView is the screen shown on the first start of a profile.
const DefaultView = "dashboard"

// Config is the state saved for a profile, under
// $XDG_DATA_HOME/absensi/profiles/{profile}/config.yaml.
type Config struct {
	Context *ProfileContext `yaml:"absensi"`
	mx      sync.RWMutex
}

// NewConfig wraps a profile context.
func NewConfig(ctx *ProfileContext) *Config {
	return &Config{Context: ctx}
}

// GetContext returns the profile context.
func (c *Config) GetContext() *ProfileContext {
	c.mx.RLock()
	defer c.mx.RUnlock()

	return c.Context
}

// View is the screen open when the app last quit.
type View struct {
	Active string `yaml:"active"`
}

// NewView returns the default screen.
func NewView() *View {
	return &View{Active: DefaultView}
}

// Validate falls back to the default screen.
func (v *View) Validate() {
	if v.Active == "" {
		v.Active = DefaultView
	}
}
