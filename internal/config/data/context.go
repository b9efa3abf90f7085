package data

import (
	"slices"
	"sync"
)

// TableState is the saved layout of one resource table.
type TableState struct {
	RowsPerPage int      `yaml:"rowsPerPage,omitempty"`
	SortKey     string   `yaml:"sortKey,omitempty"`
	SortRule    string   `yaml:"sortRule,omitempty"`
	Hidden      []string `yaml:"hidden,omitempty"`
}

// ProfileContext holds the state saved per session profile.
type ProfileContext struct {
	ProfileName string                `yaml:"profile"`
	View        *View                 `yaml:"view,omitempty"`
	Tables      map[string]TableState `yaml:"tables,omitempty"`
	mx          sync.RWMutex          `yaml:"-"`
}

// NewProfileContext creates a new ProfileContext with default settings.
func NewProfileContext(profile string) *ProfileContext {
	return &ProfileContext{
		ProfileName: profile,
		Tables:      make(map[string]TableState),
	}
}

// Validate ensures the ProfileContext has valid settings.
func (c *ProfileContext) Validate() {
	c.mx.Lock()
	defer c.mx.Unlock()

	if c.View != nil {
		c.View.Validate()
	}
	if c.Tables == nil {
		c.Tables = make(map[string]TableState)
	}
}

// GetView returns the current view, creating a default if nil.
func (c *ProfileContext) GetView() *View {
	c.mx.RLock()
	defer c.mx.RUnlock()

	if c.View == nil {
		return NewView()
	}
	return c.View
}

// SetView sets the current view.
func (c *ProfileContext) SetView(v *View) {
	c.mx.Lock()
	defer c.mx.Unlock()

	c.View = v
}

// Table returns the saved state of a resource table.
func (c *ProfileContext) Table(name string) (TableState, bool) {
	c.mx.RLock()
	defer c.mx.RUnlock()

	ts, ok := c.Tables[name]
	ts.Hidden = slices.Clone(ts.Hidden)
	return ts, ok
}

// SetTable records the state of a resource table.
func (c *ProfileContext) SetTable(name string, ts TableState) {
	c.mx.Lock()
	defer c.mx.Unlock()

	if c.Tables == nil {
		c.Tables = make(map[string]TableState)
	}
	ts.Hidden = slices.Clone(ts.Hidden)
	c.Tables[name] = ts
}

// ContextName returns the sanitized profile name.
func (c *ProfileContext) ContextName() string {
	c.mx.RLock()
	defer c.mx.RUnlock()

	return SanitizeFileName(c.ProfileName)
}
