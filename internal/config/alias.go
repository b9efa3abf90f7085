package config

import (
	"errors"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/absensi/absensi/internal/config/data"
)

// DefaultAliases map the short names accepted by the command prompt and the
// CLI to screen names.
var DefaultAliases = map[string]string{
	"user":     "users",
	"u":        "users",
	"pengguna": "users",
	"role":     "roles",
	"r":        "roles",
	"peran":    "roles",
	"division": "divisions",
	"div":      "divisions",
	"divisi":   "divisions",
	"att":      "attendance",
	"absensi":  "attendance",
	"absence":  "attendance",
	"presensi": "attendance",
	"dash":     "dashboard",
	"home":     "dashboard",
}

// Aliases resolves short names to screen names.
type Aliases struct {
	Alias map[string]string `yaml:"aliases"`
	mx    sync.RWMutex
}

// NewAliases returns the built-in aliases.
func NewAliases() *Aliases {
	return &Aliases{Alias: maps.Clone(DefaultAliases)}
}

// Load merges the user aliases file over the built-in aliases.
func (a *Aliases) Load() error {
	return a.LoadFrom(AppAliasesFile)
}

// LoadFrom merges the given aliases file, a missing file is not an error.
func (a *Aliases) LoadFrom(path string) error {
	var loaded struct {
		Alias map[string]string `yaml:"aliases"`
	}
	if err := data.LoadYAML(path, &loaded); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	a.mx.Lock()
	defer a.mx.Unlock()
	for k, v := range loaded.Alias {
		a.Alias[normalize(k)] = normalize(v)
	}

	return nil
}

// Get returns the screen of an alias, or the normalized name when no alias
// matches.
func (a *Aliases) Get(name string) string {
	name = normalize(name)

	a.mx.RLock()
	defer a.mx.RUnlock()
	if target, ok := a.Alias[name]; ok {
		return target
	}

	return name
}

// ByTarget groups the sorted aliases of every screen.
func (a *Aliases) ByTarget() map[string][]string {
	a.mx.RLock()
	defer a.mx.RUnlock()

	out := make(map[string][]string)
	for alias, target := range a.Alias {
		out[target] = append(out[target], alias)
	}
	for _, aa := range out {
		slices.Sort(aa)
	}

	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
