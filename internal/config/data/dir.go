package data

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// defaultProfilesDir is set by the config package during initialization.
var defaultProfilesDir string

// SetDefaultProfilesDir sets the default profiles directory.
func SetDefaultProfilesDir(dir string) {
	defaultProfilesDir = dir
}

// Dir manages the per profile state directories.
type Dir struct {
	root string
	mx   sync.RWMutex
}

// NewDir returns a Dir rooted at the default profiles directory.
func NewDir() *Dir {
	return &Dir{
		root: defaultProfilesDir,
	}
}

// NewDirAt returns a Dir rooted at the given path.
func NewDirAt(root string) *Dir {
	return &Dir{
		root: root,
	}
}

// ProfilePath returns {root}/{profile}.
func (d *Dir) ProfilePath(profile string) string {
	d.mx.RLock()
	defer d.mx.RUnlock()

	return filepath.Join(d.root, SanitizeFileName(profile))
}

// ConfigPath returns {root}/{profile}/config.yaml.
func (d *Dir) ConfigPath(profile string) string {
	return filepath.Join(d.ProfilePath(profile), "config.yaml")
}

// Load reads the state of a profile. A missing file yields a fresh state.
func (d *Dir) Load(profile string) (*Config, error) {
	ctx := NewProfileContext(profile)
	cfg := NewConfig(ctx)

	if err := LoadYAML(d.ConfigPath(profile), ctx); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load profile state: %w", err)
		}
	}
	ctx.ProfileName = profile
	ctx.Validate()

	return cfg, nil
}

// Save writes the state of a profile.
func (d *Dir) Save(cfg *Config) error {
	if cfg == nil || cfg.GetContext() == nil {
		return fmt.Errorf("cannot save nil config or context")
	}
	ctx := cfg.GetContext()

	ctx.mx.RLock()
	defer ctx.mx.RUnlock()
	if err := SaveYAML(d.ConfigPath(ctx.ProfileName), ctx); err != nil {
		return fmt.Errorf("save profile state: %w", err)
	}

	return nil
}

// ListProfiles returns the names of the profiles having saved state.
func (d *Dir) ListProfiles() ([]string, error) {
	d.mx.RLock()
	root := d.root
	d.mx.RUnlock()

	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read profiles directory: %w", err)
	}

	var profiles []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(root, entry.Name(), "config.yaml")); err != nil {
			continue
		}
		profiles = append(profiles, entry.Name())
	}
	sort.Strings(profiles)

	return profiles, nil
}
