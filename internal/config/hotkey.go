package config

import (
	"errors"
	"maps"
	"os"
	"sort"
	"sync"

	"github.com/absensi/absensi/internal/config/data"
)

// HotKey binds a key to a screen.
type HotKey struct {
	ShortCut    string `yaml:"shortCut"`
	Description string `yaml:"description"`
	Command     string `yaml:"command"`
}

// HotKeys represents the hotkeys configuration.
type HotKeys struct {
	HotKey map[string]HotKey `yaml:"hotKeys"`
	mx     sync.RWMutex
}

// DefaultHotKeys switch between the main screens.
var DefaultHotKeys = map[string]HotKey{
	"dashboard":  {ShortCut: "0", Description: "Dashboard", Command: "dashboard"},
	"users":      {ShortCut: "1", Description: "Pengguna", Command: "users"},
	"roles":      {ShortCut: "2", Description: "Role", Command: "roles"},
	"divisions":  {ShortCut: "3", Description: "Divisi", Command: "divisions"},
	"attendance": {ShortCut: "4", Description: "Absensi", Command: "attendance"},
}

// NewHotKeys returns the default hotkeys.
func NewHotKeys() *HotKeys {
	return &HotKeys{HotKey: maps.Clone(DefaultHotKeys)}
}

// Load merges the hotkeys of the default config file.
func (h *HotKeys) Load() error {
	return h.LoadFrom(AppHotkeysFile)
}

// LoadFrom merges the hotkeys of a file over the current ones. A hotkey
// without a command opens the screen it is named after.
func (h *HotKeys) LoadFrom(path string) error {
	var loaded struct {
		HotKey map[string]HotKey `yaml:"hotKeys"`
	}
	if err := data.LoadYAML(path, &loaded); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	h.mx.Lock()
	defer h.mx.Unlock()
	for name, hk := range loaded.HotKey {
		if hk.Command == "" {
			hk.Command = name
		}
		h.HotKey[name] = hk
	}

	return nil
}

// Get returns a hotkey by name, or nil if not found.
func (h *HotKeys) Get(name string) *HotKey {
	h.mx.RLock()
	defer h.mx.RUnlock()

	hk, ok := h.HotKey[name]
	if !ok {
		return nil
	}
	return &hk
}

// ByShortCut returns the hotkey bound to a key.
func (h *HotKeys) ByShortCut(key string) (HotKey, bool) {
	h.mx.RLock()
	defer h.mx.RUnlock()

	for _, hk := range h.HotKey {
		if hk.ShortCut == key {
			return hk, true
		}
	}
	return HotKey{}, false
}

// Names returns all hotkey names sorted by shortcut.
func (h *HotKeys) Names() []string {
	h.mx.RLock()
	defer h.mx.RUnlock()

	names := make([]string, 0, len(h.HotKey))
	for name := range h.HotKey {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return h.HotKey[names[i]].ShortCut < h.HotKey[names[j]].ShortCut
	})

	return names
}
