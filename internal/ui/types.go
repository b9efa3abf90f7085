// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of absensi

package ui

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/absensi/absensi/internal/model"
	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

// Rune keys bound by the screens. Printable runes never collide with the
// tcell special keys.
const (
	KeySpace  tcell.Key = ' '
	KeyPlus   tcell.Key = '+'
	KeyMinus  tcell.Key = '-'
	KeySlash  tcell.Key = '/'
	KeyA      tcell.Key = 'a'
	KeyC      tcell.Key = 'c'
	KeyD      tcell.Key = 'd'
	KeyE      tcell.Key = 'e'
	KeyF      tcell.Key = 'f'
	KeyG      tcell.Key = 'g'
	KeyH      tcell.Key = 'h'
	KeyJ      tcell.Key = 'j'
	KeyK      tcell.Key = 'k'
	KeyN      tcell.Key = 'n'
	KeyO      tcell.Key = 'o'
	KeyP      tcell.Key = 'p'
	KeyS      tcell.Key = 's'
	KeyW      tcell.Key = 'w'
	KeyX      tcell.Key = 'x'
	KeyY      tcell.Key = 'y'
	KeyShiftG tcell.Key = 'G'
	KeyShiftH tcell.Key = 'H'
	KeyShiftL tcell.Key = 'L'
)

// AsKey maps a rune event to its rune key.
func AsKey(evt *tcell.EventKey) tcell.Key {
	if evt.Key() != tcell.KeyRune {
		return evt.Key()
	}
	return tcell.Key(evt.Rune())
}

// MenuHint represents a keyboard mnemonic.
type MenuHint struct {
	Mnemonic    string
	Description string
	Visible     bool
}

// IsBlank checks if menu hint is a placeholder.
func (m MenuHint) IsBlank() bool {
	return m.Mnemonic == "" && m.Description == "" && !m.Visible
}

// MenuHints represents a collection of hints.
type MenuHints []MenuHint

func (h MenuHints) Len() int {
	return len(h)
}

func (h MenuHints) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

// Less orders numeric mnemonics first, then by description.
func (h MenuHints) Less(i, j int) bool {
	n, err1 := strconv.Atoi(h[i].Mnemonic)
	m, err2 := strconv.Atoi(h[j].Mnemonic)
	switch {
	case err1 == nil && err2 == nil:
		return n < m
	case err1 == nil:
		return true
	case err2 == nil:
		return false
	}
	return h[i].Description < h[j].Description
}

// Hinter represent a menu mnemonic provider.
type Hinter interface {
	// Hints returns a collection of menu hints.
	Hints() MenuHints
}

// Component is a screen pushed on the application stack.
type Component interface {
	tview.Primitive
	model.Component
	Hinter

	// Init builds the screen once, before its first start.
	Init(ctx context.Context) error
}

// ActionHandler handles a keyboard event.
type ActionHandler func(*tcell.EventKey) *tcell.EventKey

// KeyAction represents a keyboard action.
type KeyAction struct {
	Description string
	Action      ActionHandler
	Visible     bool
}

// NewKeyAction returns a new keyboard action.
func NewKeyAction(d string, a ActionHandler, display bool) KeyAction {
	return KeyAction{Description: d, Action: a, Visible: display}
}

// KeyMap tracks key to action mappings.
type KeyMap map[tcell.Key]KeyAction

// KeyActions tracks the actions of a screen.
type KeyActions struct {
	actions KeyMap
	mx      sync.RWMutex
}

// NewKeyActions returns an empty action set.
func NewKeyActions() *KeyActions {
	return &KeyActions{actions: make(KeyMap)}
}

// Add binds an action.
func (a *KeyActions) Add(k tcell.Key, ka KeyAction) {
	a.mx.Lock()
	defer a.mx.Unlock()
	a.actions[k] = ka
}

// Bulk binds several actions.
func (a *KeyActions) Bulk(km KeyMap) {
	a.mx.Lock()
	defer a.mx.Unlock()
	for k, v := range km {
		a.actions[k] = v
	}
}

// Get returns the action bound to a key.
func (a *KeyActions) Get(k tcell.Key) (KeyAction, bool) {
	a.mx.RLock()
	defer a.mx.RUnlock()
	ka, ok := a.actions[k]
	return ka, ok
}

// Delete unbinds keys.
func (a *KeyActions) Delete(kk ...tcell.Key) {
	a.mx.Lock()
	defer a.mx.Unlock()
	for _, k := range kk {
		delete(a.actions, k)
	}
}

// Clear unbinds every key.
func (a *KeyActions) Clear() {
	a.mx.Lock()
	defer a.mx.Unlock()
	a.actions = make(KeyMap)
}

// Hints returns the menu hints of the visible actions.
func (a *KeyActions) Hints() MenuHints {
	a.mx.RLock()
	defer a.mx.RUnlock()

	hh := make(MenuHints, 0, len(a.actions))
	for k, v := range a.actions {
		hh = append(hh, MenuHint{
			Mnemonic:    keyName(k),
			Description: v.Description,
			Visible:     v.Visible,
		})
	}
	sort.Sort(hh)

	return hh
}

// Handle runs the action bound to the event key, if any.
func (a *KeyActions) Handle(evt *tcell.EventKey) (*tcell.EventKey, bool) {
	ka, ok := a.Get(AsKey(evt))
	if !ok || ka.Action == nil {
		return evt, false
	}
	return ka.Action(evt), true
}

func keyName(k tcell.Key) string {
	if name, ok := tcell.KeyNames[k]; ok {
		return name
	}
	switch k {
	case KeySpace:
		return "space"
	}
	return string(rune(k))
}
