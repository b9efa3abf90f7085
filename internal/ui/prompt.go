// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of absensi

package ui

import (
	"strings"
	"sync"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

// PromptMode tells what the typed text is for.
type PromptMode int

const (
	// PromptCommand reads a screen name or alias.
	PromptCommand PromptMode = iota
	// PromptSearch reads a table search.
	PromptSearch
)

const maxHistory = 20

func (m PromptMode) label() string {
	if m == PromptSearch {
		return "[aqua::b]/[-::-] "
	}
	return "[aqua::b]:[-::-] "
}

// Prompt reads a command or a search on a single line.
type Prompt struct {
	*tview.InputField

	mode     PromptMode
	active   bool
	history  map[PromptMode][]string
	cursor   int
	activeFn func(bool)
	doneFn   func(PromptMode, string)
	cancelFn func(PromptMode)
	mx       sync.RWMutex
}

// NewPrompt returns an inactive prompt.
func NewPrompt() *Prompt {
	p := &Prompt{
		InputField: tview.NewInputField(),
		history:    make(map[PromptMode][]string),
	}
	p.SetFieldBackgroundColor(tcell.ColorDefault)
	p.SetBackgroundColor(tcell.ColorDefault)
	p.SetFieldTextColor(tcell.ColorWhite)
	p.SetBorderPadding(0, 0, 1, 1)
	p.SetDoneFunc(p.done)
	p.SetInputCapture(p.keyboard)

	return p
}

// SetActiveFn sets activation callback.
func (p *Prompt) SetActiveFn(fn func(bool)) {
	p.activeFn = fn
}

// SetDoneFn sets the callback receiving the submitted text.
func (p *Prompt) SetDoneFn(fn func(PromptMode, string)) {
	p.doneFn = fn
}

// SetCancelFn sets the callback run when the input is abandoned.
func (p *Prompt) SetCancelFn(fn func(PromptMode)) {
	p.cancelFn = fn
}

// IsActive returns true while the prompt reads input.
func (p *Prompt) IsActive() bool {
	p.mx.RLock()
	defer p.mx.RUnlock()
	return p.active
}

// Mode returns the current mode.
func (p *Prompt) Mode() PromptMode {
	p.mx.RLock()
	defer p.mx.RUnlock()
	return p.mode
}

// Activate starts reading input in the given mode.
func (p *Prompt) Activate(mode PromptMode, text string) {
	p.mx.Lock()
	p.mode, p.active = mode, true
	p.cursor = len(p.history[mode])
	p.mx.Unlock()

	p.SetLabel(mode.label())
	p.SetText(text)
	if p.activeFn != nil {
		p.activeFn(true)
	}
}

// Deactivate stops reading input.
func (p *Prompt) Deactivate() {
	p.mx.Lock()
	p.active = false
	p.mx.Unlock()

	p.SetLabel("")
	p.SetText("")
	if p.activeFn != nil {
		p.activeFn(false)
	}
}

// History returns the submitted texts of a mode, oldest first.
func (p *Prompt) History(mode PromptMode) []string {
	p.mx.RLock()
	defer p.mx.RUnlock()
	return append([]string(nil), p.history[mode]...)
}

func (p *Prompt) done(key tcell.Key) {
	mode := p.Mode()
	text := strings.TrimSpace(p.GetText())

	switch key {
	case tcell.KeyEnter:
		p.remember(mode, text)
		p.Deactivate()
		if p.doneFn != nil {
			p.doneFn(mode, text)
		}
	case tcell.KeyEsc:
		p.Deactivate()
		if p.cancelFn != nil {
			p.cancelFn(mode)
		}
	}
}

func (p *Prompt) keyboard(evt *tcell.EventKey) *tcell.EventKey {
	switch evt.Key() {
	case tcell.KeyUp:
		p.recall(-1)
		return nil
	case tcell.KeyDown:
		p.recall(1)
		return nil
	}
	return evt
}

func (p *Prompt) recall(delta int) {
	p.mx.Lock()
	hh := p.history[p.mode]
	if len(hh) == 0 {
		p.mx.Unlock()
		return
	}
	p.cursor = min(max(p.cursor+delta, 0), len(hh)-1)
	text := hh[p.cursor]
	p.mx.Unlock()

	p.SetText(text)
}

func (p *Prompt) remember(mode PromptMode, text string) {
	if text == "" {
		return
	}

	p.mx.Lock()
	defer p.mx.Unlock()

	hh := p.history[mode]
	if n := len(hh); n > 0 && hh[n-1] == text {
		return
	}
	hh = append(hh, text)
	if len(hh) > maxHistory {
		hh = hh[len(hh)-maxHistory:]
	}
	p.history[mode] = hh
}
