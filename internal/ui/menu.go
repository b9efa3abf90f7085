// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of absensi

package ui

import (
	"fmt"
	"sort"

	"github.com/absensi/absensi/internal/model"
	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

const menuRows = 3

// Menu lays the visible key hints of the top screen out in columns.
type Menu struct {
	*tview.Table
}

// NewMenu returns an empty menu.
func NewMenu() *Menu {
	m := Menu{Table: tview.NewTable()}
	m.SetBackgroundColor(tcell.ColorDefault)
	m.SetBorderPadding(0, 0, 1, 1)

	return &m
}

// HydrateMenu redraws the menu from the given hints.
func (m *Menu) HydrateMenu(hh MenuHints) {
	m.Clear()
	for col, hints := range menuColumns(hh, menuRows) {
		for row, h := range hints {
			c := tview.NewTableCell(menuCell(h))
			c.SetBackgroundColor(tcell.ColorDefault)
			m.SetCell(row, col, c)
		}
	}
}

// menuColumns sorts the visible hints and splits them in columns of at
// most rows hints.
func menuColumns(hh MenuHints, rows int) []MenuHints {
	visible := make(MenuHints, 0, len(hh))
	for _, h := range hh {
		if h.Visible && h.Mnemonic != "" && h.Description != "" {
			visible = append(visible, h)
		}
	}
	sort.Sort(visible)

	cols := make([]MenuHints, 0, len(visible)/rows+1)
	for len(visible) > 0 {
		n := min(rows, len(visible))
		cols = append(cols, visible[:n])
		visible = visible[n:]
	}

	return cols
}

func menuCell(h MenuHint) string {
	return fmt.Sprintf(" [yellow::b]<%s>[white::-] %s ", h.Mnemonic, h.Description)
}

// StackPushed shows the hints of the new screen.
func (m *Menu) StackPushed(c model.Component) {
	m.hydrate(c)
}

// StackPopped shows the hints of the uncovered screen.
func (m *Menu) StackPopped(_, top model.Component) {
	if top == nil {
		m.Clear()
		return
	}
	m.hydrate(top)
}

// StackTop shows the hints of the top screen.
func (m *Menu) StackTop(top model.Component) {
	m.hydrate(top)
}

func (m *Menu) hydrate(c model.Component) {
	if h, ok := c.(Hinter); ok {
		m.HydrateMenu(h.Hints())
	}
}
