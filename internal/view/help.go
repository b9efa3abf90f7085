// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of absensi

package view

import (
	"context"
	"sort"
	"strings"

	"github.com/absensi/absensi/internal/ui"
	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

const helpName = "help"

// HelpBind represents a single keybinding.
type HelpBind struct {
	Key  string
	Desc string
}

// Help displays every command and keybinding.
type Help struct {
	*tview.Table

	app *App
}

// NewHelp creates a new help view.
func NewHelp(app *App) *Help {
	return &Help{Table: tview.NewTable(), app: app}
}

// Init builds the help table.
func (h *Help) Init(context.Context) error {
	h.SetBorder(true)
	h.SetTitle(" Help ")
	h.SetTitleAlign(tview.AlignCenter)
	h.SetBorderColor(tcell.ColorYellow)
	h.SetBackgroundColor(tcell.ColorDefault)
	h.SetSelectable(false, false)
	h.SetInputCapture(func(evt *tcell.EventKey) *tcell.EventKey {
		switch ui.AsKey(evt) {
		case tcell.KeyEnter, '?':
			h.app.Back()
			return nil
		}
		return evt
	})
	h.populate()

	return nil
}

// Name returns the view name.
func (h *Help) Name() string {
	return helpName
}

// Start implements model.Component.
func (h *Help) Start() {}

// Stop implements model.Component.
func (h *Help) Stop() {}

// Hints returns the menu hints.
func (h *Help) Hints() ui.MenuHints {
	return ui.MenuHints{{Mnemonic: "esc", Description: "Close", Visible: true}}
}

func (h *Help) commands() []HelpBind {
	hk := h.app.opts.HotKeys
	bb := make([]HelpBind, 0, len(hk.Names()))
	for _, name := range hk.Names() {
		k := hk.Get(name)
		if k == nil {
			continue
		}
		bb = append(bb, HelpBind{Key: "<" + k.ShortCut + ">", Desc: k.Description})
	}

	byTarget := h.app.opts.Aliases.ByTarget()
	targets := make([]string, 0, len(byTarget))
	for t := range byTarget {
		targets = append(targets, t)
	}
	sort.Strings(targets)
	for _, t := range targets {
		bb = append(bb, HelpBind{Key: ":" + strings.Join(byTarget[t], ","), Desc: t})
	}

	return bb
}

func (h *Help) populate() {
	general := []HelpBind{
		{"<:>", "Command"},
		{"</>", "Search"},
		{"<?>", "Help"},
		{"<esc>", "Back"},
		{"<ctrl-r>", "Refresh"},
		{"<L>", "Logout"},
		{"<q>", "Quit"},
	}
	table := []HelpBind{
		{"<j>/<k>", "Down/Up"},
		{"<g>/<G>", "Top/Bottom"},
		{"<n>/<p>", "Next/Prev Page"},
		{"<tab>", "Next Column"},
		{"<s>", "Sort"},
		{"<space>", "Mark"},
		{"<a>", "Mark All"},
		{"<+>/<->", "Rows Per Page"},
		{"<enter>", "Describe"},
		{"<e>", "Edit"},
		{"<d>", "Delete"},
		{"<x>", "Export"},
		{"<h>/<H>", "Hide/Show Columns"},
		{"<f>", "Status Filter"},
	}
	dashboard := []HelpBind{
		{"<c>", "Check In"},
		{"<o>", "Check Out"},
		{"<s>", "Sick"},
		{"<p>", "Permit"},
		{"<y>", "YAML/JSON"},
		{"<w>", "Wrap"},
	}

	columns := [][]HelpBind{h.commands(), general, table, dashboard}
	headers := []string{"RESOURCES", "GENERAL", "TABLE", "DASHBOARD"}

	maxRows := 0
	for _, col := range columns {
		maxRows = max(maxRows, len(col))
	}

	// key, description and spacer cells per column.
	const colWidth = 3
	for colIdx, col := range columns {
		baseCol := colIdx * colWidth

		h.SetCell(0, baseCol, tview.NewTableCell(headers[colIdx]).
			SetTextColor(tcell.ColorAqua).
			SetAttributes(tcell.AttrBold).
			SetSelectable(false))

		for rowIdx, bind := range col {
			row := rowIdx + 1
			h.SetCell(row, baseCol, tview.NewTableCell(bind.Key).
				SetTextColor(tcell.ColorYellow).
				SetSelectable(false))
			h.SetCell(row, baseCol+1, tview.NewTableCell(bind.Desc).
				SetTextColor(tcell.ColorWhite).
				SetSelectable(false).
				SetExpansion(1))
		}

		if colIdx < len(columns)-1 {
			for row := 0; row <= maxRows; row++ {
				h.SetCell(row, baseCol+2, tview.NewTableCell("").
					SetSelectable(false).
					SetExpansion(1))
			}
		}
	}

	h.SetCell(maxRows+2, 0, tview.NewTableCell("<esc> to close").
		SetTextColor(tcell.ColorGray).
		SetSelectable(false))
}
