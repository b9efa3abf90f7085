// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of absensi

package ui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/absensi/absensi/internal/model"
	"github.com/absensi/absensi/internal/model1"
	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

const (
	// TitleFmt formats the table title with the resource and its total.
	TitleFmt = " [aqua::b]%s[-::-][[white::b]%d[-::-]] "

	// SearchTitleFmt formats the title of a searched table.
	SearchTitleFmt = " [aqua::b]%s[-::-][[white::b]%d[-::-]] </[yellow::b]%s[-::-]> "

	selectedMark = "✓"
)

// Table draws the grid of a table model. The cursor row picks a record and
// the cursor column picks the column to sort on.
type Table struct {
	*tview.Table

	title   string
	grid    model.Grid
	column  int
	actions *KeyActions
	mx      sync.RWMutex
}

// NewTable returns a new table titled after its resource.
func NewTable(title string) *Table {
	return &Table{
		Table:   tview.NewTable(),
		title:   title,
		actions: NewKeyActions(),
	}
}

// Init initializes the table component.
func (t *Table) Init() {
	t.SetFixed(1, 0)
	t.SetBorder(true)
	t.SetBorderAttributes(tcell.AttrBold)
	t.SetBorderPadding(0, 0, 1, 1)
	t.SetSelectable(true, false)
	t.SetBackgroundColor(tcell.ColorDefault)
	t.SetBorderColor(tcell.ColorDodgerBlue)
	t.SetTitle(fmt.Sprintf(TitleFmt, t.title, 0))
	t.showMessage(model.MsgLoading)
	t.SetInputCapture(t.keyboard)
}

// Actions returns the key actions.
func (t *Table) Actions() *KeyActions {
	return t.actions
}

// Hints returns menu hints for key bindings.
func (t *Table) Hints() MenuHints {
	return t.actions.Hints()
}

// Grid returns the last drawn grid.
func (t *Table) Grid() model.Grid {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.grid
}

// SelectedIndex returns the position of the cursor row on the page, -1
// when no record is under the cursor.
func (t *Table) SelectedIndex() int {
	row, _ := t.GetSelection()
	t.mx.RLock()
	defer t.mx.RUnlock()

	if row < 1 || row > len(t.grid.Rows) {
		return -1
	}
	return row - 1
}

// SelectedRow returns the row under the cursor.
func (t *Table) SelectedRow() (model1.Row, bool) {
	i := t.SelectedIndex()
	if i < 0 {
		return model1.Row{}, false
	}
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.grid.Rows[i].Row, true
}

// CursorColumn returns the column under the column cursor.
func (t *Table) CursorColumn() (model1.HeaderColumn, bool) {
	t.mx.RLock()
	defer t.mx.RUnlock()

	if t.column < 0 || t.column >= len(t.grid.Header) {
		return model1.HeaderColumn{}, false
	}
	return t.grid.Header[t.column], true
}

// MoveColumn moves the column cursor, wrapping around.
func (t *Table) MoveColumn(delta int) {
	t.mx.Lock()
	if n := len(t.grid.Header); n > 0 {
		t.column = ((t.column+delta)%n + n) % n
	}
	g := t.grid
	t.mx.Unlock()

	t.buildHeader(g)
}

// Update draws a grid.
func (t *Table) Update(g model.Grid) {
	t.mx.Lock()
	t.grid = g
	if t.column >= len(g.Header) {
		t.column = 0
	}
	t.mx.Unlock()

	row, _ := t.GetSelection()
	t.Clear()
	t.updateTitle(g)
	t.buildHeader(g)

	if g.Message != "" || g.Empty() {
		msg := g.Message
		if msg == "" {
			msg = model.MsgNoResults
		}
		t.showMessage(msg)
		return
	}
	for i, r := range g.Rows {
		t.buildRow(i+1, r, g.Header)
	}
	t.Select(min(max(row, 1), len(g.Rows)), 0)
}

// ShowError replaces the rows with a load failure.
func (t *Table) ShowError(err error) {
	t.Clear()
	t.buildHeader(t.Grid())
	cell := tview.NewTableCell(fmt.Sprintf("Failed to load data: %v", err))
	cell.SetTextColor(tcell.ColorRed)
	cell.SetSelectable(false)
	t.SetCell(1, 0, cell)
}

func (t *Table) keyboard(evt *tcell.EventKey) *tcell.EventKey {
	row, _ := t.GetSelection()
	count := t.GetRowCount()

	switch AsKey(evt) {
	case KeyJ:
		if row < count-1 {
			t.Select(row+1, 0)
		}
		return nil
	case KeyK:
		if row > 1 {
			t.Select(row-1, 0)
		}
		return nil
	case KeyG, tcell.KeyHome:
		if count > 1 {
			t.Select(1, 0)
		}
		return nil
	case KeyShiftG, tcell.KeyEnd:
		if count > 1 {
			t.Select(count-1, 0)
		}
		return nil
	case tcell.KeyTab:
		t.MoveColumn(1)
		return nil
	case tcell.KeyBacktab:
		t.MoveColumn(-1)
		return nil
	}

	if out, ok := t.actions.Handle(evt); ok {
		return out
	}
	return evt
}

func (t *Table) showMessage(msg string) {
	cell := tview.NewTableCell(msg)
	cell.SetTextColor(tcell.ColorGray)
	cell.SetAlign(tview.AlignCenter)
	cell.SetExpansion(1)
	cell.SetSelectable(false)
	t.SetCell(1, 0, cell)
}

func (t *Table) updateTitle(g model.Grid) {
	if g.Search != "" {
		t.SetTitle(fmt.Sprintf(SearchTitleFmt, t.title, g.TotalData, g.Search))
		return
	}
	t.SetTitle(fmt.Sprintf(TitleFmt, t.title, g.TotalData))
}

func (t *Table) buildHeader(g model.Grid) {
	t.mx.RLock()
	cursor := t.column
	t.mx.RUnlock()

	for col, h := range g.Header {
		name := h.Name
		if mark := g.SortMark(h.Key); mark != "" {
			name += " " + mark
		}
		cell := tview.NewTableCell(strings.ToUpper(name))
		cell.SetTextColor(tcell.ColorYellow)
		cell.SetBackgroundColor(tcell.ColorDefault)
		cell.SetAlign(h.Align)
		cell.SetExpansion(1)
		cell.SetSelectable(false)
		attrs := tcell.AttrBold
		if col == cursor && h.CanSort() {
			attrs |= tcell.AttrUnderline
		}
		cell.SetAttributes(attrs)
		t.SetCell(0, col, cell)
	}
}

func (t *Table) buildRow(idx int, r model.GridRow, header model1.Header) {
	fg := tcell.ColorWhite
	if r.Selected {
		fg = tcell.ColorAqua
	}
	for col, field := range r.Fields {
		if col >= len(header) {
			break
		}
		if col == 0 && r.Selected {
			field = selectedMark + " " + field
		}
		cell := tview.NewTableCell(field)
		cell.SetTextColor(fg)
		cell.SetBackgroundColor(tcell.ColorDefault)
		cell.SetAlign(header[col].Align)
		cell.SetExpansion(1)
		if col == 0 {
			cell.SetReference(r.ID)
		}
		t.SetCell(idx, col, cell)
	}
}

// Footer draws the paging controls of a grid.
type Footer struct {
	*tview.TextView
}

// NewFooter returns an empty footer.
func NewFooter() *Footer {
	f := Footer{TextView: tview.NewTextView()}
	f.SetDynamicColors(true)
	f.SetBackgroundColor(tcell.ColorDefault)
	f.SetBorderPadding(0, 0, 1, 1)

	return &f
}

// Update draws the controls of a grid.
func (f *Footer) Update(g model.Grid) {
	f.SetText(FooterText(g))
}

// FooterText renders the total, the page tokens and the rows per page.
func FooterText(g model.Grid) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total Data: [white::b]%d[-::-]", g.TotalData)
	if g.Selected > 0 {
		fmt.Fprintf(&b, "  [aqua]%d selected[-]", g.Selected)
	}

	b.WriteString("   ")
	b.WriteString(arrow("«", g.CanPrev))
	for _, tok := range g.Pages {
		b.WriteString(" ")
		switch {
		case tok.Ellipsis:
			b.WriteString("[gray]" + tok.String() + "[-]")
		case tok.Page == g.Page:
			b.WriteString("[black:aqua:b]" + tok.String() + "[-:-:-]")
		default:
			b.WriteString(tok.String())
		}
	}
	b.WriteString(" ")
	b.WriteString(arrow("»", g.CanNext))
	if g.Fetching {
		b.WriteString(" [yellow]...[-]")
	}

	fmt.Fprintf(&b, "   Tampilan per halaman: [white::b]%d[-::-]", g.PageSize)

	return b.String()
}

func arrow(s string, enabled bool) string {
	if enabled {
		return s
	}
	return "[gray]" + s + "[-]"
}
