// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of absensi

package view

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/absensi/absensi/internal/dao"
	"github.com/absensi/absensi/internal/ui"
	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
	"gopkg.in/yaml.v3"
)

const (
	describeName = "describe"

	formatYAML = "yaml"
	formatJSON = "json"
)

// Describe displays the details of one record.
type Describe[T dao.Object] struct {
	*tview.TextView

	app      *App
	resource *dao.Resource[T]
	object   T
	format   string
	wrapOn   bool
	actions  *ui.KeyActions
	mx       sync.RWMutex
}

// NewDescribe returns a detail view of a record of the given resource.
func NewDescribe[T dao.Object](app *App, res *dao.Resource[T], o T) *Describe[T] {
	d := Describe[T]{
		TextView: tview.NewTextView(),
		app:      app,
		resource: res,
		object:   o,
		format:   formatYAML,
		actions:  ui.NewKeyActions(),
	}

	d.SetDynamicColors(true)
	d.SetWrap(false)
	d.SetWordWrap(false)
	d.SetScrollable(true)
	d.SetBorder(true)
	d.SetBorderPadding(0, 0, 1, 1)
	d.SetBorderColor(tcell.ColorAqua)

	return &d
}

// Init initializes the describe view.
func (d *Describe[T]) Init(context.Context) error {
	d.bindKeys()
	d.SetInputCapture(d.keyboard)
	d.draw()

	return nil
}

// Start fetches the latest state of the record.
func (d *Describe[T]) Start() {
	d.Refresh()
}

// Stop implements model.Component.
func (d *Describe[T]) Stop() {}

// Name returns the view name.
func (d *Describe[T]) Name() string {
	return describeName
}

// Hints returns the menu hints for this view.
func (d *Describe[T]) Hints() ui.MenuHints {
	return d.actions.Hints()
}

// Refresh reloads the record, keeping the last known state on failure.
func (d *Describe[T]) Refresh() {
	id := d.current().GetID()
	go func() {
		ctx, cancel := context.WithTimeout(d.app.Context(), d.app.opts.Config.Absensi.Timeout())
		defer cancel()

		o, err := d.resource.Get(ctx, id)
		if err != nil {
			d.app.Flash().Warn("Showing cached record: " + err.Error())
			return
		}
		d.mx.Lock()
		d.object = o
		d.mx.Unlock()
		d.app.QueueUpdateDraw(d.draw)
	}()
}

func (d *Describe[T]) current() T {
	d.mx.RLock()
	defer d.mx.RUnlock()
	return d.object
}

func (d *Describe[T]) bindKeys() {
	d.actions.Bulk(ui.KeyMap{
		ui.KeyY:      ui.NewKeyAction("YAML/JSON", d.formatCmd, true),
		ui.KeyW:      ui.NewKeyAction("Wrap", d.toggleWrap, true),
		ui.KeyE:      ui.NewKeyAction("Edit", d.editCmd, true),
		tcell.KeyEsc: ui.NewKeyAction("Back", nil, true),
	})
}

func (d *Describe[T]) keyboard(evt *tcell.EventKey) *tcell.EventKey {
	row, _ := d.GetScrollOffset()
	switch ui.AsKey(evt) {
	case ui.KeyJ, tcell.KeyDown:
		d.ScrollTo(row+1, 0)
		return nil
	case ui.KeyK, tcell.KeyUp:
		d.ScrollTo(max(row-1, 0), 0)
		return nil
	case tcell.KeyPgDn:
		d.ScrollTo(row+20, 0)
		return nil
	case tcell.KeyPgUp:
		d.ScrollTo(max(row-20, 0), 0)
		return nil
	case ui.KeyG, tcell.KeyHome:
		d.ScrollToBeginning()
		return nil
	case ui.KeyShiftG, tcell.KeyEnd:
		d.ScrollToEnd()
		return nil
	}

	if out, ok := d.actions.Handle(evt); ok {
		return out
	}
	return evt
}

func (d *Describe[T]) toggleWrap(*tcell.EventKey) *tcell.EventKey {
	d.wrapOn = !d.wrapOn
	d.SetWrap(d.wrapOn)
	d.SetWordWrap(d.wrapOn)
	return nil
}

func (d *Describe[T]) formatCmd(*tcell.EventKey) *tcell.EventKey {
	if d.format == formatYAML {
		d.format = formatJSON
	} else {
		d.format = formatYAML
	}
	d.draw()
	return nil
}

func (d *Describe[T]) editCmd(*tcell.EventKey) *tcell.EventKey {
	ctx, cancel := context.WithTimeout(d.app.Context(), 5*time.Minute)
	defer cancel()

	updated, err := EditRecord(ctx, d.app.Application, d.resource, d.current().GetID())
	switch {
	case errors.Is(err, ErrEditorCancelled):
		d.app.Flash().Warn("Edit cancelled")
	case errors.Is(err, dao.ErrNoChanges):
		d.app.Flash().Info("No changes detected")
	case err != nil:
		d.app.Flash().Errf("Edit failed: %v", err)
	default:
		d.mx.Lock()
		d.object = updated
		d.mx.Unlock()
		d.draw()
		d.app.Flash().Infof("%s updated", updated.GetName())
	}
	return nil
}

func (d *Describe[T]) draw() {
	o := d.current()
	d.SetTitle(fmt.Sprintf(" %s/%s [%s] ", d.resource.ResourceID().Name, o.GetName(), strings.ToUpper(d.format)))
	d.SetText(describeText(o, d.format))
	d.ScrollToBeginning()
}

// describeText renders a record as highlighted YAML or as JSON.
func describeText(o dao.Object, format string) string {
	m, err := dao.ToMap(o)
	if err != nil {
		return fmt.Sprintf("[red::]Error encoding record: %v[-::]", err)
	}

	if format == formatJSON {
		bb, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return fmt.Sprintf("[red::]Error generating JSON: %v[-::]", err)
		}
		return tview.Escape(string(bb))
	}

	bb, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Sprintf("[red::]Error generating YAML: %v[-::]", err)
	}
	return highlightYAML(string(bb))
}

func highlightYAML(content string) string {
	var b strings.Builder
	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		idx := strings.Index(line, ":")
		if idx <= 0 {
			b.WriteString(tview.Escape(line) + "\n")
			continue
		}
		key, value := line[:idx+1], strings.TrimSpace(line[idx+1:])
		trimmed := strings.TrimLeft(key, " -")
		indent := key[:len(key)-len(trimmed)]
		if value == "" {
			fmt.Fprintf(&b, "%s[aqua::]%s[-::]\n", indent, trimmed)
			continue
		}
		fmt.Fprintf(&b, "%s[aqua::]%s[-::] %s\n", indent, trimmed, colorizeValue(value))
	}

	return b.String()
}

func colorizeValue(value string) string {
	trimmed := strings.Trim(value, `"'`)
	escaped := tview.Escape(value)

	switch strings.ToLower(trimmed) {
	case "true", string(dao.StatusPresent):
		return "[green::]" + escaped + "[-::]"
	case "false", string(dao.StatusAbsent):
		return "[red::]" + escaped + "[-::]"
	case string(dao.StatusSick), string(dao.StatusPermit):
		return "[yellow::]" + escaped + "[-::]"
	case "null", "~", "":
		return "[gray::]" + escaped + "[-::]"
	}
	if _, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return "[fuchsia::]" + escaped + "[-::]"
	}

	return escaped
}
