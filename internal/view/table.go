// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of absensi

package view

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/absensi/absensi/internal/config/data"
	"github.com/absensi/absensi/internal/dao"
	"github.com/absensi/absensi/internal/export"
	"github.com/absensi/absensi/internal/model"
	"github.com/absensi/absensi/internal/model1"
	"github.com/absensi/absensi/internal/ui"
	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

// TableView browses a backend resource one page at a time.
type TableView[T dao.Object] struct {
	*tview.Flex

	app      *App
	resource *dao.Resource[T]
	renderer model.Renderer[T]
	model    *model.Table[T]
	pager    *model.Pager[T]
	table    *ui.Table
	footer   *ui.Footer
	started  bool
	mx       sync.RWMutex
}

// NewTableView returns a table of the given resource. The rows per page,
// sort and hidden columns saved for the profile are restored.
func NewTableView[T dao.Object](app *App, res *dao.Resource[T], r model.Renderer[T]) *TableView[T] {
	rid := res.ResourceID()
	settings := app.opts.Config.Absensi

	t := model.NewTable(r, settings.RowsPerPage)
	if ts, ok := tableState(app, rid.Name); ok {
		if ts.RowsPerPage > 0 {
			t.SetPageSize(ts.RowsPerPage)
		}
		if ts.SortKey != "" {
			t.OnSortChange(ts.SortKey, model1.ParseSortDirection(ts.SortRule))
		}
		for _, key := range ts.Hidden {
			t.SetColumnVisibility(key, false)
		}
	}

	v := TableView[T]{
		Flex:     tview.NewFlex().SetDirection(tview.FlexRow),
		app:      app,
		resource: res,
		renderer: r,
		model:    t,
		table:    ui.NewTable(rid.Title),
		footer:   ui.NewFooter(),
	}
	v.pager = model.NewPager(rid.Name, t, res,
		model.WithRefreshRate(settings.RefreshDuration()),
		model.WithLogger(app.log),
	)

	return &v
}

// Init builds the table.
func (v *TableView[T]) Init(context.Context) error {
	v.table.Init()
	v.bindKeys()
	v.pager.AddListener(v)

	v.AddItem(v.table, 0, 1, true).
		AddItem(v.footer, 1, 0, false)
	v.footer.Update(v.model.Render())

	return nil
}

// Name returns the resource name.
func (v *TableView[T]) Name() string {
	return v.resource.ResourceID().Name
}

// Hints returns the menu hints.
func (v *TableView[T]) Hints() ui.MenuHints {
	return v.table.Hints()
}

// Actions returns the key actions, for screens adding their own.
func (v *TableView[T]) Actions() *ui.KeyActions {
	return v.table.Actions()
}

// Pager returns the page controller.
func (v *TableView[T]) Pager() *model.Pager[T] {
	return v.pager
}

// Start loads the current page and keeps it fresh.
func (v *TableView[T]) Start() {
	v.mx.Lock()
	v.started = true
	v.mx.Unlock()

	go func() {
		if err := v.pager.Watch(v.app.Context()); err != nil && !errors.Is(err, context.Canceled) {
			v.app.log.Warn("table load failed", "resource", v.Name(), "error", err)
		}
	}()
}

// Stop ends the refresh loop and saves the table layout.
func (v *TableView[T]) Stop() {
	v.mx.Lock()
	v.started = false
	v.mx.Unlock()

	v.pager.Stop()
	v.saveState()
}

// Refresh reloads the current page.
func (v *TableView[T]) Refresh() {
	go func() {
		ctx, cancel := context.WithTimeout(v.app.Context(), v.app.opts.Config.Absensi.Timeout())
		defer cancel()
		if err := v.pager.Refresh(ctx); err != nil {
			v.app.log.Warn("refresh failed", "resource", v.Name(), "error", err)
		}
	}()
}

// Search reloads from the first page with a free text search.
func (v *TableView[T]) Search(text string) {
	v.mx.RLock()
	started := v.started
	v.mx.RUnlock()

	if !started {
		v.pager.Configure(func(q *model.Query) {
			q.Search, q.Page = text, 1
		})
		return
	}
	v.pager.Search(text)
}

// SearchText returns the active search.
func (v *TableView[T]) SearchText() string {
	return v.pager.Query().Search
}

// TableDataChanged implements model.TableListener.
func (v *TableView[T]) TableDataChanged(g model.Grid) {
	v.draw(g)
}

// TableNoData implements model.TableListener.
func (v *TableView[T]) TableNoData(g model.Grid) {
	v.draw(g)
}

// TableLoadFailed implements model.TableListener.
func (v *TableView[T]) TableLoadFailed(err error) {
	v.app.Flash().Err(err)
	v.app.QueueUpdateDraw(func() {
		v.table.ShowError(err)
		v.footer.Update(v.model.Render())
	})
}

func (v *TableView[T]) draw(g model.Grid) {
	g.Search = v.pager.Query().Search
	v.app.QueueUpdateDraw(func() {
		v.table.Update(g)
		v.footer.Update(g)
	})
}

// redraw draws local state changes, selections for instance.
func (v *TableView[T]) redraw() {
	g := v.model.Render()
	g.Search = v.pager.Query().Search
	v.table.Update(g)
	v.footer.Update(g)
}

func (v *TableView[T]) bindKeys() {
	v.table.Actions().Bulk(ui.KeyMap{
		ui.KeyN:          ui.NewKeyAction("Next Page", v.nextPageCmd, true),
		tcell.KeyRight:   ui.NewKeyAction("Next Page", v.nextPageCmd, false),
		tcell.KeyPgDn:    ui.NewKeyAction("Next Page", v.nextPageCmd, false),
		ui.KeyP:          ui.NewKeyAction("Prev Page", v.prevPageCmd, true),
		tcell.KeyLeft:    ui.NewKeyAction("Prev Page", v.prevPageCmd, false),
		tcell.KeyPgUp:    ui.NewKeyAction("Prev Page", v.prevPageCmd, false),
		ui.KeyS:          ui.NewKeyAction("Sort", v.sortCmd, true),
		ui.KeySpace:      ui.NewKeyAction("Mark", v.markCmd, true),
		ui.KeyA:          ui.NewKeyAction("Mark All", v.markAllCmd, true),
		ui.KeyPlus:       ui.NewKeyAction("More Rows", v.pageSizeCmd(1), true),
		ui.KeyMinus:      ui.NewKeyAction("Less Rows", v.pageSizeCmd(-1), true),
		tcell.KeyEnter:   ui.NewKeyAction("Describe", v.describeCmd, true),
		ui.KeyE:          ui.NewKeyAction("Edit", v.editCmd, true),
		ui.KeyD:          ui.NewKeyAction("Delete", v.deleteCmd, true),
		tcell.KeyCtrlD:   ui.NewKeyAction("Delete", v.deleteCmd, false),
		ui.KeyX:          ui.NewKeyAction("Export", v.exportCmd, true),
		ui.KeyH:          ui.NewKeyAction("Hide Column", v.hideCmd, true),
		ui.KeyShiftH:     ui.NewKeyAction("Show Columns", v.showAllCmd, false),
		tcell.KeyTab:     ui.NewKeyAction("Next Column", nil, true),
		tcell.KeyBacktab: ui.NewKeyAction("Prev Column", nil, false),
	})
}

func (v *TableView[T]) nextPageCmd(*tcell.EventKey) *tcell.EventKey {
	v.model.NextPage()
	return nil
}

func (v *TableView[T]) prevPageCmd(*tcell.EventKey) *tcell.EventKey {
	v.model.PrevPage()
	return nil
}

func (v *TableView[T]) sortCmd(*tcell.EventKey) *tcell.EventKey {
	col, ok := v.table.CursorColumn()
	if !ok || !col.CanSort() {
		v.app.Flash().Warn("This column cannot be sorted, use <tab> to pick another one")
		return nil
	}
	v.model.ToggleSort(col.Key)
	return nil
}

func (v *TableView[T]) markCmd(*tcell.EventKey) *tcell.EventKey {
	row, ok := v.table.SelectedRow()
	if !ok {
		return nil
	}
	v.model.ToggleRow(row.ID)
	v.redraw()
	return nil
}

func (v *TableView[T]) markAllCmd(*tcell.EventKey) *tcell.EventKey {
	v.model.ToggleAllVisible()
	v.redraw()
	return nil
}

func (v *TableView[T]) pageSizeCmd(delta int) ui.ActionHandler {
	return func(*tcell.EventKey) *tcell.EventKey {
		opts := v.app.opts.Config.Absensi.RowsPerPageOptions
		i := slices.Index(opts, v.model.PageSize())
		next := min(max(i+delta, 0), len(opts)-1)
		if i < 0 || next == i {
			return nil
		}
		v.model.OnPageSizeChange(opts[next])
		return nil
	}
}

func (v *TableView[T]) hideCmd(*tcell.EventKey) *tcell.EventKey {
	col, ok := v.table.CursorColumn()
	if !ok {
		return nil
	}
	if len(v.model.Render().Header) <= 1 {
		return nil
	}
	v.model.SetColumnVisibility(col.Key, false)
	v.redraw()
	v.app.Flash().Infof("Column %s hidden, <H> shows every column", col.Name)
	return nil
}

func (v *TableView[T]) showAllCmd(*tcell.EventKey) *tcell.EventKey {
	for _, key := range v.model.Header().Keys() {
		v.model.SetColumnVisibility(key, true)
	}
	v.redraw()
	return nil
}

func (v *TableView[T]) current() (T, bool) {
	i := v.table.SelectedIndex()
	if i < 0 {
		var zero T
		return zero, false
	}
	return v.model.RowAt(i)
}

func (v *TableView[T]) describeCmd(*tcell.EventKey) *tcell.EventKey {
	o, ok := v.current()
	if !ok {
		return nil
	}
	if err := v.app.Inject(NewDescribe(v.app, v.resource, o), false); err != nil {
		v.app.Flash().Err(err)
	}
	return nil
}

func (v *TableView[T]) editCmd(*tcell.EventKey) *tcell.EventKey {
	o, ok := v.current()
	if !ok {
		return nil
	}
	v.edit(o)
	return nil
}

func (v *TableView[T]) edit(o T) {
	ctx, cancel := context.WithTimeout(v.app.Context(), 5*time.Minute)
	defer cancel()

	updated, err := EditRecord(ctx, v.app.Application, v.resource, o.GetID())
	switch {
	case errors.Is(err, ErrEditorCancelled):
		v.app.Flash().Warn("Edit cancelled")
	case errors.Is(err, dao.ErrNoChanges):
		v.app.Flash().Info("No changes detected")
	case err != nil:
		v.app.Flash().Err(err)
	default:
		v.app.Flash().Infof("%s %s updated", v.resource.ResourceID().Title, updated.GetName())
		v.Refresh()
	}
}

func (v *TableView[T]) deleteCmd(*tcell.EventKey) *tcell.EventKey {
	ids := v.model.Selected()
	msg := ""
	switch {
	case len(ids) > 0:
		msg = fmt.Sprintf("Delete %d marked %s?", len(ids), v.Name())
	default:
		o, ok := v.current()
		if !ok {
			return nil
		}
		ids = []string{o.GetID()}
		msg = fmt.Sprintf("Delete %s %q?", v.Name(), o.GetName())
	}

	v.app.Confirm(msg, true, func() {
		go v.delete(ids)
	})
	return nil
}

func (v *TableView[T]) delete(ids []string) {
	ctx, cancel := context.WithTimeout(v.app.Context(), v.app.opts.Config.Absensi.Timeout())
	defer cancel()

	var failed []string
	for _, id := range ids {
		if err := v.resource.Delete(ctx, id); err != nil {
			v.app.log.Warn("delete failed", "resource", v.Name(), "id", id, "error", err)
			failed = append(failed, id)
		}
	}
	v.model.ClearSelection()

	if len(failed) > 0 {
		v.app.Flash().Errf("Failed to delete %s %s", v.Name(), strings.Join(failed, ", "))
	} else {
		v.app.Flash().Infof("Deleted %d %s", len(ids), v.Name())
	}
	if err := v.pager.Refresh(ctx); err != nil {
		v.app.log.Warn("refresh failed", "resource", v.Name(), "error", err)
	}
}

func (v *TableView[T]) exportCmd(*tcell.EventKey) *tcell.EventKey {
	q := v.pager.Query()
	state := v.model.State()

	var hidden []string
	for key, visible := range state.Visibility {
		if !visible {
			hidden = append(hidden, key)
		}
	}

	v.app.Flash().Infof("Exporting %s...", v.Name())
	go func() {
		ctx, cancel := context.WithTimeout(v.app.Context(), 5*time.Minute)
		defer cancel()

		pr := v.resource.PageRequest(model.Query{Sort: q.Sort, Filters: q.Filters, Search: q.Search})
		res, err := export.Resource(ctx, v.Name(), v.resource, v.renderer, pr,
			export.Options{Hidden: hidden}, v.app.opts.Export, time.Now())
		if err != nil {
			v.app.Flash().Err(err)
			return
		}
		where := res.Path
		if res.URI != "" {
			where = res.URI
		}
		v.app.Flash().Infof("Exported %d rows to %s", res.Rows, where)
	}()
	return nil
}

func (v *TableView[T]) saveState() {
	cfg := v.app.opts.Config.Absensi.ActiveConfig()
	if cfg == nil {
		return
	}
	pc := cfg.GetContext()
	if pc == nil {
		return
	}

	state := v.model.State()
	ts := data.TableState{RowsPerPage: state.PageSize}
	if sc, ok := state.Sort.Primary(); ok {
		ts.SortKey, ts.SortRule = sc.Key, sc.Direction.String()
	}
	for key, visible := range state.Visibility {
		if !visible {
			ts.Hidden = append(ts.Hidden, key)
		}
	}
	slices.Sort(ts.Hidden)
	pc.SetTable(v.Name(), ts)
}

func tableState(app *App, name string) (data.TableState, bool) {
	cfg := app.opts.Config.Absensi.ActiveConfig()
	if cfg == nil || cfg.GetContext() == nil {
		return data.TableState{}, false
	}
	return cfg.GetContext().Table(name)
}
