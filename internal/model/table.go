package model

import (
	"sort"
	"strconv"
	"sync"

	"github.com/absensi/absensi/internal/model1"
	"github.com/fvbommel/sortorder"
)

// Table renders caller records through column descriptors and tracks the
// sort, filter, visibility, selection and paging state of one table.
//
// Paging runs in one of two modes. Without a Pagination the table owns the
// cursor and slices its dataset. With one, the caller owns the cursor and
// supplies exactly the rows of the current page.
type Table[T any] struct {
	renderer   Renderer[T]
	header     model1.Header
	data       []T
	state      GridState
	pagination *Pagination
	loading    bool
	totalData  int
	onPageSize PageSizeChangeFunc
	onSort     SortChangeFunc
	mx         sync.RWMutex
}

type entry[T any] struct {
	pos int
	obj T
	row model1.Row
}

// window is the filtered, sorted and paged view of the dataset.
type window[T any] struct {
	filtered []entry[T]
	page     []entry[T]
	current  int
	total    int
}

// NewTable returns a table in internal paging mode.
func NewTable[T any](r Renderer[T], pageSize int) *Table[T] {
	return &Table[T]{
		renderer: r,
		header:   r.Header().Clone(),
		state:    newGridState(pageSize),
	}
}

// Header returns all the column descriptors.
func (t *Table[T]) Header() model1.Header {
	return t.header.Clone()
}

// State returns a snapshot of the grid state.
func (t *Table[T]) State() GridState {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.state.Clone()
}

// IsExternal returns true when a controller owns the page cursor.
func (t *Table[T]) IsExternal() bool {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.pagination != nil
}

// SetData replaces the dataset.
func (t *Table[T]) SetData(data []T) {
	t.mx.Lock()
	defer t.mx.Unlock()

	t.data = make([]T, len(data))
	copy(t.data, data)
	if t.pagination == nil {
		t.clampLocked()
	}
}

// Len returns the dataset size.
func (t *Table[T]) Len() int {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return len(t.data)
}

// SetLoading toggles the loading placeholder.
func (t *Table[T]) SetLoading(b bool) {
	t.mx.Lock()
	defer t.mx.Unlock()
	t.loading = b
}

// SetTotalData sets the record count shown in the footer. Zero falls back
// to the dataset size.
func (t *Table[T]) SetTotalData(n int) {
	t.mx.Lock()
	defer t.mx.Unlock()
	t.totalData = n
}

// SetPagination switches to external paging, or back to internal paging
// when p is nil.
func (t *Table[T]) SetPagination(p *Pagination) {
	t.mx.Lock()
	defer t.mx.Unlock()

	if p == nil {
		t.pagination = nil
		t.clampLocked()
		return
	}
	cp := *p
	t.pagination = &cp
}

// SetFetching flags an in-flight external page load.
func (t *Table[T]) SetFetching(b bool) {
	t.mx.Lock()
	defer t.mx.Unlock()
	if t.pagination != nil {
		t.pagination.IsFetching = b
	}
}

// SetPageSize sets the rows per page without any page arithmetic. External
// controllers call it once a page at the new size arrived.
func (t *Table[T]) SetPageSize(n int) {
	if n <= 0 {
		return
	}
	t.mx.Lock()
	defer t.mx.Unlock()
	t.state.PageSize = n
}

// SetPageSizeHandler registers the rows per page change handler.
func (t *Table[T]) SetPageSizeHandler(fn PageSizeChangeFunc) {
	t.mx.Lock()
	defer t.mx.Unlock()
	t.onPageSize = fn
}

// SetSortHandler registers a sort change handler.
func (t *Table[T]) SetSortHandler(fn SortChangeFunc) {
	t.mx.Lock()
	defer t.mx.Unlock()
	t.onSort = fn
}

// Page returns the current page number.
func (t *Table[T]) Page() int {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.windowLocked().current
}

// TotalPages returns the page count, at least one.
func (t *Table[T]) TotalPages() int {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.windowLocked().total
}

// PageSize returns the rows per page.
func (t *Table[T]) PageSize() int {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.state.PageSize
}

// OnPageChange moves to the given page. In internal mode the page is
// clamped and a no-op when already current. In external mode the clamped
// page is handed to the controller every time and no local state changes.
// Navigation is ignored while an external load is in flight.
func (t *Table[T]) OnPageChange(page int) {
	t.mx.Lock()
	if p := t.pagination; p != nil {
		if p.IsFetching {
			t.mx.Unlock()
			return
		}
		page = model1.ClampPage(page, p.TotalPages)
		fn := p.OnPageChange
		t.mx.Unlock()
		if fn != nil {
			fn(page)
		}
		return
	}
	defer t.mx.Unlock()

	w := t.windowLocked()
	t.state.Page = model1.ClampPage(page, w.total)
}

// NextPage advances one page unless on the last one.
func (t *Table[T]) NextPage() {
	g := t.Render()
	if g.CanNext {
		t.OnPageChange(g.Page + 1)
	}
}

// PrevPage goes back one page unless on the first one.
func (t *Table[T]) PrevPage() {
	g := t.Render()
	if g.CanPrev {
		t.OnPageChange(g.Page - 1)
	}
}

// OnPageSizeChange changes the rows per page. A registered handler gets the
// request instead. Otherwise the page is recomputed so the first row of the
// old page stays on screen.
func (t *Table[T]) OnPageSizeChange(size int) {
	if size <= 0 {
		return
	}
	t.mx.Lock()
	if fn := t.onPageSize; fn != nil {
		t.mx.Unlock()
		fn(size)
		return
	}
	defer t.mx.Unlock()

	if t.pagination != nil {
		t.state.PageSize = size
		return
	}
	w := t.windowLocked()
	first := (w.current - 1) * t.state.PageSize
	page := first/size + 1
	if page > model1.PageCount(len(w.filtered), size) {
		page = 1
	}
	t.state.PageSize, t.state.Page = size, page
}

// OnSortChange sets the direction of a column, SortNone removes it.
func (t *Table[T]) OnSortChange(key string, dir model1.SortDirection) {
	t.updateSort(key, func(s model1.SortSpec) model1.SortSpec {
		return s.Set(key, dir)
	})
}

// ToggleSort cycles a column through ascending, descending and unsorted.
func (t *Table[T]) ToggleSort(key string) {
	t.updateSort(key, func(s model1.SortSpec) model1.SortSpec {
		return s.Toggle(key)
	})
}

func (t *Table[T]) updateSort(key string, f func(model1.SortSpec) model1.SortSpec) {
	col, ok := t.header.Column(key)
	if !ok || !col.CanSort() {
		return
	}

	t.mx.Lock()
	t.state.Sort = f(t.state.Sort)
	spec, fn := t.state.Sort.Clone(), t.onSort
	t.mx.Unlock()

	if fn != nil {
		fn(spec)
	}
}

// SetFilter filters a column on a case insensitive substring. An empty
// value clears the filter.
func (t *Table[T]) SetFilter(key, value string) {
	col, ok := t.header.Column(key)
	if !ok || !col.CanFilter() {
		return
	}

	t.mx.Lock()
	defer t.mx.Unlock()

	if value == "" {
		delete(t.state.Filters, key)
	} else {
		t.state.Filters[key] = value
	}
	t.resetPageLocked()
}

// SetGlobalFilter filters rows having any visible cell matching text.
func (t *Table[T]) SetGlobalFilter(text string) {
	t.mx.Lock()
	defer t.mx.Unlock()

	t.state.Search = text
	t.resetPageLocked()
}

// SetColumnVisibility shows or hides a column.
func (t *Table[T]) SetColumnVisibility(key string, visible bool) {
	if _, ok := t.header.IndexOf(key); !ok {
		return
	}

	t.mx.Lock()
	defer t.mx.Unlock()
	t.state.Visibility[key] = visible
}

// ToggleRow flips the selection of a row and returns its new state.
func (t *Table[T]) ToggleRow(id string) bool {
	t.mx.Lock()
	defer t.mx.Unlock()

	if _, ok := t.state.Selection[id]; ok {
		delete(t.state.Selection, id)
		return false
	}
	t.state.Selection[id] = struct{}{}
	return true
}

// ToggleAllVisible selects every visible row, or unselects them all when
// they are already selected. Visible means the current page in external
// mode and the whole filtered dataset in internal mode. Selections outside
// that set are left alone.
func (t *Table[T]) ToggleAllVisible() {
	t.mx.Lock()
	defer t.mx.Unlock()

	w := t.windowLocked()
	scope := w.filtered
	if t.pagination != nil {
		scope = w.page
	}
	if len(scope) == 0 {
		return
	}

	all := true
	for _, e := range scope {
		if _, ok := t.state.Selection[e.row.ID]; !ok {
			all = false
			break
		}
	}
	for _, e := range scope {
		if all {
			delete(t.state.Selection, e.row.ID)
		} else {
			t.state.Selection[e.row.ID] = struct{}{}
		}
	}
}

// ClearSelection drops every selected row.
func (t *Table[T]) ClearSelection() {
	t.mx.Lock()
	defer t.mx.Unlock()
	t.state.Selection = make(map[string]struct{})
}

// IsSelected returns true if the row is selected.
func (t *Table[T]) IsSelected(id string) bool {
	t.mx.RLock()
	defer t.mx.RUnlock()
	_, ok := t.state.Selection[id]
	return ok
}

// Selected returns the selected row ids in natural order.
func (t *Table[T]) Selected() []string {
	t.mx.RLock()
	defer t.mx.RUnlock()

	ids := make([]string, 0, len(t.state.Selection))
	for id := range t.state.Selection {
		ids = append(ids, id)
	}
	sort.Sort(sortorder.Natural(ids))
	return ids
}

// VisibleRows returns the records drawn on the current page.
func (t *Table[T]) VisibleRows() []T {
	t.mx.RLock()
	defer t.mx.RUnlock()

	w := t.windowLocked()
	oo := make([]T, 0, len(w.page))
	for _, e := range w.page {
		oo = append(oo, e.obj)
	}
	return oo
}

// RowAt returns the record drawn at the given position of the current page.
func (t *Table[T]) RowAt(i int) (T, bool) {
	t.mx.RLock()
	defer t.mx.RUnlock()

	var zero T
	w := t.windowLocked()
	if i < 0 || i >= len(w.page) {
		return zero, false
	}
	return w.page[i].obj, true
}

// Render computes the grid to draw.
func (t *Table[T]) Render() Grid {
	t.mx.RLock()
	defer t.mx.RUnlock()

	g := Grid{
		PageSize: t.state.PageSize,
		Sort:     t.state.Sort.Clone(),
		Search:   t.state.Search,
		Selected: len(t.state.Selection),
		Loading:  t.loading,
		External: t.pagination != nil,
	}
	if t.pagination != nil {
		g.Fetching = t.pagination.IsFetching
	}

	cols := t.header.Visible(t.state.Visibility)
	g.Header = t.header.Customize(cols)

	w := t.windowLocked()
	g.Page, g.TotalPages = w.current, w.total
	g.Pages = model1.PageNumbers(w.current, w.total)
	g.CanPrev = !g.Fetching && w.current > 1
	g.CanNext = !g.Fetching && w.current < w.total

	g.TotalData = t.totalData
	if g.TotalData == 0 {
		g.TotalData = len(t.data)
	}

	if t.loading {
		g.Message = MsgLoading
		return g
	}

	offset := (w.current - 1) * t.state.PageSize
	g.Rows = make([]GridRow, 0, len(w.page))
	for i, e := range w.page {
		row := e.row.Clone()
		for c, h := range t.header {
			if h.Kind == model1.KindIndex && c < len(row.Fields) {
				row.Fields[c] = strconv.Itoa(offset + i + 1)
			}
		}
		_, sel := t.state.Selection[row.ID]
		g.Rows = append(g.Rows, GridRow{Row: row.Customize(cols), Selected: sel})
	}
	if len(g.Rows) == 0 {
		g.Message = MsgNoResults
	}

	return g
}

func (t *Table[T]) resetPageLocked() {
	if t.pagination == nil {
		t.state.Page = 1
	}
}

func (t *Table[T]) clampLocked() {
	w := t.windowLocked()
	t.state.Page = model1.ClampPage(t.state.Page, w.total)
}

// windowLocked renders, filters, sorts and pages the dataset. Callers must
// hold the lock.
func (t *Table[T]) windowLocked() window[T] {
	ee := t.renderLocked()
	ee = t.filterLocked(ee)
	t.sortLocked(ee)

	var w window[T]
	w.filtered = ee
	if p := t.pagination; p != nil {
		w.total = max(p.TotalPages, 1)
		w.current = model1.ClampPage(p.CurrentPage, w.total)
		w.page = ee
		return w
	}

	size := t.state.PageSize
	w.total = max(model1.PageCount(len(ee), size), 1)
	w.current = model1.ClampPage(t.state.Page, w.total)
	start := min((w.current-1)*size, len(ee))
	end := min(start+size, len(ee))
	w.page = ee[start:end]

	return w
}

// renderLocked renders the dataset. Rows without an ID are keyed by their
// position in the whole result set, so in external mode the offset of the
// current page is added.
func (t *Table[T]) renderLocked() []entry[T] {
	var offset int
	if p := t.pagination; p != nil {
		offset = (model1.ClampPage(p.CurrentPage, max(p.TotalPages, 1)) - 1) * t.state.PageSize
	}

	ee := make([]entry[T], 0, len(t.data))
	for i, o := range t.data {
		row := model1.NewRow(len(t.header))
		if err := t.renderer.Render(o, &row); err != nil {
			continue
		}
		if row.ID == "" {
			row.ID = strconv.Itoa(offset + i)
		}
		for c, h := range t.header {
			if h.Decorator != nil && c < len(row.Fields) {
				row.Fields[c] = h.Decorator(row.Fields[c])
			}
		}
		ee = append(ee, entry[T]{pos: i, obj: o, row: row})
	}
	return ee
}

func (t *Table[T]) filterLocked(ee []entry[T]) []entry[T] {
	if len(t.state.Filters) == 0 && t.state.Search == "" {
		return ee
	}

	out := ee[:0:0]
	for _, e := range ee {
		if t.keepLocked(e.row) {
			out = append(out, e)
		}
	}
	return out
}

func (t *Table[T]) keepLocked(row model1.Row) bool {
	for key, val := range t.state.Filters {
		c, ok := t.header.IndexOf(key)
		if !ok || c >= len(row.Fields) {
			continue
		}
		if !model1.Matches(row.Fields[c], val) {
			return false
		}
	}
	if t.state.Search == "" {
		return true
	}
	for c, h := range t.header {
		if !h.CanFilter() || !t.header.IsVisible(c, t.state.Visibility) || c >= len(row.Fields) {
			continue
		}
		if model1.Matches(row.Fields[c], t.state.Search) {
			return true
		}
	}
	return false
}

func (t *Table[T]) sortLocked(ee []entry[T]) {
	if len(t.state.Sort) == 0 {
		return
	}
	valuer, _ := t.renderer.(SortValuer[T])
	value := func(e entry[T], key string, col int) string {
		if valuer != nil {
			if v, ok := valuer.SortValue(e.obj, key); ok {
				return v
			}
		}
		if col < len(e.row.Fields) {
			return e.row.Fields[col]
		}
		return ""
	}

	type sortCol struct {
		key  string
		col  int
		desc bool
	}
	cols := make([]sortCol, 0, len(t.state.Sort))
	for _, s := range t.state.Sort {
		if c, ok := t.header.IndexOf(s.Key); ok && s.Direction != model1.SortNone {
			cols = append(cols, sortCol{key: s.Key, col: c, desc: s.Direction == model1.SortDesc})
		}
	}

	sort.SliceStable(ee, func(i, j int) bool {
		for _, c := range cols {
			cmp := model1.Compare(value(ee[i], c.key, c.col), value(ee[j], c.key, c.col))
			if cmp == 0 {
				continue
			}
			if c.desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return ee[i].pos < ee[j].pos
	})
}
