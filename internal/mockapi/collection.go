package mockapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/absensi/absensi/internal/dao"
	"github.com/absensi/absensi/internal/model"
	"github.com/absensi/absensi/internal/model1"
	"github.com/go-chi/chi/v5"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// MaxRows caps the page size of list responses.
const MaxRows = 100

// ValidateFunc returns the per field errors of a record.
type ValidateFunc[T any] func(T) map[string][]string

// collection is an in memory backend table.
type collection[T dao.Object] struct {
	rid      dao.ResourceID
	renderer model.Renderer[T]
	validate ValidateFunc[T]
	items    []T
	nextID   int
	mx       sync.RWMutex
}

func newCollection[T dao.Object](rid dao.ResourceID, r model.Renderer[T], v ValidateFunc[T], seed []T) *collection[T] {
	c := collection[T]{rid: rid, renderer: r, validate: v}
	c.items = append(c.items, seed...)
	for _, o := range seed {
		if n, err := strconv.Atoi(o.GetID()); err == nil && n > c.nextID {
			c.nextID = n
		}
	}

	return &c
}

func (c *collection[T]) routes(r chi.Router) {
	r.Get("/", c.list)
	r.Post("/", c.create)
	r.Get("/{id}", c.get)
	r.Put("/{id}", c.update)
	r.Patch("/{id}", c.patch)
	r.Delete("/{id}", c.delete)
}

func (c *collection[T]) all() []T {
	c.mx.RLock()
	defer c.mx.RUnlock()

	oo := make([]T, len(c.items))
	copy(oo, c.items)
	return oo
}

func (c *collection[T]) find(id string) (T, bool) {
	c.mx.RLock()
	defer c.mx.RUnlock()

	for _, o := range c.items {
		if o.GetID() == id {
			return o, true
		}
	}
	var zero T
	return zero, false
}

func (c *collection[T]) findFunc(f func(T) bool) (T, bool) {
	c.mx.RLock()
	defer c.mx.RUnlock()

	for _, o := range c.items {
		if f(o) {
			return o, true
		}
	}
	var zero T
	return zero, false
}

func (c *collection[T]) insert(o T) (T, error) {
	c.mx.Lock()
	defer c.mx.Unlock()

	c.nextID++
	o, err := withID(o, strconv.Itoa(c.nextID))
	if err != nil {
		return o, err
	}
	c.items = append(c.items, o)

	return o, nil
}

func (c *collection[T]) replace(id string, o T) (T, bool, error) {
	o, err := withID(o, id)
	if err != nil {
		return o, false, err
	}

	c.mx.Lock()
	defer c.mx.Unlock()
	for i := range c.items {
		if c.items[i].GetID() == id {
			c.items[i] = o
			return o, true, nil
		}
	}

	return o, false, nil
}

func (c *collection[T]) remove(id string) bool {
	c.mx.Lock()
	defer c.mx.Unlock()

	for i := range c.items {
		if c.items[i].GetID() == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// list serves one page, filtering on the raw JSON fields and ordering and
// paging through a table.
func (c *collection[T]) list(w http.ResponseWriter, r *http.Request) {
	pr, err := dao.ParsePageRequest(r.URL.Query())
	if err != nil {
		fail(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	rows := pr.Rows
	if rows <= 0 {
		rows = model.DefaultPageSize
	}
	rows = min(rows, MaxRows)

	oo, err := filterItems(c.all(), pr)
	if err != nil {
		fail(w, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	t := model.NewTable[T](c.renderer, rows)
	t.SetData(oo)
	if col, ok := pr.Query().Sort.Primary(); ok {
		t.OnSortChange(col.Key, col.Direction)
	}
	t.OnPageChange(max(pr.Page, 1))

	respond(w, http.StatusOK, dao.ListContent[T]{
		Items: t.VisibleRows(),
		Meta: dao.Meta{
			Page:       t.Page(),
			Rows:       rows,
			TotalPages: t.TotalPages(),
			TotalData:  len(oo),
		},
	}, msgSuccess)
}

func (c *collection[T]) get(w http.ResponseWriter, r *http.Request) {
	o, ok := c.find(chi.URLParam(r, "id"))
	if !ok {
		fail(w, http.StatusNotFound, msgNotFound, nil)
		return
	}
	respond(w, http.StatusOK, o, msgSuccess)
}

func (c *collection[T]) create(w http.ResponseWriter, r *http.Request) {
	var o T
	if err := decodeBody(r, &o); err != nil {
		fail(w, http.StatusBadRequest, msgBadRequest, nil)
		return
	}
	if !c.valid(w, o) {
		return
	}
	o, err := c.insert(o)
	if err != nil {
		fail(w, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	respond(w, http.StatusCreated, o, "Data created successfully")
}

func (c *collection[T]) update(w http.ResponseWriter, r *http.Request) {
	var o T
	if err := decodeBody(r, &o); err != nil {
		fail(w, http.StatusBadRequest, msgBadRequest, nil)
		return
	}
	if !c.valid(w, o) {
		return
	}
	c.store(w, chi.URLParam(r, "id"), o)
}

func (c *collection[T]) patch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	o, ok := c.find(id)
	if !ok {
		fail(w, http.StatusNotFound, msgNotFound, nil)
		return
	}

	var patch json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		fail(w, http.StatusBadRequest, msgBadRequest, nil)
		return
	}
	doc, err := json.Marshal(o)
	if err != nil {
		fail(w, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	if doc, err = applyPatch(doc, patch); err != nil {
		fail(w, http.StatusUnprocessableEntity, err.Error(), nil)
		return
	}
	var patched T
	if err := json.Unmarshal(doc, &patched); err != nil {
		fail(w, http.StatusUnprocessableEntity, err.Error(), nil)
		return
	}
	if !c.valid(w, patched) {
		return
	}
	c.store(w, id, patched)
}

func (c *collection[T]) delete(w http.ResponseWriter, r *http.Request) {
	if !c.remove(chi.URLParam(r, "id")) {
		fail(w, http.StatusNotFound, msgNotFound, nil)
		return
	}
	respond(w, http.StatusOK, nil, "Data deleted successfully")
}

func (c *collection[T]) store(w http.ResponseWriter, id string, o T) {
	o, ok, err := c.replace(id, o)
	switch {
	case err != nil:
		fail(w, http.StatusInternalServerError, err.Error(), nil)
	case !ok:
		fail(w, http.StatusNotFound, msgNotFound, nil)
	default:
		respond(w, http.StatusOK, o, "Data updated successfully")
	}
}

func (c *collection[T]) valid(w http.ResponseWriter, o T) bool {
	if c.validate == nil {
		return true
	}
	if errs := c.validate(o); len(errs) > 0 {
		fail(w, http.StatusUnprocessableEntity, "Validation failed", errs)
		return false
	}
	return true
}

// withID sets the id field of a record.
func withID[T any](o T, id string) (T, error) {
	raw, err := json.Marshal(o)
	if err != nil {
		return o, err
	}
	if raw, err = sjson.SetBytes(raw, "id", id); err != nil {
		return o, err
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return o, err
	}
	return out, nil
}

// filterItems keeps the records matching the search, exact and ranged
// filters of a page request. Search filters match when any of them does.
func filterItems[T any](oo []T, pr dao.PageRequest) ([]T, error) {
	if len(pr.SearchFilters) == 0 && len(pr.Filters) == 0 && len(pr.RangedFilters) == 0 {
		return oo, nil
	}

	out := make([]T, 0, len(oo))
	for _, o := range oo {
		raw, err := json.Marshal(o)
		if err != nil {
			return nil, err
		}
		if matchRecord(raw, pr) {
			out = append(out, o)
		}
	}
	return out, nil
}

func matchRecord(raw []byte, pr dao.PageRequest) bool {
	if len(pr.SearchFilters) > 0 {
		hit := false
		for k, v := range pr.SearchFilters {
			if model1.Matches(gjson.GetBytes(raw, k).String(), v) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	for k, v := range pr.Filters {
		if !strings.EqualFold(gjson.GetBytes(raw, k).String(), strings.TrimSpace(v)) {
			return false
		}
	}
	for _, rf := range pr.RangedFilters {
		v := gjson.GetBytes(raw, rf.Key)
		if !v.Exists() || !inRange(v, rf) {
			return false
		}
	}
	return true
}

// inRange compares numbers numerically and anything else, dates included,
// lexically.
func inRange(v gjson.Result, rf dao.RangedFilter) bool {
	if v.Type == gjson.Number {
		if rf.Start != "" && v.Float() < gjson.Parse(rf.Start).Float() {
			return false
		}
		if rf.End != "" && v.Float() > gjson.Parse(rf.End).Float() {
			return false
		}
		return true
	}
	if rf.Start != "" && v.String() < rf.Start {
		return false
	}
	if rf.End != "" && v.String() > rf.End {
		return false
	}
	return true
}
