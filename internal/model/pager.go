package model

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/absensi/absensi/internal/metrics"
	"github.com/absensi/absensi/internal/model1"
)

// DefaultRefreshRate is the Watch period when none is configured.
const DefaultRefreshRate = 30 * time.Second

// Pager drives a table in external paging mode: it asks a lister for the
// page a user navigated to and feeds the result back into the table.
//
// Fetches triggered by navigation run in the background. They are neither
// serialized nor cancelled; the fetching flag of the table blocks further
// navigation until the page arrives. Every fetch is numbered when issued and
// only the latest one issued may update the table, older responses are
// dropped.
type Pager[T any] struct {
	name        string
	table       *Table[T]
	lister      Lister[T]
	query       Query
	want        Query
	gen         uint64
	refreshRate time.Duration
	listeners   []TableListener
	log         *slog.Logger
	baseCtx     context.Context
	cancelFn    context.CancelFunc
	wg          sync.WaitGroup
	applyMx     sync.Mutex
	mx          sync.RWMutex
}

// PagerOption customizes a Pager.
type PagerOption func(*pagerOpts)

type pagerOpts struct {
	refreshRate time.Duration
	logger      *slog.Logger
}

// WithRefreshRate sets the Watch period.
func WithRefreshRate(d time.Duration) PagerOption {
	return func(o *pagerOpts) {
		o.refreshRate = d
	}
}

// WithLogger sets the pager logger.
func WithLogger(l *slog.Logger) PagerOption {
	return func(o *pagerOpts) {
		o.logger = l
	}
}

// NewPager binds a lister to a table and switches the table to external
// paging.
func NewPager[T any](name string, t *Table[T], l Lister[T], opts ...PagerOption) *Pager[T] {
	o := pagerOpts{refreshRate: DefaultRefreshRate}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	p := Pager[T]{
		name:        name,
		table:       t,
		lister:      l,
		refreshRate: o.refreshRate,
		log:         o.logger.With("component", "pager", "resource", name),
		baseCtx:     context.Background(),
		query: Query{
			Page:     1,
			PageSize: t.PageSize(),
			Sort:     t.State().Sort,
			Filters:  make(map[string]string),
		},
	}
	p.want = cloneQuery(p.query)
	t.SetPagination(&Pagination{CurrentPage: 1, TotalPages: 1, OnPageChange: p.onPageChange})
	t.SetPageSizeHandler(p.onPageSizeChange)
	t.SetSortHandler(p.onSortChange)

	return &p
}

// Name returns the resource name.
func (p *Pager[T]) Name() string {
	return p.name
}

// Table returns the driven table.
func (p *Pager[T]) Table() *Table[T] {
	return p.table
}

// Query returns the query of the last successful load.
func (p *Pager[T]) Query() Query {
	p.mx.RLock()
	defer p.mx.RUnlock()
	return cloneQuery(p.query)
}

// AddListener registers a table listener.
func (p *Pager[T]) AddListener(l TableListener) {
	p.mx.Lock()
	defer p.mx.Unlock()
	p.listeners = append(p.listeners, l)
}

// RemoveListener unregisters a table listener.
func (p *Pager[T]) RemoveListener(l TableListener) {
	p.mx.Lock()
	defer p.mx.Unlock()

	for i, lis := range p.listeners {
		if lis == l {
			p.listeners = append(p.listeners[:i], p.listeners[i+1:]...)
			return
		}
	}
}

// Configure edits the query of the next load without fetching.
func (p *Pager[T]) Configure(fn func(*Query)) {
	p.mx.Lock()
	defer p.mx.Unlock()

	fn(&p.query)
	if p.query.Filters == nil {
		p.query.Filters = make(map[string]string)
	}
	p.want = cloneQuery(p.query)
}

// issue derives the next query from the latest one issued and numbers it.
func (p *Pager[T]) issue(fn func(*Query)) (Query, uint64) {
	p.mx.Lock()
	defer p.mx.Unlock()

	q := cloneQuery(p.want)
	if fn != nil {
		fn(&q)
	}
	p.want = cloneQuery(q)
	p.gen++

	return q, p.gen
}

// Load fetches the given page with the current query. It returns nil
// without touching the table when a newer fetch superseded it.
func (p *Pager[T]) Load(ctx context.Context, page int) error {
	q, gen := p.issue(func(q *Query) {
		q.Page = max(page, 1)
	})
	return p.fetch(ctx, q, gen)
}

// Refresh reloads the current page, or the page still in flight.
func (p *Pager[T]) Refresh(ctx context.Context) error {
	q, gen := p.issue(nil)
	return p.fetch(ctx, q, gen)
}

// Search sets the free text search and reloads from the first page in the
// background.
func (p *Pager[T]) Search(text string) {
	p.spawn(func(q *Query) {
		q.Search, q.Page = text, 1
	})
}

// SetFilter sets a server side filter and reloads from the first page in
// the background. An empty value clears the filter.
func (p *Pager[T]) SetFilter(key, value string) {
	p.spawn(func(q *Query) {
		if value == "" {
			delete(q.Filters, key)
		} else {
			q.Filters[key] = value
		}
		q.Page = 1
	})
}

// Wait blocks until the background fetches are done.
func (p *Pager[T]) Wait() {
	p.wg.Wait()
}

// Watch loads the current page then refreshes it periodically until ctx is
// done or Stop is called.
func (p *Pager[T]) Watch(ctx context.Context) error {
	p.mx.Lock()
	if p.cancelFn != nil {
		p.cancelFn()
	}
	ctx, cancel := context.WithCancel(ctx)
	p.baseCtx, p.cancelFn = ctx, cancel
	p.mx.Unlock()

	if err := p.Refresh(ctx); err != nil {
		return err
	}
	go p.watchLoop(ctx)

	return nil
}

// Stop ends the watch loop.
func (p *Pager[T]) Stop() {
	p.mx.Lock()
	defer p.mx.Unlock()

	if p.cancelFn != nil {
		p.cancelFn()
		p.cancelFn = nil
	}
	p.baseCtx = context.Background()
}

func (p *Pager[T]) watchLoop(ctx context.Context) {
	rate := p.refreshRate
	if rate <= 0 {
		rate = DefaultRefreshRate
	}
	ticker := time.NewTicker(rate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.Refresh(ctx); err != nil && !errors.Is(err, context.Canceled) {
				p.log.Warn("refresh failed", "error", err)
			}
		}
	}
}

func (p *Pager[T]) onPageChange(page int) {
	p.spawn(func(q *Query) {
		q.Page = page
	})
}

func (p *Pager[T]) onPageSizeChange(size int) {
	p.spawn(func(q *Query) {
		q.PageSize, q.Page = size, 1
	})
}

func (p *Pager[T]) onSortChange(spec model1.SortSpec) {
	p.spawn(func(q *Query) {
		q.Sort, q.Page = spec, 1
	})
}

func (p *Pager[T]) spawn(fn func(*Query)) {
	p.table.SetFetching(true)
	q, gen := p.issue(fn)

	p.mx.RLock()
	ctx := p.baseCtx
	p.mx.RUnlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if err := p.fetch(ctx, q, gen); err != nil {
			p.log.Warn("page fetch failed", "page", q.Page, "error", err)
		}
	}()
}

func (p *Pager[T]) latest(gen uint64) bool {
	p.mx.RLock()
	defer p.mx.RUnlock()
	return gen == p.gen
}

func (p *Pager[T]) fetch(ctx context.Context, q Query, gen uint64) error {
	p.table.SetFetching(true)

	pg, err := p.lister.List(ctx, q)

	p.applyMx.Lock()
	defer p.applyMx.Unlock()
	if !p.latest(gen) {
		p.log.Debug("stale page dropped", "page", q.Page, "search", q.Search)
		return nil
	}

	if err != nil {
		p.mx.Lock()
		p.want = cloneQuery(p.query)
		p.mx.Unlock()
		p.table.SetFetching(false)
		p.table.SetLoading(false)
		metrics.PageFetchErrors.WithLabelValues(p.name).Inc()
		p.notifyLoadFailed(err)
		return fmt.Errorf("list %s page %d: %w", p.name, q.Page, err)
	}
	metrics.PageFetches.WithLabelValues(p.name).Inc()

	if pg.Page > 0 {
		q.Page = pg.Page
	}
	if pg.PageSize > 0 {
		q.PageSize = pg.PageSize
	}
	p.mx.Lock()
	p.query = cloneQuery(q)
	p.want = cloneQuery(q)
	p.mx.Unlock()

	p.table.SetData(pg.Items)
	p.table.SetTotalData(pg.TotalData)
	p.table.SetPageSize(q.PageSize)
	p.table.SetPagination(&Pagination{
		CurrentPage:  q.Page,
		TotalPages:   max(pg.TotalPages, 1),
		OnPageChange: p.onPageChange,
	})
	p.table.SetLoading(false)

	g := p.table.Render()
	if g.Empty() {
		p.notifyNoData(g)
	} else {
		p.notifyDataChanged(g)
	}

	return nil
}

func (p *Pager[T]) snapshot() []TableListener {
	p.mx.RLock()
	defer p.mx.RUnlock()

	ll := make([]TableListener, len(p.listeners))
	copy(ll, p.listeners)
	return ll
}

func (p *Pager[T]) notifyNoData(g Grid) {
	for _, l := range p.snapshot() {
		l.TableNoData(g)
	}
}

func (p *Pager[T]) notifyDataChanged(g Grid) {
	for _, l := range p.snapshot() {
		l.TableDataChanged(g)
	}
}

func (p *Pager[T]) notifyLoadFailed(err error) {
	for _, l := range p.snapshot() {
		l.TableLoadFailed(err)
	}
}

func cloneQuery(q Query) Query {
	out := q
	out.Sort = q.Sort.Clone()
	out.Filters = make(map[string]string, len(q.Filters))
	for k, v := range q.Filters {
		out.Filters[k] = v
	}
	return out
}
