package model_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/absensi/absensi/internal/model"
	"github.com/absensi/absensi/internal/model1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPagerLoad(t *testing.T) {
	l := newFakeLister(makePeople(25))
	tb := model.NewTable[person](personRenderer{}, 10)
	p := model.NewPager[person]("people", tb, l)
	lis := new(recorder)
	p.AddListener(lis)

	require.NoError(t, p.Load(context.Background(), 2))

	g := tb.Render()
	assert.True(t, g.External)
	assert.Equal(t, 2, g.Page)
	assert.Equal(t, 3, g.TotalPages)
	assert.Equal(t, 25, g.TotalData)
	assert.Equal(t, "p11", g.Rows[0].ID)
	assert.Equal(t, "11", g.Rows[0].Fields[0])
	assert.Equal(t, 1, lis.changed())
}

func TestPagerNavigation(t *testing.T) {
	l := newFakeLister(makePeople(25))
	tb := model.NewTable[person](personRenderer{}, 10)
	p := model.NewPager[person]("people", tb, l)
	require.NoError(t, p.Load(context.Background(), 1))

	tb.NextPage()
	p.Wait()
	assert.Equal(t, 2, tb.Page())
	assert.Equal(t, []string{"p11", "p12"}, ids(tb.Render())[:2])

	tb.OnPageChange(99)
	p.Wait()
	assert.Equal(t, 3, tb.Page())
	assert.Len(t, tb.VisibleRows(), 5)

	// Same page still fetches.
	n := l.calls()
	tb.OnPageChange(3)
	p.Wait()
	assert.Equal(t, n+1, l.calls())
}

func TestPagerFetchingBlocksNavigation(t *testing.T) {
	l := newFakeLister(makePeople(25))
	tb := model.NewTable[person](personRenderer{}, 10)
	p := model.NewPager[person]("people", tb, l)
	require.NoError(t, p.Load(context.Background(), 1))

	l.block()
	tb.OnPageChange(2)
	assert.True(t, tb.Render().Fetching)
	tb.OnPageChange(3)
	tb.NextPage()
	l.release()
	p.Wait()

	assert.Equal(t, 2, tb.Page())
	assert.False(t, tb.Render().Fetching)
	assert.Equal(t, 2, l.calls())
}

func TestPagerPageSize(t *testing.T) {
	l := newFakeLister(makePeople(25))
	tb := model.NewTable[person](personRenderer{}, 10)
	p := model.NewPager[person]("people", tb, l)
	require.NoError(t, p.Load(context.Background(), 3))

	tb.OnPageSizeChange(20)
	p.Wait()
	assert.Equal(t, 1, tb.Page())
	assert.Equal(t, 20, tb.PageSize())
	assert.Equal(t, 2, tb.TotalPages())
	assert.Len(t, tb.VisibleRows(), 20)
	assert.Equal(t, 20, l.last().PageSize)
}

func TestPagerSortAndSearch(t *testing.T) {
	l := newFakeLister(makePeople(25))
	tb := model.NewTable[person](personRenderer{}, 10)
	p := model.NewPager[person]("people", tb, l)
	require.NoError(t, p.Load(context.Background(), 2))

	tb.ToggleSort("name")
	p.Wait()
	q := l.last()
	assert.Equal(t, 1, q.Page)
	col, ok := q.Sort.Primary()
	require.True(t, ok)
	assert.Equal(t, model1.SortColumn{Key: "name", Direction: model1.SortAsc}, col)

	p.Search("Person 2")
	p.Wait()
	assert.Equal(t, "Person 2", l.last().Search)
	assert.Equal(t, 7, tb.Render().TotalData)

	p.SetFilter("team", "blue")
	p.Wait()
	assert.Equal(t, map[string]string{"team": "blue"}, l.last().Filters)
	assert.Equal(t, "Person 2", p.Query().Search)
}

func TestPagerNewestQueryWins(t *testing.T) {
	l := newFakeLister(makePeople(25))
	tb := model.NewTable[person](personRenderer{}, 10)
	p := model.NewPager[person]("people", tb, l)
	lis := new(recorder)
	p.AddListener(lis)
	require.NoError(t, p.Load(context.Background(), 1))

	l.blockWhen(func(q model.Query) bool {
		return q.Page == 2 && q.Search == ""
	})
	tb.OnPageChange(2)
	p.Search("Person 1")
	assert.Eventually(t, func() bool {
		return p.Query().Search == "Person 1"
	}, time.Second, 5*time.Millisecond)

	l.release()
	p.Wait()

	q := p.Query()
	assert.Equal(t, "Person 1", q.Search)
	assert.Equal(t, 1, q.Page)
	g := tb.Render()
	assert.Equal(t, 11, g.TotalData)
	assert.Equal(t, 1, g.Page)
	assert.False(t, g.Fetching)
	assert.Equal(t, 2, lis.changed())
}

func TestPagerStaleFailureDropped(t *testing.T) {
	l := newFakeLister(makePeople(25))
	tb := model.NewTable[person](personRenderer{}, 10)
	p := model.NewPager[person]("people", tb, l)
	lis := new(recorder)
	p.AddListener(lis)
	require.NoError(t, p.Load(context.Background(), 1))

	ctx, cancel := context.WithCancel(context.Background())
	l.block()
	errc := make(chan error, 1)
	go func() { errc <- p.Load(ctx, 2) }()
	assert.Eventually(t, func() bool { return l.calls() == 2 }, time.Second, 5*time.Millisecond)

	p.Search("Person 2")
	assert.Eventually(t, func() bool { return l.calls() == 3 }, time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-errc)
	l.release()
	p.Wait()

	assert.Empty(t, lis.failures())
	assert.Equal(t, "Person 2", p.Query().Search)
	assert.Equal(t, 7, tb.Render().TotalData)
}

func TestPagerLoadFailed(t *testing.T) {
	l := newFakeLister(makePeople(5))
	l.err = errors.New("offline")
	tb := model.NewTable[person](personRenderer{}, 10)
	tb.SetLoading(true)
	p := model.NewPager[person]("people", tb, l)
	lis := new(recorder)
	p.AddListener(lis)

	err := p.Load(context.Background(), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, l.err)
	assert.Equal(t, []error{l.err}, lis.failures())
	assert.False(t, tb.Render().Fetching)
	assert.False(t, tb.Render().Loading)

	p.RemoveListener(lis)
	_ = p.Load(context.Background(), 1)
	assert.Len(t, lis.failures(), 1)
}

func TestPagerNoData(t *testing.T) {
	tb := model.NewTable[person](personRenderer{}, 10)
	p := model.NewPager[person]("people", tb, newFakeLister(nil))
	lis := new(recorder)
	p.AddListener(lis)

	require.NoError(t, p.Load(context.Background(), 1))
	assert.Equal(t, 1, lis.empty())
	g := tb.Render()
	assert.Equal(t, model.MsgNoResults, g.Message)
	assert.Equal(t, 1, g.TotalPages)
}

func TestPagerWatch(t *testing.T) {
	l := newFakeLister(makePeople(3))
	tb := model.NewTable[person](personRenderer{}, 10)
	p := model.NewPager[person]("people", tb, l, model.WithRefreshRate(10*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, p.Watch(ctx))
	assert.Eventually(t, func() bool { return l.calls() >= 3 }, time.Second, 5*time.Millisecond)

	p.Stop()
	time.Sleep(30 * time.Millisecond)
	n := l.calls()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, n, l.calls())
}

func TestPagerConfigure(t *testing.T) {
	l := newFakeLister(makePeople(25))
	tb := model.NewTable[person](personRenderer{}, 10)
	tb.OnSortChange("name", model1.SortDesc)
	p := model.NewPager[person]("people", tb, l)

	p.Configure(func(q *model.Query) {
		q.Search = "p1"
		q.Filters = nil
	})
	assert.Equal(t, 0, l.calls())
	assert.NotNil(t, p.Query().Filters)

	require.NoError(t, p.Refresh(context.Background()))
	q := l.last()
	assert.Equal(t, "p1", q.Search)
	sc, ok := q.Sort.Primary()
	require.True(t, ok)
	assert.Equal(t, "name", sc.Key)
	assert.Equal(t, model1.SortDesc, sc.Direction)
}

// Helpers...

type fakeLister struct {
	items   []person
	err     error
	queries []model.Query
	gate    chan struct{}
	slow    func(model.Query) bool
	mx      sync.Mutex
}

func newFakeLister(pp []person) *fakeLister {
	return &fakeLister{items: pp}
}

func (f *fakeLister) block() {
	f.mx.Lock()
	defer f.mx.Unlock()
	f.gate = make(chan struct{})
}

func (f *fakeLister) blockWhen(fn func(model.Query) bool) {
	f.mx.Lock()
	defer f.mx.Unlock()
	f.gate, f.slow = make(chan struct{}), fn
}

func (f *fakeLister) release() {
	f.mx.Lock()
	defer f.mx.Unlock()
	close(f.gate)
	f.gate, f.slow = nil, nil
}

func (f *fakeLister) calls() int {
	f.mx.Lock()
	defer f.mx.Unlock()
	return len(f.queries)
}

func (f *fakeLister) last() model.Query {
	f.mx.Lock()
	defer f.mx.Unlock()
	return f.queries[len(f.queries)-1]
}

func (f *fakeLister) List(ctx context.Context, q model.Query) (model.Page[person], error) {
	f.mx.Lock()
	f.queries = append(f.queries, q)
	gate, err := f.gate, f.err
	if f.slow != nil && !f.slow(q) {
		gate = nil
	}
	f.mx.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return model.Page[person]{}, ctx.Err()
		}
	}
	if err != nil {
		return model.Page[person]{}, err
	}

	var match []person
	for _, p := range f.items {
		if q.Search == "" || strings.Contains(p.Name, q.Search) {
			match = append(match, p)
		}
	}
	total := model1.PageCount(len(match), q.PageSize)
	page := model1.ClampPage(q.Page, total)
	start := min((page-1)*q.PageSize, len(match))
	end := min(start+q.PageSize, len(match))

	return model.Page[person]{
		Items:      match[start:end],
		Page:       page,
		PageSize:   q.PageSize,
		TotalPages: total,
		TotalData:  len(match),
	}, nil
}

type recorder struct {
	nChanged, nEmpty int
	errs             []error
	mx               sync.Mutex
}

func (r *recorder) TableNoData(model.Grid) {
	r.mx.Lock()
	defer r.mx.Unlock()
	r.nEmpty++
}

func (r *recorder) TableDataChanged(model.Grid) {
	r.mx.Lock()
	defer r.mx.Unlock()
	r.nChanged++
}

func (r *recorder) TableLoadFailed(err error) {
	r.mx.Lock()
	defer r.mx.Unlock()
	r.errs = append(r.errs, err)
}

func (r *recorder) changed() int {
	r.mx.Lock()
	defer r.mx.Unlock()
	return r.nChanged
}

func (r *recorder) empty() int {
	r.mx.Lock()
	defer r.mx.Unlock()
	return r.nEmpty
}

func (r *recorder) failures() []error {
	r.mx.Lock()
	defer r.mx.Unlock()
	return append([]error(nil), r.errs...)
}
