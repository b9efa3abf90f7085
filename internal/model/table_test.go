package model_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/absensi/absensi/internal/model"
	"github.com/absensi/absensi/internal/model1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableInternalPaging(t *testing.T) {
	tb := model.NewTable[person](personRenderer{}, 10)
	tb.SetData(makePeople(25))

	g := tb.Render()
	assert.False(t, g.External)
	assert.Equal(t, 1, g.Page)
	assert.Equal(t, 3, g.TotalPages)
	assert.Equal(t, 25, g.TotalData)
	assert.Len(t, g.Rows, 10)
	assert.False(t, g.CanPrev)
	assert.True(t, g.CanNext)
	assert.Equal(t, []string{"1", "2", "3"}, g.Pages.Strings())
	assert.Equal(t, "1", g.Rows[0].Fields[0])

	tb.OnPageChange(3)
	g = tb.Render()
	assert.Equal(t, 3, g.Page)
	assert.Len(t, g.Rows, 5)
	assert.Equal(t, "21", g.Rows[0].Fields[0])
	assert.Equal(t, "p21", g.Rows[0].ID)
	assert.False(t, g.CanNext)

	tb.PrevPage()
	assert.Equal(t, 2, tb.Page())
	tb.NextPage()
	tb.NextPage()
	assert.Equal(t, 3, tb.Page())
}

func TestTableInternalClamp(t *testing.T) {
	tb := model.NewTable[person](personRenderer{}, 10)
	tb.SetData(makePeople(25))

	tb.OnPageChange(0)
	assert.Equal(t, 1, tb.Page())

	tb.OnPageChange(tb.TotalPages() + 1)
	assert.Equal(t, 3, tb.Page())

	tb.OnPageChange(-10)
	assert.Equal(t, 1, tb.Page())
}

func TestTableInternalIdempotentPageChange(t *testing.T) {
	tb := model.NewTable[person](personRenderer{}, 10)
	tb.SetData(makePeople(25))
	tb.OnPageChange(2)
	before := tb.State()

	tb.OnPageChange(2)
	assert.Equal(t, before, tb.State())
}

func TestTableExternalPaging(t *testing.T) {
	var calls []int
	tb := model.NewTable[person](personRenderer{}, 10)
	tb.SetPagination(&model.Pagination{
		CurrentPage:  2,
		TotalPages:   10,
		OnPageChange: func(p int) { calls = append(calls, p) },
	})
	tb.SetTotalData(95)
	tb.SetData(makePeople(12))

	g := tb.Render()
	assert.True(t, g.External)
	assert.Equal(t, 2, g.Page)
	assert.Equal(t, 10, g.TotalPages)
	assert.Equal(t, 95, g.TotalData)
	assert.Len(t, g.Rows, 12, "external rows are never sliced")
	assert.Equal(t, "11", g.Rows[0].Fields[0], "numbering follows the external page")
	assert.Equal(t, []string{"1", "2", "3", "...", "10"}, g.Pages.Strings())

	before := tb.State()
	tb.OnPageChange(5)
	assert.Equal(t, []int{5}, calls)
	assert.Equal(t, 2, tb.Page(), "external mode never moves the cursor itself")
	assert.Equal(t, before, tb.State())
}

func TestTableExternalAlwaysCalls(t *testing.T) {
	var calls []int
	tb := model.NewTable[person](personRenderer{}, 10)
	tb.SetPagination(&model.Pagination{
		CurrentPage:  4,
		TotalPages:   10,
		OnPageChange: func(p int) { calls = append(calls, p) },
	})

	tb.OnPageChange(4)
	assert.Equal(t, []int{4}, calls)

	tb.OnPageChange(0)
	tb.OnPageChange(11)
	assert.Equal(t, []int{4, 1, 10}, calls)
}

func TestTableExternalFetchingBlocksNavigation(t *testing.T) {
	var calls int
	tb := model.NewTable[person](personRenderer{}, 10)
	tb.SetPagination(&model.Pagination{
		CurrentPage:  1,
		TotalPages:   3,
		OnPageChange: func(int) { calls++ },
		IsFetching:   true,
	})

	tb.OnPageChange(2)
	tb.NextPage()
	g := tb.Render()
	assert.Zero(t, calls)
	assert.True(t, g.Fetching)
	assert.False(t, g.CanNext)

	tb.SetFetching(false)
	tb.NextPage()
	assert.Equal(t, 1, calls)
}

func TestTablePageSizeInternal(t *testing.T) {
	tb := model.NewTable[person](personRenderer{}, 10)
	tb.SetData(makePeople(45))
	tb.OnPageChange(3)

	tb.OnPageSizeChange(20)
	g := tb.Render()
	assert.Equal(t, 20, g.PageSize)
	assert.Equal(t, 2, g.Page)
	assert.Equal(t, "p21", g.Rows[0].ID, "the first row of the old page stays reachable")

	tb.OnPageSizeChange(0)
	assert.Equal(t, 20, tb.PageSize())

	tb.OnPageChange(3)
	tb.OnPageSizeChange(50)
	assert.Equal(t, 1, tb.Page())
}

func TestTablePageSizeDelegated(t *testing.T) {
	var got []int
	tb := model.NewTable[person](personRenderer{}, 10)
	tb.SetData(makePeople(45))
	tb.SetPageSizeHandler(func(n int) { got = append(got, n) })

	tb.OnPageSizeChange(30)
	assert.Equal(t, []int{30}, got)
	assert.Equal(t, 10, tb.PageSize(), "delegated changes leave the table alone")
}

func TestTableSortRoundTrip(t *testing.T) {
	tb := model.NewTable[person](personRenderer{}, 50)
	tb.SetData([]person{
		{ID: "a", Name: "Charlie", Joined: "2024-03-01"},
		{ID: "b", Name: "alice", Joined: "2024-01-15"},
		{ID: "c", Name: "Bob", Joined: "2024-02-10"},
	})
	original := ids(tb.Render())

	var specs []model1.SortSpec
	tb.SetSortHandler(func(s model1.SortSpec) { specs = append(specs, s) })

	tb.ToggleSort("name")
	assert.Equal(t, []string{"b", "c", "a"}, ids(tb.Render()))
	assert.Equal(t, "▲", tb.Render().SortMark("name"))

	tb.ToggleSort("name")
	assert.Equal(t, []string{"a", "c", "b"}, ids(tb.Render()))

	tb.ToggleSort("name")
	assert.Equal(t, original, ids(tb.Render()))
	assert.Len(t, specs, 3)
	assert.Empty(t, specs[2])
}

func TestTableSortValuer(t *testing.T) {
	tb := model.NewTable[person](personRenderer{}, 50)
	tb.SetData([]person{
		{ID: "a", Name: "A", Joined: "2024-03-01"},
		{ID: "b", Name: "B", Joined: "2023-12-31"},
	})

	tb.OnSortChange("joined", model1.SortAsc)
	assert.Equal(t, []string{"b", "a"}, ids(tb.Render()))

	tb.OnSortChange("joined", model1.SortNone)
	assert.Equal(t, []string{"a", "b"}, ids(tb.Render()))
}

func TestTableMultiSort(t *testing.T) {
	tb := model.NewTable[person](personRenderer{}, 50)
	tb.SetData([]person{
		{ID: "a", Name: "Ann", Team: "blue"},
		{ID: "b", Name: "Zed", Team: "red"},
		{ID: "c", Name: "Bob", Team: "blue"},
		{ID: "d", Name: "Cat", Team: "red"},
	})

	tb.OnSortChange("team", model1.SortDesc)
	tb.OnSortChange("name", model1.SortAsc)
	assert.Equal(t, []string{"d", "b", "a", "c"}, ids(tb.Render()))
}

func TestTableSortIgnoresUnsortable(t *testing.T) {
	tb := model.NewTable[person](personRenderer{}, 50)
	tb.ToggleSort("no")
	tb.ToggleSort("zorg")
	assert.Empty(t, tb.State().Sort)
}

func TestTableFilters(t *testing.T) {
	tb := model.NewTable[person](personRenderer{}, 2)
	tb.SetData([]person{
		{ID: "a", Name: "Ann", Team: "blue"},
		{ID: "b", Name: "Zed", Team: "red"},
		{ID: "c", Name: "Bob", Team: "blue"},
		{ID: "d", Name: "Cat", Team: "red"},
	})
	tb.OnPageChange(2)

	tb.SetFilter("team", "BLU")
	g := tb.Render()
	assert.Equal(t, 1, g.Page, "filtering resets the cursor")
	assert.Equal(t, []string{"a", "c"}, ids(g))

	tb.SetGlobalFilter("bo")
	assert.Equal(t, []string{"c"}, ids(tb.Render()))

	tb.SetFilter("team", "")
	tb.SetGlobalFilter("")
	assert.Len(t, tb.Render().Rows, 2)

	tb.SetGlobalFilter("nobody")
	g = tb.Render()
	assert.True(t, g.Empty())
	assert.Equal(t, model.MsgNoResults, g.Message)
	assert.Equal(t, 1, g.TotalPages)
}

func TestTableVisibility(t *testing.T) {
	tb := model.NewTable[person](personRenderer{}, 10)
	tb.SetData(makePeople(1))

	g := tb.Render()
	assert.Equal(t, []string{"no", "name", "team", "joined"}, g.Header.Keys())
	assert.Len(t, g.Rows[0].Fields, 4)

	tb.SetColumnVisibility("team", false)
	tb.SetColumnVisibility("secret", true)
	g = tb.Render()
	assert.Equal(t, []string{"no", "name", "joined", "secret"}, g.Header.Keys())
	assert.Equal(t, "s1", g.Rows[0].Fields[3])
}

func TestTableSelectionInternal(t *testing.T) {
	tb := model.NewTable[person](personRenderer{}, 10)
	tb.SetData(makePeople(25))

	assert.True(t, tb.ToggleRow("p3"))
	assert.True(t, tb.IsSelected("p3"))
	assert.False(t, tb.ToggleRow("p3"))

	tb.ToggleAllVisible()
	assert.Len(t, tb.Selected(), 25, "internal mode selects the whole filtered set")

	tb.ToggleAllVisible()
	assert.Empty(t, tb.Selected())

	tb.SetGlobalFilter("Person 1")
	tb.ToggleAllVisible()
	assert.Equal(t, []string{"p1", "p10", "p11", "p12", "p13", "p14", "p15", "p16", "p17", "p18", "p19"}, tb.Selected())
}

func TestTableSelectionExternal(t *testing.T) {
	tb := model.NewTable[person](personRenderer{}, 10)
	tb.SetPagination(&model.Pagination{CurrentPage: 1, TotalPages: 3})
	tb.SetData(makePeople(3))
	tb.ToggleAllVisible()
	assert.Equal(t, []string{"p1", "p2", "p3"}, tb.Selected())

	// Next page arrives, previous selection survives.
	tb.SetPagination(&model.Pagination{CurrentPage: 2, TotalPages: 3})
	tb.SetData([]person{{ID: "p4", Name: "Four"}, {ID: "p5", Name: "Five"}})
	tb.ToggleAllVisible()
	assert.Equal(t, []string{"p1", "p2", "p3", "p4", "p5"}, tb.Selected())

	g := tb.Render()
	assert.True(t, g.Rows[0].Selected)
	assert.Equal(t, 5, g.Selected)

	tb.ClearSelection()
	assert.Empty(t, tb.Selected())
}

func TestTableLoadingAndEmpty(t *testing.T) {
	tb := model.NewTable[person](personRenderer{}, 10)
	tb.SetData(makePeople(3))

	tb.SetLoading(true)
	g := tb.Render()
	assert.True(t, g.Empty())
	assert.Equal(t, model.MsgLoading, g.Message)

	tb.SetLoading(false)
	tb.SetData(nil)
	g = tb.Render()
	assert.Equal(t, model.MsgNoResults, g.Message)
	assert.Equal(t, 1, g.Page)
	assert.Equal(t, 1, g.TotalPages)
	assert.False(t, g.CanNext)
	assert.False(t, g.CanPrev)
}

func TestTableSkipsBadRowsAndDefaultsIDs(t *testing.T) {
	tb := model.NewTable[person](personRenderer{}, 10)
	tb.SetData([]person{{Name: "no id"}, {Name: "boom", Team: "bad"}, {ID: "x", Name: "ok"}})

	g := tb.Render()
	require.Len(t, g.Rows, 2)
	assert.Equal(t, "0", g.Rows[0].ID)
	assert.Equal(t, "x", g.Rows[1].ID)

	o, ok := tb.RowAt(1)
	assert.True(t, ok)
	assert.Equal(t, "ok", o.Name)
	_, ok = tb.RowAt(2)
	assert.False(t, ok)

	tb.SetPagination(&model.Pagination{CurrentPage: 3, TotalPages: 4})
	g = tb.Render()
	assert.Equal(t, "20", g.Rows[0].ID)
	assert.Equal(t, "x", g.Rows[1].ID)
}

func TestTableShrinkingDataClampsPage(t *testing.T) {
	tb := model.NewTable[person](personRenderer{}, 10)
	tb.SetData(makePeople(30))
	tb.OnPageChange(3)

	tb.SetData(makePeople(12))
	assert.Equal(t, 2, tb.Page())
	assert.Len(t, tb.VisibleRows(), 2)
}

func TestTableSwitchModes(t *testing.T) {
	tb := model.NewTable[person](personRenderer{}, 10)
	tb.SetPagination(&model.Pagination{CurrentPage: 7, TotalPages: 9})
	tb.SetData(makePeople(15))
	assert.True(t, tb.IsExternal())
	assert.Len(t, tb.VisibleRows(), 15)

	tb.SetPagination(nil)
	assert.False(t, tb.IsExternal())
	assert.Len(t, tb.VisibleRows(), 10)
	assert.Equal(t, 2, tb.TotalPages())
}

// Helpers...

type person struct {
	ID, Name, Team, Joined string
}

type personRenderer struct{}

func (personRenderer) Header() model1.Header {
	return model1.Header{
		{Key: "no", Name: "No", Kind: model1.KindIndex},
		{Key: "name", Name: "Name"},
		{Key: "team", Name: "Team"},
		{Key: "joined", Name: "Joined", Kind: model1.KindDate},
		{Key: "secret", Name: "Secret", Attrs: model1.Attrs{Hide: true}},
	}
}

func (personRenderer) Render(p person, r *model1.Row) error {
	if p.Team == "bad" {
		return errors.New("bad team")
	}
	r.ID = p.ID
	r.Fields = model1.Fields{
		"",
		p.Name,
		p.Team,
		"joined " + p.Joined,
		"s" + p.ID[min(1, len(p.ID)):],
	}
	return nil
}

func (personRenderer) SortValue(p person, key string) (string, bool) {
	if key == "joined" {
		return p.Joined, true
	}
	return "", false
}

func makePeople(n int) []person {
	pp := make([]person, 0, n)
	for i := 1; i <= n; i++ {
		pp = append(pp, person{
			ID:   fmt.Sprintf("p%d", i),
			Name: fmt.Sprintf("Person %d", i),
			Team: "blue",
		})
	}
	return pp
}

func ids(g model.Grid) []string {
	ss := make([]string, 0, len(g.Rows))
	for _, r := range g.Rows {
		ss = append(ss, r.ID)
	}
	return ss
}
