package dao_test

import (
	"net/url"
	"testing"

	"github.com/absensi/absensi/internal/dao"
	"github.com/absensi/absensi/internal/model"
	"github.com/absensi/absensi/internal/model1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPageRequest(t *testing.T) {
	q := model.Query{
		Page:     2,
		PageSize: 20,
		Search:   "ana",
		Sort:     model1.SortSpec{{Key: "date", Direction: model1.SortDesc}, {Key: "name", Direction: model1.SortAsc}},
		Filters:  map[string]string{"status": "present"},
	}

	pr := dao.NewPageRequest(q, []string{"name", "email"})
	assert.Equal(t, 2, pr.Page)
	assert.Equal(t, 20, pr.Rows)
	assert.Equal(t, map[string]string{"name": "ana", "email": "ana"}, pr.SearchFilters)
	assert.Equal(t, map[string]string{"status": "present"}, pr.Filters)
	assert.Equal(t, "date", pr.OrderKey)
	assert.Equal(t, dao.OrderDesc, pr.OrderRule)

	pr = dao.NewPageRequest(model.Query{Search: "ana"}, nil)
	assert.Nil(t, pr.SearchFilters)
	assert.Empty(t, pr.OrderKey)
}

func TestPageRequestEncode(t *testing.T) {
	pr := dao.PageRequest{
		Page:          3,
		Rows:          10,
		SearchFilters: map[string]string{"name": "jo"},
		Filters:       map[string]string{"role": "Admin"},
		RangedFilters: []dao.RangedFilter{{Key: "date", Start: "2024-01-01", End: "2024-01-31"}},
		OrderKey:      "name",
		OrderRule:     dao.OrderAsc,
	}

	v := pr.Encode()
	assert.Equal(t, "3", v.Get("page"))
	assert.Equal(t, "10", v.Get("rows"))
	assert.Equal(t, "jo", v.Get("searchFilters[name]"))
	assert.Equal(t, "Admin", v.Get("filters[role]"))
	assert.Equal(t, "date", v.Get("rangedFilters[0][key]"))
	assert.Equal(t, "2024-01-31", v.Get("rangedFilters[0][end]"))
	assert.Equal(t, "asc", v.Get("orderRule"))

	back, err := dao.ParsePageRequest(v)
	require.NoError(t, err)
	assert.Equal(t, pr, back)

	assert.Empty(t, dao.PageRequest{}.Encode())
}

func TestParsePageRequest(t *testing.T) {
	uu := map[string]struct {
		q   string
		e   dao.PageRequest
		err bool
	}{
		"empty": {},
		"ranged order": {
			q: "rangedFilters[1][key]=b&rangedFilters[0][key]=a&rangedFilters[0][start]=1",
			e: dao.PageRequest{RangedFilters: []dao.RangedFilter{{Key: "a", Start: "1"}, {Key: "b"}}},
		},
		"bad page": {q: "page=x", err: true},
		"bad rows": {q: "rows=-", err: true},
		"bad rule": {q: "orderKey=name&orderRule=up", err: true},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			v, err := url.ParseQuery(u.q)
			require.NoError(t, err)
			pr, err := dao.ParsePageRequest(v)
			if u.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, u.e, pr)
		})
	}
}

func TestPageRequestQuery(t *testing.T) {
	pr := dao.PageRequest{
		Page:          2,
		Rows:          5,
		SearchFilters: map[string]string{"name": "jo"},
		Filters:       map[string]string{"role": "Admin"},
		OrderKey:      "name",
		OrderRule:     dao.OrderDesc,
	}

	q := pr.Query()
	assert.Equal(t, 2, q.Page)
	assert.Equal(t, 5, q.PageSize)
	assert.Equal(t, "jo", q.Search)
	assert.Equal(t, "Admin", q.Filters["role"])
	assert.Equal(t, model1.SortDesc, q.Sort.Direction("name"))
}
