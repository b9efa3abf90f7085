package model1_test

import (
	"testing"

	"github.com/absensi/absensi/internal/model1"
	"github.com/stretchr/testify/assert"
)

func TestPageNumbers(t *testing.T) {
	uu := map[string]struct {
		current, total int
		e              []string
	}{
		"first": {
			current: 1, total: 10,
			e: []string{"1", "2", "3", "...", "10"},
		},
		"last": {
			current: 10, total: 10,
			e: []string{"1", "...", "8", "9", "10"},
		},
		"middle": {
			current: 5, total: 10,
			e: []string{"1", "...", "4", "5", "6", "...", "10"},
		},
		"second": {
			current: 2, total: 10,
			e: []string{"1", "2", "3", "...", "10"},
		},
		"third": {
			current: 3, total: 10,
			e: []string{"1", "2", "3", "4", "...", "10"},
		},
		"fourth": {
			current: 4, total: 10,
			e: []string{"1", "...", "3", "4", "5", "...", "10"},
		},
		"next-to-last": {
			current: 8, total: 10,
			e: []string{"1", "...", "7", "8", "9", "10"},
		},
		"eight-pages": {
			current: 1, total: 8,
			e: []string{"1", "2", "3", "...", "8"},
		},
		"below-range": {
			current: -3, total: 10,
			e: []string{"1", "2", "3", "...", "10"},
		},
		"above-range": {
			current: 42, total: 10,
			e: []string{"1", "...", "8", "9", "10"},
		},
		"no-pages": {
			current: 1, total: 0,
			e: []string{"1"},
		},
		"negative-pages": {
			current: 3, total: -2,
			e: []string{"1"},
		},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			assert.Equal(t, u.e, model1.PageNumbers(u.current, u.total).Strings())
		})
	}
}

func TestPageNumbersSmallTotals(t *testing.T) {
	for total := 1; total <= model1.EllipsisThreshold; total++ {
		for current := 1; current <= total; current++ {
			pp := model1.PageNumbers(current, total)
			assert.Len(t, pp, total)
			for i, p := range pp {
				assert.False(t, p.Ellipsis)
				assert.Equal(t, i+1, p.Page)
			}
		}
	}
}

func TestPageNumbersInvariants(t *testing.T) {
	for total := 8; total <= 40; total++ {
		for current := 1; current <= total; current++ {
			pp := model1.PageNumbers(current, total)
			assert.Equal(t, 1, pp[0].Page)
			assert.Equal(t, total, pp[len(pp)-1].Page)

			seen := make(map[int]struct{})
			ellipses := 0
			for _, p := range pp {
				if p.Ellipsis {
					ellipses++
					continue
				}
				_, dup := seen[p.Page]
				assert.False(t, dup, "page %d listed twice", p.Page)
				seen[p.Page] = struct{}{}
			}
			assert.LessOrEqual(t, ellipses, 2)
			for _, p := range []int{current - 1, current, current + 1} {
				if p >= 1 && p <= total {
					assert.Contains(t, seen, p)
				}
			}
		}
	}
}

func TestClampPage(t *testing.T) {
	assert.Equal(t, 1, model1.ClampPage(0, 5))
	assert.Equal(t, 5, model1.ClampPage(6, 5))
	assert.Equal(t, 3, model1.ClampPage(3, 5))
	assert.Equal(t, 1, model1.ClampPage(4, 0))
}

func TestPageCount(t *testing.T) {
	assert.Equal(t, 0, model1.PageCount(0, 10))
	assert.Equal(t, 1, model1.PageCount(10, 10))
	assert.Equal(t, 2, model1.PageCount(11, 10))
	assert.Equal(t, 0, model1.PageCount(11, 0))
}
