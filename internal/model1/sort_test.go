package model1_test

import (
	"testing"

	"github.com/absensi/absensi/internal/model1"
	"github.com/stretchr/testify/assert"
)

func TestSortSpecToggle(t *testing.T) {
	var s model1.SortSpec

	s = s.Toggle("name")
	assert.Equal(t, model1.SortSpec{{Key: "name", Direction: model1.SortAsc}}, s)

	s = s.Toggle("name")
	assert.Equal(t, model1.SortSpec{{Key: "name", Direction: model1.SortDesc}}, s)

	s = s.Toggle("name")
	assert.Empty(t, s)
}

func TestSortSpecSet(t *testing.T) {
	s := model1.SortSpec{}.
		Set("date", model1.SortDesc).
		Set("name", model1.SortAsc)
	assert.Equal(t, "date:desc", s[0].String())
	assert.Equal(t, "name:asc", s[1].String())

	s = s.Set("date", model1.SortAsc)
	assert.Equal(t, model1.SortSpec{
		{Key: "date", Direction: model1.SortAsc},
		{Key: "name", Direction: model1.SortAsc},
	}, s)

	s = s.Set("date", model1.SortNone)
	assert.Equal(t, model1.SortSpec{{Key: "name", Direction: model1.SortAsc}}, s)
	assert.Equal(t, model1.SortNone, s.Direction("date"))

	p, ok := s.Primary()
	assert.True(t, ok)
	assert.Equal(t, "name", p.Key)
}

func TestCompare(t *testing.T) {
	uu := map[string]struct {
		a, b string
		e    int
	}{
		"equal":      {a: "x", b: "x", e: 0},
		"natural":    {a: "page2", b: "page10", e: -1},
		"case":       {a: "alice", b: "Bob", e: -1},
		"blank":      {a: "", b: "a", e: -1},
		"na":         {a: "b", b: model1.NAValue, e: 1},
		"both-blank": {a: "", b: model1.NAValue, e: 0},
		"numbers":    {a: "081234", b: "0812", e: 1},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			assert.Equal(t, u.e, model1.Compare(u.a, u.b))
		})
	}
}

func TestMatches(t *testing.T) {
	assert.True(t, model1.Matches("John Doe", "doe"))
	assert.True(t, model1.Matches("John Doe", ""))
	assert.False(t, model1.Matches("John Doe", "jane"))
}
