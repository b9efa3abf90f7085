package model1_test

import (
	"testing"

	"github.com/absensi/absensi/internal/model1"
	"github.com/stretchr/testify/assert"
)

func TestHeaderVisible(t *testing.T) {
	h := model1.Header{
		{Key: "no", Name: "No", Kind: model1.KindIndex},
		{Key: "name", Name: "Nama"},
		{Key: "phone", Name: "No. HP", Attrs: model1.Attrs{Hide: true}},
		{Key: "actions", Kind: model1.KindActions},
	}

	assert.Equal(t, []int{0, 1, 3}, h.Visible(nil))
	assert.Equal(t, []int{1, 2, 3}, h.Visible(map[string]bool{"no": false, "phone": true}))
	assert.Equal(t, []string{"no", "name", "phone", "actions"}, h.Keys())

	idx, ok := h.IndexOf("phone")
	assert.True(t, ok)
	assert.Equal(t, 2, idx)
	_, ok = h.IndexOf("zorg")
	assert.False(t, ok)

	assert.False(t, h[0].CanSort())
	assert.True(t, h[1].CanSort())
	assert.False(t, h[3].CanFilter())
}

func TestRowCustomize(t *testing.T) {
	r := model1.Row{ID: "u1", Fields: model1.Fields{"1", "John", "0812", ""}}

	c := r.Customize([]int{1, 3})
	assert.Equal(t, "u1", c.ID)
	assert.Equal(t, model1.Fields{"John", ""}, c.Fields)
}

func TestHeaderDiff(t *testing.T) {
	h := model1.Header{{Key: "a", Name: "A"}}
	assert.False(t, h.Diff(h.Clone()))
	assert.True(t, h.Diff(model1.Header{{Key: "a", Name: "B"}}))
	assert.True(t, h.Diff(nil))
}
