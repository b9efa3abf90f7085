package model1

import "fmt"

// Attrs represents column attributes
type Attrs struct {
	Align     int  // tview alignment
	Hide      bool // Hidden until made visible
	NoSort    bool
	NoFilter  bool
	Decorator DecoratorFunc
}

// HeaderColumn describes one table column. Key is stable for the lifetime
// of a table, Name is the label shown in the header.
type HeaderColumn struct {
	Key  string
	Name string
	Kind ColumnKind
	Attrs
}

func (h HeaderColumn) String() string {
	return fmt.Sprintf("%s(%s) [%s::%d::%t]", h.Name, h.Key, h.Kind, h.Align, h.Hide)
}

// CanSort reports whether the column accepts a sort entry.
func (h HeaderColumn) CanSort() bool {
	return h.Kind.Sortable() && !h.NoSort
}

// CanFilter reports whether the column accepts a filter value.
func (h HeaderColumn) CanFilter() bool {
	return h.Kind != KindIndex && h.Kind != KindActions && !h.NoFilter
}

// Header represents a table header (slice of columns)
type Header []HeaderColumn

func (h Header) Clone() Header {
	he := make(Header, len(h))
	copy(he, h)
	return he
}

func (h Header) Diff(header Header) bool {
	if len(h) != len(header) {
		return true
	}
	for i := range h {
		a, b := h[i], header[i]
		if a.Key != b.Key || a.Name != b.Name || a.Kind != b.Kind || a.Align != b.Align || a.Hide != b.Hide {
			return true
		}
	}
	return false
}

// IndexOf returns the position of the column with the given key.
func (h Header) IndexOf(key string) (int, bool) {
	for i, c := range h {
		if c.Key == key {
			return i, true
		}
	}
	return -1, false
}

// Column returns the column with the given key.
func (h Header) Column(key string) (HeaderColumn, bool) {
	idx, ok := h.IndexOf(key)
	if !ok {
		return HeaderColumn{}, false
	}
	return h[idx], true
}

func (h Header) Keys() []string {
	if len(h) == 0 {
		return nil
	}
	kk := make([]string, 0, len(h))
	for _, c := range h {
		kk = append(kk, c.Key)
	}
	return kk
}

// IsVisible resolves a column visibility against an override map. Columns
// missing from the map fall back to their Hide attribute.
func (h Header) IsVisible(col int, vis map[string]bool) bool {
	if col < 0 || col >= len(h) {
		return false
	}
	if v, ok := vis[h[col].Key]; ok {
		return v
	}
	return !h[col].Hide
}

// Visible returns the indexes of the visible columns, in header order.
func (h Header) Visible(vis map[string]bool) []int {
	cols := make([]int, 0, len(h))
	for i := range h {
		if h.IsVisible(i, vis) {
			cols = append(cols, i)
		}
	}
	return cols
}

// Customize returns the sub header made of the given column indexes.
func (h Header) Customize(cols []int) Header {
	out := make(Header, 0, len(cols))
	for _, c := range cols {
		if c >= 0 && c < len(h) {
			out = append(out, h[c])
		}
	}
	return out
}
