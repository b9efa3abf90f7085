package model

import "github.com/absensi/absensi/internal/model1"

// GridState tracks the user driven state of a table.
type GridState struct {
	Sort       model1.SortSpec
	Filters    map[string]string
	Search     string
	Visibility map[string]bool
	Selection  map[string]struct{}
	Page       int
	PageSize   int
}

func newGridState(pageSize int) GridState {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return GridState{
		Filters:    make(map[string]string),
		Visibility: make(map[string]bool),
		Selection:  make(map[string]struct{}),
		Page:       1,
		PageSize:   pageSize,
	}
}

// Clone returns a deep copy of the state.
func (s GridState) Clone() GridState {
	out := s
	out.Sort = s.Sort.Clone()
	out.Filters = make(map[string]string, len(s.Filters))
	for k, v := range s.Filters {
		out.Filters[k] = v
	}
	out.Visibility = make(map[string]bool, len(s.Visibility))
	for k, v := range s.Visibility {
		out.Visibility[k] = v
	}
	out.Selection = make(map[string]struct{}, len(s.Selection))
	for k := range s.Selection {
		out.Selection[k] = struct{}{}
	}
	return out
}

// GridRow is a rendered row along with its selection mark.
type GridRow struct {
	model1.Row
	Selected bool
}

// Grid is everything a view needs to draw a table.
type Grid struct {
	Header     model1.Header
	Rows       []GridRow
	Page       int
	TotalPages int
	PageSize   int
	TotalData  int
	Pages      model1.PageTokens
	Sort       model1.SortSpec
	Search     string
	Selected   int
	Loading    bool
	Fetching   bool
	External   bool
	CanPrev    bool
	CanNext    bool
	Message    string
}

// Empty returns true when there is no row to draw.
func (g Grid) Empty() bool {
	return len(g.Rows) == 0
}

// SortMark returns the header decoration for a sorted column.
func (g Grid) SortMark(key string) string {
	switch g.Sort.Direction(key) {
	case model1.SortAsc:
		return "▲"
	case model1.SortDesc:
		return "▼"
	default:
		return ""
	}
}
