package model1

// Fields holds the rendered cells of a row, in header order.
type Fields []string

// Row is one rendered record. ID identifies the record across pages, so
// selections survive paging and refreshes.
type Row struct {
	ID     string
	Fields Fields
}

// NewRow returns a row with size empty cells.
func NewRow(size int) Row {
	return Row{Fields: make(Fields, size)}
}

// Clone returns a deep copy of the row.
func (r Row) Clone() Row {
	return Row{ID: r.ID, Fields: append(Fields(nil), r.Fields...)}
}

// Customize returns a row holding the given columns only, in that order.
// Out of range columns yield empty cells.
func (r Row) Customize(cols []int) Row {
	out := NewRow(len(cols))
	out.ID = r.ID
	for i, c := range cols {
		if c >= 0 && c < len(r.Fields) {
			out.Fields[i] = r.Fields[c]
		}
	}

	return out
}
