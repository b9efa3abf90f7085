package model1

// NAValue is displayed for cells without a value.
const NAValue = "-"

// ColumnKind identifies how a column renders and compares its cells.
type ColumnKind int

const (
	// KindText renders a plain text cell.
	KindText ColumnKind = iota
	// KindIndex renders the row position, numbered across pages.
	KindIndex
	// KindDate renders a calendar date.
	KindDate
	// KindStatus renders a status badge.
	KindStatus
	// KindActions renders the row action menu.
	KindActions
)

func (k ColumnKind) String() string {
	switch k {
	case KindIndex:
		return "index"
	case KindDate:
		return "date"
	case KindStatus:
		return "status"
	case KindActions:
		return "actions"
	default:
		return "text"
	}
}

// Sortable reports whether cells of this kind carry a value worth ordering on.
func (k ColumnKind) Sortable() bool {
	return k != KindIndex && k != KindActions
}

// DecoratorFunc decorates a string
type DecoratorFunc func(string) string
