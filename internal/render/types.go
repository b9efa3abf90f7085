package render

const (
	// MissingValue is displayed for an empty cell.
	MissingValue = "-"

	// ActionsValue marks the row action menu cell.
	ActionsValue = "⋮"

	// Blank is an empty cell.
	Blank = ""
)

// Column keys shared by several renderers. They match the JSON field names
// of the records so that filters and sort keys can be handed to the backend
// as is.
const (
	KeyIndex       = "no"
	KeyName        = "name"
	KeyEmail       = "email"
	KeyDescription = "description"
	KeyActions     = "actions"
)

var (
	shortDays   = [...]string{"Min", "Sen", "Sel", "Rab", "Kam", "Jum", "Sab"}
	shortMonths = [...]string{"Jan", "Feb", "Mar", "Apr", "Mei", "Jun", "Jul", "Agu", "Sep", "Okt", "Nov", "Des"}
)
