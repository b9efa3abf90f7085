package model

import (
	"context"

	"github.com/absensi/absensi/internal/model1"
)

const (
	// MsgLoading is shown in place of rows while data is being loaded.
	MsgLoading = "Loading..."

	// MsgNoResults is shown when no row survives filtering.
	MsgNoResults = "No results."

	// DefaultPageSize is the rows per page of a fresh table.
	DefaultPageSize = 10
)

// DefaultPageSizes lists the rows per page choices offered to users.
var DefaultPageSizes = []int{10, 20, 30, 40, 50}

// Renderer turns a caller record into a table row.
type Renderer[T any] interface {
	// Header returns the column descriptors, in display order.
	Header() model1.Header

	// Render fills in the row id and one field per header column.
	Render(o T, row *model1.Row) error
}

// SortValuer is implemented by renderers whose display text does not sort
// well, dates for instance.
type SortValuer[T any] interface {
	// SortValue returns the raw value used to order the given column.
	SortValue(o T, key string) (string, bool)
}

// PageChangeFunc is called with the page a user navigated to.
type PageChangeFunc func(page int)

// PageSizeChangeFunc is called with the rows per page a user picked.
type PageSizeChangeFunc func(size int)

// SortChangeFunc is called with the sort specification after it changed.
type SortChangeFunc func(model1.SortSpec)

// Pagination hands the page cursor over to an external controller. The
// table then renders the rows it is given without slicing them.
type Pagination struct {
	CurrentPage  int
	TotalPages   int
	OnPageChange PageChangeFunc
	IsFetching   bool
}

// TableListener represents a table model listener.
type TableListener interface {
	// TableNoData notifies listener no data was found.
	TableNoData(Grid)

	// TableDataChanged notifies the model data changed.
	TableDataChanged(Grid)

	// TableLoadFailed notifies the load failed.
	TableLoadFailed(error)
}

// Lister fetches one page of records.
type Lister[T any] interface {
	List(ctx context.Context, q Query) (Page[T], error)
}

// Query describes the page a controller asks its lister for.
type Query struct {
	Page     int
	PageSize int
	Search   string
	Sort     model1.SortSpec
	Filters  map[string]string
}

// Page is one page of records along with the paging metadata.
type Page[T any] struct {
	Items      []T
	Page       int
	PageSize   int
	TotalPages int
	TotalData  int
}
