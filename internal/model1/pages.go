package model1

import "strconv"

const (
	// EllipsisThreshold is the largest page count listed without ellipsis.
	EllipsisThreshold = 7

	// pageWindow is the number of consecutive pages shown around the cursor.
	pageWindow = 3

	ellipsis = "..."
)

// PageToken is either a page number or an ellipsis marker.
type PageToken struct {
	Page     int
	Ellipsis bool
}

func (p PageToken) String() string {
	if p.Ellipsis {
		return ellipsis
	}
	return strconv.Itoa(p.Page)
}

// PageTokens represents a pagination control layout.
type PageTokens []PageToken

// Strings returns the token labels.
func (pp PageTokens) Strings() []string {
	ss := make([]string, len(pp))
	for i, p := range pp {
		ss[i] = p.String()
	}
	return ss
}

// ClampPage forces page into [1, total]. A non positive total counts as one page.
func ClampPage(page, total int) int {
	if total < 1 {
		total = 1
	}
	switch {
	case page < 1:
		return 1
	case page > total:
		return total
	default:
		return page
	}
}

// PageCount returns the number of pages needed for count rows.
func PageCount(count, size int) int {
	if size <= 0 || count <= 0 {
		return 0
	}
	return (count + size - 1) / size
}

// PageNumbers lays out the page buttons for a pagination control. The first
// and last pages are always present, a window of three pages follows the
// current page and gaps wider than one page collapse into an ellipsis.
func PageNumbers(current, total int) PageTokens {
	if total < 1 {
		total = 1
	}
	current = ClampPage(current, total)

	if total <= EllipsisThreshold {
		pp := make(PageTokens, 0, total)
		for i := 1; i <= total; i++ {
			pp = append(pp, PageToken{Page: i})
		}
		return pp
	}

	lo, hi := current-1, current+1
	if lo < 1 {
		hi += 1 - lo
		lo = 1
	}
	if hi > total {
		lo -= hi - total
		hi = total
	}

	shown := make([]int, 0, pageWindow+2)
	if lo > 1 {
		shown = append(shown, 1)
	}
	for i := lo; i <= hi; i++ {
		shown = append(shown, i)
	}
	if hi < total {
		shown = append(shown, total)
	}

	pp := make(PageTokens, 0, len(shown)+2)
	for i, p := range shown {
		if i > 0 && p-shown[i-1] > 1 {
			pp = append(pp, PageToken{Ellipsis: true})
		}
		pp = append(pp, PageToken{Page: p})
	}
	return pp
}
