package model1

import (
	"strings"

	"github.com/fvbommel/sortorder"
)

// Compare orders two cell values. Blank and NAValue cells sort first,
// numbers embedded in the text compare numerically and case is ignored
// unless it is the only difference.
func Compare(v1, v2 string) int {
	if v1 == v2 {
		return 0
	}
	b1, b2 := isBlank(v1), isBlank(v2)
	switch {
	case b1 && b2:
		return 0
	case b1:
		return -1
	case b2:
		return 1
	}

	l1, l2 := strings.ToLower(v1), strings.ToLower(v2)
	if l1 != l2 {
		v1, v2 = l1, l2
	}
	if sortorder.NaturalLess(v1, v2) {
		return -1
	}
	if sortorder.NaturalLess(v2, v1) {
		return 1
	}
	return 0
}

// Less returns true if v1 sorts before v2, breaking ties on the row ids.
func Less(id1, id2, v1, v2 string) bool {
	if c := Compare(v1, v2); c != 0 {
		return c < 0
	}
	return sortorder.NaturalLess(id1, id2)
}

// Matches reports whether a cell contains the filter text, ignoring case.
func Matches(field, filter string) bool {
	if filter == "" {
		return true
	}
	return strings.Contains(strings.ToLower(field), strings.ToLower(strings.TrimSpace(filter)))
}

func isBlank(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || s == NAValue
}
