package model1

import "fmt"

// SortDirection represents a column sort order.
type SortDirection int

const (
	SortNone SortDirection = iota
	SortAsc
	SortDesc
)

// Next cycles ascending -> descending -> none -> ascending.
func (d SortDirection) Next() SortDirection {
	switch d {
	case SortNone:
		return SortAsc
	case SortAsc:
		return SortDesc
	default:
		return SortNone
	}
}

func (d SortDirection) String() string {
	switch d {
	case SortAsc:
		return "asc"
	case SortDesc:
		return "desc"
	default:
		return ""
	}
}

// ParseSortDirection converts asc/desc into a direction. Anything else is SortNone.
func ParseSortDirection(s string) SortDirection {
	switch s {
	case "asc", "ASC":
		return SortAsc
	case "desc", "DESC":
		return SortDesc
	default:
		return SortNone
	}
}

// SortColumn is one entry of a sort specification.
type SortColumn struct {
	Key       string
	Direction SortDirection
}

func (s SortColumn) String() string {
	return fmt.Sprintf("%s:%s", s.Key, s.Direction)
}

// SortSpec is an ordered multi-column sort. The first entry has the highest
// precedence and a key appears at most once.
type SortSpec []SortColumn

func (s SortSpec) Clone() SortSpec {
	if s == nil {
		return nil
	}
	cp := make(SortSpec, len(s))
	copy(cp, s)
	return cp
}

// Direction returns the direction for key, SortNone when absent.
func (s SortSpec) Direction(key string) SortDirection {
	for _, c := range s {
		if c.Key == key {
			return c.Direction
		}
	}
	return SortNone
}

// Set replaces the entry for key in place, appends it when missing and
// removes it when dir is SortNone.
func (s SortSpec) Set(key string, dir SortDirection) SortSpec {
	out := make(SortSpec, 0, len(s)+1)
	found := false
	for _, c := range s {
		if c.Key != key {
			out = append(out, c)
			continue
		}
		found = true
		if dir != SortNone {
			out = append(out, SortColumn{Key: key, Direction: dir})
		}
	}
	if !found && dir != SortNone {
		out = append(out, SortColumn{Key: key, Direction: dir})
	}
	return out
}

// Toggle advances the direction of key one step.
func (s SortSpec) Toggle(key string) SortSpec {
	return s.Set(key, s.Direction(key).Next())
}

// Primary returns the highest precedence entry.
func (s SortSpec) Primary() (SortColumn, bool) {
	if len(s) == 0 {
		return SortColumn{}, false
	}
	return s[0], true
}
