package dao

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"

	"github.com/absensi/absensi/internal/model"
	"github.com/absensi/absensi/internal/model1"
)

const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// RangedFilter bounds a key between two values.
type RangedFilter struct {
	Key   string `json:"key"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// PageRequest is the list query understood by the backend.
type PageRequest struct {
	Page          int
	Rows          int
	SearchFilters map[string]string
	Filters       map[string]string
	RangedFilters []RangedFilter
	OrderKey      string
	OrderRule     string
}

var (
	searchRX = regexp.MustCompile(`^searchFilters\[(.+)\]$`)
	filterRX = regexp.MustCompile(`^filters\[(.+)\]$`)
	rangedRX = regexp.MustCompile(`^rangedFilters\[(\d+)\]\[(key|start|end)\]$`)
)

// NewPageRequest maps a table query. The free text search is applied to
// each of the given search keys.
func NewPageRequest(q model.Query, searchKeys []string) PageRequest {
	pr := PageRequest{
		Page: q.Page,
		Rows: q.PageSize,
	}
	if q.Search != "" && len(searchKeys) > 0 {
		pr.SearchFilters = make(map[string]string, len(searchKeys))
		for _, k := range searchKeys {
			pr.SearchFilters[k] = q.Search
		}
	}
	if len(q.Filters) > 0 {
		pr.Filters = make(map[string]string, len(q.Filters))
		for k, v := range q.Filters {
			pr.Filters[k] = v
		}
	}
	if col, ok := q.Sort.Primary(); ok {
		pr.OrderKey = col.Key
		pr.OrderRule = OrderAsc
		if col.Direction == model1.SortDesc {
			pr.OrderRule = OrderDesc
		}
	}

	return pr
}

// Encode renders the request as query parameters, nested keys using the
// bracket notation.
func (p PageRequest) Encode() url.Values {
	v := make(url.Values)
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.Rows > 0 {
		v.Set("rows", strconv.Itoa(p.Rows))
	}
	for k, s := range p.SearchFilters {
		v.Set(fmt.Sprintf("searchFilters[%s]", k), s)
	}
	for k, s := range p.Filters {
		v.Set(fmt.Sprintf("filters[%s]", k), s)
	}
	for i, r := range p.RangedFilters {
		v.Set(fmt.Sprintf("rangedFilters[%d][key]", i), r.Key)
		v.Set(fmt.Sprintf("rangedFilters[%d][start]", i), r.Start)
		v.Set(fmt.Sprintf("rangedFilters[%d][end]", i), r.End)
	}
	if p.OrderKey != "" {
		v.Set("orderKey", p.OrderKey)
		if p.OrderRule != "" {
			v.Set("orderRule", p.OrderRule)
		}
	}

	return v
}

// ParsePageRequest reads a request back from query parameters.
func ParsePageRequest(v url.Values) (PageRequest, error) {
	var p PageRequest
	var err error

	if s := v.Get("page"); s != "" {
		if p.Page, err = strconv.Atoi(s); err != nil {
			return p, fmt.Errorf("invalid page %q: %w", s, err)
		}
	}
	if s := v.Get("rows"); s != "" {
		if p.Rows, err = strconv.Atoi(s); err != nil {
			return p, fmt.Errorf("invalid rows %q: %w", s, err)
		}
	}
	p.OrderKey = v.Get("orderKey")
	p.OrderRule = v.Get("orderRule")
	switch p.OrderRule {
	case "", OrderAsc, OrderDesc:
	default:
		return p, fmt.Errorf("invalid orderRule %q", p.OrderRule)
	}

	ranged := make(map[int]*RangedFilter)
	for key := range v {
		val := v.Get(key)
		if m := searchRX.FindStringSubmatch(key); m != nil {
			if p.SearchFilters == nil {
				p.SearchFilters = make(map[string]string)
			}
			p.SearchFilters[m[1]] = val
			continue
		}
		if m := filterRX.FindStringSubmatch(key); m != nil {
			if p.Filters == nil {
				p.Filters = make(map[string]string)
			}
			p.Filters[m[1]] = val
			continue
		}
		if m := rangedRX.FindStringSubmatch(key); m != nil {
			i, _ := strconv.Atoi(m[1])
			r, ok := ranged[i]
			if !ok {
				r = new(RangedFilter)
				ranged[i] = r
			}
			switch m[2] {
			case "key":
				r.Key = val
			case "start":
				r.Start = val
			case "end":
				r.End = val
			}
		}
	}
	idx := make([]int, 0, len(ranged))
	for i := range ranged {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	for _, i := range idx {
		p.RangedFilters = append(p.RangedFilters, *ranged[i])
	}

	return p, nil
}

// Query maps the request back to a table query.
func (p PageRequest) Query() model.Query {
	q := model.Query{
		Page:     p.Page,
		PageSize: p.Rows,
		Filters:  make(map[string]string, len(p.Filters)),
	}
	for k, v := range p.Filters {
		q.Filters[k] = v
	}
	for _, s := range p.SearchFilters {
		q.Search = s
		break
	}
	if p.OrderKey != "" {
		dir := model1.SortAsc
		if p.OrderRule == OrderDesc {
			dir = model1.SortDesc
		}
		q.Sort = q.Sort.Set(p.OrderKey, dir)
	}

	return q
}
