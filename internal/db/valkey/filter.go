package valkey

import (
	"strings"

	"github.com/kailas-cloud/storefront/internal/domain/search/filter"
)

// buildFilter translates a filter expression into an FT.SEARCH pre-filter.
//
// String equality becomes a TAG match, the alternatives of a group are
// joined with `|` and groups are intersected by juxtaposition. Alternatives
// that can never match are dropped: `field = ""` (no stored tag is empty)
// and numeric ranges with min > max. ok is false when that leaves a group
// empty.
func buildFilter(expr filter.Expression) (query string, ok bool) {
	if expr.IsEmpty() {
		return "", true
	}

	parts := make([]string, 0, len(expr.Groups()))
	for _, g := range expr.Groups() {
		alts := make([]string, 0, len(g.Terms()))
		for _, t := range g.Terms() {
			if isEmptySentinel(t) {
				continue
			}
			term, sat := buildTerm(t)
			if !sat {
				continue
			}
			alts = append(alts, term)
		}

		switch len(alts) {
		case 0:
			return "", false
		case 1:
			parts = append(parts, alts[0])
		default:
			parts = append(parts, "("+strings.Join(alts, " | ")+")")
		}
	}

	return strings.Join(parts, " "), true
}

func isEmptySentinel(t filter.Term) bool {
	return len(t) == 1 &&
		!t[0].IsNumeric() &&
		t[0].Op() == filter.Eq &&
		t[0].Str() == ""
}

// numericRange collects the bounds a term places on one numeric field.
type numericRange struct {
	field          string
	min, max       float64
	hasMin, hasMax bool
}

func (r *numericRange) render() string {
	lo, hi := "-inf", "+inf"
	if r.hasMin {
		lo = filter.FormatNumber(r.min)
	}
	if r.hasMax {
		hi = filter.FormatNumber(r.max)
	}
	return "@" + r.field + ":[" + lo + " " + hi + "]"
}

// buildTerm renders a conjunction. Numeric bounds on the same field merge
// into one `@field:[min max]` clause. ok is false when a range is empty
// (min > max); such a term matches nothing.
func buildTerm(t filter.Term) (query string, ok bool) {
	var (
		parts  []string
		ranges []*numericRange
		byName = map[string]*numericRange{}
	)

	for _, c := range t {
		if !c.IsNumeric() {
			parts = append(parts, buildTagFilter(c.Field(), c.Str()))
			continue
		}

		r, found := byName[c.Field()]
		if !found {
			r = &numericRange{field: c.Field()}
			byName[c.Field()] = r
			ranges = append(ranges, r)
		}
		switch c.Op() {
		case filter.Gte:
			r.min, r.hasMin = c.Num(), true
		case filter.Lte:
			r.max, r.hasMax = c.Num(), true
		case filter.Eq:
			r.min, r.hasMin = c.Num(), true
			r.max, r.hasMax = c.Num(), true
		}
	}

	for _, r := range ranges {
		if r.hasMin && r.hasMax && r.min > r.max {
			return "", false
		}
		parts = append(parts, r.render())
	}

	if len(parts) == 1 {
		return parts[0], true
	}
	return "(" + strings.Join(parts, " ") + ")", true
}

func buildTagFilter(key, value string) string {
	return "@" + key + ":{" + tagEscaper.Replace(value) + "}"
}

var tagEscaper = strings.NewReplacer(
	",", "\\,",
	".", "\\.",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	"|", "\\|",
	" ", "\\ ",
)
