package filter

import (
	"strconv"
	"strings"

	"github.com/kailas-cloud/storefront/internal/domain/search/selection"
)

// Filterable product fields.
const (
	FieldColor = "color"
	FieldSize  = "size"
	FieldPrice = "price"
)

// Op is a comparison operator understood by the index filter syntax.
type Op string

// Supported operators.
const (
	Eq  Op = "="
	Gte Op = ">="
	Lte Op = "<="
)

// Comparison is a single `field op value` predicate.
type Comparison struct {
	field   string
	op      Op
	str     string
	num     float64
	numeric bool
}

// StringComparison compares a field against a string literal. The literal is
// always quoted when rendered.
func StringComparison(field string, op Op, value string) Comparison {
	return Comparison{field: field, op: op, str: value}
}

// NumberComparison compares a field against a numeric literal.
func NumberComparison(field string, op Op, value float64) Comparison {
	return Comparison{field: field, op: op, num: value, numeric: true}
}

// Field returns the compared field name.
func (c Comparison) Field() string { return c.field }

// Op returns the comparison operator.
func (c Comparison) Op() Op { return c.op }

// Str returns the string operand (empty for numeric comparisons).
func (c Comparison) Str() string { return c.str }

// Num returns the numeric operand (zero for string comparisons).
func (c Comparison) Num() float64 { return c.num }

// IsNumeric reports whether the operand is a number.
func (c Comparison) IsNumeric() bool { return c.numeric }

// Render returns the comparison in index filter syntax, e.g. `color = "white"`.
func (c Comparison) Render() string {
	if c.numeric {
		return c.field + " " + string(c.op) + " " + FormatNumber(c.num)
	}
	return c.field + " " + string(c.op) + ` "` + literalEscaper.Replace(c.str) + `"`
}

// Term is a conjunction of comparisons, one alternative inside a Group.
type Term []Comparison

// Render joins the comparisons with AND.
func (t Term) Render() string {
	parts := make([]string, len(t))
	for i, c := range t {
		parts[i] = c.Render()
	}
	return strings.Join(parts, " AND ")
}

// Group holds the OR'd alternatives for one field.
type Group struct {
	field string
	terms []Term
}

// Field returns the field the group filters on.
func (g Group) Field() string { return g.field }

// Terms returns the alternatives in insertion order.
func (g Group) Terms() []Term { return g.terms }

// Render wraps the OR-joined alternatives in parentheses.
func (g Group) Render() string {
	parts := make([]string, len(g.terms))
	for i, t := range g.terms {
		parts[i] = t.Render()
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

// Expression is an immutable AND-chain of per-field groups.
type Expression struct {
	groups []Group
}

// Groups returns the field groups in the order they were first added.
func (e Expression) Groups() []Group { return e.groups }

// IsEmpty reports whether the expression has no groups. An empty expression
// must not be sent to the index at all.
func (e Expression) IsEmpty() bool { return len(e.groups) == 0 }

// Render returns the filter string, e.g.
// `(color = "white" OR color = "blue") AND (size = "") AND (price >= 0 AND price <= 500)`.
// Returns "" for an empty expression.
func (e Expression) Render() string {
	parts := make([]string, len(e.groups))
	for i, g := range e.groups {
		parts[i] = g.Render()
	}
	return strings.Join(parts, " AND ")
}

// String implements fmt.Stringer.
func (e Expression) String() string { return e.Render() }

// Build renders a selection into a filter expression.
//
// An empty color or size set becomes `field = ""`, which no stored product
// matches, so "nothing selected" yields zero results instead of "no filter".
// The price range is always present and is not reordered when low > high.
// Group order is color, size, price.
func Build(sel selection.Selection) Expression {
	b := newBuilder()

	if colors := sel.Colors(); len(colors) > 0 {
		for _, c := range colors {
			b.add(FieldColor, Eq, string(c))
		}
	} else {
		b.addRaw(FieldColor, Term{StringComparison(FieldColor, Eq, "")})
	}

	if sizes := sel.Sizes(); len(sizes) > 0 {
		for _, s := range sizes {
			b.add(FieldSize, Eq, string(s))
		}
	} else {
		b.addRaw(FieldSize, Term{StringComparison(FieldSize, Eq, "")})
	}

	price := sel.Price()
	b.addRaw(FieldPrice, Term{
		NumberComparison(FieldPrice, Gte, price.Low),
		NumberComparison(FieldPrice, Lte, price.High),
	})

	if !b.hasFilters() {
		return Expression{}
	}
	return b.expression()
}

// builder accumulates groups for a single Build call.
type builder struct {
	order  []string
	groups map[string][]Term
}

func newBuilder() *builder {
	return &builder{groups: make(map[string][]Term)}
}

// add appends `field op "value"` as another alternative for field.
func (b *builder) add(field string, op Op, value string) {
	if _, ok := b.groups[field]; !ok {
		b.order = append(b.order, field)
	}
	b.groups[field] = append(b.groups[field], Term{StringComparison(field, op, value)})
}

// addRaw replaces the whole group for field with a single term.
// The field keeps its original position if it was already present.
func (b *builder) addRaw(field string, term Term) {
	if _, ok := b.groups[field]; !ok {
		b.order = append(b.order, field)
	}
	b.groups[field] = []Term{term}
}

func (b *builder) hasFilters() bool {
	return len(b.order) > 0
}

func (b *builder) expression() Expression {
	groups := make([]Group, len(b.order))
	for i, field := range b.order {
		groups[i] = Group{field: field, terms: b.groups[field]}
	}
	return Expression{groups: groups}
}

// FormatNumber renders a number in its shortest decimal form: 0, 500, 99.5.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var literalEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)
