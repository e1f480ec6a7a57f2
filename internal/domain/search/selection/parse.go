package selection

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"github.com/kailas-cloud/storefront/internal/domain"
	"github.com/kailas-cloud/storefront/internal/domain/product"
	"github.com/kailas-cloud/storefront/internal/domain/search/sort"
)

// payload mirrors the request body: {"filter": {...}}.
type payload struct {
	Filter struct {
		Color []product.Color `json:"color"`
		Size  []product.Size  `json:"size"`
		Sort  sort.Sort       `json:"sort"`
		Price []float64       `json:"price"`
	} `json:"filter"`
}

var requestSchema = mustCompileSchema()

// Parse validates a raw request body against the filter schema and returns
// the typed selection. Structural and enum violations both yield a
// *domain.ValidationError.
func Parse(raw []byte) (Selection, error) {
	res, err := requestSchema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		// Not JSON at all.
		return Selection{}, domain.NewValidationError("body: " + err.Error())
	}
	if !res.Valid() {
		details := make([]string, len(res.Errors()))
		for i, e := range res.Errors() {
			details[i] = e.String()
		}
		return Selection{}, domain.NewValidationError(details...)
	}

	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return Selection{}, domain.NewValidationError(fmt.Sprintf("body: %v", err))
	}

	// minItems/maxItems in the schema guarantee exactly two bounds.
	price := PriceRange{Low: p.Filter.Price[0], High: p.Filter.Price[1]}

	return New(p.Filter.Color, p.Filter.Size, p.Filter.Sort, price)
}

// Schema returns the JSON Schema the request body is validated against.
func Schema() map[string]any {
	colors := make([]any, 0, len(product.Colors()))
	for _, c := range product.Colors() {
		colors = append(colors, string(c))
	}
	sizes := make([]any, 0, len(product.Sizes()))
	for _, s := range product.Sizes() {
		sizes = append(sizes, string(s))
	}
	sorts := make([]any, 0, len(sort.All()))
	for _, s := range sort.All() {
		sorts = append(sorts, string(s))
	}

	return map[string]any{
		"$schema":  "http://json-schema.org/draft-07/schema#",
		"type":     "object",
		"required": []any{"filter"},
		"properties": map[string]any{
			"filter": map[string]any{
				"type":     "object",
				"required": []any{"color", "size", "sort", "price"},
				"properties": map[string]any{
					"color": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string", "enum": colors},
					},
					"size": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string", "enum": sizes},
					},
					"sort": map[string]any{
						"type": "string",
						"enum": sorts,
					},
					"price": map[string]any{
						"type":     "array",
						"items":    map[string]any{"type": "number"},
						"minItems": 2,
						"maxItems": 2,
					},
				},
			},
		},
	}
}

func mustCompileSchema() *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(Schema()))
	if err != nil {
		panic("selection: compile request schema: " + err.Error())
	}
	return s
}
