package selection

import (
	"fmt"

	"github.com/kailas-cloud/storefront/internal/domain"
	"github.com/kailas-cloud/storefront/internal/domain/product"
	"github.com/kailas-cloud/storefront/internal/domain/search/sort"
)

// PriceRange is the [Low, High] price bound pair as sent by the client.
// No ordering is enforced: Low > High is passed through unchanged.
type PriceRange struct {
	Low  float64
	High float64
}

// Selection is a validated storefront filter selection.
type Selection struct {
	colors []product.Color
	sizes  []product.Size
	sort   sort.Sort
	price  PriceRange
}

// New validates a filter selection. Every violation is reported in a single
// *domain.ValidationError; nothing is partially accepted.
// Empty color or size sets are valid and mean "match no product".
func New(colors []product.Color, sizes []product.Size, s sort.Sort, price PriceRange) (Selection, error) {
	var details []string

	for i, c := range colors {
		if !c.IsValid() {
			details = append(details, fmt.Sprintf("color[%d]: unknown color %q", i, c))
		}
	}
	for i, sz := range sizes {
		if !sz.IsValid() {
			details = append(details, fmt.Sprintf("size[%d]: unknown size %q", i, sz))
		}
	}
	if !s.IsValid() {
		details = append(details, fmt.Sprintf("sort: unknown sort %q", s))
	}

	if len(details) > 0 {
		return Selection{}, domain.NewValidationError(details...)
	}

	return Selection{
		colors: colors,
		sizes:  sizes,
		sort:   s,
		price:  price,
	}, nil
}

// Colors returns the selected colors in request order.
func (s *Selection) Colors() []product.Color { return s.colors }

// Sizes returns the selected sizes in request order.
func (s *Selection) Sizes() []product.Size { return s.sizes }

// Sort returns the requested ordering.
func (s *Selection) Sort() sort.Sort { return s.sort }

// Price returns the requested price bounds.
func (s *Selection) Price() PriceRange { return s.price }
