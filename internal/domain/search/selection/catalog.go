package selection

import (
	"github.com/kailas-cloud/storefront/internal/domain/product"
	"github.com/kailas-cloud/storefront/internal/domain/search/sort"
)

// DefaultPrice is the price range of a fresh storefront session.
var DefaultPrice = PriceRange{Low: 0, High: 1000}

// PricePreset is a named price range offered next to the custom slider.
type PricePreset struct {
	Label string
	Range PriceRange
}

// PricePresets returns the fixed price options in display order.
func PricePresets() []PricePreset {
	return []PricePreset{
		{Label: "Any Price", Range: DefaultPrice},
		{Label: "Under 200", Range: PriceRange{Low: 0, High: 200}},
		{Label: "Under 500", Range: PriceRange{Low: 0, High: 500}},
	}
}

// Default returns the selection a storefront starts with:
// every color and size, no sort, any price.
func Default() Selection {
	return Selection{
		colors: product.Colors(),
		sizes:  product.Sizes(),
		sort:   sort.None,
		price:  DefaultPrice,
	}
}
