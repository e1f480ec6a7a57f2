package sort

// Sort is the requested result ordering.
type Sort string

// Sort constants.
const (
	None      Sort = "none"
	PriceAsc  Sort = "price-asc"
	PriceDesc Sort = "price-desc"
)

// Ranking coordinates on the price axis. The index stores each product at
// [0, 0, price], so nearest neighbours of these points come back roughly in
// price order.
const (
	AvgSortPrice = 300
	MaxSortPrice = 1000
)

// All returns every supported sort in display order.
func All() []Sort {
	return []Sort{None, PriceAsc, PriceDesc}
}

// IsValid checks if the sort is one of the supported values.
func (s Sort) IsValid() bool {
	return s == None || s == PriceAsc || s == PriceDesc
}

// Label returns the storefront display name.
func (s Sort) Label() string {
	switch s {
	case None:
		return "None"
	case PriceAsc:
		return "Price: Low to High"
	case PriceDesc:
		return "Price: High to Low"
	default:
		return string(s)
	}
}

// Vector returns the synthetic ranking vector [0, 0, y] for the sort.
// An unknown sort falls back to the neutral coordinate; callers validate first.
func (s Sort) Vector() []float32 {
	switch s {
	case PriceAsc:
		return []float32{0, 0, 0}
	case PriceDesc:
		return []float32{0, 0, MaxSortPrice}
	default:
		return []float32{0, 0, AvgSortPrice}
	}
}
