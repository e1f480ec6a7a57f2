package product

// Color is a product color token.
type Color string

// Supported colors, in catalog order.
const (
	White  Color = "white"
	Beige  Color = "beige"
	Blue   Color = "blue"
	Green  Color = "green"
	Purple Color = "purple"
)

// Colors returns every supported color in catalog order.
func Colors() []Color {
	return []Color{White, Beige, Blue, Green, Purple}
}

// IsValid checks if the color is one of the supported values.
func (c Color) IsValid() bool {
	return c == White || c == Beige || c == Blue || c == Green || c == Purple
}

// Label returns the storefront display name.
func (c Color) Label() string {
	switch c {
	case White:
		return "White"
	case Beige:
		return "Beige"
	case Blue:
		return "Blue"
	case Green:
		return "Green"
	case Purple:
		return "Purple"
	default:
		return string(c)
	}
}

// Size is a product size token.
type Size string

// Supported sizes.
const (
	Small  Size = "S"
	Medium Size = "M"
	Large  Size = "L"
)

// Sizes returns every supported size.
func Sizes() []Size {
	return []Size{Small, Medium, Large}
}

// IsValid checks if the size is one of the supported values.
func (s Size) IsValid() bool {
	return s == Small || s == Medium || s == Large
}

// Label returns the storefront display name; sizes show as their token.
func (s Size) Label() string { return string(s) }

// Product is the record stored as metadata next to each vector in the index.
type Product struct {
	ID      string  `json:"id"`
	ImageID string  `json:"imageId"`
	Name    string  `json:"name"`
	Size    Size    `json:"size"`
	Color   Color   `json:"color"`
	Price   float64 `json:"price"`
}
