package seed

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"

	"github.com/kailas-cloud/storefront/internal/domain/product"
	"github.com/kailas-cloud/storefront/internal/domain/search/sort"
)

// productNamespace scopes the name-based UUIDs of generated products, so the
// same seed always yields the same ids and re-seeding overwrites in place.
var productNamespace = uuid.MustParse("6f1c7a52-3c1e-4d8e-9a57-0b6a0f9d1e21")

var (
	materials = []string{"Cotton", "Linen", "Wool", "Organic", "Relaxed", "Classic"}
	garments  = []string{"Tee", "Shirt", "Hoodie", "Sweater", "Polo", "Tank"}
)

// Catalog generates count products deterministically from seed. Colors and
// sizes are spread evenly; prices are whole numbers in [10, 999] so every
// price preset has stock.
func Catalog(count int, seed uint64) []product.Product {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	colors := product.Colors()
	sizes := product.Sizes()

	out := make([]product.Product, count)
	for i := range out {
		color := colors[i%len(colors)]
		size := sizes[(i/len(colors))%len(sizes)]
		garment := garments[rng.IntN(len(garments))]
		material := materials[rng.IntN(len(materials))]

		out[i] = product.Product{
			ID:      uuid.NewSHA1(productNamespace, fmt.Appendf(nil, "%d/%d", seed, i)).String(),
			ImageID: fmt.Sprintf("/thumbnails/%s-%s-%d.png", color, strings.ToLower(garment), i%4+1),
			Name:    fmt.Sprintf("%s %s %s", color.Label(), material, garment),
			Size:    size,
			Color:   color,
			Price:   float64(10 + rng.IntN(990)),
		}
	}
	return out
}

// Vector places a product on the price axis, matching sort.Vector.
func Vector(p product.Product) []float32 {
	price := math.Min(math.Max(p.Price, 0), sort.MaxSortPrice)
	return []float32{0, 0, float32(price)}
}
