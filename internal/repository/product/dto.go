package product

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"

	domprod "github.com/kailas-cloud/storefront/internal/domain/product"
)

// Hash field names.
const (
	fieldID      = "id"
	fieldImageID = "imageId"
	fieldName    = "name"
	fieldSize    = "size"
	fieldColor   = "color"
	fieldPrice   = "price"
	fieldVector  = "vector"
)

var metadataFields = []string{fieldID, fieldImageID, fieldName, fieldSize, fieldColor, fieldPrice}

func toHash(p domprod.Product, vector []float32) map[string]string {
	return map[string]string{
		fieldID:      p.ID,
		fieldImageID: p.ImageID,
		fieldName:    p.Name,
		fieldSize:    string(p.Size),
		fieldColor:   string(p.Color),
		fieldPrice:   strconv.FormatFloat(p.Price, 'f', -1, 64),
		fieldVector:  vectorToBytes(vector),
	}
}

func fromHash(fields map[string]string) (domprod.Product, error) {
	p := domprod.Product{
		ID:      fields[fieldID],
		ImageID: fields[fieldImageID],
		Name:    fields[fieldName],
		Size:    domprod.Size(fields[fieldSize]),
		Color:   domprod.Color(fields[fieldColor]),
	}
	if raw, ok := fields[fieldPrice]; ok {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return domprod.Product{}, fmt.Errorf("parse price %q: %w", raw, err)
		}
		p.Price = price
	}
	return p, nil
}

func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
