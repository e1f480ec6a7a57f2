package selection

import (
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/storefront/internal/domain"
	"github.com/kailas-cloud/storefront/internal/domain/product"
	"github.com/kailas-cloud/storefront/internal/domain/search/sort"
)

func TestParse_Valid(t *testing.T) {
	raw := `{"filter":{"color":["white","blue"],"size":[],"sort":"none","price":[100,900]}}`

	sel, err := Parse([]byte(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := sel.Colors(); len(got) != 2 || got[0] != product.White || got[1] != product.Blue {
		t.Errorf("Colors() = %v", got)
	}
	if len(sel.Sizes()) != 0 {
		t.Errorf("Sizes() = %v, want empty", sel.Sizes())
	}
	if sel.Sort() != sort.None {
		t.Errorf("Sort() = %q", sel.Sort())
	}
	if sel.Price() != (PriceRange{Low: 100, High: 900}) {
		t.Errorf("Price() = %+v", sel.Price())
	}
}

func TestParse_InvertedPriceIsKept(t *testing.T) {
	raw := `{"filter":{"color":[],"size":["M"],"sort":"price-asc","price":[800,200]}}`

	sel, err := Parse([]byte(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sel.Price() != (PriceRange{Low: 800, High: 200}) {
		t.Errorf("Price() = %+v, want bounds unchanged", sel.Price())
	}
}

func TestParse_FractionalPrice(t *testing.T) {
	raw := `{"filter":{"color":[],"size":[],"sort":"none","price":[0.5,99.99]}}`

	sel, err := Parse([]byte(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sel.Price().High != 99.99 {
		t.Errorf("High = %v", sel.Price().High)
	}
}

func TestParse_UnknownFieldsIgnored(t *testing.T) {
	raw := `{"filter":{"color":[],"size":[],"sort":"none","price":[0,1],"extra":true},"page":2}`

	if _, err := Parse([]byte(raw)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{"filter":`},
		{"empty body", ``},
		{"missing filter", `{}`},
		{"filter not object", `{"filter":[]}`},
		{"invalid sort", `{"filter":{"color":[],"size":[],"sort":"invalid","price":[0,500]}}`},
		{"missing sort", `{"filter":{"color":[],"size":[],"price":[0,500]}}`},
		{"unknown color", `{"filter":{"color":["red"],"size":[],"sort":"none","price":[0,500]}}`},
		{"unknown size", `{"filter":{"color":[],"size":["XL"],"sort":"none","price":[0,500]}}`},
		{"color not array", `{"filter":{"color":"white","size":[],"sort":"none","price":[0,500]}}`},
		{"color null", `{"filter":{"color":null,"size":[],"sort":"none","price":[0,500]}}`},
		{"missing size", `{"filter":{"color":[],"sort":"none","price":[0,500]}}`},
		{"price one bound", `{"filter":{"color":[],"size":[],"sort":"none","price":[0]}}`},
		{"price three bounds", `{"filter":{"color":[],"size":[],"sort":"none","price":[0,1,2]}}`},
		{"price string bound", `{"filter":{"color":[],"size":[],"sort":"none","price":["0",500]}}`},
		{"missing price", `{"filter":{"color":[],"size":[],"sort":"none"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.raw))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, domain.ErrValidationFailed) {
				t.Errorf("expected ErrValidationFailed, got %v", err)
			}
		})
	}
}

func TestParse_ReportsEveryViolation(t *testing.T) {
	raw := `{"filter":{"color":["red"],"size":["XL"],"sort":"invalid","price":[0,500]}}`

	_, err := Parse([]byte(raw))
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *domain.ValidationError, got %v", err)
	}
	if len(ve.Details) < 3 {
		t.Errorf("Details = %v, want at least 3 violations", ve.Details)
	}
}

func TestNew_Validation(t *testing.T) {
	_, err := New([]product.Color{"red"}, []product.Size{"XXL"}, "random", PriceRange{})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *domain.ValidationError, got %v", err)
	}
	if len(ve.Details) != 3 {
		t.Fatalf("Details = %v, want 3", ve.Details)
	}
	if !strings.Contains(ve.Details[0], "color[0]") {
		t.Errorf("Details[0] = %q", ve.Details[0])
	}
}

func TestNew_DuplicatesKept(t *testing.T) {
	sel, err := New([]product.Color{product.Blue, product.Blue}, nil, sort.None, PriceRange{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sel.Colors()) != 2 {
		t.Errorf("Colors() = %v, want duplicates kept", sel.Colors())
	}
}

func TestDefault(t *testing.T) {
	sel := Default()
	if len(sel.Colors()) != len(product.Colors()) {
		t.Errorf("Colors() = %v", sel.Colors())
	}
	if len(sel.Sizes()) != len(product.Sizes()) {
		t.Errorf("Sizes() = %v", sel.Sizes())
	}
	if sel.Sort() != sort.None {
		t.Errorf("Sort() = %q", sel.Sort())
	}
	if sel.Price() != DefaultPrice {
		t.Errorf("Price() = %+v", sel.Price())
	}
}

func TestPricePresets(t *testing.T) {
	presets := PricePresets()
	if len(presets) != 3 {
		t.Fatalf("len = %d", len(presets))
	}
	if presets[0].Range != DefaultPrice {
		t.Errorf("first preset = %+v, want default range", presets[0])
	}
	if presets[2].Range.High != 500 {
		t.Errorf("last preset = %+v", presets[2])
	}
}
