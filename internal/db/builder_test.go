package db

import (
	"errors"
	"strings"
	"testing"
)

func TestIndexBuilder_ProductSchema(t *testing.T) {
	idx := NewIndex("storefront:products:idx").
		Prefix("storefront:product:").
		Tag("color").
		Tag("size").
		Numeric("price").
		VectorFlat("vector", 3, DistanceL2).
		MustBuild()

	if idx.StorageType != StorageHash {
		t.Errorf("storage = %q, want HASH", idx.StorageType)
	}
	if len(idx.Fields) != 4 {
		t.Fatalf("fields count = %d, want 4", len(idx.Fields))
	}
	if idx.Fields[0].Type != IndexFieldTag || !idx.Fields[0].TagCaseSensitive {
		t.Errorf("field[0] = %+v, want case-sensitive TAG", idx.Fields[0])
	}
	if idx.Fields[2].Name != "price" || idx.Fields[2].Type != IndexFieldNumeric {
		t.Errorf("field[2] = %+v, want price NUMERIC", idx.Fields[2])
	}

	vf, ok := idx.VectorField()
	if !ok {
		t.Fatal("VectorField() not found")
	}
	if vf.VectorAlgo != VectorFlat || vf.VectorDim != 3 || vf.VectorDistance != DistanceL2 {
		t.Errorf("vector field = %+v", vf)
	}
}

func TestIndexDefinition_VectorFieldMissing(t *testing.T) {
	idx := NewIndex("idx").Tag("x").MustBuild()
	if _, ok := idx.VectorField(); ok {
		t.Error("expected no vector field")
	}
}

func TestIndexBuilder_MultiplePrefixes(t *testing.T) {
	idx := NewIndex("multi-idx").
		Prefix("a:", "b:", "c:").
		Tag("x").
		MustBuild()

	if len(idx.Prefixes) != 3 {
		t.Errorf("prefix count = %d, want 3", len(idx.Prefixes))
	}
}

func TestIndexBuilder_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		builder func() (*IndexDefinition, error)
		wantErr string
	}{
		{
			name: "empty name",
			builder: func() (*IndexDefinition, error) {
				return NewIndex("").Tag("x").Build()
			},
			wantErr: "index name is required",
		},
		{
			name: "no fields",
			builder: func() (*IndexDefinition, error) {
				return NewIndex("idx").Build()
			},
			wantErr: "at least one field",
		},
		{
			name: "vector without dim",
			builder: func() (*IndexDefinition, error) {
				return NewIndex("idx").VectorFlat("v", 0, DistanceL2).Build()
			},
			wantErr: "positive DIM",
		},
		{
			name: "invalid characters",
			builder: func() (*IndexDefinition, error) {
				return NewIndex("idx with spaces").Tag("x").Build()
			},
			wantErr: "invalid characters",
		},
		{
			name: "duplicate field",
			builder: func() (*IndexDefinition, error) {
				return NewIndex("idx").Tag("x").Numeric("x").Build()
			},
			wantErr: "duplicate field name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("got error %q, want containing %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestIndexBuilder_MustBuildPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	NewIndex("").MustBuild()
}

func TestIndexDefinition_String(t *testing.T) {
	idx := NewIndex("products").
		Prefix("p:").
		Tag("color").
		VectorFlat("vector", 3, DistanceL2).
		MustBuild()

	want := "FT.CREATE products ON HASH PREFIX 1 p: SCHEMA color TAG vector VECTOR FLAT 3 L2"
	if got := idx.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &Error{Op: OpSearch, Err: cause}

	if err.Error() != "FT.SEARCH: boom" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find cause")
	}
}
