package upstash

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kailas-cloud/storefront/internal/domain/product"
	"github.com/kailas-cloud/storefront/internal/domain/search/filter"
	"github.com/kailas-cloud/storefront/internal/domain/search/selection"
	"github.com/kailas-cloud/storefront/internal/domain/search/sort"
	"github.com/kailas-cloud/storefront/internal/index"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{URL: srv.URL + "/", Token: "secret"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestNewClient_Validation(t *testing.T) {
	if _, err := NewClient(Config{Token: "t"}); err == nil {
		t.Error("expected error for missing url")
	}
	if _, err := NewClient(Config{URL: "http://x"}); err == nil {
		t.Error("expected error for missing token")
	}
}

func TestQuery_SendsContractAndDecodesMatches(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/query" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer secret" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		_, _ = w.Write([]byte(`{"result":[{"id":"p1","score":0.98,"metadata":` +
			`{"id":"p1","imageId":"img-1","name":"Tee","size":"M","color":"blue","price":120}}]}`))
	})

	sel, err := selection.New(nil, []product.Size{product.Medium}, sort.PriceAsc, selection.PriceRange{Low: 0, High: 500})
	if err != nil {
		t.Fatal(err)
	}
	matches, err := c.Query(context.Background(), index.Query{
		TopK:            12,
		Vector:          sort.PriceAsc.Vector(),
		IncludeMetadata: true,
		Filter:          filter.Build(sel),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got["topK"] != float64(12) || got["includeMetadata"] != true {
		t.Errorf("body = %v", got)
	}
	if got["filter"] != `(color = "") AND (size = "M") AND (price >= 0 AND price <= 500)` {
		t.Errorf("filter = %v", got["filter"])
	}
	vec, _ := got["vector"].([]any)
	if len(vec) != 3 || vec[2] != float64(0) {
		t.Errorf("vector = %v", got["vector"])
	}

	if len(matches) != 1 {
		t.Fatalf("matches = %d", len(matches))
	}
	m := matches[0]
	if m.ID != "p1" || m.Score != 0.98 || m.Metadata.Color != product.Blue || m.Metadata.Price != 120 {
		t.Errorf("match = %+v", m)
	}
}

func TestQuery_OmitsEmptyFilter(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if _, ok := body["filter"]; ok {
			t.Errorf("filter must be omitted, body = %v", body)
		}
		_, _ = w.Write([]byte(`{"result":[]}`))
	})

	matches, err := c.Query(context.Background(), index.Query{TopK: 12, Vector: []float32{0, 0, 300}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if matches == nil || len(matches) != 0 {
		t.Errorf("matches = %#v, want empty non-nil", matches)
	}
}

func TestQuery_NullResultIsEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"result":null}`))
	})

	matches, err := c.Query(context.Background(), index.Query{TopK: 1, Vector: []float32{1}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if matches == nil {
		t.Error("expected non-nil empty slice")
	}
}

func TestQuery_ErrorStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Unauthorized: Invalid auth token","status":401}`))
	})

	_, err := c.Query(context.Background(), index.Query{TopK: 12, Vector: []float32{0, 0, 300}})
	var se *index.StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected *index.StatusError, got %v", err)
	}
	if se.Code != http.StatusUnauthorized || se.Message != "Unauthorized: Invalid auth token" {
		t.Errorf("status error = %+v", se)
	}
}

func TestQuery_PlainTextError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})

	_, err := c.Query(context.Background(), index.Query{TopK: 1, Vector: []float32{1}})
	var se *index.StatusError
	if !errors.As(err, &se) || se.Message != "bad gateway" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestQuery_MalformedBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"result":`))
	})

	if _, err := c.Query(context.Background(), index.Query{TopK: 1, Vector: []float32{1}}); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestQuery_ContextDeadline(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
		_, _ = w.Write([]byte(`{"result":[]}`))
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Query(ctx, index.Query{TopK: 1, Vector: []float32{1}})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestUpsert(t *testing.T) {
	var got []map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/upsert" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"result":"Success"}`))
	})

	err := c.Upsert(context.Background(), []index.Record{{
		ID:       "p1",
		Vector:   []float32{0, 0, 120},
		Metadata: product.Product{ID: "p1", Name: "Tee", Color: product.Blue, Size: product.Small, Price: 120},
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0]["id"] != "p1" {
		t.Fatalf("body = %v", got)
	}
	meta, _ := got[0]["metadata"].(map[string]any)
	if meta["color"] != "blue" || meta["size"] != "S" {
		t.Errorf("metadata = %v", meta)
	}
}

func TestUpsert_EmptyIsNoop(t *testing.T) {
	c := newTestClient(t, func(http.ResponseWriter, *http.Request) {
		t.Error("unexpected request")
	})
	if err := c.Upsert(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPing(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/info" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"result":{"vectorCount":42,"dimension":3}}`))
	})
	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRateLimiter_WaitHonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"result":{}}`))
	}))
	defer srv.Close()

	c, err := NewClient(Config{URL: srv.URL, Token: "t", RateLimit: 0.001, RateBurst: 1})
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("first ping uses the burst: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := c.Ping(ctx); err == nil {
		t.Fatal("expected limiter error")
	}
}

func TestErrorMessage(t *testing.T) {
	if got := errorMessage([]byte(`{"error":"boom"}`)); got != "boom" {
		t.Errorf("errorMessage(json) = %q", got)
	}
	if got := errorMessage([]byte("  plain\n")); got != "plain" {
		t.Errorf("errorMessage(text) = %q", got)
	}
}
