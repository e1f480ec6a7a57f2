package chi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/storefront/internal/domain"
	"github.com/kailas-cloud/storefront/internal/domain/product"
	"github.com/kailas-cloud/storefront/internal/domain/search/selection"
	"github.com/kailas-cloud/storefront/internal/domain/search/sort"
	logpkg "github.com/kailas-cloud/storefront/internal/logger"
	healthuc "github.com/kailas-cloud/storefront/internal/usecase/health"
	productsuc "github.com/kailas-cloud/storefront/internal/usecase/products"
)

// maxBodyBytes caps the product query payload.
const maxBodyBytes = 64 << 10

// Error codes returned in the "code" field.
const (
	codeValidationFailed = "validation_failed"
	codeUpstreamFailed   = "upstream_failed"
	codeRateLimited      = "rate_limited"
	codeUnauthorized     = "unauthorized"
	codeNotFound         = "not_found"
	codeMethodNotAllowed = "method_not_allowed"
)

const internalErrorMessage = "Internal Server error"

type errorResponse struct {
	Message string   `json:"message"`
	Code    string   `json:"code,omitempty"`
	Details []string `json:"details,omitempty"`
}

// Server serves the storefront API.
type Server struct {
	products     *productsuc.Service
	health       *healthuc.Service
	legacyErrors bool
}

// NewServer creates an HTTP API server. With legacyErrors every product
// query failure is reported as a bare 500.
func NewServer(products *productsuc.Service, health *healthuc.Service, legacyErrors bool) *Server {
	return &Server{
		products:     products,
		health:       health,
		legacyErrors: legacyErrors,
	}
}

// QueryProducts handles POST /api/products.
func (s *Server) QueryProducts(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.handleError(w, r, domain.NewValidationError("request body could not be read"))
		return
	}

	matches, err := s.products.Query(r.Context(), raw)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, matches)
}

type option[T ~string] struct {
	Value T      `json:"value"`
	Label string `json:"label"`
}

type labeled interface {
	~string
	Label() string
}

func options[T labeled](values []T) []option[T] {
	out := make([]option[T], len(values))
	for i, v := range values {
		out[i] = option[T]{Value: v, Label: v.Label()}
	}
	return out
}

type pricePreset struct {
	Label string     `json:"label"`
	Range [2]float64 `json:"range"`
}

type filterPayload struct {
	Color []product.Color `json:"color"`
	Size  []product.Size  `json:"size"`
	Sort  sort.Sort       `json:"sort"`
	Price [2]float64      `json:"price"`
}

type filtersResponse struct {
	Colors       []option[product.Color] `json:"colors"`
	Sizes        []option[product.Size]  `json:"sizes"`
	Sorts        []option[sort.Sort]     `json:"sorts"`
	PricePresets []pricePreset           `json:"pricePresets"`
	Default      filterPayload           `json:"default"`
}

// ListFilters handles GET /api/products/filters.
func (s *Server) ListFilters(w http.ResponseWriter, _ *http.Request) {
	presets := selection.PricePresets()
	presetItems := make([]pricePreset, len(presets))
	for i, p := range presets {
		presetItems[i] = pricePreset{Label: p.Label, Range: [2]float64{p.Range.Low, p.Range.High}}
	}

	def := selection.Default()
	writeJSON(w, http.StatusOK, filtersResponse{
		Colors:       options(product.Colors()),
		Sizes:        options(product.Sizes()),
		Sorts:        options(sort.All()),
		PricePresets: presetItems,
		Default: filterPayload{
			Color: def.Colors(),
			Size:  def.Sizes(),
			Sort:  def.Sort(),
			Price: [2]float64{def.Price().Low, def.Price().High},
		},
	})
}

type healthResponse struct {
	Status healthuc.Status                 `json:"status"`
	Checks map[string]healthuc.CheckResult `json:"checks"`
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: report.Status,
		Checks: report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// handleError maps a domain error to a response. Causes are logged, never
// sent to the client.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContext(r.Context())

	if s.legacyErrors {
		log.Error("Product query failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: internalErrorMessage})
		return
	}

	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		log.Info("Invalid product query", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Message: "Invalid filter",
			Code:    codeValidationFailed,
			Details: ve.Details,
		})
	case errors.Is(err, domain.ErrValidationFailed):
		log.Info("Invalid product query", zap.Error(err))
		writeError(w, http.StatusBadRequest, codeValidationFailed, "Invalid filter")
	case errors.Is(err, domain.ErrUpstreamFailed):
		log.Warn("Product index failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, codeUpstreamFailed, "Upstream index error")
	default:
		log.Error("Internal error", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: internalErrorMessage})
	}
}
