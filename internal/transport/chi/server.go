// Package chi is the HTTP transport: hand-written handlers over the chi
// router, mapping domain sentinels onto HTTP statuses.
package chi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/atelier-cloud/curator/internal/config"
	"github.com/atelier-cloud/curator/internal/domain"
	domcat "github.com/atelier-cloud/curator/internal/domain/catalog"
	domsearch "github.com/atelier-cloud/curator/internal/domain/search"
	"github.com/atelier-cloud/curator/internal/domain/taste"
	cataloguc "github.com/atelier-cloud/curator/internal/usecase/catalog"
	healthuc "github.com/atelier-cloud/curator/internal/usecase/health"
	imagesearchuc "github.com/atelier-cloud/curator/internal/usecase/imagesearch"
	preferenceuc "github.com/atelier-cloud/curator/internal/usecase/preference"
	searchuc "github.com/atelier-cloud/curator/internal/usecase/search"
)

// Error codes returned in JSON error bodies.
type errorCode string

const (
	codeBadRequest       errorCode = "bad_request"
	codeValidationFailed errorCode = "validation_failed"
	codeArtworkNotFound  errorCode = "artwork_not_found"
	codeProfileNotFound  errorCode = "profile_not_found"
	codeInvalidImage     errorCode = "invalid_image"
	codeStoreUnavailable errorCode = "store_unavailable"
	codeInternalError    errorCode = "internal_error"
)

type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the search and personalization API.
type Server struct {
	search        *searchuc.Service
	imageSearch   *imagesearchuc.Service
	preference    *preferenceuc.Service
	catalog       *cataloguc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	maxUpload     int64
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	imageSearch *imagesearchuc.Service,
	preference *preferenceuc.Service,
	catalog *cataloguc.Service,
	health *healthuc.Service,
	cfg config.ImageSearchConfig,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:      search,
		imageSearch: imageSearch,
		preference:  preference,
		catalog:     catalog,
		health:      health,
		logger:      logger,
		maxUpload:   cfg.MaxUploadBytes,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrArtworkNotFound, http.StatusNotFound, codeArtworkNotFound),
		sentinelHandler(domain.ErrProfileNotFound, http.StatusNotFound, codeProfileNotFound),
		sentinelHandler(domain.ErrInvalidInteraction, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrInvalidEntity, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrInvalidFilter, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrInvalidImage, http.StatusBadRequest, codeInvalidImage),
		sentinelHandler(domain.ErrStoreUnavailable, http.StatusServiceUnavailable, codeStoreUnavailable),
	}
	return s
}

// Register mounts all routes on the router.
func (s *Server) Register(r chi.Router) {
	r.Get("/healthz", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/search", s.Search)
		r.Post("/search/image", s.SearchByImage)
		r.Post("/interactions", s.RecordInteraction)

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/recommendations", s.Recommendations)
			r.Get("/intent/{artworkID}", s.PurchaseIntent)
			r.Get("/taste", s.TasteProfile)
			r.Post("/taste/shifts", s.TasteShifts)
		})

		r.Put("/artworks/{id}", s.UpsertArtwork)
		r.Get("/artworks/{id}", s.GetArtwork)
		r.Put("/artists/{id}", s.UpsertArtist)
		r.Put("/catalogues/{id}", s.UpsertCatalogue)
	})
}

type filterPayload struct {
	Mediums  []string `json:"mediums,omitempty"`
	Genres   []string `json:"genres,omitempty"`
	Subjects []string `json:"subjects,omitempty"`
	Colors   []string `json:"colors,omitempty"`
	PriceMin *float64 `json:"price_min,omitempty"`
	PriceMax *float64 `json:"price_max,omitempty"`
	YearMin  *int     `json:"year_min,omitempty"`
	YearMax  *int     `json:"year_max,omitempty"`
	Text     string   `json:"text,omitempty"`
}

func (p *filterPayload) toFilters() (domcat.Filters, error) {
	if p == nil {
		return domcat.Filters{}, nil
	}
	return domcat.NewFilters(
		p.Mediums, p.Genres, p.Subjects, p.Colors,
		p.PriceMin, p.PriceMax, p.YearMin, p.YearMax, p.Text,
	)
}

type searchRequest struct {
	Query            string         `json:"query"`
	Filters          *filterPayload `json:"filters,omitempty"`
	Limit            int            `json:"limit,omitempty"`
	PriceSensitivity float64        `json:"price_sensitivity,omitempty"`
	DiscoveryMode    float64        `json:"discovery_mode,omitempty"`
}

type searchResponse struct {
	Results     []domsearch.Result    `json:"results"`
	Diagnostics domsearch.Diagnostics `json:"diagnostics"`
}

// Search handles POST /v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "query is required")
		return
	}
	if req.PriceSensitivity < 0 || req.PriceSensitivity > 1 {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "price_sensitivity must be in [0,1]")
		return
	}
	if req.DiscoveryMode < 0 || req.DiscoveryMode > 1 {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "discovery_mode must be in [0,1]")
		return
	}

	filters, err := req.Filters.toFilters()
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	results, diag, err := s.search.Search(r.Context(), req.Query, filters, req.Limit, searchuc.Options{
		PriceSensitivity: req.PriceSensitivity,
		DiscoveryMode:    req.DiscoveryMode,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if results == nil {
		results = []domsearch.Result{}
	}
	writeJSON(w, http.StatusOK, searchResponse{Results: results, Diagnostics: diag})
}

type imageSearchResponse struct {
	Results []domsearch.ImageResult `json:"results"`
}

// SearchByImage handles POST /v1/search/image. The body is the raw image.
func (s *Server) SearchByImage(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, s.maxUpload)
	data, err := io.ReadAll(body)
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, codeValidationFailed,
			"image exceeds upload limit of "+strconv.FormatInt(s.maxUpload, 10)+" bytes")
		return
	}
	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, codeInvalidImage, "empty image body")
		return
	}

	results, err := s.imageSearch.SearchByImage(r.Context(), data)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if results == nil {
		results = []domsearch.ImageResult{}
	}
	writeJSON(w, http.StatusOK, imageSearchResponse{Results: results})
}

// RecordInteraction handles POST /v1/interactions.
func (s *Server) RecordInteraction(w http.ResponseWriter, r *http.Request) {
	var event taste.Interaction
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.preference.RecordInteraction(r.Context(), event); err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "recorded"})
}

type recommendationsResponse struct {
	Recommendations []taste.Recommendation `json:"recommendations"`
}

// Recommendations handles GET /v1/users/{userID}/recommendations.
func (s *Server) Recommendations(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	rctx := preferenceuc.RecommendContext{
		Occasion: r.URL.Query().Get("occasion"),
	}
	q := r.URL.Query()
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, codeValidationFailed, "limit must be a positive integer")
			return
		}
		rctx.Limit = n
	}
	for name, dst := range map[string]**float64{"budget_min": &rctx.BudgetMin, "budget_max": &rctx.BudgetMax} {
		if v := q.Get(name); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil || f < 0 {
				writeError(w, http.StatusBadRequest, codeValidationFailed, name+" must be a non-negative number")
				return
			}
			*dst = &f
		}
	}

	recs := s.preference.Recommend(r.Context(), userID, rctx)
	writeJSON(w, http.StatusOK, recommendationsResponse{Recommendations: recs})
}

// PurchaseIntent handles GET /v1/users/{userID}/intent/{artworkID}.
func (s *Server) PurchaseIntent(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	artworkID := chi.URLParam(r, "artworkID")

	intent, err := s.preference.PredictPurchaseIntent(r.Context(), artworkID, userID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, intent)
}

// TasteProfile handles GET /v1/users/{userID}/taste.
func (s *Server) TasteProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.preference.Profile(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

type shiftsResponse struct {
	Shifts []taste.Shift `json:"shifts"`
}

// TasteShifts handles POST /v1/users/{userID}/taste/shifts: it runs shift
// detection and returns what it found.
func (s *Server) TasteShifts(w http.ResponseWriter, r *http.Request) {
	shifts, err := s.preference.IdentifyTasteShifts(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if shifts == nil {
		shifts = []taste.Shift{}
	}
	writeJSON(w, http.StatusOK, shiftsResponse{Shifts: shifts})
}

// UpsertArtwork handles PUT /v1/artworks/{id}.
func (s *Server) UpsertArtwork(w http.ResponseWriter, r *http.Request) {
	var art domcat.Artwork
	if err := json.NewDecoder(r.Body).Decode(&art); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	art.ID = chi.URLParam(r, "id")
	if err := s.catalog.UpsertArtwork(r.Context(), art); err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, art)
}

// GetArtwork handles GET /v1/artworks/{id}.
func (s *Server) GetArtwork(w http.ResponseWriter, r *http.Request) {
	art, err := s.catalog.GetArtwork(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, art)
}

// UpsertArtist handles PUT /v1/artists/{id}.
func (s *Server) UpsertArtist(w http.ResponseWriter, r *http.Request) {
	var artist domcat.Artist
	if err := json.NewDecoder(r.Body).Decode(&artist); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	artist.ID = chi.URLParam(r, "id")
	if err := s.catalog.UpsertArtist(r.Context(), artist); err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, artist)
}

// UpsertCatalogue handles PUT /v1/catalogues/{id}.
func (s *Server) UpsertCatalogue(w http.ResponseWriter, r *http.Request) {
	var cat domcat.Catalogue
	if err := json.NewDecoder(r.Body).Decode(&cat); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	cat.ID = chi.URLParam(r, "id")
	if err := s.catalog.UpsertCatalogue(r.Context(), cat); err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cat)
}

// HealthCheck handles GET /healthz.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
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

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrArtworkNotFound,
		domain.ErrProfileNotFound,
		domain.ErrInvalidInteraction,
		domain.ErrInvalidEntity,
		domain.ErrInvalidFilter,
		domain.ErrInvalidImage,
		domain.ErrStoreUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
