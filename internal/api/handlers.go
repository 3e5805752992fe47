package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/liliang-cn/flixvec"
	"github.com/liliang-cn/flixvec/internal/config"
	"github.com/liliang-cn/flixvec/internal/logging"
	"github.com/liliang-cn/flixvec/internal/metrics"
)

// SearchRequest holds the query parameters of GET /api/v1/movies.
type SearchRequest struct {
	Query string `validate:"max=200"`
	Limit int    `validate:"min=0,max=10000"`
}

// RecommendationRequest holds the query parameters of GET /api/v1/recommendations.
type RecommendationRequest struct {
	Title string `validate:"required,max=500"`
	N     int    `validate:"min=0"`
}

// LookupRequest holds the query parameters of GET /api/v1/movies/lookup.
type LookupRequest struct {
	Title string `validate:"required,max=500"`
}

// Handler serves the flixvec API over a loaded dataset.
type Handler struct {
	db        *flixvec.DB
	recommend config.RecommendConfig
	validate  *validator.Validate
	started   time.Time
}

// NewHandler creates a handler. db is shared read-only by all requests.
func NewHandler(db *flixvec.DB, recommend config.RecommendConfig) *Handler {
	return &Handler{
		db:        db,
		recommend: recommend,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		started:   time.Now(),
	}
}

// HealthStatus is the body of GET /api/v1/health.
type HealthStatus struct {
	Status     string        `json:"status"`
	Movies     int           `json:"movies"`
	Dimensions int           `json:"dimensions"`
	Catalog    int           `json:"catalog_entries"`
	Source     string        `json:"source,omitempty"`
	Uptime     time.Duration `json:"uptime_ns"`
}

// Health reports that the dataset is loaded.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	stats := h.db.Stats()
	respondData(w, r, HealthStatus{
		Status:     "ok",
		Movies:     stats.Movies,
		Dimensions: stats.Dimensions,
		Catalog:    stats.CatalogEntries,
		Source:     stats.Source,
		Uptime:     time.Since(h.started),
	}, 1)
}

// Movies lists titles, optionally filtered by ?q= and capped by ?limit=.
func (h *Handler) Movies(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := intParam(q.Get("limit"), 0)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, CodeValidation, "limit must be an integer")
		return
	}

	req := SearchRequest{Query: q.Get("q"), Limit: limit}
	if msg := h.check(&req); msg != "" {
		respondError(w, r, http.StatusBadRequest, CodeValidation, msg)
		return
	}

	titles := h.db.Search(req.Query, req.Limit)
	respondData(w, r, titles, len(titles))
}

// Lookup returns the metadata of ?title=.
func (h *Handler) Lookup(w http.ResponseWriter, r *http.Request) {
	req := LookupRequest{Title: r.URL.Query().Get("title")}
	if msg := h.check(&req); msg != "" {
		respondError(w, r, http.StatusBadRequest, CodeValidation, msg)
		return
	}

	movie, err := h.db.Movie(req.Title)
	if flixvec.IsNotFound(err) {
		respondError(w, r, http.StatusNotFound, CodeNotFound, flixvec.NotFoundMessage)
		return
	}
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	movie.Vector = nil
	respondData(w, r, movie, 1)
}

// Recommendations ranks the movies most similar to ?title=.
// A missing ?n= selects the configured default; values above the maximum are clamped.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	n, err := intParam(q.Get("n"), h.recommend.DefaultN)
	if err != nil {
		metrics.Recommendations.WithLabelValues(metrics.OutcomeInvalid).Inc()
		respondError(w, r, http.StatusBadRequest, CodeValidation, "n must be a non-negative integer")
		return
	}

	req := RecommendationRequest{Title: q.Get("title"), N: n}
	if msg := h.check(&req); msg != "" {
		metrics.Recommendations.WithLabelValues(metrics.OutcomeInvalid).Inc()
		respondError(w, r, http.StatusBadRequest, CodeValidation, msg)
		return
	}
	req.N = h.recommend.ClampN(req.N)

	start := time.Now()
	recs, err := h.db.RecommendMovies(req.Title, req.N)
	metrics.RecordRecommendation(time.Since(start), len(recs), err)

	if flixvec.IsNotFound(err) {
		logging.Ctx(r.Context()).Debug().Str("title", req.Title).Msg("unknown title")
		respondError(w, r, http.StatusNotFound, CodeNotFound, flixvec.NotFoundMessage)
		return
	}
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	respondData(w, r, recs, len(recs))
}

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("API Error")
	respondError(w, r, http.StatusInternalServerError, CodeInternal, "internal server error")
}

// check validates req and returns a message for the first failing field.
func (h *Handler) check(req any) string {
	err := h.validate.Struct(req)
	if err == nil {
		return ""
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err.Error()
	}

	fe := fieldErrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

var errNotInteger = errors.New("not an integer")

// intParam parses an optional integer query parameter.
func intParam(raw string, def int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errNotInteger
	}
	return v, nil
}
