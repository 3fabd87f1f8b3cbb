// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/okian/presion/internal/domain/form"
	"github.com/okian/presion/internal/domain/model"
	"github.com/okian/presion/internal/domain/types"
)

// maxBodyBytes caps a reading request body.
const maxBodyBytes = 1 << 16

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Submit validates and appends one reading.
	Submit(ctx context.Context, s form.Submission) (model.Record, error)

	// Read operations expose Row Store data.
	Readings(ctx context.Context) ([]model.Record, error)
	Summary(ctx context.Context) ([]model.DailySummary, error)
}

// Reading mirrors the record shape returned by the API.
type Reading = types.Reading

// Server wires HTTP routes for the JSON API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	readingsHandler *ReadingsHandler
	summaryHandler  *SummaryHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		readingsHandler: NewReadingsHandler(deps),
		summaryHandler:  NewSummaryHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/api/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/readings", MetricsMiddleware(s.readingsHandler.HandleReadings, "readings"))
	mux.HandleFunc("/api/summary", MetricsMiddleware(s.summaryHandler.HandleGetSummary, "summary"))
}

// readingRequest mirrors the OpenAPI schema for POST /api/readings.
// Missing numbers decode as zero and fail validation like the form does.
type readingRequest struct {
	Date      string `json:"date"`
	Systolic  int    `json:"systolic"`
	Diastolic int    `json:"diastolic"`
	Pulse     int    `json:"pulse"`
}

// submission converts the request; an empty date stays unset so that the
// form reports it as missing.
func (q readingRequest) submission() (form.Submission, error) {
	s := form.Submission{
		Systolic:  q.Systolic,
		Diastolic: q.Diastolic,
		Pulse:     q.Pulse,
	}
	if d := strings.TrimSpace(q.Date); d != "" {
		t, err := time.Parse(time.DateOnly, d)
		if err != nil {
			return form.Submission{}, err
		}
		s.Date = t
	}
	return s, nil
}

type errorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Missing []string `json:"missing,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
