package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/presion/internal/domain/form"
	"github.com/okian/presion/internal/domain/types"
)

// ReadingsHandler handles the readings collection.
type ReadingsHandler struct {
	deps Dependencies
}

// NewReadingsHandler creates a new readings handler.
func NewReadingsHandler(deps Dependencies) *ReadingsHandler {
	return &ReadingsHandler{deps: deps}
}

// HandleReadings dispatches GET and POST /api/readings.
func (h *ReadingsHandler) HandleReadings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.HandleGetReadings(w, r)
	case http.MethodPost:
		h.HandlePostReading(w, r)
	default:
		w.Header().Set("Allow", strings.Join([]string{http.MethodGet, http.MethodPost}, ", "))
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	}
}

// HandlePostReading handles POST /api/readings.
func (h *ReadingsHandler) HandlePostReading(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_reading"

	var req readingRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	sub, err := req.submission()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request",
			WrapKind(op, ErrBadRequest, errors.New("invalid date; must be YYYY-MM-DD")))
		return
	}

	rec, err := h.deps.Submit(r.Context(), sub)
	if err != nil {
		var verr *form.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
				Code:    "validation_error",
				Message: WrapKind(op, ErrValidation, err).Error(),
				Missing: verr.Missing,
			})
			return
		}
		writeError(w, http.StatusBadGateway, "row_store_error", WrapKind(op, ErrRowStore, err))
		return
	}
	writeJSON(w, http.StatusCreated, types.FromRecord(rec))
}

// HandleGetReadings handles GET /api/readings. Records come last appended first.
func (h *ReadingsHandler) HandleGetReadings(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_readings"

	records, err := h.deps.Readings(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, "row_store_error", WrapKind(op, ErrRowStore, err))
		return
	}
	writeJSON(w, http.StatusOK, types.FromRecords(records))
}
