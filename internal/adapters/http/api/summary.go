package api

import (
	"net/http"

	"github.com/okian/presion/internal/domain/types"
)

// SummaryHandler handles daily summary requests.
type SummaryHandler struct {
	deps Dependencies
}

// NewSummaryHandler creates a new summary handler.
func NewSummaryHandler(deps Dependencies) *SummaryHandler {
	return &SummaryHandler{deps: deps}
}

// HandleGetSummary handles GET /api/summary requests.
func (h *SummaryHandler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_summary"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	summaries, err := h.deps.Summary(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, "row_store_error", WrapKind(op, ErrRowStore, err))
		return
	}
	writeJSON(w, http.StatusOK, types.FromSummaries(summaries))
}
