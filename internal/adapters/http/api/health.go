package api

import (
	"net/http"

	"github.com/okian/presion/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthHandler serves the process metrics on /healthz.
type HealthHandler struct {
	metrics http.Handler
}

// NewHealthHandler creates a health handler over the metrics registry. A nil
// gatherer selects the process-wide registry.
func NewHealthHandler(gatherers ...prometheus.Gatherer) *HealthHandler {
	var g prometheus.Gatherer = metrics.GetRegistry()
	if len(gatherers) > 0 && gatherers[0] != nil {
		g = gatherers[0]
	}
	return &HealthHandler{
		metrics: promhttp.HandlerFor(g, promhttp.HandlerOpts{EnableOpenMetrics: true}),
	}
}

// HandleHealth handles GET /healthz requests.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.NotFound(w, r)
		return
	}
	h.metrics.ServeHTTP(w, r)
}
