package dashboard

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"studioadmin/internal/platform/health"
	"studioadmin/pkg/platform/middleware/ops"
	request "studioadmin/pkg/platform/middleware/request"
)

const maxBodyBytes = 1 << 20

// NewRouter assembles the middleware chain and mounts the dashboard,
// health, and metrics surfaces.
func NewRouter(h *Handler, healthHandler *health.Handler, logger *slog.Logger, opsTokenHash string) chi.Router {
	r := chi.NewRouter()
	r.Use(request.Recovery(logger))
	r.Use(request.RequestID)
	r.Use(request.Logger(logger))
	r.Use(request.BodyLimit(maxBodyBytes))

	h.Register(r)
	healthHandler.Register(r)

	r.Group(func(r chi.Router) {
		r.Use(ops.RequireOpsToken(opsTokenHash, logger))
		r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	})

	return r
}
