// Package httptransport is the thin HTTP layer. Handlers delegate to domain
// services and translate errors; business logic stays out of this package.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"certifier/internal/audit"
	"certifier/internal/auth"
	"certifier/internal/platform/metrics"
	"certifier/internal/platform/middleware"
	"certifier/internal/report"
)

// maxUploadBytes bounds one dataset upload. Audits are single files from an
// ERP export, not bulk transfers.
const maxUploadBytes = 32 << 20

// Handler holds the wired services behind the HTTP surface.
type Handler struct {
	logger    *slog.Logger
	metrics   *metrics.Metrics
	auth      *auth.Service
	audit     *audit.Service
	certifier *report.Certifier
}

func NewHandler(
	logger *slog.Logger,
	m *metrics.Metrics,
	authService *auth.Service,
	auditService *audit.Service,
	certifier *report.Certifier,
) *Handler {
	return &Handler{
		logger:    logger,
		metrics:   m,
		auth:      authService,
		audit:     auditService,
		certifier: certifier,
	}
}

// NewRouter wires all endpoints. Everything under /audit requires a live
// session; /auth/login is the only way in.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(h.logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(h.logger))
	r.Use(middleware.Timeout(120 * time.Second))

	r.Get("/healthz", h.handleHealthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Post("/auth/login", h.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession(h.auth, h.logger))
		r.Post("/auth/logout", h.handleLogout)
		r.Post("/audit/run", h.handleRun)
		r.Get("/audit/history", h.handleHistory)
		r.Get("/audit/report.pdf", h.handleReportPDF)
		r.Get("/audit/report.csv", h.handleReportCSV)
		r.Put("/audit/sensitivity", h.handleSensitivity)
	})

	return r
}

func (h *Handler) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
