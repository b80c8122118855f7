// Package httptransport is the thin HTTP layer over the consent service. It
// delegates to the domain service without embedding business logic so
// transport concerns remain isolated.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cm-gateway/internal/consent/models"
	"cm-gateway/internal/docstore"
	"cm-gateway/internal/platform/health"
	"cm-gateway/internal/platform/metrics"
	"cm-gateway/internal/platform/middleware"
)

// ConsentService is the domain surface the HTTP layer depends on.
type ConsentService interface {
	CreateRequest(ctx context.Context, custodianID string, consentRequest docstore.Document) (docstore.Document, error)
	GetRequest(ctx context.Context, custodianID, requestID string) (docstore.Document, error)
	QueryReceipts(ctx context.Context, query models.ReceiptQuery) ([]docstore.Document, error)
	IssueReceipt(ctx context.Context, custodianID string, consentRequest docstore.Document) (docstore.Document, error)
	Invite(ctx context.Context, custodianID string, invitation models.Invitation) (docstore.Document, error)
}

// Handler holds the HTTP handlers for the consent API.
type Handler struct {
	service ConsentService
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewHandler builds the HTTP handler set. metrics may be nil.
func NewHandler(service ConsentService, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
		metrics: m,
	}
}

// NewRouter wires all public endpoints with middleware.
func NewRouter(h *Handler, logger *slog.Logger, healthHandler *health.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.CallerContext)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.ContentTypeJSON)

	r.Post("/consent-request", h.handlePostConsentRequest)
	r.Get("/consent-request", h.handleGetConsentRequest)

	r.Post("/consent-receipt", h.handlePostConsentReceipt)
	r.Get("/consent-receipt", h.handleGetConsentReceipts)

	r.Post("/consent-invitation", h.handlePostConsentInvitation)

	if healthHandler != nil {
		healthHandler.Register(r)
	}
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(
		prometheus.DefaultGatherer, promhttp.HandlerOpts{}))

	return r
}

// observe records endpoint latency; safe when metrics are absent.
func (h *Handler) observe(endpoint, method string, start time.Time) {
	h.metrics.ObserveEndpoint(endpoint, method, time.Since(start).Seconds())
}
