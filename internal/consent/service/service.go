// Package service implements the consent workflows: request lifecycle,
// receipt issuance, receipt queries and invitations.
package service

import (
	"log/slog"

	"cm-gateway/internal/consent/tracer"
	"cm-gateway/internal/directory"
	"cm-gateway/internal/docstore"
	"cm-gateway/internal/issuer"
	"cm-gateway/internal/platform/metrics"
)

// Service orchestrates the consent workflows over the document store and the
// two upstream collaborators.
type Service struct {
	store     docstore.Store
	directory directory.Client
	issuer    issuer.Client
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    tracer.Tracer
}

// Option configures optional service collaborators.
type Option func(*Service)

// WithMetrics attaches Prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTracer attaches a tracer. Defaults to a no-op tracer.
func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// New wires a consent service.
func New(store docstore.Store, dir directory.Client, iss issuer.Client, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		store:     store,
		directory: dir,
		issuer:    iss,
		logger:    logger,
		tracer:    tracer.NewNoop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// str reads a string field out of a schemaless document.
func str(doc docstore.Document, key string) string {
	if doc == nil {
		return ""
	}
	v, _ := doc[key].(string)
	return v
}
