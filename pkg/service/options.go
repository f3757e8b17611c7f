package service

import (
	"log/slog"

	"github.com/aretw0/nls/pkg/observability"
	"github.com/aretw0/nls/pkg/ontology"
	"github.com/aretw0/nls/pkg/ports"
)

// Option configures a Service.
type Option func(*Service)

// WithOntology serves a fixed snapshot.
func WithOntology(s *ontology.Snapshot) Option {
	return func(svc *Service) {
		svc.ontology = ontology.NewHolder(s)
	}
}

// WithOntologyHolder shares a holder whose snapshot may be swapped at runtime.
func WithOntologyHolder(h *ontology.Holder) Option {
	return func(svc *Service) {
		if h != nil {
			svc.ontology = h
		}
	}
}

// WithSimulator sets the collaborator invoked by Run.
func WithSimulator(sim ports.Simulator) Option {
	return func(svc *Service) {
		svc.simulator = sim
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(svc *Service) {
		if l != nil {
			svc.logger = l
		}
	}
}

// WithMetrics records command metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(svc *Service) {
		svc.metrics = m
	}
}
