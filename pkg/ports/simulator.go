package ports

import (
	"context"

	"github.com/aretw0/nls/pkg/domain"
)

// Simulator is the external build/run collaborator.
// It receives a validated Scenario and is only invoked for run intents.
type Simulator interface {
	Simulate(ctx context.Context, scenario domain.Scenario, req domain.RunRequest) (domain.KPIs, error)
}

// SimulatorFunc adapts a function to the Simulator interface.
type SimulatorFunc func(ctx context.Context, scenario domain.Scenario, req domain.RunRequest) (domain.KPIs, error)

func (f SimulatorFunc) Simulate(ctx context.Context, scenario domain.Scenario, req domain.RunRequest) (domain.KPIs, error) {
	return f(ctx, scenario, req)
}
