package nls

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	loamAdapter "github.com/aretw0/nls/pkg/adapters/loam"
	"github.com/aretw0/nls/pkg/adapters/memory"
	"github.com/aretw0/nls/pkg/observability"
	"github.com/aretw0/nls/pkg/ontology"
	"github.com/aretw0/nls/pkg/ports"
	"github.com/aretw0/nls/pkg/service"

	"github.com/aretw0/nls/internal/logging"
)

// ErrNotWatchable is returned by Watch when the loader cannot report changes.
var ErrNotWatchable = errors.New("current loader does not support watching")

// Engine is the high-level entry point for the NLS library.
// It owns the ontology and exposes the command pipeline of service.Service.
type Engine struct {
	*service.Service

	loader    ports.OntologyLoader
	holder    *ontology.Holder
	simulator ports.Simulator
	logger    *slog.Logger
	metrics   *observability.Metrics
	reloads   *broadcaster
	Name      string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLoader injects a custom OntologyLoader, bypassing the spec directory.
func WithLoader(l ports.OntologyLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithSimulator sets the collaborator used by run commands.
func WithSimulator(sim ports.Simulator) Option {
	return func(e *Engine) {
		e.simulator = sim
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMetrics records pipeline metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// New initializes an Engine and loads its ontology.
// specsDir is a Loam repository of unit specification records. When it is empty
// and no loader is injected, the built-in templates are used.
func New(ctx context.Context, specsDir string, opts ...Option) (*Engine, error) {
	eng := &Engine{reloads: newBroadcaster()}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	switch {
	case eng.loader != nil:
		if specsDir != "" {
			eng.Name = filepath.Base(specsDir)
		}
	case specsDir != "":
		l, err := loamAdapter.Open(specsDir)
		if err != nil {
			return nil, err
		}
		eng.loader = l
		eng.Name = filepath.Base(specsDir)
	default:
		eng.loader = memory.NewLoader(memory.DefaultEntries()...)
		eng.Name = "builtin"
	}
	eng.logger = eng.logger.With("ontology", eng.Name)

	snap, err := eng.load(ctx)
	if err != nil {
		return nil, err
	}
	eng.holder = ontology.NewHolder(snap)

	eng.Service = service.New(
		service.WithOntologyHolder(eng.holder),
		service.WithSimulator(eng.simulator),
		service.WithLogger(eng.logger),
		service.WithMetrics(eng.metrics),
	)
	eng.logger.Debug("ontology loaded", "templates", snap.Len())
	return eng, nil
}

func (e *Engine) load(ctx context.Context) (*ontology.Snapshot, error) {
	entries, err := e.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ontology: %w", err)
	}
	return ontology.New(entries...), nil
}

// Reload reads the ontology again and swaps it in. In-flight commands keep
// the snapshot they started with. On error the current ontology stays active.
func (e *Engine) Reload(ctx context.Context) error {
	snap, err := e.load(ctx)
	if err != nil {
		return err
	}
	e.SwapOntology(snap)
	return nil
}

// Watch hot-reloads the ontology whenever the loader reports a change, until ctx is done.
// Each successful reload is published to the subscribers of Reloads.
func (e *Engine) Watch(ctx context.Context) error {
	w, ok := e.loader.(ports.Watchable)
	if !ok {
		return ErrNotWatchable
	}
	events, err := w.Watch(ctx)
	if err != nil {
		return err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-events:
				if !ok {
					return
				}
				if err := e.Reload(ctx); err != nil {
					e.logger.Error("ontology reload failed", "event", event, "error", err)
					continue
				}
				e.reloads.publish(event)
			}
		}
	}()
	return nil
}

// Reloads lets callers subscribe to reload notifications (e.g. the HTTP /events stream).
func (e *Engine) Reloads() ports.Watchable {
	return e.reloads
}

// Loader returns the underlying OntologyLoader used by the engine.
func (e *Engine) Loader() ports.OntologyLoader {
	return e.loader
}

// Coverage reports synonym gaps and collisions of the active ontology.
func (e *Engine) Coverage() ontology.Report {
	return e.Ontology().Coverage()
}

// broadcaster fans reload events out to every active subscriber.
// Slow subscribers miss events instead of blocking the reload loop.
type broadcaster struct {
	mu   sync.Mutex
	subs map[chan string]struct{}
}

func newBroadcaster() *broadcaster {
	return &broadcaster{subs: make(map[chan string]struct{})}
}

func (b *broadcaster) Watch(ctx context.Context) (<-chan string, error) {
	ch := make(chan string, 8)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, ch)
		close(ch)
		b.mu.Unlock()
	}()
	return ch, nil
}

func (b *broadcaster) publish(event string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- event:
		default:
		}
	}
}
