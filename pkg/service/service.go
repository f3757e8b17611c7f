package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/aretw0/nls/internal/logging"
	"github.com/aretw0/nls/pkg/domain"
	"github.com/aretw0/nls/pkg/editor"
	"github.com/aretw0/nls/pkg/grammar"
	"github.com/aretw0/nls/pkg/observability"
	"github.com/aretw0/nls/pkg/ontology"
	"github.com/aretw0/nls/pkg/patch"
	"github.com/aretw0/nls/pkg/ports"
	"github.com/aretw0/nls/pkg/schema"
)

// Service is the command facade shared by the HTTP, MCP and CLI front ends.
type Service struct {
	ontology  *ontology.Holder
	simulator ports.Simulator
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates a Service. Without WithOntology the ontology is empty and every
// unit token passes through unresolved.
func New(opts ...Option) *Service {
	svc := &Service{
		ontology: ontology.NewHolder(nil),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Ontology returns the snapshot currently served.
func (s *Service) Ontology() *ontology.Snapshot {
	return s.ontology.Load()
}

// SwapOntology installs a new snapshot for subsequent calls.
func (s *Service) SwapOntology(snap *ontology.Snapshot) {
	s.ontology.Swap(snap)
	s.logger.Info("ontology swapped", "templates", snap.Len())
}

// pipeline binds the per-call collaborators to one snapshot.
type pipeline struct {
	snap   *ontology.Snapshot
	parser *grammar.Parser
	editor *editor.Editor
}

func (s *Service) pipeline() pipeline {
	snap := s.ontology.Load()
	return pipeline{
		snap:   snap,
		parser: grammar.NewParser(snap),
		editor: editor.New(snap, editor.WithLogger(s.logger)),
	}
}

func (p pipeline) parse(text string) (domain.Intent, error) {
	clean, err := grammar.Sanitize(text)
	if err != nil {
		return domain.Intent{}, fmt.Errorf("%w: %w", domain.ErrUnrecognizedCommand, err)
	}
	return p.parser.Parse(clean), nil
}

func (p pipeline) preview(text string, sc domain.Scenario) (PreviewResult, error) {
	intent, err := p.parse(text)
	if err != nil {
		return PreviewResult{}, err
	}
	if intent.Type == domain.IntentRun {
		return PreviewResult{Intent: intent, Patch: domain.Patch{}}, nil
	}
	res, err := p.editor.Build(intent, sc)
	if err != nil {
		return PreviewResult{Intent: intent}, err
	}
	return PreviewResult{Intent: intent, Patch: res.Patch, Warnings: res.Warnings}, nil
}

func (p pipeline) apply(text string, sc domain.Scenario) (ApplyResult, error) {
	intent, err := p.parse(text)
	if err != nil {
		return ApplyResult{}, err
	}
	res, err := p.editor.Build(intent, sc)
	if err != nil {
		return ApplyResult{Intent: intent}, err
	}
	after, err := patch.Apply(sc, res.Patch, schema.WithOntology(p.snap), schema.WithBaseline(sc))
	if err != nil {
		return ApplyResult{Intent: intent}, err
	}
	return ApplyResult{
		Intent:        intent,
		Patch:         res.Patch,
		ScenarioAfter: after,
		Warnings:      res.Warnings,
	}, nil
}

// Preview parses text and builds its patch without applying it.
// A run command previews as its intent with an empty patch.
func (s *Service) Preview(ctx context.Context, text string, sc domain.Scenario) (PreviewResult, error) {
	start := time.Now()
	res, err := s.pipeline().preview(text, sc)
	s.observe(ctx, "preview", text, res.Intent, len(res.Patch), err, start)
	return res, err
}

// Apply parses, builds, applies and validates a single command.
// sc is never modified.
func (s *Service) Apply(ctx context.Context, text string, sc domain.Scenario) (ApplyResult, error) {
	start := time.Now()
	res, err := s.pipeline().apply(text, sc)
	if err == nil {
		res.Diff = domain.Diff(sc, res.ScenarioAfter)
	}
	s.observe(ctx, "apply", text, res.Intent, len(res.Patch), err, start)
	return res, err
}

// Batch folds Apply over texts, feeding each result into the next command.
// The first failure aborts the batch with a *BatchError and no partial result.
func (s *Service) Batch(ctx context.Context, texts []string, sc domain.Scenario) (BatchResult, error) {
	start := time.Now()
	if len(texts) == 0 {
		s.observe(ctx, "batch", "", domain.Intent{}, 0, ErrEmptyBatch, start)
		return BatchResult{}, ErrEmptyBatch
	}

	p := s.pipeline()
	out := BatchResult{Patch: domain.Patch{}, Intents: make([]domain.Intent, 0, len(texts))}
	current := sc
	for i, text := range texts {
		res, err := p.apply(text, current)
		if err != nil {
			berr := &BatchError{Index: i, Command: text, Err: err}
			s.observe(ctx, "batch", text, res.Intent, 0, berr, start)
			return BatchResult{}, berr
		}
		out.Intents = append(out.Intents, res.Intent)
		out.Patch = append(out.Patch, res.Patch...)
		out.Warnings = append(out.Warnings, res.Warnings...)
		current = res.ScenarioAfter
	}
	out.ScenarioAfter = current
	out.Diff = domain.Diff(sc, current)

	s.observe(ctx, "batch", "", domain.Intent{Type: "batch"}, len(out.Patch), nil, start)
	return out, nil
}

// Run hands a validated copy of sc to the simulator. Only run commands are accepted.
func (s *Service) Run(ctx context.Context, text string, sc domain.Scenario) (RunResult, error) {
	start := time.Now()
	res, err := s.run(ctx, text, sc)
	s.observe(ctx, "run", text, res.Intent, 0, err, start)
	return res, err
}

func (s *Service) run(ctx context.Context, text string, sc domain.Scenario) (RunResult, error) {
	p := s.pipeline()
	intent, err := p.parse(text)
	if err != nil {
		return RunResult{}, err
	}
	res := RunResult{Intent: intent}
	switch intent.Type {
	case domain.IntentRun:
	case domain.IntentUnknown:
		return res, &domain.UnrecognizedError{Raw: intent.StringArg(domain.ArgRaw)}
	default:
		return res, fmt.Errorf("%w: %s", ErrNotRunCommand, intent.Type)
	}

	if s.simulator == nil {
		return res, domain.ErrNoSimulator
	}
	// Parameter types are the simulator's concern; overrides carried over by a
	// replace may legitimately disagree with the new template.
	if err := schema.ValidateScenario(sc); err != nil {
		return res, fmt.Errorf("%w: %w", domain.ErrInvalidScenario, err)
	}

	res.Run = intent.RunRequest()
	kpis, err := s.simulator.Simulate(ctx, sc.Clone(), res.Run)
	if err != nil {
		return res, fmt.Errorf("%w: %w", ErrSimulation, err)
	}
	res.KPIs = kpis
	return res, nil
}

// Help returns the grammar table and the templates of the current ontology.
func (s *Service) Help() HelpResult {
	snap := s.ontology.Load()
	entries := snap.Entries()
	templates := make([]TemplateInfo, len(entries))
	for i, e := range entries {
		templates[i] = TemplateInfo{Template: e.Template, Synonyms: e.Synonyms, Parameters: e.Parameters}
		if templates[i].Synonyms == nil {
			templates[i].Synonyms = []string{}
		}
	}
	return HelpResult{
		Grammar:   grammar.Table(),
		Intents:   slices.Clone(domain.IntentTypes),
		Templates: templates,
	}
}

// HelpFor is Help plus the templates of sc that the ontology does not define.
func (s *Service) HelpFor(sc domain.Scenario) HelpResult {
	h := s.Help()
	h.UnknownTemplates = schema.UnknownTemplates(sc, s.ontology.Load())
	return h
}

func (s *Service) observe(ctx context.Context, operation, text string, intent domain.Intent, ops int, err error, start time.Time) {
	elapsed := time.Since(start)
	s.metrics.Observe(operation, string(intent.Type), ops, err, elapsed)

	if err != nil {
		s.logger.InfoContext(ctx, "command rejected",
			"operation", operation, "intent", intent.Type, "command", text, "error", err)
		return
	}
	s.logger.DebugContext(ctx, "command handled",
		"operation", operation, "intent", intent.Type, "ops", ops, "duration", elapsed)
}
