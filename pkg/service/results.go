package service

import (
	"github.com/aretw0/nls/pkg/domain"
	"github.com/aretw0/nls/pkg/grammar"
	"github.com/aretw0/nls/pkg/ontology"
)

// PreviewResult describes what a command would do.
type PreviewResult struct {
	Intent   domain.Intent `json:"intent"`
	Patch    domain.Patch  `json:"patch"`
	Warnings []string      `json:"warnings,omitempty"`
}

// ApplyResult is the outcome of a successful Apply.
type ApplyResult struct {
	Intent        domain.Intent        `json:"intent"`
	Patch         domain.Patch         `json:"patch"`
	ScenarioAfter domain.Scenario      `json:"scenario_after"`
	Diff          *domain.ScenarioDiff `json:"diff"`
	Warnings      []string             `json:"warnings,omitempty"`
}

// BatchResult is the outcome of a successful Batch. Patch is the concatenation
// of every step's patch, in order.
type BatchResult struct {
	Intents       []domain.Intent      `json:"intents"`
	Patch         domain.Patch         `json:"patch"`
	ScenarioAfter domain.Scenario      `json:"scenario_after"`
	Diff          *domain.ScenarioDiff `json:"diff"`
	Warnings      []string             `json:"warnings,omitempty"`
}

// RunResult carries the simulator output.
type RunResult struct {
	Intent domain.Intent     `json:"intent"`
	Run    domain.RunRequest `json:"run"`
	KPIs   domain.KPIs       `json:"kpis"`
}

// TemplateInfo is the help view of one ontology entry.
type TemplateInfo struct {
	Template   string               `json:"template"`
	Synonyms   []string             `json:"synonyms"`
	Parameters []ontology.Parameter `json:"parameters,omitempty"`
}

// HelpResult is the grammar plus a snapshot of the ontology.
type HelpResult struct {
	Grammar   []grammar.Rule      `json:"grammar"`
	Intents   []domain.IntentType `json:"intents"`
	Templates []TemplateInfo      `json:"templates"`
	// UnknownTemplates lists templates used by a Scenario that the ontology lacks.
	UnknownTemplates []string `json:"unknown_templates,omitempty"`
}
