package ontology

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// Collision is a normalized term claimed by more than one canonical target.
type Collision struct {
	Term    string   `json:"term"`
	Targets []string `json:"targets"`
}

// Report is the result of an offline coverage check.
type Report struct {
	Templates int `json:"templates"`
	// TemplatesWithoutSynonyms can only be referenced by their canonical id.
	TemplatesWithoutSynonyms []string `json:"templates_without_synonyms,omitempty"`
	// ParametersWithoutSynonyms are listed as "Template.key".
	ParametersWithoutSynonyms []string    `json:"parameters_without_synonyms,omitempty"`
	UnitCollisions            []Collision `json:"unit_collisions,omitempty"`
	ParamCollisions           []Collision `json:"param_collisions,omitempty"`
	// UnknownParamTypes are parameter type declarations the validator cannot check.
	UnknownParamTypes []string `json:"unknown_param_types,omitempty"`
}

// OK reports whether the ontology has no collisions. Missing synonyms are warnings.
func (r Report) OK() bool {
	return len(r.UnitCollisions) == 0 && len(r.ParamCollisions) == 0 && len(r.UnknownParamTypes) == 0
}

// String renders the report for terminal output.
func (r Report) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "templates: %d\n", r.Templates)
	for _, t := range r.TemplatesWithoutSynonyms {
		fmt.Fprintf(&sb, "warn: template %s has no synonyms\n", t)
	}
	for _, p := range r.ParametersWithoutSynonyms {
		fmt.Fprintf(&sb, "warn: parameter %s has no synonyms\n", p)
	}
	for _, c := range r.UnitCollisions {
		fmt.Fprintf(&sb, "error: unit term %q maps to %s\n", c.Term, strings.Join(c.Targets, ", "))
	}
	for _, c := range r.ParamCollisions {
		fmt.Fprintf(&sb, "error: parameter term %q maps to %s\n", c.Term, strings.Join(c.Targets, ", "))
	}
	for _, p := range r.UnknownParamTypes {
		fmt.Fprintf(&sb, "error: parameter %s\n", p)
	}
	return sb.String()
}

var knownParamTypes = []string{"", "string", "int", "float", "bool"}

// Coverage checks entries for missing synonyms and colliding terms.
// It runs out of band (CLI, CI), never on the request path.
func Coverage(entries []Entry) Report {
	r := Report{Templates: len(entries)}

	units := make(map[string][]string)
	params := make(map[string][]string)

	for _, e := range entries {
		if len(e.Synonyms) == 0 {
			r.TemplatesWithoutSynonyms = append(r.TemplatesWithoutSynonyms, e.Template)
		}
		claim(units, normalize(e.Template), e.Template)
		for _, syn := range e.Synonyms {
			claim(units, normalize(syn), e.Template)
		}

		for _, p := range e.Parameters {
			qualified := e.Template + "." + p.Key
			if len(p.Synonyms) == 0 {
				r.ParametersWithoutSynonyms = append(r.ParametersWithoutSynonyms, qualified)
			}
			if !slices.Contains(knownParamTypes, p.Type) {
				r.UnknownParamTypes = append(r.UnknownParamTypes, fmt.Sprintf("%s: unsupported type %q", qualified, p.Type))
			}
			claim(params, normalize(p.Key), p.Key)
			for _, syn := range p.Synonyms {
				claim(params, normalize(syn), p.Key)
			}
		}
	}

	r.UnitCollisions = collisions(units)
	r.ParamCollisions = collisions(params)
	return r
}

// Coverage runs the coverage check over the snapshot's entries.
func (s *Snapshot) Coverage() Report {
	return Coverage(s.Entries())
}

func claim(table map[string][]string, term, target string) {
	if term == "" || slices.Contains(table[term], target) {
		return
	}
	table[term] = append(table[term], target)
}

func collisions(table map[string][]string) []Collision {
	var out []Collision
	for term, targets := range table {
		if len(targets) > 1 {
			out = append(out, Collision{Term: term, Targets: targets})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Term < out[j].Term })
	return out
}
