package domain

import (
	"reflect"
)

// ScenarioDiff summarises the structural changes between two Scenarios.
// It is an audit aid; the Patch remains the authoritative description.
type ScenarioDiff struct {
	AddedUnits     []string     `json:"added_units,omitempty"`
	RemovedUnits   []string     `json:"removed_units,omitempty"`
	ChangedUnits   []UnitChange `json:"changed_units,omitempty"`
	AddedStreams   []StreamLink `json:"added_streams,omitempty"`
	RemovedStreams []StreamLink `json:"removed_streams,omitempty"`
}

// UnitChange records what changed on a unit that exists on both sides.
type UnitChange struct {
	ID string `json:"id"`
	// Template is set only when the template changed.
	Template *TemplateChange `json:"template,omitempty"`
	// Overrides contains changed or added keys; deleted keys map to nil.
	Overrides map[string]any `json:"overrides,omitempty"`
}

// TemplateChange holds the before/after template of a unit.
type TemplateChange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Diff calculates the difference between before and after.
// Streams are compared as multisets so duplicate edges are accounted for.
func Diff(before, after Scenario) *ScenarioDiff {
	diff := &ScenarioDiff{}

	old := make(map[string]UnitInstance, len(before.Units))
	for _, u := range before.Units {
		old[u.ID] = u
	}
	seen := make(map[string]bool, len(after.Units))

	for _, u := range after.Units {
		seen[u.ID] = true
		prev, ok := old[u.ID]
		if !ok {
			diff.AddedUnits = append(diff.AddedUnits, u.ID)
			continue
		}
		if change := diffUnit(prev, u); change != nil {
			diff.ChangedUnits = append(diff.ChangedUnits, *change)
		}
	}
	for _, u := range before.Units {
		if !seen[u.ID] {
			diff.RemovedUnits = append(diff.RemovedUnits, u.ID)
		}
	}

	diff.AddedStreams = subtractStreams(after.Streams, before.Streams)
	diff.RemovedStreams = subtractStreams(before.Streams, after.Streams)

	return diff
}

func diffUnit(prev, next UnitInstance) *UnitChange {
	change := UnitChange{ID: next.ID}
	if prev.Template != next.Template {
		change.Template = &TemplateChange{From: prev.Template, To: next.Template}
	}

	delta := make(map[string]any)
	for k, v := range next.Overrides {
		if old, ok := prev.Overrides[k]; !ok || !reflect.DeepEqual(old, v) {
			delta[k] = v
		}
	}
	for k := range prev.Overrides {
		if _, ok := next.Overrides[k]; !ok {
			delta[k] = nil
		}
	}
	if len(delta) > 0 {
		change.Overrides = delta
	}

	if change.Template == nil && change.Overrides == nil {
		return nil
	}
	return &change
}

// subtractStreams returns the edges of a that are not matched one-for-one in b.
func subtractStreams(a, b []StreamLink) []StreamLink {
	counts := make(map[StreamLink]int, len(b))
	for _, s := range b {
		counts[s]++
	}
	var out []StreamLink
	for _, s := range a {
		if counts[s] > 0 {
			counts[s]--
			continue
		}
		out = append(out, s)
	}
	return out
}

// IsEmpty checks if the diff contains any changes.
func (d *ScenarioDiff) IsEmpty() bool {
	return len(d.AddedUnits) == 0 &&
		len(d.RemovedUnits) == 0 &&
		len(d.ChangedUnits) == 0 &&
		len(d.AddedStreams) == 0 &&
		len(d.RemovedStreams) == 0
}
