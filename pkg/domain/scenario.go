package domain

import (
	"encoding/json"
	"maps"
)

// UnitInstance is one configurable node of the flowsheet, typed by a template.
type UnitInstance struct {
	Template  string            `json:"template" yaml:"template"`
	ID        string            `json:"id" yaml:"id"`
	Overrides map[string]Scalar `json:"overrides,omitempty" yaml:"overrides,omitempty"`
}

// StreamLink is a directed edge between two unit ids.
type StreamLink struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// Distribution describes the uncertainty of a single parameter.
// Uniform uses Low/High, normal and lognormal use Mu/Sigma.
type Distribution struct {
	Dist  string   `json:"dist" yaml:"dist"`
	Low   *float64 `json:"low,omitempty" yaml:"low,omitempty"`
	High  *float64 `json:"high,omitempty" yaml:"high,omitempty"`
	Mu    *float64 `json:"mu,omitempty" yaml:"mu,omitempty"`
	Sigma *float64 `json:"sigma,omitempty" yaml:"sigma,omitempty"`
}

// Scenario is the configuration graph under edit.
// It is passed by value; mutations always work on a Clone.
type Scenario struct {
	Units       []UnitInstance          `json:"units" yaml:"units"`
	Streams     []StreamLink            `json:"streams" yaml:"streams"`
	Assumptions map[string]Scalar       `json:"assumptions,omitempty" yaml:"assumptions,omitempty"`
	Uncertainty map[string]Distribution `json:"uncertainty,omitempty" yaml:"uncertainty,omitempty"`
}

// MarshalJSON always emits units and streams as arrays so that "/units/-"
// and "/streams/-" are addressable by a patch.
func (s Scenario) MarshalJSON() ([]byte, error) {
	type plain Scenario
	p := plain(s)
	if p.Units == nil {
		p.Units = []UnitInstance{}
	}
	if p.Streams == nil {
		p.Streams = []StreamLink{}
	}
	return json.Marshal(p)
}

// Clone returns a deep copy of the Scenario. Nil collections stay nil.
func (s Scenario) Clone() Scenario {
	var out Scenario
	if s.Units != nil {
		out.Units = make([]UnitInstance, len(s.Units))
		for i, u := range s.Units {
			out.Units[i] = u.Clone()
		}
	}
	if s.Streams != nil {
		out.Streams = make([]StreamLink, len(s.Streams))
		copy(out.Streams, s.Streams)
	}
	if s.Assumptions != nil {
		out.Assumptions = maps.Clone(s.Assumptions)
	}
	if s.Uncertainty != nil {
		out.Uncertainty = make(map[string]Distribution, len(s.Uncertainty))
		for k, d := range s.Uncertainty {
			out.Uncertainty[k] = d.Clone()
		}
	}
	return out
}

// Clone copies the unit including its overrides map.
func (u UnitInstance) Clone() UnitInstance {
	if u.Overrides != nil {
		u.Overrides = maps.Clone(u.Overrides)
	}
	return u
}

func (d Distribution) Clone() Distribution {
	return Distribution{
		Dist:  d.Dist,
		Low:   clonePtr(d.Low),
		High:  clonePtr(d.High),
		Mu:    clonePtr(d.Mu),
		Sigma: clonePtr(d.Sigma),
	}
}

func clonePtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// UnitIndex returns the position of the unit with the given id, or -1.
func (s Scenario) UnitIndex(id string) int {
	for i, u := range s.Units {
		if u.ID == id {
			return i
		}
	}
	return -1
}

// HasUnit reports whether a unit with the given id exists.
func (s Scenario) HasUnit(id string) bool {
	return s.UnitIndex(id) >= 0
}

// HasStream reports whether the exact edge from -> to exists.
func (s Scenario) HasStream(from, to string) bool {
	for _, st := range s.Streams {
		if st.From == from && st.To == to {
			return true
		}
	}
	return false
}
