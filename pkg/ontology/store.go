package ontology

import (
	"slices"
	"strings"
	"sync/atomic"
)

// Parameter is a tunable key of a unit template.
type Parameter struct {
	Key      string   `json:"key" yaml:"key"`
	Synonyms []string `json:"synonyms,omitempty" yaml:"synonyms,omitempty"`
	// Type optionally constrains override values ("string", "int", "float", "bool").
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
}

// Entry describes one unit type.
type Entry struct {
	Template   string      `json:"template" yaml:"template"`
	Synonyms   []string    `json:"synonyms" yaml:"synonyms"`
	Parameters []Parameter `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// Snapshot is an immutable ontology. A nil *Snapshot behaves as an empty one.
type Snapshot struct {
	entries []Entry
	byID    map[string]int
	units   map[string]string
	params  map[string]string
}

// New builds a Snapshot. Parameter lookups are global across templates:
// when two entries claim the same parameter synonym, the later entry wins.
func New(entries ...Entry) *Snapshot {
	s := &Snapshot{
		entries: make([]Entry, 0, len(entries)),
		byID:    make(map[string]int, len(entries)),
		units:   make(map[string]string),
		params:  make(map[string]string),
	}
	for _, e := range entries {
		if e.Template == "" {
			continue
		}
		e = e.clone()
		s.byID[normalize(e.Template)] = len(s.entries)
		s.entries = append(s.entries, e)

		s.units[normalize(e.Template)] = e.Template
		for _, syn := range e.Synonyms {
			if n := normalize(syn); n != "" {
				s.units[n] = e.Template
			}
		}
		for _, p := range e.Parameters {
			if p.Key == "" {
				continue
			}
			s.params[normalize(p.Key)] = p.Key
			for _, syn := range p.Synonyms {
				if n := normalize(syn); n != "" {
					s.params[n] = p.Key
				}
			}
		}
	}
	return s
}

// ResolveUnit maps free text to a canonical template id, or returns the trimmed input.
func (s *Snapshot) ResolveUnit(text string) string {
	text = strings.TrimSpace(text)
	if s == nil {
		return text
	}
	if tmpl, ok := s.units[normalize(text)]; ok {
		return tmpl
	}
	return text
}

// ResolveParam maps free text to a canonical parameter key, or returns the trimmed input.
func (s *Snapshot) ResolveParam(text string) string {
	text = strings.TrimSpace(text)
	if s == nil {
		return text
	}
	if key, ok := s.params[normalize(text)]; ok {
		return key
	}
	return text
}

// Known reports whether template is a canonical template id (exact match).
func (s *Snapshot) Known(template string) bool {
	if s == nil {
		return false
	}
	i, ok := s.byID[normalize(template)]
	return ok && s.entries[i].Template == template
}

// Lookup returns the entry of a template, matched case-insensitively.
func (s *Snapshot) Lookup(template string) (Entry, bool) {
	if s == nil {
		return Entry{}, false
	}
	i, ok := s.byID[normalize(template)]
	if !ok {
		return Entry{}, false
	}
	return s.entries[i].clone(), true
}

// Parameter returns the declaration of key on template, if any.
func (s *Snapshot) Parameter(template, key string) (Parameter, bool) {
	e, ok := s.Lookup(template)
	if !ok {
		return Parameter{}, false
	}
	for _, p := range e.Parameters {
		if p.Key == key {
			return p, true
		}
	}
	return Parameter{}, false
}

// Entries returns a copy of all entries in load order.
func (s *Snapshot) Entries() []Entry {
	if s == nil {
		return nil
	}
	out := make([]Entry, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.clone()
	}
	return out
}

// Len returns the number of templates.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

func (e Entry) clone() Entry {
	e.Synonyms = slices.Clone(e.Synonyms)
	params := make([]Parameter, len(e.Parameters))
	for i, p := range e.Parameters {
		p.Synonyms = slices.Clone(p.Synonyms)
		params[i] = p
	}
	if e.Parameters != nil {
		e.Parameters = params
	}
	return e
}

func normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// Holder publishes the process-wide Snapshot. Readers never lock.
type Holder struct {
	current atomic.Pointer[Snapshot]
}

// NewHolder creates a Holder serving s.
func NewHolder(s *Snapshot) *Holder {
	h := &Holder{}
	if s == nil {
		s = New()
	}
	h.current.Store(s)
	return h
}

// Load returns the current Snapshot.
func (h *Holder) Load() *Snapshot {
	return h.current.Load()
}

// Swap installs a new Snapshot and returns the previous one.
func (h *Holder) Swap(s *Snapshot) *Snapshot {
	if s == nil {
		s = New()
	}
	return h.current.Swap(s)
}
