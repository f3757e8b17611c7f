package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	sjsonschema "github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/aretw0/nls/pkg/domain"
	"github.com/aretw0/nls/pkg/ontology"
)

//go:embed scenario.schema.json
var scenarioSchemaJSON []byte

const scenarioSchemaURL = "scenario.schema.json"

// ScenarioSchema returns the embedded JSON Schema document.
func ScenarioSchema() []byte {
	return slices.Clone(scenarioSchemaJSON)
}

var compiledScenarioSchema = sync.OnceValues(func() (*sjsonschema.Schema, error) {
	doc, err := sjsonschema.UnmarshalJSON(bytes.NewReader(scenarioSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("unmarshal scenario schema: %w", err)
	}
	c := sjsonschema.NewCompiler()
	if err := c.AddResource(scenarioSchemaURL, doc); err != nil {
		return nil, fmt.Errorf("add scenario schema: %w", err)
	}
	return c.Compile(scenarioSchemaURL)
})

// Option configures scenario validation.
type Option func(*options)

type options struct {
	ontology *ontology.Snapshot
	baseline map[string]map[string]domain.Scalar
}

// WithOntology checks overrides against the parameter types declared in the ontology.
func WithOntology(s *ontology.Snapshot) Option {
	return func(o *options) {
		o.ontology = s
	}
}

// WithBaseline exempts overrides whose value is unchanged from before when
// checking ontology types. A replace keeps the overrides of the old template,
// and those stay valid even if the new template declares the key differently.
func WithBaseline(before domain.Scenario) Option {
	return func(o *options) {
		o.baseline = make(map[string]map[string]domain.Scalar, len(before.Units))
		for _, u := range before.Units {
			o.baseline[u.ID] = u.Overrides
		}
	}
}

// ValidateScenario runs the structural schema and the graph rules on s.
func ValidateScenario(s domain.Scenario, opts ...Option) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return &AggregateError{Errors: []error{&ValidationError{Reason: err.Error()}}}
	}
	if err := ValidateDocument(raw); err != nil {
		return err
	}
	return ValidateRules(s, opts...)
}

// ValidateDocument checks a serialized Scenario against the embedded JSON Schema.
func ValidateDocument(raw []byte) error {
	sch, err := compiledScenarioSchema()
	if err != nil {
		return err
	}
	doc, err := sjsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return &AggregateError{Errors: []error{&ValidationError{Reason: fmt.Sprintf("malformed document: %v", err)}}}
	}

	err = sch.Validate(doc)
	if err == nil {
		return nil
	}
	ve, ok := err.(*sjsonschema.ValidationError)
	if !ok {
		return &AggregateError{Errors: []error{&ValidationError{Reason: err.Error()}}}
	}
	var errs []error
	for _, cause := range leafCauses(ve) {
		errs = append(errs, &ValidationError{
			Path:   pointerOf(cause.InstanceLocation),
			Reason: fmt.Sprintf("%v", cause.ErrorKind),
		})
	}
	return aggregate(errs)
}

func leafCauses(ve *sjsonschema.ValidationError) []*sjsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*sjsonschema.ValidationError{ve}
	}
	var flat []*sjsonschema.ValidationError
	for _, cause := range ve.Causes {
		flat = append(flat, leafCauses(cause)...)
	}
	return flat
}

func pointerOf(tokens []string) string {
	parts := make([]any, len(tokens))
	for i, t := range tokens {
		parts[i] = t
	}
	return domain.Pointer(parts...)
}

// ValidateRules checks the invariants JSON Schema cannot express: unique unit ids,
// stream references, scalar values and distribution parameters.
func ValidateRules(s domain.Scenario, opts ...Option) error {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	var errs []error
	ids := make(map[string]int, len(s.Units))
	for i, u := range s.Units {
		base := domain.Pointer("units", i)
		if u.ID == "" {
			errs = append(errs, &ValidationError{Path: base + "/id", Reason: "required"})
		} else if first, dup := ids[u.ID]; dup {
			errs = append(errs, &ValidationError{
				Path:   base + "/id",
				Reason: fmt.Sprintf("duplicate id (first used at /units/%d)", first),
				Value:  u.ID,
			})
		} else {
			ids[u.ID] = i
		}
		if u.Template == "" {
			errs = append(errs, &ValidationError{Path: base + "/template", Reason: "required"})
		}
		errs = append(errs, validateValues(base+"/overrides", o.parameterSchema(u), u.Overrides)...)
	}

	for i, st := range s.Streams {
		base := domain.Pointer("streams", i)
		for _, end := range [...]struct{ field, ref string }{{"from", st.From}, {"to", st.To}} {
			if _, ok := ids[end.ref]; !ok {
				errs = append(errs, &ValidationError{
					Path:   base + "/" + end.field,
					Reason: "references unknown unit",
					Value:  end.ref,
				})
			}
		}
	}

	errs = append(errs, validateValues("/assumptions", nil, s.Assumptions)...)

	keys := make([]string, 0, len(s.Uncertainty))
	for k := range s.Uncertainty {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		errs = append(errs, validateDistribution(domain.Pointer("uncertainty", k), s.Uncertainty[k])...)
	}
	return aggregate(errs)
}

// parameterSchema builds a Schema from the parameter types the ontology declares for u.
func (o *options) parameterSchema(u domain.UnitInstance) Schema {
	if o.ontology == nil || len(u.Overrides) == 0 {
		return nil
	}
	schema := make(Schema, len(u.Overrides))
	prev := o.baseline[u.ID]
	for key, v := range u.Overrides {
		if old, ok := prev[key]; ok && old == v {
			continue
		}
		p, ok := o.ontology.Parameter(u.Template, key)
		if !ok || p.Type == "" {
			continue
		}
		// Unknown declared types are reported by the coverage check, not here.
		if t, err := ParseType(p.Type); err == nil {
			schema[key] = t
		}
	}
	return schema
}

func validateDistribution(path string, d domain.Distribution) []error {
	var errs []error
	missing := func(field string) {
		errs = append(errs, &ValidationError{Path: path + "/" + field, Reason: "required for " + d.Dist})
	}
	switch d.Dist {
	case domain.DistUniform:
		if d.Low == nil {
			missing("low")
		}
		if d.High == nil {
			missing("high")
		}
		if d.Low != nil && d.High != nil && *d.Low > *d.High {
			errs = append(errs, &ValidationError{Path: path, Reason: "low must not exceed high"})
		}
	case domain.DistNormal, domain.DistLognormal:
		if d.Mu == nil {
			missing("mu")
		}
		if d.Sigma == nil {
			missing("sigma")
		} else if *d.Sigma < 0 {
			errs = append(errs, &ValidationError{Path: path + "/sigma", Reason: "must be non-negative", Value: *d.Sigma})
		}
	default:
		errs = append(errs, &ValidationError{Path: path + "/dist", Reason: "unknown distribution", Value: d.Dist})
	}
	return errs
}

// UnknownTemplates lists, sorted and deduplicated, the templates in s that the
// ontology does not define. Unknown templates are allowed; this is advisory.
func UnknownTemplates(s domain.Scenario, snap *ontology.Snapshot) []string {
	seen := make(map[string]bool)
	var out []string
	for _, u := range s.Units {
		if u.Template == "" || seen[u.Template] || snap.Known(u.Template) {
			continue
		}
		seen[u.Template] = true
		out = append(out, u.Template)
	}
	slices.Sort(out)
	return out
}
