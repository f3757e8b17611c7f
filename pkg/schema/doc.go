// Package schema validates Scenarios.
//
// Validation runs in two layers. The serialized document is checked against an
// embedded JSON Schema (ValidateDocument), then the graph rules the schema cannot
// express are checked on the decoded value (ValidateRules): unique unit ids,
// streams that reference existing units and complete distribution parameters.
//
// Parameter overrides are typed through a small type system. When an ontology
// is supplied, the declared parameter types are enforced:
//
//	s := schema.Schema{
//	    "target_pH": schema.Float(),
//	    "cycles":    schema.Int(),
//	    "mode":      schema.Enum("batch", "fed-batch"),
//	}
//
//	err := schema.Validate(s, unit.Overrides)
//
// Failures are reported as an *AggregateError of *ValidationError, each carrying
// the JSON Pointer of the offending value.
package schema
