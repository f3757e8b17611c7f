/*
Package nls compiles constrained English commands into validated JSON-Patch (RFC 6902)
edits of a process-flowsheet Scenario.

A Scenario is a graph of unit instances (each typed by a template from the ontology)
joined by directed streams. Commands such as "replace aex membrane with chitosan capture"
or "set titer=8 on prod1" are parsed into an Intent, turned into a Patch against the
current Scenario, applied to a deep copy and re-validated. The caller's Scenario is
never modified; a rejected command produces no partial result.

# Ontology

Templates and their synonyms come from a directory of spec records (Markdown
frontmatter, YAML or JSON) read through Loam, or from any ports.OntologyLoader. The
loaded ontology is immutable and can be swapped atomically with Reload or Watch.

# Usage

	ctx := context.Background()
	engine, err := nls.New(ctx, "./specs")
	if err != nil {
		log.Fatal(err)
	}

	res, err := engine.Apply(ctx, "add centrifuge after fer01", scenario)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Print(res.Patch)
	scenario = res.ScenarioAfter

Run commands ("run", "run sobol n=64") are handed to a ports.Simulator configured with
WithSimulator; pkg/adapters/process runs an external simulator binary.
*/
package nls
