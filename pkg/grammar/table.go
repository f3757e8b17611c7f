package grammar

import (
	"fmt"
	"strings"

	"github.com/aretw0/nls/pkg/domain"
)

// Rule documents one grammar production for help output.
type Rule struct {
	Verb        domain.IntentType `json:"verb"`
	Syntax      string            `json:"syntax"`
	Description string            `json:"description"`
	Example     string            `json:"example"`
}

var table = []Rule{
	{domain.IntentAdd, "add <unit> [after <id> | before <id> | at <id>]",
		"Add a unit; 'after'/'before' splice it into every outgoing/incoming stream of the anchor.",
		"add centrifuge after fer01"},
	{domain.IntentReplace, "replace <unit-or-id> with <unit>",
		"Swap the template of a unit, keeping its id and overrides.",
		"replace aex membrane with chitosan capture"},
	{domain.IntentRemove, "remove <unit-or-id>",
		"Remove a unit and every stream touching it.",
		"remove dsp04"},
	{domain.IntentSet, "set <k>=<v>[, <k>=<v>...] [on <unit-or-id>]",
		"Set parameter overrides (first unit when 'on' is omitted).",
		"set target_pH=4.4, recycle_fraction=0.5 on dsp04"},
	{domain.IntentConnect, "connect <id> -> <id>",
		"Add a stream; no-op when it already exists.",
		"connect fer01 -> cen01"},
	{domain.IntentDisconnect, "disconnect <id> -> <id>",
		"Remove the last matching stream; no-op when absent.",
		"disconnect fer01 -> cen01"},
	{domain.IntentDuplicate, "duplicate <unit-or-id> as <new-id>",
		"Copy a unit's template and overrides under a new id, without streams.",
		"duplicate dsp04 as dsp05"},
	{domain.IntentRun, "run [deterministic | sobol] [n=<int>]",
		"Hand the scenario to the simulator.",
		"run sobol n=256"},
}

// Table returns the grammar rows in match order.
func Table() []Rule {
	out := make([]Rule, len(table))
	copy(out, table)
	return out
}

// Markdown renders the grammar as a markdown table.
func Markdown() string {
	var sb strings.Builder
	sb.WriteString("| Verb | Syntax | Example |\n|---|---|---|\n")
	for _, r := range table {
		fmt.Fprintf(&sb, "| %s | `%s` | `%s` |\n", r.Verb, strings.ReplaceAll(r.Syntax, "|", "\\|"), r.Example)
	}
	return sb.String()
}
