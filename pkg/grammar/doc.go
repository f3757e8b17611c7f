/*
Package grammar converts a single command string into a domain.Intent.

The grammar is a closed, verb-first command set matched by ordered patterns
(first match wins). Parsing is total: text that matches no rule becomes an
"unknown" intent carrying the raw text, and the editor decides how to report it.

	add      <unit> [after <id> | before <id> | at <id>]
	replace  <unit-or-id> with <unit>
	remove   <unit-or-id>
	set      <k>=<v>[, <k>=<v>...] [on <unit-or-id>]
	connect  <id> -> <id>
	disconnect <id> -> <id>
	duplicate <unit-or-id> as <new-id>
	run      [deterministic | sobol] [n=<int>]
*/
package grammar
