/*
Package ontology resolves free text to canonical unit templates and parameter keys.

A Snapshot is built once from a list of Entries (usually loaded from a directory of
declarative spec records) and is read-only afterwards, so it can be shared freely
between concurrent requests. Replacing the ontology means building a new Snapshot
and swapping it into a Holder; the live tables are never mutated.

Lookups are case-insensitive and whitespace-tolerant. A miss returns the input
unchanged so that the editor can later report a precise "not found" error.
*/
package ontology
