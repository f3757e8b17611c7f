// Package service implements the command pipeline: sanitize, parse, build a
// patch, apply it to a copy of the Scenario and validate the result.
//
// Every call is synchronous and stateless. The only shared state is the
// ontology snapshot, which is read without locking.
package service
