/*
Package domain contains the core models of the NLS scenario editor.

It defines the configuration graph under edit (Scenario), the parser's structured
command representation (Intent) and the RFC 6902 operations that express a
mutation (Patch). The package is kept free of I/O and third-party dependencies so
that every other layer (grammar, editor, validator, adapters) can share it.

# Key Entities

  - Scenario: Units (typed nodes), Streams (directed edges), Assumptions and Uncertainty.
  - Scalar: the tagged union of string, number and boolean used for parameter values.
  - Intent: a parsed command (verb + arguments), transient per request.
  - Patch: an ordered list of JSON-Patch operations addressed by JSON Pointer.
*/
package domain
