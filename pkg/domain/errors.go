package domain

import (
	"errors"
	"fmt"
)

// ErrUnrecognizedCommand is returned when a command matches no grammar rule.
var ErrUnrecognizedCommand = errors.New("unrecognized command")

// ErrNotFound is returned when a referenced unit, id or template is absent from the Scenario.
var ErrNotFound = errors.New("not found")

// ErrNotImplemented is returned for grammar forms that parse but have no editing semantics yet.
var ErrNotImplemented = errors.New("not implemented")

// ErrDuplicateID is returned when a command would introduce a unit id that already exists.
var ErrDuplicateID = errors.New("duplicate unit id")

// ErrPatchApplication is returned when a patch cannot be applied to the serialized Scenario.
var ErrPatchApplication = errors.New("patch application failed")

// ErrInvalidScenario is returned when a Scenario violates its structural schema.
var ErrInvalidScenario = errors.New("invalid scenario")

// ErrRunNotPatchable is returned when a run command is routed through the patch pipeline.
var ErrRunNotPatchable = errors.New("run commands do not produce patches")

// ErrNoSimulator is returned when a run is requested but no simulator is configured.
var ErrNoSimulator = errors.New("no simulator configured")

// UnrecognizedError carries the raw command text that failed to parse.
type UnrecognizedError struct {
	Raw string
}

func (e *UnrecognizedError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnrecognizedCommand, e.Raw)
}

func (e *UnrecognizedError) Unwrap() error {
	return ErrUnrecognizedCommand
}
