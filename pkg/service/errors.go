package service

import (
	"errors"
	"fmt"
)

// ErrEmptyBatch is returned when Batch receives no commands.
var ErrEmptyBatch = errors.New("batch contains no commands")

// ErrNotRunCommand is returned when Run receives an editing command.
var ErrNotRunCommand = errors.New("not a run command")

// ErrSimulation wraps failures reported by the simulator.
var ErrSimulation = errors.New("simulation failed")

// BatchError identifies the command that aborted a batch.
type BatchError struct {
	Index   int
	Command string
	Err     error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch command %d (%q): %v", e.Index+1, e.Command, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}
