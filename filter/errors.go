package filter

import (
	"errors"
	"fmt"
)

// ErrPresetNotFound is returned when a named preset was never registered
var ErrPresetNotFound = errors.New("filter preset not found")

// Error types for filter operations
type (
	// CompilationError indicates a filter expression could not be compiled
	CompilationError struct {
		Expression string
		Reason     string
		Column     int // 0 if unknown
		Err        error
	}

	// EvaluationError indicates a filter could not be evaluated against an item
	EvaluationError struct {
		Expression string
		Index      int
		Err        error
	}
)

func (e *CompilationError) Error() string {
	if e.Column > 0 {
		return fmt.Sprintf("compilation error at column %d in '%s': %s", e.Column, e.Expression, e.Reason)
	}
	return fmt.Sprintf("compilation error in '%s': %s", e.Expression, e.Reason)
}

func (e *CompilationError) Unwrap() error {
	return e.Err
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluation error for '%s' on item %d: %v", e.Expression, e.Index, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}
