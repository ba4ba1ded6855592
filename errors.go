package markovbench

import (
	"errors"
	"fmt"
)

// Sentinel errors. Typed errors below match these through errors.Is.
var (
	ErrValidation        = errors.New("invalid rules")
	ErrStepLimitExceeded = errors.New("step limit exceeded")
	ErrMissingInput      = errors.New("word and rules required")
)

// ValidationError reports malformed rule text or an unusable rule set.
// Line is 1-based and zero when the error is not tied to a source line.
type ValidationError struct {
	Line   int
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
	}
	return e.Reason
}

// Is lets errors.Is(err, ErrValidation) match any *ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// StepLimitError is returned when a run exhausts its step budget without halting.
type StepLimitError struct {
	Budget int    // Steps performed before giving up
	Word   string // Word at the moment the budget ran out
}

func (e *StepLimitError) Error() string {
	return fmt.Sprintf("step limit exceeded (%d steps)", e.Budget)
}

func (e *StepLimitError) Is(target error) bool {
	return target == ErrStepLimitExceeded
}
