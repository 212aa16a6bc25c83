package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation signals malformed caller input.
	ErrValidation = errors.New("validation error")
	// ErrBackend signals a catalog backend failure.
	ErrBackend = errors.New("backend error")
	// ErrNotFound signals a missing catalog entity.
	ErrNotFound = errors.New("not found")
	// ErrPartialFailure signals a batch operation with mixed outcomes.
	ErrPartialFailure = errors.New("partial failure")
)

// TargetOutcome is the per-target result of a batch mutation.
type TargetOutcome struct {
	Target string
	Err    error
}

// PartialFailureError wraps ErrPartialFailure with itemized per-target
// outcomes so that no failed target is silently dropped.
type PartialFailureError struct {
	Op       string
	Outcomes []TargetOutcome
}

func (e *PartialFailureError) Error() string {
	failed := 0
	for _, o := range e.Outcomes {
		if o.Err != nil {
			failed++
		}
	}
	return fmt.Sprintf("%s: %s: %d/%d targets failed", e.Op, ErrPartialFailure.Error(), failed, len(e.Outcomes))
}

func (e *PartialFailureError) Unwrap() error { return ErrPartialFailure }

// Failed returns the outcomes that carry an error.
func (e *PartialFailureError) Failed() []TargetOutcome {
	var out []TargetOutcome
	for _, o := range e.Outcomes {
		if o.Err != nil {
			out = append(out, o)
		}
	}
	return out
}
