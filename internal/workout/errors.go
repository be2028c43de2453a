package workout

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoPlanFound        = errors.New("no workout plan found")
	ErrInvalidEntry       = errors.New("invalid plan entry")
	ErrInvalidLog         = errors.New("invalid log entry")
	ErrExerciseNotPlanned = errors.New("exercise not planned")
	ErrArchiveNotFound    = errors.New("week archive not found")
)

// IncompleteWeekError is returned when a transition is attempted before every
// non-static exercise of the week has been logged. The caller may retry after
// logging the missing exercises.
type IncompleteWeekError struct {
	Week    int
	Missing []string
}

func (e *IncompleteWeekError) Error() string {
	return fmt.Sprintf("week %d incomplete, missing logs for: %s", e.Week, strings.Join(e.Missing, ", "))
}

// MalformedRepTargetError marks a rep descriptor that is not a plain number
// ("6-10", "Failure", "30s").
type MalformedRepTargetError struct {
	Exercise   string
	Descriptor string
}

func (e *MalformedRepTargetError) Error() string {
	return fmt.Sprintf("exercise [%s]: rep target %q is not numeric", e.Exercise, e.Descriptor)
}

// TransitionAbortedError wraps any failure inside the atomic part of the
// weekly transition. The store is left as it was before the transition.
type TransitionAbortedError struct {
	Week int
	Err  error
}

func (e *TransitionAbortedError) Error() string {
	return fmt.Sprintf("transition of week %d aborted: %s", e.Week, e.Err)
}

func (e *TransitionAbortedError) Unwrap() error {
	return e.Err
}
