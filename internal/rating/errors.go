package rating

import (
	"errors"
	"fmt"
)

var (
	// ErrDegenerateScore means no games were recorded, so the game percentage is undefined.
	ErrDegenerateScore = errors.New("degenerate score: no games recorded")
	ErrProfileNotFound = errors.New("profile not found")
)

// ValidationError is a rejected request. Nothing was read or written.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// DependencyReadError is a failed lookup. Returned before any write happens.
type DependencyReadError struct {
	Op      string
	MatchID string
	Err     error
}

func (e *DependencyReadError) Error() string {
	return fmt.Sprintf("match %s: read %s: %v", e.MatchID, e.Op, e.Err)
}

func (e *DependencyReadError) Unwrap() error { return e.Err }

// DependencyWriteError is a failed write step. Steps that ran before it are
// not rolled back.
type DependencyWriteError struct {
	Step    string
	MatchID string
	Err     error
}

func (e *DependencyWriteError) Error() string {
	return fmt.Sprintf("match %s: write step %s: %v", e.MatchID, e.Step, e.Err)
}

func (e *DependencyWriteError) Unwrap() error { return e.Err }

// Permanent reports whether retrying err can never succeed.
func Permanent(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr) || errors.Is(err, ErrDegenerateScore)
}
