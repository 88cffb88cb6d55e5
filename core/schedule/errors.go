package schedule

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrAlreadySelected is returned by Add when the candidate is already part of the selection.
var ErrAlreadySelected = errors.New("section already selected")

// TimeConflictError means the candidate overlaps With, an existing member of the selection.
type TimeConflictError struct {
	Candidate CourseSection
	With      CourseSection
}

func (err *TimeConflictError) Error() string {
	return fmt.Sprintf("time conflict: %s overlaps %s", err.Candidate, err.With)
}

// CreditLimitExceededError means adding the candidate would bring the selection to Attempted credits.
type CreditLimitExceededError struct {
	Attempted int
	Max       int
}

func (err *CreditLimitExceededError) Error() string {
	return fmt.Sprintf("credit limit of %d would be exceeded (%d)", err.Max, err.Attempted)
}
