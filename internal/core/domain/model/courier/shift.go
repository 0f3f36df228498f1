package courier

import (
	"time"

	"dispatch/internal/pkg/errs"
)

// Shift is one scheduled on-call window for a courier. Shifts are input data
// and immutable once created.
type Shift struct {
	Start time.Time
	End   time.Time
}

// NewShift creates a shift, rejecting windows that end before they start.
func NewShift(start, end time.Time) (Shift, error) {
	if start.IsZero() || end.IsZero() {
		return Shift{}, errs.NewValueIsRequiredError("shift start and end")
	}
	if end.Before(start) {
		return Shift{}, errs.NewValueIsInvalidError("shift end precedes start")
	}
	return Shift{Start: start, End: end}, nil
}

// Contains reports whether t falls within the shift, boundaries included.
func (s Shift) Contains(t time.Time) bool {
	return !t.Before(s.Start) && !t.After(s.End)
}
