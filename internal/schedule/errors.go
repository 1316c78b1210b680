package schedule

import "errors"

// Sentinel errors for scheduling operations. Callers classify with
// errors.Is; the HTTP layer maps them to status codes.
var (
	// ErrConfiguration marks bad input shape (preferred-weekday count
	// mismatch, out-of-bounds dates). Rejected before any write.
	ErrConfiguration = errors.New("invalid schedule configuration")

	// ErrScheduleConflict marks a date collision: the user already has a
	// non-skipped, non-missed workout on the target date. Surfaced for
	// user-facing resolution, never retried automatically.
	ErrScheduleConflict = errors.New("schedule conflict")

	// ErrInvalidTransition marks a status change the state machine forbids,
	// e.g. skipping a workout that was already performed.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrNotFound marks a missing cycle or scheduled workout.
	ErrNotFound = errors.New("not found")
)
