package errors

import (
	"fmt"
)

var (
	ErrNotFound              = fmt.Errorf("not found")
	ErrDuplicateEmail        = fmt.Errorf("duplicate email")
	ErrDuplicateRegistration = fmt.Errorf("duplicate registration number")
	ErrInvalidInput          = fmt.Errorf("invalid input")
	// ErrCapacityExceeded signals that the employee already holds the
	// maximum number of assignments for the day. Callers surface it as a
	// specific user-facing message, not a generic failure.
	ErrCapacityExceeded = fmt.Errorf("capacity exceeded")
	// ErrInvalidTransition signals a disallowed assignment status change.
	ErrInvalidTransition = fmt.Errorf("invalid status transition")
	// ErrSessionActive signals a clock-in while a session is already open.
	ErrSessionActive = fmt.Errorf("work session already active")
)
