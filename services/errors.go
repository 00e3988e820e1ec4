package services

import "fmt"

// Admission denial reasons.
const (
	ReasonPendingExists    = "pending_submission_exists"
	ReasonCapacityExceeded = "capacity_exceeded"
	ReasonEventClosed      = "event_closed"
)

// ValidationError is malformed input: the operation was never started.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// AdmissionDeniedError is a business-rule gate refusing the operation:
// a second pending submission, an event at capacity, an event in the past.
// No state was changed.
type AdmissionDeniedError struct {
	Code   string
	Reason string
}

func (e *AdmissionDeniedError) Error() string { return e.Reason }

// AuthorizationError is a role or ownership check failure.
type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string { return e.Reason }

// InvalidTransitionError is an attempted status change on a submission that
// already reached a terminal state.
type InvalidTransitionError struct {
	Status string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("submission is already %s and cannot be reviewed again", e.Status)
}

// CollaboratorError wraps a failed database or storage call. The whole
// operation is safe to retry.
type CollaboratorError struct {
	Op  string
	Err error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *CollaboratorError) Unwrap() error { return e.Err }
