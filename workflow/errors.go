/*
errors.go - Error taxonomy for the leave workflow

PURPOSE:
  All workflow error types in one place. Three categories map directly onto
  how the HTTP layer responds:

  1. ValidationError - bad or missing input, user-correctable (400)
  2. DeliveryError   - notification transport failure on the critical
                       approver path (500)
  3. StorageError    - log read/write failure; the log is advisory, so these
                       are logged and never surfaced to the end user

USAGE:
  if workflow.IsValidation(err) { http 400 }
  if workflow.IsDelivery(err)   { http 500 }

SEE ALSO:
  - workflow.go: failurePolicy table deciding which step failures are fatal
*/
package workflow

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrMissingField is returned when a required intake field is absent.
	ErrMissingField = errors.New("required field missing")

	// ErrUnknownApprover is returned when the approver key is not in the
	// configured directory.
	ErrUnknownApprover = errors.New("unknown approver")

	// ErrUnknownStatus is returned for a decision status outside
	// {approved, rejected}.
	ErrUnknownStatus = errors.New("unknown decision status")

	// ErrHalfDaySpan is returned when a half-day request spans more than one
	// calendar date.
	ErrHalfDaySpan = errors.New("half day requires matching start and end dates")

	// ErrZeroBusinessDays is returned when a full-day range contains no
	// working days (weekend-only range).
	ErrZeroBusinessDays = errors.New("range contains no business days")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// ValidationError reports a user-correctable intake problem.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error { return e.Err }

// DeliveryError reports a notification transport failure.
type DeliveryError struct {
	Recipient string
	Err       error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("failed to notify %s: %v", e.Recipient, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// StorageError reports a request-log failure. Always caught and logged by
// the workflow, never surfaced to the end user.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("request log %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// =============================================================================
// CLASSIFICATION HELPERS
// =============================================================================

// IsValidation returns true for user-correctable input errors.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsDelivery returns true for notification transport failures.
func IsDelivery(err error) bool {
	var de *DeliveryError
	return errors.As(err, &de)
}

// IsStorage returns true for request-log failures.
func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
