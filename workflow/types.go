/*
Package workflow orchestrates the leave-request lifecycle.

PURPOSE:
  Accepts a new request, validates it, computes the charged days, persists it
  as Pending, and dispatches notifications. Later, a decision callback (the
  approver clicking an emailed link) finalizes the record and notifies the
  employee.

STATE MACHINE:
  Submit:  Received -> Validated -> Logged -> Notified (terminal on success)
  Decide:  Pending -> Approved | Rejected (terminal, one-way)

STATELESS ORCHESTRATION:
  The Workflow holds no request state between calls. Every decision is
  resolved strictly from the persisted log; the store is the single source
  of truth.

SEE ALSO:
  - errors.go: Error taxonomy and severity helpers
  - notify.go: Email composition and decision links
  - store/sqlite: Durable request log
*/
package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/leave-workflow/calendar"
)

// =============================================================================
// STATUS - Closed enumeration, one-way Pending -> {Approved, Rejected}
// =============================================================================

type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// ParseDecision maps a decision-link status parameter onto the closed status
// set. Only the two terminal states are accepted; anything else is rejected
// before it can reach the log.
func ParseDecision(s string) (Status, error) {
	switch s {
	case "approved":
		return StatusApproved, nil
	case "rejected":
		return StatusRejected, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
}

// =============================================================================
// REQUEST RECORD
// =============================================================================

// TimeOffRequest is one employee leave request as persisted in the log.
// Records are appended once and mutated exactly once (Status) on decision.
type TimeOffRequest struct {
	ID            string
	EmployeeName  string
	EmployeeEmail string
	Approver      string // approver key, e.g. "mark"; resolved to a mailbox via config
	StartDate     time.Time
	EndDate       time.Time
	Duration      calendar.Duration
	LeaveType     string
	Reason        string
	Days          decimal.Decimal
	Status        Status
	CreatedAt     time.Time
}

// =============================================================================
// COLLABORATOR CONTRACTS
// =============================================================================

// RequestStore is the append-only request log.
//
// FindLatestPending scans newest-first for a Pending record matching
// (email, start, end) and returns nil when none matches: duplicate Pending
// rows can exist after a re-submission, and the most recent one wins.
type RequestStore interface {
	Append(ctx context.Context, rec TimeOffRequest) error
	FindLatestPending(ctx context.Context, email string, start, end time.Time) (*TimeOffRequest, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
}

// Message is one outbound notification.
type Message struct {
	To      []string
	CC      []string
	Subject string
	HTML    string
}

// Gateway delivers notifications. Implementations return transport errors
// as-is; the workflow's failure policy decides whether they are fatal.
type Gateway interface {
	Send(ctx context.Context, msg Message) error
}
