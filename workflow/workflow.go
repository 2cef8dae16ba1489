/*
workflow.go - Submit and Decide orchestration

REQUEST FLOW (Submit):
  1. Validate required fields
  2. Resolve approver mailbox from the fixed directory
  3. Parse dates, compute business days, apply duration type
  4. Append Pending record to the log       (advisory)
  5. Notify approver, CC oversight address  (fatal)
  6. Send employee receipt                  (advisory)

DECISION FLOW (Decide):
  1. Parse decision status (approved|rejected only)
  2. Recompute days from the link parameters (not trusted from storage)
  3. Find the latest matching Pending record and update it, or
     fallback-append a synthetic decided record when none matches
  4. Notify employee of the outcome          (advisory)

FAILURE POLICY:
  The failurePolicy table below is the single place deciding which step
  failures abort the operation and which are logged and ignored. The log is
  advisory: once past validation, the submitter is told the action succeeded
  even if the append failed. The one fatal notification is the approver
  email on submit, because without it the request would never be seen.
*/
package workflow

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/warp/leave-workflow/calendar"
)

// =============================================================================
// FAILURE POLICY
// =============================================================================

type step string

const (
	stepAppendPending  step = "append pending record"
	stepNotifyApprover step = "notify approver"
	stepSendReceipt    step = "send submission receipt"
	stepUpdateStatus   step = "update request status"
	stepAppendDecision step = "append decision record"
	stepNotifyOutcome  step = "notify decision outcome"
)

type severity int

const (
	advisory severity = iota // log and continue
	fatal                    // abort and surface to the caller
)

// failurePolicy is the per-step severity table. Keep every external call's
// failure handling here rather than scattered through the flow.
var failurePolicy = map[step]severity{
	stepAppendPending:  advisory,
	stepNotifyApprover: fatal,
	stepSendReceipt:    advisory,
	stepUpdateStatus:   advisory,
	stepAppendDecision: advisory,
	stepNotifyOutcome:  advisory,
}

// =============================================================================
// WORKFLOW
// =============================================================================

// Config carries the immutable settings the workflow needs. Built once at
// process start and passed in; business logic never reads the environment.
type Config struct {
	// Approvers maps approver keys (e.g. "mark") to mailboxes.
	Approvers map[string]string
	// AlwaysCC is the oversight address copied on approver notifications.
	AlwaysCC string
	// BaseURL is the externally reachable prefix for decision links.
	BaseURL string
}

// Workflow is the stateless orchestrator for submit and decide.
type Workflow struct {
	store   RequestStore
	gateway Gateway
	cfg     Config

	// Injection points for tests
	now   func() time.Time
	newID func() string
	logf  func(format string, v ...any)
}

// New creates a Workflow with the given collaborators.
func New(store RequestStore, gateway Gateway, cfg Config) *Workflow {
	return &Workflow{
		store:   store,
		gateway: gateway,
		cfg:     cfg,
		now:     time.Now,
		newID:   uuid.NewString,
		logf:    log.Printf,
	}
}

// handleFailure applies the per-step policy to an error. Returns the error
// to propagate for fatal steps, nil otherwise.
func (w *Workflow) handleFailure(s step, err error) error {
	if err == nil {
		return nil
	}
	if failurePolicy[s] == fatal {
		return err
	}
	w.logf("workflow: %s failed (continuing): %v", s, err)
	return nil
}

// =============================================================================
// SUBMIT
// =============================================================================

// Submission carries the raw intake form fields.
type Submission struct {
	EmployeeName  string
	EmployeeEmail string
	Approver      string
	StartDate     string // YYYY-MM-DD
	EndDate       string // YYYY-MM-DD
	DurationType  string // full|half, empty defaults to full
	LeaveType     string
	Reason        string
}

// Submit validates a new request, persists it as Pending and dispatches the
// approver and employee notifications. On success the returned record is the
// one appended to the log.
func (w *Workflow) Submit(ctx context.Context, sub Submission) (*TimeOffRequest, error) {
	required := []struct{ field, value string }{
		{"name", sub.EmployeeName},
		{"email", sub.EmployeeEmail},
		{"approver", sub.Approver},
		{"start_date", sub.StartDate},
		{"end_date", sub.EndDate},
	}
	for _, r := range required {
		if r.value == "" {
			return nil, &ValidationError{Field: r.field, Message: "is required", Err: ErrMissingField}
		}
	}

	approverAddr, ok := w.cfg.Approvers[sub.Approver]
	if !ok || approverAddr == "" {
		return nil, &ValidationError{Field: "approver", Message: "unknown approver " + sub.Approver, Err: ErrUnknownApprover}
	}

	start, err := calendar.ParseDate(sub.StartDate)
	if err != nil {
		return nil, &ValidationError{Field: "start_date", Message: "expected YYYY-MM-DD", Err: err}
	}
	end, err := calendar.ParseDate(sub.EndDate)
	if err != nil {
		return nil, &ValidationError{Field: "end_date", Message: "expected YYYY-MM-DD", Err: err}
	}

	duration, err := calendar.ParseDuration(sub.DurationType)
	if err != nil {
		return nil, &ValidationError{Field: "duration_type", Message: "expected full or half", Err: err}
	}

	raw, err := calendar.BusinessDays(start, end)
	if err != nil {
		return nil, &ValidationError{Field: "end_date", Message: "must not be before start date", Err: err}
	}
	if duration == calendar.DurationHalf && !start.Equal(end) {
		return nil, &ValidationError{Field: "duration_type", Message: "half day must start and end on the same date", Err: ErrHalfDaySpan}
	}
	if duration == calendar.DurationFull && raw == 0 {
		return nil, &ValidationError{Field: "start_date", Message: "range contains no working days", Err: ErrZeroBusinessDays}
	}

	rec := TimeOffRequest{
		ID:            w.newID(),
		EmployeeName:  sub.EmployeeName,
		EmployeeEmail: sub.EmployeeEmail,
		Approver:      sub.Approver,
		StartDate:     start,
		EndDate:       end,
		Duration:      duration,
		LeaveType:     sub.LeaveType,
		Reason:        sub.Reason,
		Days:          calendar.AdjustForDuration(raw, duration),
		Status:        StatusPending,
		CreatedAt:     w.now().UTC(),
	}

	// Append before notifying so a notification failure cannot lose the record.
	if err := w.store.Append(ctx, rec); err != nil {
		if ferr := w.handleFailure(stepAppendPending, &StorageError{Op: "append", Err: err}); ferr != nil {
			return nil, ferr
		}
	}

	if err := w.gateway.Send(ctx, w.approverMessage(rec, approverAddr)); err != nil {
		if ferr := w.handleFailure(stepNotifyApprover, &DeliveryError{Recipient: approverAddr, Err: err}); ferr != nil {
			return nil, ferr
		}
	}

	if err := w.gateway.Send(ctx, w.receiptMessage(rec)); err != nil {
		w.handleFailure(stepSendReceipt, &DeliveryError{Recipient: rec.EmployeeEmail, Err: err})
	}

	return &rec, nil
}

// =============================================================================
// DECIDE
// =============================================================================

// Decision carries the parameters embedded in a clicked decision link.
type Decision struct {
	Status        string // approved|rejected
	EmployeeName  string
	EmployeeEmail string
	StartDate     string // YYYY-MM-DD
	EndDate       string // YYYY-MM-DD
	DurationType  string
	Reason        string
}

// DecisionResult reports what a decision click did to the log.
type DecisionResult struct {
	Request TimeOffRequest
	Status  Status
	// Matched is false when no Pending record was found and a synthetic
	// decision record was appended instead.
	Matched bool
}

// Decide finalizes a request from a decision link. Each click both updates
// (or fallback-appends) the log and emails the employee; clicking twice is
// harmless by intent, the second click simply produces a decision record.
func (w *Workflow) Decide(ctx context.Context, d Decision) (*DecisionResult, error) {
	status, err := ParseDecision(d.Status)
	if err != nil {
		return nil, &ValidationError{Field: "status", Message: "expected approved or rejected", Err: err}
	}

	start, err := calendar.ParseDate(d.StartDate)
	if err != nil {
		return nil, &ValidationError{Field: "sd", Message: "expected YYYY-MM-DD", Err: err}
	}
	end, err := calendar.ParseDate(d.EndDate)
	if err != nil {
		return nil, &ValidationError{Field: "ed", Message: "expected YYYY-MM-DD", Err: err}
	}
	duration, err := calendar.ParseDuration(d.DurationType)
	if err != nil {
		return nil, &ValidationError{Field: "dt", Message: "expected full or half", Err: err}
	}

	// Recompute days from the link parameters for display consistency; the
	// stored value is not trusted here.
	raw, err := calendar.BusinessDays(start, end)
	if err != nil {
		return nil, &ValidationError{Field: "ed", Message: "must not be before start date", Err: err}
	}
	days := calendar.AdjustForDuration(raw, duration)

	rec, err := w.store.FindLatestPending(ctx, d.EmployeeEmail, start, end)
	if err != nil {
		w.handleFailure(stepUpdateStatus, &StorageError{Op: "find pending", Err: err})
		rec = nil
	}

	matched := rec != nil
	if matched {
		if err := w.store.UpdateStatus(ctx, rec.ID, status); err != nil {
			w.handleFailure(stepUpdateStatus, &StorageError{Op: "update status", Err: err})
		}
		rec.Status = status
	} else {
		// No matching Pending row: append a synthetic decision record so the
		// decision event is never lost. Logged distinctly from a genuine
		// found-and-updated decision.
		w.logf("workflow: orphan decision for %s %s..%s, appending decision record",
			d.EmployeeEmail, start.Format(calendar.DateLayout), end.Format(calendar.DateLayout))
		synthetic := TimeOffRequest{
			ID:            w.newID(),
			EmployeeName:  d.EmployeeName,
			EmployeeEmail: d.EmployeeEmail,
			StartDate:     start,
			EndDate:       end,
			Duration:      duration,
			Reason:        d.Reason,
			Days:          days,
			Status:        status,
			CreatedAt:     w.now().UTC(),
		}
		if err := w.store.Append(ctx, synthetic); err != nil {
			w.handleFailure(stepAppendDecision, &StorageError{Op: "append decision", Err: err})
		}
		rec = &synthetic
	}

	if d.EmployeeEmail != "" {
		if err := w.gateway.Send(ctx, w.outcomeMessage(*rec, days)); err != nil {
			w.handleFailure(stepNotifyOutcome, &DeliveryError{Recipient: d.EmployeeEmail, Err: err})
		}
	}

	return &DecisionResult{Request: *rec, Status: status, Matched: matched}, nil
}
