/*
handlers.go - HTTP handlers for the leave workflow

PURPOSE:
  Translates HTTP requests into workflow calls and renders the HTML pages.
  Handlers own status-code mapping; the error taxonomy decides it:

  - ValidationError -> 400 with a plain-text reason (user-correctable)
  - DeliveryError   -> 500 (the approver never learned of the request)
  - anything else   -> 500

  Storage failures never reach a response: the workflow logs them and
  proceeds, because the request log is advisory.

SEE ALSO:
  - templates.go: Page templates
  - workflow/errors.go: Error taxonomy
*/
package api

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	"github.com/warp/leave-workflow/calendar"
	"github.com/warp/leave-workflow/config"
	"github.com/warp/leave-workflow/store/sqlite"
	"github.com/warp/leave-workflow/workflow"
)

// SMTPVerifier is the diagnostic hook for /_smtp_test.
type SMTPVerifier interface {
	Verify(ctx context.Context) error
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store *sqlite.Store
	Flow  *workflow.Workflow
	SMTP  SMTPVerifier // may be nil when mail is not configured
	Cfg   *config.Config
}

// NewHandler creates a handler with the given collaborators.
func NewHandler(store *sqlite.Store, flow *workflow.Workflow, smtp SMTPVerifier, cfg *config.Config) *Handler {
	return &Handler{Store: store, Flow: flow, SMTP: smtp, Cfg: cfg}
}

// =============================================================================
// INTAKE
// =============================================================================

// IntakeForm renders the request form, pre-populated with the staff
// directory when one is configured.
func (h *Handler) IntakeForm(w http.ResponseWriter, r *http.Request) {
	staff, err := h.Store.ListStaff(r.Context())
	if err != nil {
		staff = nil // the form works without the directory
	}

	renderHTML(w, http.StatusOK, formTmpl, formData{
		Staff:     staff,
		Approvers: h.approverKeys(),
	})
}

// Submit accepts the posted intake form.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form body", http.StatusBadRequest)
		return
	}

	sub := workflow.Submission{
		EmployeeName:  firstNonEmpty(r.PostFormValue("employee_name"), r.PostFormValue("name")),
		EmployeeEmail: r.PostFormValue("email"),
		Approver:      r.PostFormValue("approver"),
		StartDate:     r.PostFormValue("start_date"),
		EndDate:       r.PostFormValue("end_date"),
		DurationType:  r.PostFormValue("duration_type"),
		LeaveType:     r.PostFormValue("type_of_leave"),
		Reason:        r.PostFormValue("reason"),
	}

	rec, err := h.Flow.Submit(r.Context(), sub)
	if err != nil {
		switch {
		case workflow.IsValidation(err):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case workflow.IsDelivery(err):
			http.Error(w, "failed to notify the approver, please try again", http.StatusInternalServerError)
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}

	renderHTML(w, http.StatusOK, confirmTmpl, confirmData{
		Name:     rec.EmployeeName,
		Start:    rec.StartDate.Format(calendar.DateLayout),
		End:      rec.EndDate.Format(calendar.DateLayout),
		Days:     rec.Days.String(),
		Approver: rec.Approver,
	})
}

// =============================================================================
// DECISION
// =============================================================================

// Decision finalizes a request from an emailed approve/reject link. Each
// click updates (or fallback-appends) the log and emails the employee.
func (h *Handler) Decision(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	d := workflow.Decision{
		Status:        q.Get("status"),
		EmployeeName:  q.Get("name"),
		EmployeeEmail: q.Get("email"),
		StartDate:     q.Get("sd"),
		EndDate:       q.Get("ed"),
		DurationType:  q.Get("dt"),
		Reason:        q.Get("reason"),
	}

	res, err := h.Flow.Decide(r.Context(), d)
	if err != nil {
		if workflow.IsValidation(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	renderHTML(w, http.StatusOK, decisionTmpl, decisionData{
		Name:   res.Request.EmployeeName,
		Start:  res.Request.StartDate.Format(calendar.DateLayout),
		End:    res.Request.EndDate.Format(calendar.DateLayout),
		Status: string(res.Status),
	})
}

// =============================================================================
// ADMIN
// =============================================================================

// Admin renders the full request log, newest first.
func (h *Handler) Admin(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListRequests(r.Context(), 500)
	if err != nil {
		http.Error(w, "failed to load the request log", http.StatusInternalServerError)
		return
	}

	rows := make([]adminRow, len(records))
	for i, rec := range records {
		rows[i] = adminRow{
			Timestamp: rec.CreatedAt.Format("2006-01-02 15:04"),
			Name:      rec.EmployeeName,
			Email:     rec.EmployeeEmail,
			Approver:  rec.Approver,
			Start:     rec.StartDate.Format(calendar.DateLayout),
			End:       rec.EndDate.Format(calendar.DateLayout),
			Days:      rec.Days.String(),
			Duration:  string(rec.Duration),
			LeaveType: rec.LeaveType,
			Reason:    rec.Reason,
			Status:    string(rec.Status),
		}
	}

	renderHTML(w, http.StatusOK, adminTmpl, adminData{Rows: rows})
}

// ResetLog clears the entire request log. Destructive.
func (h *Handler) ResetLog(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.ResetLog(r.Context()); err != nil {
		http.Error(w, "reset failed", http.StatusInternalServerError)
		return
	}
	plainText(w, http.StatusOK, "request log cleared")
}

// =============================================================================
// LIVENESS AND DIAGNOSTICS
// =============================================================================

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	plainText(w, http.StatusOK, "ok")
}

func (h *Handler) Ping(w http.ResponseWriter, r *http.Request) {
	plainText(w, http.StatusOK, "pong")
}

// SMTPTest opens and closes an SMTP connection.
func (h *Handler) SMTPTest(w http.ResponseWriter, r *http.Request) {
	if h.SMTP == nil {
		http.Error(w, "smtp not configured", http.StatusServiceUnavailable)
		return
	}
	if err := h.SMTP.Verify(r.Context()); err != nil {
		http.Error(w, fmt.Sprintf("smtp check failed: %v", err), http.StatusInternalServerError)
		return
	}
	plainText(w, http.StatusOK, "smtp ok")
}

// StoreTest verifies the request log is reachable.
func (h *Handler) StoreTest(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Ping(r.Context()); err != nil {
		http.Error(w, fmt.Sprintf("store check failed: %v", err), http.StatusInternalServerError)
		return
	}
	plainText(w, http.StatusOK, "store ok")
}

// =============================================================================
// HELPERS
// =============================================================================

// approverKeys returns the configured approver keys, sorted, skipping any
// without a mailbox.
func (h *Handler) approverKeys() []string {
	keys := make([]string, 0, len(h.Cfg.Approvers))
	for k, addr := range h.Cfg.Approvers {
		if addr != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func plainText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprintln(w, body)
}
