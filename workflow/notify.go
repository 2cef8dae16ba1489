/*
notify.go - Email composition and decision links

PURPOSE:
  Builds the three notification messages the workflow sends: the approver
  email (with approve/reject links), the employee submission receipt, and
  the decision outcome email.

DECISION LINKS:
  Links embed every parameter needed to finalize the request without
  additional authentication. The decision handler recomputes days from
  these parameters rather than trusting storage.
*/
package workflow

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"

	"github.com/shopspring/decimal"
	"github.com/warp/leave-workflow/calendar"
)

// =============================================================================
// TEMPLATES
// =============================================================================

var approverTmpl = template.Must(template.New("approver").Parse(`<html><body>
<p>{{.Name}} has requested time off.</p>
<table cellpadding="4">
  <tr><td><b>Employee</b></td><td>{{.Name}} ({{.Email}})</td></tr>
  <tr><td><b>From</b></td><td>{{.Start}}</td></tr>
  <tr><td><b>To</b></td><td>{{.End}}</td></tr>
  <tr><td><b>Days</b></td><td>{{.Days}} ({{.Duration}})</td></tr>
  {{if .LeaveType}}<tr><td><b>Type</b></td><td>{{.LeaveType}}</td></tr>{{end}}
  {{if .Reason}}<tr><td><b>Reason</b></td><td>{{.Reason}}</td></tr>{{end}}
</table>
<p>
  <a href="{{.ApproveLink}}">Approve</a> &nbsp;|&nbsp;
  <a href="{{.RejectLink}}">Reject</a>
</p>
</body></html>`))

var receiptTmpl = template.Must(template.New("receipt").Parse(`<html><body>
<p>Hi {{.Name}},</p>
<p>Your time-off request for <b>{{.Days}}</b> day(s) from <b>{{.Start}}</b> to
<b>{{.End}}</b> has been sent to {{.ApproverKey}} for review.</p>
<p>You will receive another email once a decision has been made.</p>
</body></html>`))

var outcomeTmpl = template.Must(template.New("outcome").Parse(`<html><body>
<p>Hi {{.Name}},</p>
<p>Your time-off request from <b>{{.Start}}</b> to <b>{{.End}}</b>
({{.Days}} day(s)) has been <b>{{.Status}}</b>.</p>
</body></html>`))

// =============================================================================
// MESSAGE BUILDERS
// =============================================================================

func (w *Workflow) approverMessage(rec TimeOffRequest, approverAddr string) Message {
	data := struct {
		Name, Email, Start, End, Days, Duration, LeaveType, Reason string
		ApproveLink, RejectLink                                    string
	}{
		Name:        rec.EmployeeName,
		Email:       rec.EmployeeEmail,
		Start:       rec.StartDate.Format(calendar.DateLayout),
		End:         rec.EndDate.Format(calendar.DateLayout),
		Days:        rec.Days.String(),
		Duration:    string(rec.Duration),
		LeaveType:   rec.LeaveType,
		Reason:      rec.Reason,
		ApproveLink: w.decisionLink(rec, StatusApproved),
		RejectLink:  w.decisionLink(rec, StatusRejected),
	}

	var cc []string
	if w.cfg.AlwaysCC != "" {
		cc = []string{w.cfg.AlwaysCC}
	}

	return Message{
		To:      []string{approverAddr},
		CC:      cc,
		Subject: fmt.Sprintf("Time-off request from %s (%s to %s)", rec.EmployeeName, data.Start, data.End),
		HTML:    render(approverTmpl, data),
	}
}

func (w *Workflow) receiptMessage(rec TimeOffRequest) Message {
	data := struct {
		Name, Start, End, Days, ApproverKey string
	}{
		Name:        rec.EmployeeName,
		Start:       rec.StartDate.Format(calendar.DateLayout),
		End:         rec.EndDate.Format(calendar.DateLayout),
		Days:        rec.Days.String(),
		ApproverKey: rec.Approver,
	}

	return Message{
		To:      []string{rec.EmployeeEmail},
		Subject: "Your time-off request has been submitted",
		HTML:    render(receiptTmpl, data),
	}
}

func (w *Workflow) outcomeMessage(rec TimeOffRequest, days decimal.Decimal) Message {
	data := struct {
		Name, Start, End, Days, Status string
	}{
		Name:   rec.EmployeeName,
		Start:  rec.StartDate.Format(calendar.DateLayout),
		End:    rec.EndDate.Format(calendar.DateLayout),
		Days:   days.String(),
		Status: string(rec.Status),
	}

	return Message{
		To:      []string{rec.EmployeeEmail},
		Subject: fmt.Sprintf("Your time-off request has been %s", rec.Status),
		HTML:    render(outcomeTmpl, data),
	}
}

// decisionLink builds the pre-signed URL that finalizes a request.
func (w *Workflow) decisionLink(rec TimeOffRequest, status Status) string {
	action := "approved"
	if status == StatusRejected {
		action = "rejected"
	}

	q := url.Values{}
	q.Set("status", action)
	q.Set("name", rec.EmployeeName)
	q.Set("email", rec.EmployeeEmail)
	q.Set("sd", rec.StartDate.Format(calendar.DateLayout))
	q.Set("ed", rec.EndDate.Format(calendar.DateLayout))
	q.Set("dt", string(rec.Duration))
	if rec.Reason != "" {
		q.Set("reason", rec.Reason)
	}

	return w.cfg.BaseURL + "/decision?" + q.Encode()
}

func render(t *template.Template, data any) string {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return ""
	}
	return buf.String()
}
