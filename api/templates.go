/*
templates.go - Server-rendered pages

PURPOSE:
  The intake form, confirmation page, decision-result page, and admin table.
  Kept deliberately plain: this is an internal tool, not a product surface.
*/
package api

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/warp/leave-workflow/store/sqlite"
)

// =============================================================================
// TEMPLATE DATA
// =============================================================================

type formData struct {
	Staff     []sqlite.StaffMember
	Approvers []string
}

type confirmData struct {
	Name, Start, End, Days, Approver string
}

type decisionData struct {
	Name, Start, End, Status string
}

type adminRow struct {
	Timestamp, Name, Email, Approver, Start, End string
	Days, Duration, LeaveType, Reason, Status    string
}

type adminData struct {
	Rows []adminRow
}

// =============================================================================
// TEMPLATES
// =============================================================================

var formTmpl = template.Must(template.New("form").Parse(`<!DOCTYPE html>
<html>
<head><title>Time Off Request</title></head>
<body style="font-family: system-ui; max-width: 640px; margin: 40px auto; padding: 0 20px;">
<h1>Time Off Request</h1>
<form method="POST" action="/submit">
  <p>
    <label>Name<br>
    <input name="employee_name" list="staff-names" required></label>
    <datalist id="staff-names">
      {{range .Staff}}<option value="{{.Name}}">{{end}}
    </datalist>
  </p>
  <p>
    <label>Email<br>
    <input name="email" type="email" list="staff-emails" required></label>
    <datalist id="staff-emails">
      {{range .Staff}}<option value="{{.Email}}">{{end}}
    </datalist>
  </p>
  <p>
    <label>Approver<br>
    <select name="approver" required>
      {{range .Approvers}}<option value="{{.}}">{{.}}</option>{{end}}
    </select></label>
  </p>
  <p>
    <label>Start date<br><input name="start_date" type="date" required></label>
  </p>
  <p>
    <label>End date<br><input name="end_date" type="date" required></label>
  </p>
  <p>
    <label>Duration<br>
    <select name="duration_type">
      <option value="full">Full day(s)</option>
      <option value="half">Half day</option>
    </select></label>
  </p>
  <p>
    <label>Type of leave<br>
    <select name="type_of_leave">
      <option value="annual">Annual leave</option>
      <option value="sick">Sick leave</option>
      <option value="unpaid">Unpaid leave</option>
      <option value="other">Other</option>
    </select></label>
  </p>
  <p>
    <label>Reason (optional)<br><textarea name="reason" rows="3" cols="50"></textarea></label>
  </p>
  <p><button type="submit">Submit request</button></p>
</form>
</body>
</html>`))

var confirmTmpl = template.Must(template.New("confirm").Parse(`<!DOCTYPE html>
<html>
<head><title>Request Submitted</title></head>
<body style="font-family: system-ui; max-width: 640px; margin: 40px auto; padding: 0 20px;">
<h1>Request submitted</h1>
<p>Thanks {{.Name}}. Your request for <b>{{.Days}}</b> day(s) from
<b>{{.Start}}</b> to <b>{{.End}}</b> has been sent to <b>{{.Approver}}</b>.</p>
<p>You will receive an email once a decision has been made.</p>
<p><a href="/">Submit another request</a></p>
</body>
</html>`))

var decisionTmpl = template.Must(template.New("decision").Parse(`<!DOCTYPE html>
<html>
<head><title>Decision Recorded</title></head>
<body style="font-family: system-ui; max-width: 640px; margin: 40px auto; padding: 0 20px;">
<h1>Decision recorded</h1>
<p>The request from <b>{{.Name}}</b> ({{.Start}} to {{.End}}) has been
marked <b>{{.Status}}</b>.</p>
<p>The employee has been notified by email.</p>
</body>
</html>`))

var adminTmpl = template.Must(template.New("admin").Parse(`<!DOCTYPE html>
<html>
<head><title>Request Log</title></head>
<body style="font-family: system-ui; margin: 40px; padding: 0 20px;">
<h1>Request log</h1>
<table border="1" cellpadding="6" cellspacing="0">
  <tr>
    <th>Timestamp</th><th>Name</th><th>Email</th><th>Approver</th>
    <th>Start</th><th>End</th><th>Days</th><th>Duration</th>
    <th>Type of leave</th><th>Reason</th><th>Status</th>
  </tr>
  {{range .Rows}}
  <tr>
    <td>{{.Timestamp}}</td><td>{{.Name}}</td><td>{{.Email}}</td><td>{{.Approver}}</td>
    <td>{{.Start}}</td><td>{{.End}}</td><td>{{.Days}}</td><td>{{.Duration}}</td>
    <td>{{.LeaveType}}</td><td>{{.Reason}}</td><td>{{.Status}}</td>
  </tr>
  {{end}}
</table>
</body>
</html>`))

// renderHTML executes a template into a buffer first so a template failure
// becomes a clean 500 instead of a half-written page.
func renderHTML(w http.ResponseWriter, status int, t *template.Template, data any) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}
