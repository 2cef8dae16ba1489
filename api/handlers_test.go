/*
handlers_test.go - HTTP-level tests for the leave workflow endpoints

Covers status-code mapping (400 validation, 500 delivery), the decision
link flow, admin auth, and the liveness probes.
*/
package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/leave-workflow/config"
	"github.com/warp/leave-workflow/store/sqlite"
	"github.com/warp/leave-workflow/workflow"
)

// =============================================================================
// TEST SETUP
// =============================================================================

type fakeGateway struct {
	sent []workflow.Message
	err  error
}

func (g *fakeGateway) Send(_ context.Context, msg workflow.Message) error {
	if g.err != nil {
		return g.err
	}
	g.sent = append(g.sent, msg)
	return nil
}

func newTestRouter(t *testing.T) (http.Handler, *sqlite.Store, *fakeGateway) {
	t.Helper()

	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	cfg := &config.Config{
		Approvers: map[string]string{
			"mark": "mark@corp.example",
			"nhan": "nhan@corp.example",
			"anh":  "anh@corp.example",
		},
		AlwaysCC:      "people-ops@corp.example",
		BaseURL:       "https://leave.corp.example",
		AdminUser:     "admin",
		AdminPassword: "s3cret",
	}

	gateway := &fakeGateway{}
	flow := workflow.New(store, gateway, workflow.Config{
		Approvers: cfg.Approvers,
		AlwaysCC:  cfg.AlwaysCC,
		BaseURL:   cfg.BaseURL,
	})

	handler := NewHandler(store, flow, nil, cfg)
	return NewRouter(handler), store, gateway
}

func postForm(router http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func get(router http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func aliceForm() url.Values {
	return url.Values{
		"employee_name": {"Alice"},
		"email":         {"alice@x.com"},
		"approver":      {"mark"},
		"start_date":    {"2024-03-04"},
		"end_date":      {"2024-03-06"},
		"duration_type": {"full"},
		"type_of_leave": {"annual"},
	}
}

// =============================================================================
// LIVENESS
// =============================================================================

func TestLivenessProbes(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rr := get(router, "/healthz")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")

	rr = get(router, "/ping")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "pong")
}

func TestIntakeForm(t *testing.T) {
	router, store, _ := newTestRouter(t)
	require.NoError(t, store.SaveStaff(context.Background(), sqlite.StaffMember{Name: "Alice", Email: "alice@x.com"}))

	rr := get(router, "/")
	assert.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `action="/submit"`)
	assert.Contains(t, body, "Alice")       // staff directory
	assert.Contains(t, body, `value="mark"`) // approver option

	// HEAD is answered with an empty 200
	req := httptest.NewRequest(http.MethodHead, "/", nil)
	hr := httptest.NewRecorder()
	router.ServeHTTP(hr, req)
	assert.Equal(t, http.StatusOK, hr.Code)
	b, _ := io.ReadAll(hr.Body)
	assert.Empty(t, b)
}

// =============================================================================
// SUBMIT
// =============================================================================

func TestSubmit_Success(t *testing.T) {
	router, store, gateway := newTestRouter(t)

	rr := postForm(router, "/submit", aliceForm())
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), "3") // computed days on the confirmation page

	records, err := store.ListRequests(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, workflow.StatusPending, records[0].Status)

	require.Len(t, gateway.sent, 2)
	assert.Equal(t, []string{"mark@corp.example"}, gateway.sent[0].To)
}

func TestSubmit_AcceptsLegacyNameField(t *testing.T) {
	router, store, _ := newTestRouter(t)

	form := aliceForm()
	form.Del("employee_name")
	form.Set("name", "Alice")

	rr := postForm(router, "/submit", form)
	require.Equal(t, http.StatusOK, rr.Code)

	records, err := store.ListRequests(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Alice", records[0].EmployeeName)
}

func TestSubmit_ValidationFailuresReturn400(t *testing.T) {
	router, _, _ := newTestRouter(t)

	missing := aliceForm()
	missing.Del("email")
	assert.Equal(t, http.StatusBadRequest, postForm(router, "/submit", missing).Code)

	badRange := aliceForm()
	badRange.Set("start_date", "2024-03-06")
	badRange.Set("end_date", "2024-03-04")
	assert.Equal(t, http.StatusBadRequest, postForm(router, "/submit", badRange).Code)

	halfSpan := aliceForm()
	halfSpan.Set("duration_type", "half")
	assert.Equal(t, http.StatusBadRequest, postForm(router, "/submit", halfSpan).Code)

	unknownApprover := aliceForm()
	unknownApprover.Set("approver", "nobody")
	assert.Equal(t, http.StatusBadRequest, postForm(router, "/submit", unknownApprover).Code)
}

func TestSubmit_DeliveryFailureReturns500(t *testing.T) {
	router, _, gateway := newTestRouter(t)
	gateway.err = errors.New("connection refused")

	rr := postForm(router, "/submit", aliceForm())
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

// =============================================================================
// DECISION
// =============================================================================

func decisionQuery(status string) string {
	q := url.Values{
		"status": {status},
		"name":   {"Alice"},
		"email":  {"alice@x.com"},
		"sd":     {"2024-03-04"},
		"ed":     {"2024-03-06"},
		"dt":     {"full"},
	}
	return "/decision?" + q.Encode()
}

func TestDecision_ApprovesPendingRequest(t *testing.T) {
	router, store, _ := newTestRouter(t)
	require.Equal(t, http.StatusOK, postForm(router, "/submit", aliceForm()).Code)

	rr := get(router, decisionQuery("approved"))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Approved")

	records, err := store.ListRequests(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, workflow.StatusApproved, records[0].Status)
}

func TestDecision_InvalidStatusReturns400(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rr := get(router, decisionQuery("maybe"))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDecision_OrphanClickStillLogs(t *testing.T) {
	// No submission at all; the click must still leave a record
	router, store, _ := newTestRouter(t)

	rr := get(router, decisionQuery("rejected"))
	require.Equal(t, http.StatusOK, rr.Code)

	records, err := store.ListRequests(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, workflow.StatusRejected, records[0].Status)
}

// =============================================================================
// ADMIN
// =============================================================================

func TestAdmin_RequiresBasicAuth(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rr := get(router, "/admin/")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAdmin_ShowsLog(t *testing.T) {
	router, _, _ := newTestRouter(t)
	require.Equal(t, http.StatusOK, postForm(router, "/submit", aliceForm()).Code)

	req := httptest.NewRequest(http.MethodGet, "/admin/", nil)
	req.SetBasicAuth("admin", "s3cret")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "Alice")
	assert.Contains(t, body, "Pending")
}

func TestAdminReset_ClearsLog(t *testing.T) {
	router, store, _ := newTestRouter(t)
	require.Equal(t, http.StatusOK, postForm(router, "/submit", aliceForm()).Code)

	req := httptest.NewRequest(http.MethodGet, "/admin/reset-log", nil)
	req.SetBasicAuth("admin", "s3cret")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	records, err := store.ListRequests(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}

// =============================================================================
// DIAGNOSTICS
// =============================================================================

func TestStoreTest(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rr := get(router, "/_store_test")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "store ok")
}

func TestSMTPTest_NotConfigured(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rr := get(router, "/_smtp_test")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
