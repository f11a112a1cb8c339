package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrportal/internal/app/server"
	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/core"
	"hrportal/internal/domain/dashboard"
	"hrportal/internal/domain/documents"
	"hrportal/internal/domain/government"
	"hrportal/internal/domain/leave"
	"hrportal/internal/domain/payroll"
	"hrportal/internal/domain/recruitment"
	"hrportal/internal/platform/config"
	cryptoutil "hrportal/internal/platform/crypto"
	"hrportal/internal/platform/gov"
	"hrportal/internal/platform/metrics"
	"hrportal/internal/testutil/memdb"
	"hrportal/internal/transport/http/middleware"
)

type harness struct {
	t       *testing.T
	fx      *memdb.Fixture
	authSvc *auth.Service
	metrics *metrics.Collector
	router  http.Handler
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	fx, err := memdb.NewFixture()
	require.NoError(t, err)

	crypto, err := cryptoutil.New("")
	require.NoError(t, err)

	cfg := config.Config{
		Environment:    "test",
		JWTSecret:      "router-test-secret",
		MaxBodyBytes:   1 << 20,
		LoginRateLimit: 100,
		SessionTTL:     time.Hour,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db := fx.DB
	rec := db.Audit()
	h := &harness{t: t, fx: fx, metrics: metrics.New()}
	h.authSvc = auth.NewService(db.Auth(), nil, crypto, cfg.JWTSecret, cfg.SessionTTL)
	h.router = server.NewRouter(cfg, logger, server.Services{
		Auth:       h.authSvc,
		Core:       core.NewService(db.Core(), rec),
		Documents:  documents.NewService(db.Documents(), rec),
		Payroll:    payroll.NewService(db.Payrolls(), rec),
		Leave:      leave.NewService(db.Leaves(), rec),
		Jobs:       recruitment.NewService(db.Jobs(), rec),
		Dashboard:  dashboard.NewService(db.Dashboard()),
		Government: government.NewService(gov.NewRegistry(gov.NewStubGateway(gov.AgencyKWSP)), db.Core(), rec, h.metrics),
		Audit:      rec,
		Metrics:    h.metrics,
	})
	return h
}

func (h *harness) token(email string) string {
	h.t.Helper()
	_, token, err := h.authSvc.Login(context.Background(), email, memdb.Password, "")
	require.NoError(h.t, err)
	return token
}

func (h *harness) do(method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	h.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(h.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.router.ServeHTTP(rr, req)

	var env envelope
	if rr.Header().Get("Content-Type") == "application/json" {
		require.NoError(h.t, json.Unmarshal(rr.Body.Bytes(), &env))
	}
	return rr, env
}

func TestGatedRoutesRejectAnonymous(t *testing.T) {
	h := newHarness(t)
	routes := []struct{ method, path string }{
		{http.MethodGet, "/api/auth/me"},
		{http.MethodGet, "/api/company"},
		{http.MethodGet, "/api/employee/profile"},
		{http.MethodGet, "/api/employees"},
		{http.MethodGet, "/api/documents"},
		{http.MethodGet, "/api/documents/1"},
		{http.MethodDelete, "/api/documents/1"},
		{http.MethodGet, "/api/payroll"},
		{http.MethodGet, "/api/payroll/1"},
		{http.MethodPut, "/api/payroll/1"},
		{http.MethodGet, "/api/payroll/stats"},
		{http.MethodGet, "/api/leaves"},
		{http.MethodGet, "/api/leaves/balance"},
		{http.MethodPost, "/api/jobs"},
		{http.MethodGet, "/api/government"},
		{http.MethodPost, "/api/government/kwsp"},
		{http.MethodGet, "/api/audit"},
	}
	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			rr, env := h.do(rt.method, rt.path, "", nil)
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			require.NotNil(t, env.Error)
			assert.Empty(t, env.Data)
		})
	}

	rr, _ := h.do(http.MethodGet, "/api/payroll", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestEmployeeCannotReadOthersRecords(t *testing.T) {
	h := newHarness(t)
	paid := time.Date(2025, 3, 28, 0, 0, 0, 0, time.UTC)
	bobPay := h.fx.DB.AddPayroll(h.fx.BobEmp, 3, 2025, 5000, 200, 100, &paid)
	bobDoc := h.fx.DB.AddDocument(h.fx.BobEmp, "Contract", documents.CategoryContract)
	alice := h.token("alice@acme.test")

	for _, path := range []string{
		fmt.Sprintf("/api/payroll/%d", bobPay.ID),
		fmt.Sprintf("/api/documents/%d", bobDoc.ID),
		"/api/payroll/999999",
		"/api/documents/999999",
	} {
		rr, env := h.do(http.MethodGet, path, alice, nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, path)
		assert.Empty(t, env.Data, path)
	}

	alicePay := h.fx.DB.AddPayroll(h.fx.AliceEmp, 3, 2025, 4000, 0, 0, nil)
	rr, _ := h.do(http.MethodGet, fmt.Sprintf("/api/payroll/%d", alicePay.ID), alice, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestPrivilegedReadsAreCompanyWide(t *testing.T) {
	h := newHarness(t)
	bobPay := h.fx.DB.AddPayroll(h.fx.BobEmp, 3, 2025, 5000, 200, 100, nil)
	bobDoc := h.fx.DB.AddDocument(h.fx.BobEmp, "Contract", documents.CategoryContract)
	carolPay := h.fx.DB.AddPayroll(h.fx.CarolEmp, 3, 2025, 3000, 0, 0, nil)

	for _, email := range []string{"ada@acme.test", "hana@acme.test"} {
		token := h.token(email)

		rr, env := h.do(http.MethodGet, fmt.Sprintf("/api/payroll/%d", bobPay.ID), token, nil)
		require.Equal(t, http.StatusOK, rr.Code, email)
		var got payroll.Payroll
		require.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, bobPay.ID, got.ID)
		assert.InDelta(t, 5100, got.NetSalary, 0.001)

		rr, _ = h.do(http.MethodGet, fmt.Sprintf("/api/documents/%d", bobDoc.ID), token, nil)
		assert.Equal(t, http.StatusOK, rr.Code, email)

		rr, _ = h.do(http.MethodGet, "/api/payroll/999999", token, nil)
		assert.Equal(t, http.StatusNotFound, rr.Code, email)

		// Another company's row looks absent.
		rr, _ = h.do(http.MethodGet, fmt.Sprintf("/api/payroll/%d", carolPay.ID), token, nil)
		assert.Equal(t, http.StatusNotFound, rr.Code, email)
	}
}

func TestPayrollStatsEmptyPeriod(t *testing.T) {
	h := newHarness(t)
	rr, env := h.do(http.MethodGet, "/api/payroll/stats?month=2&year=2030", h.token("hana@acme.test"), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t,
		`{"totalPayroll":0,"totalBasicSalary":0,"totalEmployees":0,"avgSalary":0,"pendingPayments":0}`,
		string(env.Data))

	rr, _ = h.do(http.MethodGet, "/api/payroll/stats", h.token("alice@acme.test"), nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestLeaveBalanceIgnoresPriorYear(t *testing.T) {
	h := newHarness(t)
	year := time.Now().UTC().Year()
	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }
	h.fx.DB.AddLeave(h.fx.AliceEmp, leave.TypeAnnual, leave.StatusApproved, day(year-1, 12, 20), day(year-1, 12, 22))
	h.fx.DB.AddLeave(h.fx.AliceEmp, leave.TypeSick, leave.StatusPending, day(year-1, 11, 3), day(year-1, 11, 3))

	rr, env := h.do(http.MethodGet, "/api/leaves/balance", h.token("alice@acme.test"), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var report leave.BalanceReport
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Equal(t, h.fx.AliceEmp, report.Employee.ID)
	for typ, n := range report.Balance.Used {
		assert.Zero(t, n, "used %s", typ)
	}
	for typ, n := range report.Balance.Pending {
		assert.Zero(t, n, "pending %s", typ)
	}
}

func TestPublicStatsShapes(t *testing.T) {
	h := newHarness(t)

	rr, env := h.do(http.MethodGet, "/api/public/stats", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var anon map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &anon))
	assert.JSONEq(t, `true`, string(anon["public"]))
	assert.Contains(t, anon, "stats")
	assert.NotContains(t, anon, "companyStats")

	rr, env = h.do(http.MethodGet, "/api/public/stats", h.token("carol@globex.test"), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var signedIn struct {
		Public       bool `json:"public"`
		CompanyStats struct {
			TotalEmployees int `json:"totalEmployees"`
		} `json:"companyStats"`
		RecentActivities struct {
			Employees []struct {
				Name string `json:"name"`
			} `json:"employees"`
		} `json:"recentActivities"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &signedIn))
	assert.False(t, signedIn.Public)
	assert.Equal(t, 1, signedIn.CompanyStats.TotalEmployees)
	require.Len(t, signedIn.RecentActivities.Employees, 1)
	assert.Equal(t, "Carol Wong", signedIn.RecentActivities.Employees[0].Name)
}

func TestLoginSetsCookie(t *testing.T) {
	h := newHarness(t)
	emp := h.fx.DB.AddEmployee(h.fx.Acme, "Default", "Admin", "admin@company.com", "Management")
	_, err := h.fx.DB.AddUser("admin@company.com", "admin123", auth.RoleAdmin, h.fx.Acme, emp.ID)
	require.NoError(t, err)

	rr, env := h.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "admin@company.com", "password": "admin123"})
	require.Equal(t, http.StatusOK, rr.Code)
	var cookie *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == middleware.CookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.NotEmpty(t, cookie.Value)

	var body struct {
		User  auth.Principal `json:"user"`
		Token string         `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &body))
	assert.Equal(t, auth.RoleAdmin, body.User.Role)
	assert.Equal(t, cookie.Value, body.Token)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(cookie)
	me := httptest.NewRecorder()
	h.router.ServeHTTP(me, req)
	assert.Equal(t, http.StatusOK, me.Code)

	rr, env = h.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "admin@company.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	require.NotNil(t, env.Error)
	assert.Empty(t, rr.Result().Cookies())

	rr, _ = h.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "admin@company.com"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestMalformedIDs(t *testing.T) {
	h := newHarness(t)
	token := h.token("ada@acme.test")
	for _, path := range []string{
		"/api/payroll/abc",
		"/api/documents/1.5",
		"/api/employees/-3",
		"/api/payroll?employeeId=xyz",
		"/api/leaves/balance?employeeId=abc",
		"/api/payroll/stats?month=13",
	} {
		rr, env := h.do(http.MethodGet, path, token, nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code, path)
		require.NotNil(t, env.Error, path)
		assert.Equal(t, "validation_error", env.Error.Code, path)
		assert.Empty(t, env.Data, path)
	}
}

func TestLeaveWorkflow(t *testing.T) {
	h := newHarness(t)
	alice := h.token("alice@acme.test")
	start := time.Now().UTC().AddDate(0, 0, 14)
	for start.Weekday() != time.Monday {
		start = start.AddDate(0, 0, 1)
	}

	rr, env := h.do(http.MethodPost, "/api/leaves", alice, map[string]string{
		"type":      leave.TypeAnnual,
		"startDate": start.Format("2006-01-02"),
		"endDate":   start.AddDate(0, 0, 4).Format("2006-01-02"),
		"reason":    "family trip",
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	var applied leave.Leave
	require.NoError(t, json.Unmarshal(env.Data, &applied))
	assert.Equal(t, leave.StatusPending, applied.Status)

	path := fmt.Sprintf("/api/leaves/%d/status", applied.ID)
	rr, _ = h.do(http.MethodPut, path, alice, map[string]string{"status": leave.StatusApproved})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr, env = h.do(http.MethodPut, path, h.token("mike@acme.test"), map[string]string{"status": leave.StatusApproved})
	require.Equal(t, http.StatusOK, rr.Code)
	var decided leave.Leave
	require.NoError(t, json.Unmarshal(env.Data, &decided))
	assert.Equal(t, leave.StatusApproved, decided.Status)

	rr, _ = h.do(http.MethodPut, path, h.token("hana@acme.test"), map[string]string{"status": leave.StatusRejected})
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestJobsBoard(t *testing.T) {
	h := newHarness(t)
	h.fx.DB.AddJob(h.fx.Globex, "Sales Lead", recruitment.StatusOpen)

	rr, env := h.do(http.MethodPost, "/api/jobs", h.token("hana@acme.test"), map[string]any{
		"title": "Backend Engineer", "department": "Engineering", "employmentType": recruitment.TypeFullTime,
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	var job recruitment.Job
	require.NoError(t, json.Unmarshal(env.Data, &job))

	rr, _ = h.do(http.MethodPost, "/api/jobs", h.token("alice@acme.test"), map[string]any{"title": "Intern"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr, env = h.do(http.MethodGet, "/api/jobs", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var anon struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &anon))
	assert.Equal(t, 2, anon.Total)

	rr, env = h.do(http.MethodGet, "/api/jobs", h.token("bob@acme.test"), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var mine struct {
		Items []recruitment.Job `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &mine))
	require.Len(t, mine.Items, 1)
	assert.Equal(t, job.ID, mine.Items[0].ID)

	rr, env = h.do(http.MethodPut, fmt.Sprintf("/api/jobs/%d/close", job.ID), h.token("ada@acme.test"), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(env.Data, &job))
	assert.Equal(t, recruitment.StatusClosed, job.Status)
}

func TestGovernmentSubmission(t *testing.T) {
	h := newHarness(t)
	hr := h.token("hana@acme.test")

	rr, env := h.do(http.MethodGet, "/api/government", hr, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"agencies":["kwsp"]}`, string(env.Data))

	rr, env = h.do(http.MethodPost, "/api/government/kwsp", hr, map[string]any{
		"employeeId": h.fx.AliceEmp, "action": "contribution", "payload": map[string]int{"amount": 550},
	})
	require.Equal(t, http.StatusOK, rr.Code)
	var receipt gov.Receipt
	require.NoError(t, json.Unmarshal(env.Data, &receipt))
	assert.Equal(t, "stub", receipt.Mode)
	assert.EqualValues(t, 1, h.metrics.Snapshot().GovSubmissionTotal)

	rr, _ = h.do(http.MethodPost, "/api/government/kwsp", hr, map[string]any{"action": "contribution"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr, _ = h.do(http.MethodPost, "/api/government/unknown", hr, map[string]any{"employeeId": h.fx.AliceEmp, "action": "x"})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr, _ = h.do(http.MethodPost, "/api/government/kwsp", h.token("alice@acme.test"), map[string]any{"employeeId": h.fx.AliceEmp, "action": "x"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestWebhook(t *testing.T) {
	h := newHarness(t)
	rr, env := h.do(http.MethodGet, "/api/webhook", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, string(env.Data))

	rr, env = h.do(http.MethodPost, "/api/webhook", "", map[string]string{"event": "ping"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"received":true}`, string(env.Data))

	req := httptest.NewRequest(http.MethodPost, "/api/webhook", bytes.NewBufferString("{not json"))
	bad := httptest.NewRecorder()
	h.router.ServeHTTP(bad, req)
	assert.Equal(t, http.StatusInternalServerError, bad.Code)
}

func TestAuditTrailAdminOnly(t *testing.T) {
	h := newHarness(t)
	pay := h.fx.DB.AddPayroll(h.fx.BobEmp, 4, 2025, 5000, 0, 0, nil)
	rr, _ := h.do(http.MethodPut, fmt.Sprintf("/api/payroll/%d", pay.ID), h.token("hana@acme.test"), map[string]any{"allowances": 250})
	require.Equal(t, http.StatusOK, rr.Code)

	rr, _ = h.do(http.MethodGet, "/api/audit", h.token("hana@acme.test"), nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr, env := h.do(http.MethodGet, "/api/audit?entityType=payroll", h.token("ada@acme.test"), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var page struct {
		Total int `json:"total"`
		Items []struct {
			EntityID string `json:"entityId"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Equal(t, 1, page.Total)
	assert.Equal(t, fmt.Sprint(pay.ID), page.Items[0].EntityID)
}

func TestHealthAndUnknownRoutes(t *testing.T) {
	h := newHarness(t)
	rr, _ := h.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	rr, _ = h.do(http.MethodGet, "/readyz", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr, env := h.do(http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	require.NotNil(t, env.Error)

	rr, _ = h.do(http.MethodGet, "/metricsz", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("X-Request-Id"))
}
