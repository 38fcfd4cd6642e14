package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sagar-developer08/Api-v2-sub001/internal/domain"
	"github.com/sagar-developer08/Api-v2-sub001/internal/metrics"
	"github.com/sagar-developer08/Api-v2-sub001/internal/models"
	"github.com/sagar-developer08/Api-v2-sub001/internal/repository"
	"github.com/sagar-developer08/Api-v2-sub001/internal/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	marketing = "/api/v1/marketing"
	adminBase = "/api/v1/admin"
)

type envelope struct {
	Success    bool               `json:"success"`
	Data       json.RawMessage    `json:"data"`
	Message    string             `json:"message"`
	Error      string             `json:"error"`
	Pagination *models.Pagination `json:"pagination"`
}

type testAPI struct {
	t      *testing.T
	router *Router
}

type apiOption func(*RouterOptions)

func newTestAPI(t *testing.T, opts ...apiOption) *testAPI {
	t.Helper()
	logger := zap.NewNop()
	st := repository.NewMemoryStore()
	m := metrics.New(prometheus.NewRegistry())

	audit := service.NewAuditService(st.Audit, nil, "", m, logger)
	h := Handlers{
		Leads:      NewLeadsHandler(service.NewLeadService(st.Leads, m, logger), audit, logger),
		Campaigns:  NewCampaignsHandler(service.NewCampaignService(st.Campaigns, nil, m, logger), audit, logger),
		Pages:      NewPagesHandler(service.NewPageService(st.Pages, nil, m, logger), audit, logger),
		Onboarding: NewOnboardingHandler(service.NewOnboardingService(st.Onboarding, logger), audit, logger),
		Analytics:  NewAnalyticsHandler(service.NewAnalyticsService(st.Leads, st.Campaigns, logger), logger),
		Settings:   NewSettingsHandler(service.NewSettingsService(st.Settings, logger), audit, logger),
		Tenants:    NewTenantsHandler(service.NewTenantService(st.TenantConfig, st.TenantActivity, logger), audit, logger),
		Audit:      NewAuditHandler(audit, logger),
	}
	ro := RouterOptions{
		BasePath:       "/api/v1",
		AllowedOrigins: []string{"*"},
		Auth:           NewHeaderAuthorizer([]string{"super_admin"}, logger),
		Metrics:        m,
		MetricsPath:    "/metrics",
	}
	for _, o := range opts {
		o(&ro)
	}
	return &testAPI{t: t, router: NewRouter(h, ro, logger)}
}

func (a *testAPI) raw(method, path string, body string, admin bool) *httptest.ResponseRecorder {
	a.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if admin {
		req.Header.Set("X-User-Id", "admin-1")
		req.Header.Set("X-User-Role", "super_admin")
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) do(method, path string, body any, admin bool) (int, envelope) {
	a.t.Helper()
	payload := ""
	switch b := body.(type) {
	case nil:
	case string:
		payload = b
	default:
		raw, err := json.Marshal(b)
		require.NoError(a.t, err)
		payload = string(raw)
	}
	rec := a.raw(method, path, payload, admin)
	var env envelope
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func createLead(t *testing.T, api *testAPI, name, email string) domain.Lead {
	t.Helper()
	code, env := api.do(http.MethodPost, marketing+"/leads", map[string]string{"name": name, "email": email}, false)
	require.Equal(t, http.StatusCreated, code, env.Error)
	return decode[domain.Lead](t, env.Data)
}

func TestLeadLifecycle(t *testing.T) {
	api := newTestAPI(t)
	lead := createLead(t, api, "A", "a@x.com")

	code, env := api.do(http.MethodGet, marketing+"/leads/"+lead.ID, nil, true)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, domain.LeadStatusNew, decode[domain.Lead](t, env.Data).Status)

	code, _ = api.do(http.MethodPost, marketing+"/leads/"+lead.ID+"/convert",
		map[string]string{"conversionType": "enrolled", "notes": "ignored"}, true)
	require.Equal(t, http.StatusOK, code)

	_, env = api.do(http.MethodGet, marketing+"/leads/"+lead.ID, nil, true)
	got := decode[domain.Lead](t, env.Data)
	assert.Equal(t, domain.LeadStatusConverted, got.Status)
	assert.Empty(t, got.Notes)
}

func TestLeadNotFound(t *testing.T) {
	api := newTestAPI(t)
	for _, id := range []string{"6f1c1e52-8f5a-4c1e-9d2a-1b2c3d4e5f60", "not-a-uuid"} {
		code, env := api.do(http.MethodGet, marketing+"/leads/"+id, nil, true)
		assert.Equal(t, http.StatusNotFound, code)
		assert.False(t, env.Success)
		assert.Equal(t, "Lead not found", env.Message)
	}

	code, env := api.do(http.MethodDelete, marketing+"/leads/6f1c1e52-8f5a-4c1e-9d2a-1b2c3d4e5f60", nil, true)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Lead not found", env.Message)
}

func TestLeadValidationIsServerError(t *testing.T) {
	api := newTestAPI(t)

	code, env := api.do(http.MethodPost, marketing+"/leads", map[string]string{"name": "no email"}, false)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "email")

	code, env = api.do(http.MethodPost, marketing+"/leads", `{"name":`, false)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.NotEmpty(t, env.Error)

	lead := createLead(t, api, "A", "a@x.com")
	code, _ = api.do(http.MethodPut, marketing+"/leads/"+lead.ID, map[string]string{"status": "archived"}, true)
	assert.Equal(t, http.StatusInternalServerError, code)
}

func TestLeadListPagination(t *testing.T) {
	api := newTestAPI(t)
	for i := 0; i < 3; i++ {
		createLead(t, api, "Lead", "lead@x.com")
	}
	createLead(t, api, "Other", "someone@example.org")

	code, env := api.do(http.MethodGet, marketing+"/leads?page=0&limit=500", nil, true)
	require.Equal(t, http.StatusOK, code)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, models.Pagination{Page: 1, Limit: 100, Total: 4, TotalPages: 1}, *env.Pagination)

	code, env = api.do(http.MethodGet, marketing+"/leads?page=abc&limit=3&search=LEAD", nil, true)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]domain.Lead](t, env.Data), 3)
	assert.Equal(t, models.Pagination{Page: 1, Limit: 3, Total: 3, TotalPages: 1}, *env.Pagination)

	_, env = api.do(http.MethodGet, marketing+"/leads?page=2&limit=3", nil, true)
	assert.Len(t, decode[[]domain.Lead](t, env.Data), 1)
	assert.EqualValues(t, 2, env.Pagination.TotalPages)
}

func TestLeadNotes(t *testing.T) {
	api := newTestAPI(t)
	lead := createLead(t, api, "A", "a@x.com")

	code, env := api.do(http.MethodPost, marketing+"/leads/"+lead.ID+"/notes", map[string]string{"content": "legacy"}, true)
	require.Equal(t, http.StatusCreated, code)
	note := decode[domain.LeadNote](t, env.Data)
	assert.Equal(t, "legacy", note.Note)
	assert.Equal(t, "admin-1", note.CreatedBy)

	code, _ = api.do(http.MethodPost, marketing+"/leads/"+lead.ID+"/notes", map[string]string{"note": "newer"}, true)
	require.Equal(t, http.StatusCreated, code)

	// empty note is rejected by the store, not silently dropped
	code, env = api.do(http.MethodPost, marketing+"/leads/"+lead.ID+"/notes", map[string]string{}, true)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.False(t, env.Success)

	_, env = api.do(http.MethodGet, marketing+"/leads/"+lead.ID+"/history", nil, true)
	notes := decode[[]domain.LeadNote](t, env.Data)
	require.Len(t, notes, 2)
	assert.Equal(t, "newer", notes[0].Note)
}

func TestLeadExport(t *testing.T) {
	api := newTestAPI(t)
	createLead(t, api, "Ana", "ana@x.com")
	createLead(t, api, "Ben", "ben@x.com")

	rec := api.raw(http.MethodGet, marketing+"/leads/export?search=ana", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment; filename=leads-")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(leadSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, LeadExportHeader, rows[0])
	assert.Equal(t, "Ana", rows[1][0])
	assert.Equal(t, "new", rows[1][5])
}

func TestPagesReadMissingAndReplace(t *testing.T) {
	api := newTestAPI(t)

	code, env := api.do(http.MethodGet, marketing+"/about", nil, false)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{}`, string(env.Data))

	code, _ = api.do(http.MethodPut, marketing+"/about", `{"title":"Us","team":["a"]}`, true)
	require.Equal(t, http.StatusOK, code)
	code, _ = api.do(http.MethodPut, marketing+"/about", `{"title":"We"}`, true)
	require.Equal(t, http.StatusOK, code)

	_, env = api.do(http.MethodGet, marketing+"/about", nil, false)
	assert.JSONEq(t, `{"title":"We"}`, string(env.Data))

	code, _ = api.do(http.MethodPut, marketing+"/pricing", `{"title":"Us"}`, false)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestAuthContract(t *testing.T) {
	api := newTestAPI(t)

	code, env := api.do(http.MethodGet, marketing+"/leads", nil, false)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, env.Success)

	req := httptest.NewRequest(http.MethodGet, marketing+"/leads", nil)
	req.Header.Set("X-User-Id", "u1")
	req.Header.Set("X-User-Role", "Teacher")
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// public routes need no identity
	code, _ = api.do(http.MethodGet, marketing+"/analytics/overall", nil, false)
	assert.Equal(t, http.StatusOK, code)
	code, _ = api.do(http.MethodGet, marketing+"/analytics/campaigns", nil, false)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestCampaignActions(t *testing.T) {
	api := newTestAPI(t)

	code, env := api.do(http.MethodPost, marketing+"/campaigns",
		map[string]any{"name": "Spring", "type": "sms", "status": "sent"}, true)
	require.Equal(t, http.StatusCreated, code, env.Error)
	c := decode[domain.Campaign](t, env.Data)
	assert.Equal(t, domain.CampaignStatusDraft, c.Status)

	code, env = api.do(http.MethodPost, marketing+"/campaigns/"+c.ID+"/schedule",
		map[string]string{"scheduledDate": "2026-05-01T10:00:00Z"}, true)
	require.Equal(t, http.StatusOK, code, env.Error)
	scheduled := decode[domain.Campaign](t, env.Data)
	assert.Equal(t, domain.CampaignStatusScheduled, scheduled.Status)
	require.NotNil(t, scheduled.ScheduledDate)

	before := time.Now().Add(-time.Second)
	code, env = api.do(http.MethodPost, marketing+"/campaigns/"+c.ID+"/send", nil, true)
	require.Equal(t, http.StatusOK, code)
	sent := decode[domain.Campaign](t, env.Data)
	assert.Equal(t, domain.CampaignStatusSent, sent.Status)
	require.NotNil(t, sent.SentAt)
	assert.True(t, sent.SentAt.After(before))

	code, env = api.do(http.MethodPost, marketing+"/campaigns/"+c.ID+"/cancel", nil, true)
	require.Equal(t, http.StatusOK, code)
	cancelled := decode[domain.Campaign](t, env.Data)
	assert.Equal(t, domain.CampaignStatusDraft, cancelled.Status)
	assert.Nil(t, cancelled.ScheduledDate)

	// general update may still write status directly
	code, env = api.do(http.MethodPut, marketing+"/campaigns/"+c.ID, map[string]string{"status": "sent"}, true)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, domain.CampaignStatusSent, decode[domain.Campaign](t, env.Data).Status)

	code, env = api.do(http.MethodGet, marketing+"/campaigns/"+c.ID+"/performance", nil, true)
	require.Equal(t, http.StatusOK, code)
	perf := decode[map[string]any](t, env.Data)
	assert.Equal(t, float64(0), perf["opens"])
	assert.Equal(t, float64(0), perf["clicks"])
	assert.Equal(t, float64(0), perf["conversions"])
	assert.Equal(t, "Spring", perf["name"])

	code, env = api.do(http.MethodPost, marketing+"/campaigns/6f1c1e52-8f5a-4c1e-9d2a-1b2c3d4e5f60/send", nil, true)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Campaign not found", env.Message)
}

func TestCampaignListFilters(t *testing.T) {
	api := newTestAPI(t)
	for _, typ := range []string{"email", "sms", "sms"} {
		code, _ := api.do(http.MethodPost, marketing+"/campaigns", map[string]string{"name": "c", "type": typ}, true)
		require.Equal(t, http.StatusCreated, code)
	}
	_, env := api.do(http.MethodGet, marketing+"/campaigns?type=sms&limit=1", nil, true)
	assert.Len(t, decode[[]domain.Campaign](t, env.Data), 1)
	assert.EqualValues(t, 2, env.Pagination.Total)
	assert.EqualValues(t, 2, env.Pagination.TotalPages)
}

func TestOnboarding(t *testing.T) {
	api := newTestAPI(t)

	code, env := api.do(http.MethodGet, marketing+"/onboarding", nil, true)
	require.Equal(t, http.StatusOK, code)
	doc := decode[domain.MarketingOnboarding](t, env.Data)
	require.Len(t, doc.Steps, 3)
	for _, s := range doc.Steps {
		assert.False(t, s.Completed)
		assert.NotEmpty(t, s.Name)
	}

	code, env = api.do(http.MethodPut, marketing+"/onboarding", map[string]any{"stepIndex": 1, "completed": true}, true)
	require.Equal(t, http.StatusOK, code)
	doc = decode[domain.MarketingOnboarding](t, env.Data)
	assert.Equal(t, []bool{false, true, false}, []bool{doc.Steps[0].Completed, doc.Steps[1].Completed, doc.Steps[2].Completed})

	code, env = api.do(http.MethodPost, marketing+"/onboarding/complete", nil, true)
	require.Equal(t, http.StatusOK, code)
	doc = decode[domain.MarketingOnboarding](t, env.Data)
	assert.True(t, doc.Completed)
	assert.False(t, doc.Steps[0].Completed)
}

func TestAnalytics(t *testing.T) {
	api := newTestAPI(t)

	_, env := api.do(http.MethodGet, marketing+"/analytics/overall", nil, false)
	assert.Equal(t, domain.OverallAnalytics{}, decode[domain.OverallAnalytics](t, env.Data))

	leads := []domain.Lead{
		createLead(t, api, "a", "a@x.com"),
		createLead(t, api, "b", "b@x.com"),
		createLead(t, api, "c", "c@x.com"),
	}
	api.do(http.MethodPost, marketing+"/leads/"+leads[0].ID+"/convert", nil, true)

	_, env = api.do(http.MethodGet, marketing+"/analytics/overall", nil, false)
	overall := decode[domain.OverallAnalytics](t, env.Data)
	assert.EqualValues(t, 3, overall.TotalLeads)
	assert.EqualValues(t, 1, overall.ConvertedLeads)
	assert.Equal(t, 33.3, overall.ConversionRate)

	_, env = api.do(http.MethodGet, marketing+"/analytics/leads/source", nil, true)
	assert.Equal(t, []domain.SourceCount{{Source: "website", Count: 3}}, decode[[]domain.SourceCount](t, env.Data))

	today := time.Now().UTC().Format("2006-01-02")
	code, env := api.do(http.MethodPut, marketing+"/analytics/leads/date?fromDate="+today+"&toDate="+today, nil, true)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []domain.DateCount{{Date: today, Count: 3}}, decode[[]domain.DateCount](t, env.Data))

	code, env = api.do(http.MethodPut, marketing+"/analytics/leads/date?fromDate=2024-01-01&toDate=2024-01-31", nil, true)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, decode[[]domain.DateCount](t, env.Data))

	code, _ = api.do(http.MethodGet, marketing+"/analytics/leads/date?fromDate=soon", nil, true)
	assert.Equal(t, http.StatusInternalServerError, code)
}

func TestPlatformSettings(t *testing.T) {
	api := newTestAPI(t)

	code, env := api.do(http.MethodPut, marketing+"/platform-settings", map[string]any{
		"platform": map[string]any{"siteName": "Acme", "unknown": 1},
		"email":    "ignored",
		"other":    map[string]any{"x": 1},
	}, true)
	require.Equal(t, http.StatusOK, code, env.Error)
	s := decode[domain.PlatformSettings](t, env.Data)
	assert.Equal(t, "Acme", s.Platform.SiteName)
	assert.Equal(t, "UTC", s.Platform.DefaultTimezone)
	assert.Equal(t, "smtp", s.Email.Provider)

	_, env = api.do(http.MethodGet, marketing+"/platform-settings", nil, true)
	assert.Equal(t, "Acme", decode[domain.PlatformSettings](t, env.Data).Platform.SiteName)
}

func TestTenantAdminAndAudit(t *testing.T) {
	api := newTestAPI(t)
	tenant := adminBase + "/tenants/t-42"

	code, env := api.do(http.MethodGet, tenant+"/school-settings", nil, true)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "School settings not found", env.Message)

	code, env = api.do(http.MethodPut, tenant+"/school-settings", map[string]string{"schoolName": "North"}, true)
	require.Equal(t, http.StatusOK, code, env.Error)
	assert.Equal(t, "t-42", decode[domain.SchoolSettings](t, env.Data).SchoolID)

	api.do(http.MethodPut, tenant+"/features", map[string]any{"features": map[string]bool{"sms": true, "crm": true}}, true)
	_, env = api.do(http.MethodPut, tenant+"/features", map[string]any{"features": map[string]bool{"sms": false}}, true)
	assert.Equal(t, map[string]bool{"sms": false, "crm": true}, decode[domain.FeatureConfig](t, env.Data).Features)

	code, _ = api.do(http.MethodPut, tenant+"/maintenance", map[string]any{"enabled": true, "message": "upgrade"}, true)
	require.Equal(t, http.StatusOK, code)

	code, _ = api.do(http.MethodPost, tenant+"/notes", map[string]string{"note": "renewal call"}, true)
	require.Equal(t, http.StatusCreated, code)
	code, env = api.do(http.MethodPost, tenant+"/impersonations", map[string]string{"targetUserId": "u-9", "reason": "support"}, true)
	require.Equal(t, http.StatusCreated, code, env.Error)
	assert.Equal(t, "admin-1", decode[domain.ImpersonationSession](t, env.Data).AdminID)

	_, env = api.do(http.MethodGet, tenant+"/notes", nil, true)
	assert.Len(t, decode[[]domain.TenantNote](t, env.Data), 1)

	code, env = api.do(http.MethodGet, adminBase+"/audit-logs?tenantId=t-42", nil, true)
	require.Equal(t, http.StatusOK, code)
	logs := decode[[]domain.PlatformAuditLog](t, env.Data)
	require.Len(t, logs, 6)
	assert.Equal(t, "tenant.impersonation.start", logs[0].Action)
	assert.Equal(t, "admin-1", logs[0].UserID)
	assert.EqualValues(t, 6, env.Pagination.Total)
}

// postLead sends an intake request from remoteAddr with an optional X-Forwarded-For.
func postLead(api *testAPI, remoteAddr, forwardedFor, email string) int {
	req := httptest.NewRequest(http.MethodPost, marketing+"/leads", strings.NewReader(`{"name":"x","email":"`+email+`"}`))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = remoteAddr
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	return rec.Code
}

func TestIntakeRateLimit(t *testing.T) {
	api := newTestAPI(t, func(o *RouterOptions) {
		o.IntakeLimiter = NewRateLimiter(0.001, 1, zap.NewNop())
	})
	createLead(t, api, "a", "a@x.com")

	code, env := api.do(http.MethodPost, marketing+"/leads", map[string]string{"name": "b", "email": "b@x.com"}, false)
	assert.Equal(t, http.StatusTooManyRequests, code)
	assert.False(t, env.Success)

	assert.Equal(t, http.StatusCreated, postLead(api, "203.0.113.9:5555", "", "c@x.com"), "other clients keep their own budget")
}

func TestIntakeRateLimit_IgnoresForwardedForFromUntrustedPeer(t *testing.T) {
	rl := NewRateLimiter(0.001, 1, zap.NewNop())
	api := newTestAPI(t, func(o *RouterOptions) { o.IntakeLimiter = rl })

	accepted := 0
	for i := 0; i < 20; i++ {
		fwd := fmt.Sprintf("198.51.100.%d", i+1)
		if postLead(api, "203.0.113.9:5555", fwd, fmt.Sprintf("l%d@x.com", i)) == http.StatusCreated {
			accepted++
		}
	}
	assert.Equal(t, 1, accepted)
	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.Len(t, rl.clients, 1)
	assert.Contains(t, rl.clients, "203.0.113.9")
}

func TestIntakeRateLimit_TrustedProxyForwardsClient(t *testing.T) {
	proxies, err := ParseTrustedProxies([]string{"10.0.0.0/8"})
	require.NoError(t, err)
	api := newTestAPI(t, func(o *RouterOptions) {
		o.IntakeLimiter = NewRateLimiter(0.001, 1, zap.NewNop())
		o.TrustedProxies = proxies
	})

	assert.Equal(t, http.StatusCreated, postLead(api, "10.1.2.3:443", "198.51.100.1", "a@x.com"))
	assert.Equal(t, http.StatusCreated, postLead(api, "10.1.2.3:443", "198.51.100.2", "b@x.com"))
	assert.Equal(t, http.StatusTooManyRequests, postLead(api, "10.9.9.9:443", "198.51.100.1", "c@x.com"))
	// a spoofed left-most hop does not hide the real client appended by the proxy
	assert.Equal(t, http.StatusTooManyRequests, postLead(api, "10.1.2.3:443", "1.2.3.4, 198.51.100.2", "d@x.com"))
}

func TestAuditRecordsResolvedClientIP(t *testing.T) {
	proxies, err := ParseTrustedProxies([]string{"10.0.0.1"})
	require.NoError(t, err)
	api := newTestAPI(t, func(o *RouterOptions) { o.TrustedProxies = proxies })

	put := func(remoteAddr, fwd string) {
		req := httptest.NewRequest(http.MethodPut, marketing+"/home", strings.NewReader(`{"hero":"x"}`))
		req.RemoteAddr = remoteAddr
		req.Header.Set("X-Forwarded-For", fwd)
		req.Header.Set("X-User-Id", "admin-1")
		req.Header.Set("X-User-Role", "super_admin")
		rec := httptest.NewRecorder()
		api.router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	put("203.0.113.9:5555", "198.51.100.7")
	put("10.0.0.1:443", "198.51.100.8")

	_, env := api.do(http.MethodGet, adminBase+"/audit-logs", nil, true)
	logs := decode[[]domain.PlatformAuditLog](t, env.Data)
	require.Len(t, logs, 2)
	assert.Equal(t, "198.51.100.8", logs[0].IPAddress)
	assert.Equal(t, "203.0.113.9", logs[1].IPAddress)
}

func TestTrustedProxies_Resolve(t *testing.T) {
	proxies, err := ParseTrustedProxies([]string{"10.0.0.0/8", "192.0.2.7", " "})
	require.NoError(t, err)

	tests := []struct {
		name       string
		proxies    *TrustedProxies
		remoteAddr string
		fwd        string
		want       string
	}{
		{"no proxies configured", nil, "10.0.0.5:1", "198.51.100.1", "10.0.0.5"},
		{"untrusted peer", proxies, "203.0.113.9:1", "198.51.100.1", "203.0.113.9"},
		{"trusted peer", proxies, "192.0.2.7:1", "198.51.100.1", "198.51.100.1"},
		{"proxy chain", proxies, "10.0.0.5:1", "198.51.100.1, 10.0.0.9", "198.51.100.1"},
		{"spoofed prefix", proxies, "10.0.0.5:1", "6.6.6.6, 198.51.100.1", "198.51.100.1"},
		{"garbage hop", proxies, "10.0.0.5:1", "not-an-ip", "10.0.0.5"},
		{"no header", proxies, "10.0.0.5:1", "", "10.0.0.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.fwd != "" {
				req.Header.Set("X-Forwarded-For", tt.fwd)
			}
			assert.Equal(t, tt.want, tt.proxies.Resolve(req))
		})
	}

	_, err = ParseTrustedProxies([]string{"lb.internal"})
	assert.Error(t, err)
	_, err = ParseTrustedProxies([]string{"10.0.0.0/33"})
	assert.Error(t, err)
}

func TestRateLimiter_SweepsIdleClients(t *testing.T) {
	rl := NewRateLimiter(1, 1, zap.NewNop())
	t0 := time.Now()

	assert.True(t, rl.allow("a", t0))
	assert.False(t, rl.allow("a", t0))
	assert.True(t, rl.allow("b", t0))

	later := t0.Add(limiterIdleTTL + 2*time.Minute)
	assert.True(t, rl.allow("c", later))
	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.Len(t, rl.clients, 1)
	assert.Contains(t, rl.clients, "c")
}

func TestHealthMetricsAndCORS(t *testing.T) {
	api := newTestAPI(t)

	code, env := api.do(http.MethodGet, "/health", nil, false)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)

	api.do(http.MethodGet, marketing+"/home", nil, false)
	rec := api.raw(http.MethodGet, "/metrics", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `marketing_http_requests_total{method="GET",route="/api/v1/marketing/home",status="200"} 1`)

	req := httptest.NewRequest(http.MethodOptions, marketing+"/leads", nil)
	req.Header.Set("Origin", "https://school.example")
	rec = httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://school.example", rec.Header().Get("Access-Control-Allow-Origin"))

	code, _ = api.do(http.MethodGet, "/nope", nil, false)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestRecoveryWritesEnvelope(t *testing.T) {
	h := Recovery(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Internal server error"}`, rec.Body.String())
}
