package httpapi

import (
	"net/http"
	"strings"

	"github.com/sagar-developer08/Api-v2-sub001/internal/domain"
	"github.com/sagar-developer08/Api-v2-sub001/internal/metrics"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Handlers groups every route handler the router mounts.
type Handlers struct {
	Leads      *LeadsHandler
	Campaigns  *CampaignsHandler
	Pages      *PagesHandler
	Onboarding *OnboardingHandler
	Analytics  *AnalyticsHandler
	Settings   *SettingsHandler
	Tenants    *TenantsHandler
	Audit      *AuditHandler
}

type RouterOptions struct {
	BasePath       string // e.g. "/api/v1"
	AllowedOrigins []string
	Auth           *HeaderAuthorizer
	IntakeLimiter  *RateLimiter // optional, wraps POST /leads
	Metrics        *metrics.Metrics
	MetricsPath    string          // empty disables the scrape endpoint
	TrustedProxies *TrustedProxies // nil: X-Forwarded-For is ignored
}

// Router gorilla/mux routes behind the shared middleware chain.
type Router struct {
	mux     *mux.Router
	handler http.Handler
	opts    RouterOptions
	logger  *zap.Logger
}

func NewRouter(h Handlers, opts RouterOptions, logger *zap.Logger) *Router {
	m := mux.NewRouter()
	r := &Router{mux: m, opts: opts, logger: logger}

	m.Use(metrics.Middleware(opts.Metrics, routeTemplate))

	m.HandleFunc("/health", r.health).Methods(http.MethodGet)
	if opts.Metrics != nil && opts.MetricsPath != "" {
		m.Handle(opts.MetricsPath, opts.Metrics.Handler()).Methods(http.MethodGet)
	}

	base := strings.TrimRight(opts.BasePath, "/")
	r.registerMarketingRoutes(m.PathPrefix(base+"/marketing").Subrouter(), h)
	r.registerAdminRoutes(m.PathPrefix(base+"/admin").Subrouter(), h)

	m.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, Fail("Route not found"))
	})
	m.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, Fail("Method not allowed"))
	})

	// Outside the mux so preflight and unmatched requests are covered too.
	r.handler = Chain(
		Recovery(logger),
		RequestID,
		RealIP(opts.TrustedProxies),
		Logging(logger),
		CORS(opts.AllowedOrigins),
	)(m)
	return r
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}

func (r *Router) admin(h http.HandlerFunc) http.Handler {
	return r.opts.Auth.RequireSuperAdmin(h)
}

func (r *Router) intake(h http.HandlerFunc) http.Handler {
	if r.opts.IntakeLimiter == nil {
		return h
	}
	return r.opts.IntakeLimiter.Limit(h)
}

func (r *Router) registerMarketingRoutes(s *mux.Router, h Handlers) {
	for _, key := range domain.PageKeys {
		s.Handle("/"+key, h.Pages.Get(key)).Methods(http.MethodGet)
		s.Handle("/"+key, r.admin(h.Pages.Put(key))).Methods(http.MethodPut)
	}

	// /leads/export must be registered before /leads/{id}.
	s.Handle("/leads", r.admin(h.Leads.List)).Methods(http.MethodGet)
	s.Handle("/leads", r.intake(h.Leads.Create)).Methods(http.MethodPost)
	s.Handle("/leads/export", r.admin(h.Leads.Export)).Methods(http.MethodGet)
	s.Handle("/leads/{id}", r.admin(h.Leads.Get)).Methods(http.MethodGet)
	s.Handle("/leads/{id}", r.admin(h.Leads.Update)).Methods(http.MethodPut)
	s.Handle("/leads/{id}", r.admin(h.Leads.Delete)).Methods(http.MethodDelete)
	s.Handle("/leads/{id}/convert", r.admin(h.Leads.Convert)).Methods(http.MethodPost)
	s.Handle("/leads/{id}/notes", r.admin(h.Leads.AddNote)).Methods(http.MethodPost)
	s.Handle("/leads/{id}/history", r.admin(h.Leads.History)).Methods(http.MethodGet)

	s.Handle("/onboarding", r.admin(h.Onboarding.Get)).Methods(http.MethodGet)
	s.Handle("/onboarding", r.admin(h.Onboarding.Update)).Methods(http.MethodPut)
	s.Handle("/onboarding/complete", r.admin(h.Onboarding.Complete)).Methods(http.MethodPost)

	s.Handle("/campaigns", r.admin(h.Campaigns.List)).Methods(http.MethodGet)
	s.Handle("/campaigns", r.admin(h.Campaigns.Create)).Methods(http.MethodPost)
	s.Handle("/campaigns/{id}", r.admin(h.Campaigns.Get)).Methods(http.MethodGet)
	s.Handle("/campaigns/{id}", r.admin(h.Campaigns.Update)).Methods(http.MethodPut)
	s.Handle("/campaigns/{id}", r.admin(h.Campaigns.Delete)).Methods(http.MethodDelete)
	s.Handle("/campaigns/{id}/send", r.admin(h.Campaigns.Send)).Methods(http.MethodPost)
	s.Handle("/campaigns/{id}/schedule", r.admin(h.Campaigns.Schedule)).Methods(http.MethodPost)
	s.Handle("/campaigns/{id}/cancel", r.admin(h.Campaigns.Cancel)).Methods(http.MethodPost)
	s.Handle("/campaigns/{id}/performance", r.admin(h.Campaigns.Performance)).Methods(http.MethodGet)

	s.HandleFunc("/analytics/overall", h.Analytics.Overall).Methods(http.MethodGet)
	s.Handle("/analytics/campaigns", r.admin(h.Analytics.Campaigns)).Methods(http.MethodGet)
	s.Handle("/analytics/leads/source", r.admin(h.Analytics.LeadsBySource)).Methods(http.MethodGet)
	s.Handle("/analytics/leads/date", r.admin(h.Analytics.LeadsByDate)).Methods(http.MethodGet, http.MethodPut)

	s.Handle("/platform-settings", r.admin(h.Settings.Get)).Methods(http.MethodGet)
	s.Handle("/platform-settings", r.admin(h.Settings.Update)).Methods(http.MethodPut)
}

func (r *Router) registerAdminRoutes(s *mux.Router, h Handlers) {
	t := s.PathPrefix("/tenants/{tenantId}").Subrouter()
	t.Handle("/school-settings", r.admin(h.Tenants.GetSchoolSettings)).Methods(http.MethodGet)
	t.Handle("/school-settings", r.admin(h.Tenants.PutSchoolSettings)).Methods(http.MethodPut)
	t.Handle("/features", r.admin(h.Tenants.GetFeatures)).Methods(http.MethodGet)
	t.Handle("/features", r.admin(h.Tenants.PutFeatures)).Methods(http.MethodPut)
	t.Handle("/maintenance", r.admin(h.Tenants.GetMaintenance)).Methods(http.MethodGet)
	t.Handle("/maintenance", r.admin(h.Tenants.PutMaintenance)).Methods(http.MethodPut)
	t.Handle("/notes", r.admin(h.Tenants.ListNotes)).Methods(http.MethodGet)
	t.Handle("/notes", r.admin(h.Tenants.AddNote)).Methods(http.MethodPost)
	t.Handle("/impersonations", r.admin(h.Tenants.ListImpersonations)).Methods(http.MethodGet)
	t.Handle("/impersonations", r.admin(h.Tenants.StartImpersonation)).Methods(http.MethodPost)

	s.Handle("/audit-logs", r.admin(h.Audit.List)).Methods(http.MethodGet)
}

func (r *Router) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, Ok(map[string]string{"status": "ok"}))
}

// routeTemplate labels metrics by matched path template, not raw path.
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}
