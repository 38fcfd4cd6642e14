package httpapi

import (
	"net/http"

	"github.com/sagar-developer08/Api-v2-sub001/internal/service"

	"go.uber.org/zap"
)

type AnalyticsHandler struct {
	svc    *service.AnalyticsService
	logger *zap.Logger
}

func NewAnalyticsHandler(svc *service.AnalyticsService, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc, logger: logger}
}

// Overall is public: it backs the marketing site's headline numbers.
func (h *AnalyticsHandler) Overall(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.Overall(r.Context())
	if err != nil {
		writeError(w, h.logger, "OverallAnalytics", err, "", "Failed to fetch analytics")
		return
	}
	writeJSON(w, http.StatusOK, Ok(out))
}

func (h *AnalyticsHandler) Campaigns(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.Campaigns(r.Context())
	if err != nil {
		writeError(w, h.logger, "CampaignAnalytics", err, "", "Failed to fetch campaign analytics")
		return
	}
	writeJSON(w, http.StatusOK, Ok(out))
}

func (h *AnalyticsHandler) LeadsBySource(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.LeadsBySource(r.Context())
	if err != nil {
		writeError(w, h.logger, "LeadsBySource", err, "", "Failed to fetch lead source analytics")
		return
	}
	writeJSON(w, http.StatusOK, Ok(out))
}

// LeadsByDate reads fromDate/toDate from the query string for both GET and PUT.
func (h *AnalyticsHandler) LeadsByDate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	out, err := h.svc.LeadsByDate(r.Context(), q.Get("fromDate"), q.Get("toDate"))
	if err != nil {
		writeError(w, h.logger, "LeadsByDate", err, "", "Failed to fetch lead date analytics")
		return
	}
	writeJSON(w, http.StatusOK, Ok(out))
}
