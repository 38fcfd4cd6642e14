package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/sagar-developer08/Api-v2-sub001/internal/domain"
	"github.com/sagar-developer08/Api-v2-sub001/internal/models"
	"github.com/sagar-developer08/Api-v2-sub001/internal/service"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const campaignNotFound = "Campaign not found"

type CampaignsHandler struct {
	svc    *service.CampaignService
	audit  *service.AuditService
	logger *zap.Logger
}

func NewCampaignsHandler(svc *service.CampaignService, audit *service.AuditService, logger *zap.Logger) *CampaignsHandler {
	return &CampaignsHandler{svc: svc, audit: audit, logger: logger}
}

func (h *CampaignsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resp, err := h.svc.ListCampaigns(r.Context(), service.ListCampaignsRequest{
		Status: q.Get("status"),
		Type:   q.Get("type"),
		Page:   models.ParsePageRequest(q.Get("page"), q.Get("limit")),
	})
	if err != nil {
		writeError(w, h.logger, "ListCampaigns", err, "", "Failed to fetch campaigns")
		return
	}
	writeJSON(w, http.StatusOK, OkPage(resp.Items, resp.Pagination))
}

func (h *CampaignsHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.GetCampaign(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, h.logger, "GetCampaign", err, campaignNotFound, "Failed to fetch campaign")
		return
	}
	writeJSON(w, http.StatusOK, Ok(c))
}

type createCampaignRequest struct {
	Name          string          `json:"name"`
	Type          string          `json:"type"`
	Subject       string          `json:"subject"`
	Content       string          `json:"content"`
	ScheduledDate json.RawMessage `json:"scheduledDate"`
}

func (h *CampaignsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCampaignRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, h.logger, "CreateCampaign", err, "", "Failed to create campaign")
		return
	}
	scheduled, err := domain.DecodeOptionalTime("Campaign", "scheduledDate", req.ScheduledDate)
	if err != nil {
		writeError(w, h.logger, "CreateCampaign", err, "", "Failed to create campaign")
		return
	}
	c, err := h.svc.CreateCampaign(r.Context(), service.CreateCampaignRequest{
		Name:          req.Name,
		Type:          req.Type,
		Subject:       req.Subject,
		Content:       req.Content,
		ScheduledDate: scheduled,
	})
	if err != nil {
		writeError(w, h.logger, "CreateCampaign", err, "", "Failed to create campaign")
		return
	}
	h.audit.Record(r.Context(), newAuditEntry(r, "campaign.create", "campaign", c.ID))
	writeJSON(w, http.StatusCreated, OkMessage(c, "Campaign created successfully"))
}

// Update applies a free-form patch; status is writable here as well.
func (h *CampaignsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var body map[string]json.RawMessage
	if err := readBodyJSON(r, maxBodyBytes, &body); err != nil {
		writeError(w, h.logger, "UpdateCampaign", err, "", "Failed to update campaign")
		return
	}
	patch, err := domain.BuildCampaignPatch(body)
	if err != nil {
		writeError(w, h.logger, "UpdateCampaign", err, "", "Failed to update campaign")
		return
	}
	c, err := h.svc.UpdateCampaign(r.Context(), id, patch)
	if err != nil {
		writeError(w, h.logger, "UpdateCampaign", err, campaignNotFound, "Failed to update campaign")
		return
	}
	h.audit.Record(r.Context(), newAuditEntry(r, "campaign.update", "campaign", id))
	writeJSON(w, http.StatusOK, OkMessage(c, "Campaign updated successfully"))
}

func (h *CampaignsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.svc.DeleteCampaign(r.Context(), id); err != nil {
		writeError(w, h.logger, "DeleteCampaign", err, campaignNotFound, "Failed to delete campaign")
		return
	}
	h.audit.Record(r.Context(), newAuditEntry(r, "campaign.delete", "campaign", id))
	writeJSON(w, http.StatusOK, OkMessage(nil, "Campaign deleted successfully"))
}

func (h *CampaignsHandler) Send(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	c, err := h.svc.SendCampaign(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, "SendCampaign", err, campaignNotFound, "Failed to send campaign")
		return
	}
	h.audit.Record(r.Context(), newAuditEntry(r, "campaign.send", "campaign", id))
	writeJSON(w, http.StatusOK, OkMessage(c, "Campaign sent successfully"))
}

type scheduleCampaignRequest struct {
	ScheduledDate json.RawMessage `json:"scheduledDate"`
}

// Schedule sets status scheduled; a missing or null scheduledDate stores null.
func (h *CampaignsHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req scheduleCampaignRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, h.logger, "ScheduleCampaign", err, "", "Failed to schedule campaign")
		return
	}
	when, err := domain.DecodeOptionalTime("Campaign", "scheduledDate", req.ScheduledDate)
	if err != nil {
		writeError(w, h.logger, "ScheduleCampaign", err, "", "Failed to schedule campaign")
		return
	}
	c, err := h.svc.ScheduleCampaign(r.Context(), id, when)
	if err != nil {
		writeError(w, h.logger, "ScheduleCampaign", err, campaignNotFound, "Failed to schedule campaign")
		return
	}
	h.audit.Record(r.Context(), newAuditEntry(r, "campaign.schedule", "campaign", id))
	writeJSON(w, http.StatusOK, OkMessage(c, "Campaign scheduled successfully"))
}

func (h *CampaignsHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	c, err := h.svc.CancelCampaign(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, "CancelCampaign", err, campaignNotFound, "Failed to cancel campaign")
		return
	}
	h.audit.Record(r.Context(), newAuditEntry(r, "campaign.cancel", "campaign", id))
	writeJSON(w, http.StatusOK, OkMessage(c, "Campaign cancelled successfully"))
}

func (h *CampaignsHandler) Performance(w http.ResponseWriter, r *http.Request) {
	perf, err := h.svc.GetPerformance(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, h.logger, "GetCampaignPerformance", err, campaignNotFound, "Failed to fetch campaign performance")
		return
	}
	writeJSON(w, http.StatusOK, Ok(perf))
}
