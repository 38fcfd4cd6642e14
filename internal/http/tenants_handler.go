package httpapi

import (
	"net/http"

	"github.com/sagar-developer08/Api-v2-sub001/internal/domain"
	"github.com/sagar-developer08/Api-v2-sub001/internal/service"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// TenantsHandler platform-level configuration and activity per tenant.
type TenantsHandler struct {
	svc    *service.TenantService
	audit  *service.AuditService
	logger *zap.Logger
}

func NewTenantsHandler(svc *service.TenantService, audit *service.AuditService, logger *zap.Logger) *TenantsHandler {
	return &TenantsHandler{svc: svc, audit: audit, logger: logger}
}

func tenantID(r *http.Request) string { return mux.Vars(r)["tenantId"] }

func (h *TenantsHandler) record(r *http.Request, action, resourceType, resourceID string) {
	e := newAuditEntry(r, action, resourceType, resourceID)
	e.TenantID = tenantID(r)
	h.audit.Record(r.Context(), e)
}

func (h *TenantsHandler) GetSchoolSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.GetSchoolSettings(r.Context(), tenantID(r))
	if err != nil {
		writeError(w, h.logger, "GetSchoolSettings", err, "School settings not found", "Failed to fetch school settings")
		return
	}
	writeJSON(w, http.StatusOK, Ok(s))
}

func (h *TenantsHandler) PutSchoolSettings(w http.ResponseWriter, r *http.Request) {
	var in domain.SchoolSettings
	if err := readBodyJSON(r, maxBodyBytes, &in); err != nil {
		writeError(w, h.logger, "PutSchoolSettings", err, "", "Failed to update school settings")
		return
	}
	s, err := h.svc.PutSchoolSettings(r.Context(), tenantID(r), in)
	if err != nil {
		writeError(w, h.logger, "PutSchoolSettings", err, "", "Failed to update school settings")
		return
	}
	h.record(r, "tenant.school_settings.update", "school_settings", s.ID)
	writeJSON(w, http.StatusOK, OkMessage(s, "School settings updated successfully"))
}

func (h *TenantsHandler) GetFeatures(w http.ResponseWriter, r *http.Request) {
	f, err := h.svc.GetFeatureConfig(r.Context(), tenantID(r))
	if err != nil {
		writeError(w, h.logger, "GetFeatureConfig", err, "Feature configuration not found", "Failed to fetch feature configuration")
		return
	}
	writeJSON(w, http.StatusOK, Ok(f))
}

type putFeaturesRequest struct {
	Features map[string]bool `json:"features"`
}

// PutFeatures merges the given flags into the tenant's existing flags.
func (h *TenantsHandler) PutFeatures(w http.ResponseWriter, r *http.Request) {
	var req putFeaturesRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, h.logger, "PutFeatureConfig", err, "", "Failed to update feature configuration")
		return
	}
	f, err := h.svc.PutFeatureConfig(r.Context(), tenantID(r), req.Features)
	if err != nil {
		writeError(w, h.logger, "PutFeatureConfig", err, "", "Failed to update feature configuration")
		return
	}
	h.record(r, "tenant.features.update", "feature_config", f.ID)
	writeJSON(w, http.StatusOK, OkMessage(f, "Feature configuration updated successfully"))
}

func (h *TenantsHandler) GetMaintenance(w http.ResponseWriter, r *http.Request) {
	m, err := h.svc.GetMaintenanceMode(r.Context(), tenantID(r))
	if err != nil {
		writeError(w, h.logger, "GetMaintenanceMode", err, "Maintenance mode not configured", "Failed to fetch maintenance mode")
		return
	}
	writeJSON(w, http.StatusOK, Ok(m))
}

func (h *TenantsHandler) PutMaintenance(w http.ResponseWriter, r *http.Request) {
	var in domain.MaintenanceMode
	if err := readBodyJSON(r, maxBodyBytes, &in); err != nil {
		writeError(w, h.logger, "PutMaintenanceMode", err, "", "Failed to update maintenance mode")
		return
	}
	m, err := h.svc.PutMaintenanceMode(r.Context(), tenantID(r), in)
	if err != nil {
		writeError(w, h.logger, "PutMaintenanceMode", err, "", "Failed to update maintenance mode")
		return
	}
	h.record(r, "tenant.maintenance.update", "maintenance_mode", m.ID)
	writeJSON(w, http.StatusOK, OkMessage(m, "Maintenance mode updated successfully"))
}

func (h *TenantsHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.svc.ListNotes(r.Context(), tenantID(r))
	if err != nil {
		writeError(w, h.logger, "ListTenantNotes", err, "", "Failed to fetch tenant notes")
		return
	}
	writeJSON(w, http.StatusOK, Ok(notes))
}

type addTenantNoteRequest struct {
	Note string `json:"note"`
}

func (h *TenantsHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	var req addTenantNoteRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, h.logger, "AddTenantNote", err, "", "Failed to add tenant note")
		return
	}
	n, err := h.svc.AddNote(r.Context(), tenantID(r), identityFrom(r.Context()).UserID, req.Note)
	if err != nil {
		writeError(w, h.logger, "AddTenantNote", err, "", "Failed to add tenant note")
		return
	}
	h.record(r, "tenant.note.create", "tenant_note", n.ID)
	writeJSON(w, http.StatusCreated, OkMessage(n, "Note added successfully"))
}

func (h *TenantsHandler) ListImpersonations(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.svc.ListImpersonations(r.Context(), tenantID(r))
	if err != nil {
		writeError(w, h.logger, "ListImpersonations", err, "", "Failed to fetch impersonation sessions")
		return
	}
	writeJSON(w, http.StatusOK, Ok(sessions))
}

type startImpersonationRequest struct {
	TargetUserID string `json:"targetUserId"`
	Reason       string `json:"reason"`
}

func (h *TenantsHandler) StartImpersonation(w http.ResponseWriter, r *http.Request) {
	var req startImpersonationRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, h.logger, "StartImpersonation", err, "", "Failed to start impersonation")
		return
	}
	sess, err := h.svc.StartImpersonation(r.Context(), tenantID(r), identityFrom(r.Context()).UserID, req.TargetUserID, req.Reason)
	if err != nil {
		writeError(w, h.logger, "StartImpersonation", err, "", "Failed to start impersonation")
		return
	}
	h.record(r, "tenant.impersonation.start", "impersonation_session", sess.ID)
	writeJSON(w, http.StatusCreated, OkMessage(sess, "Impersonation session started"))
}
