package httpapi

import (
	"net/http"

	"github.com/sagar-developer08/Api-v2-sub001/internal/models"
	"github.com/sagar-developer08/Api-v2-sub001/internal/service"

	"go.uber.org/zap"
)

// AuditHandler serves the platform audit trail.
type AuditHandler struct {
	svc    *service.AuditService
	logger *zap.Logger
}

func NewAuditHandler(svc *service.AuditService, logger *zap.Logger) *AuditHandler {
	return &AuditHandler{svc: svc, logger: logger}
}

// List GET /admin/audit-logs?tenantId=&userId=&page=&limit=
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resp, err := h.svc.List(r.Context(), service.ListAuditLogsRequest{
		TenantID: q.Get("tenantId"),
		UserID:   q.Get("userId"),
		Page:     models.ParsePageRequest(q.Get("page"), q.Get("limit")),
	})
	if err != nil {
		writeError(w, h.logger, "ListAuditLogs", err, "", "Failed to fetch audit logs")
		return
	}
	writeJSON(w, http.StatusOK, OkPage(resp.Items, resp.Pagination))
}

// newAuditEntry fills the caller details for an admin mutation.
func newAuditEntry(r *http.Request, action, resourceType, resourceID string) service.AuditEntry {
	return service.AuditEntry{
		UserID:       identityFrom(r.Context()).UserID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    clientIP(r),
		UserAgent:    r.UserAgent(),
	}
}
