package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// PlatformAuditLog append-only record of an administrative action.
type PlatformAuditLog struct {
	ID           string          `json:"id"`
	TenantID     string          `json:"tenantId,omitempty"`
	UserID       string          `json:"userId,omitempty"`
	Action       string          `json:"action"`
	ResourceType string          `json:"resourceType"`
	ResourceID   string          `json:"resourceId,omitempty"`
	Metadata     json.RawMessage `json:"metadata,omitempty"`
	IPAddress    string          `json:"ipAddress,omitempty"`
	UserAgent    string          `json:"userAgent,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

func (a *PlatformAuditLog) Validate() error {
	if strings.TrimSpace(a.Action) == "" {
		return requiredError("PlatformAuditLog", "action")
	}
	if strings.TrimSpace(a.ResourceType) == "" {
		return requiredError("PlatformAuditLog", "resourceType")
	}
	return nil
}

// AuditFilter selects by tenant or user; both empty lists everything.
type AuditFilter struct {
	TenantID string
	UserID   string
}
