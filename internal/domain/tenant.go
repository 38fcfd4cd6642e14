package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// SchoolSettings per-tenant school configuration, one document per schoolId.
type SchoolSettings struct {
	ID            string          `json:"id"`
	SchoolID      string          `json:"schoolId"`
	SchoolName    string          `json:"schoolName"`
	AcademicYear  string          `json:"academicYear"`
	Timezone      string          `json:"timezone"`
	Locale        string          `json:"locale"`
	Currency      string          `json:"currency"`
	GradingSystem string          `json:"gradingSystem"`
	Metadata      json.RawMessage `json:"metadata,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func (s *SchoolSettings) ApplyDefaults() {
	if s.Timezone == "" {
		s.Timezone = "UTC"
	}
	if s.Locale == "" {
		s.Locale = "en"
	}
	if s.Currency == "" {
		s.Currency = "USD"
	}
}

func (s *SchoolSettings) Validate() error {
	if strings.TrimSpace(s.SchoolID) == "" {
		return requiredError("SchoolSettings", "schoolId")
	}
	return nil
}

// FeatureConfig per-tenant feature flags.
type FeatureConfig struct {
	ID        string          `json:"id"`
	TenantID  string          `json:"tenantId"`
	Features  map[string]bool `json:"features"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func (f *FeatureConfig) Validate() error {
	if strings.TrimSpace(f.TenantID) == "" {
		return requiredError("FeatureConfig", "tenantId")
	}
	return nil
}

// MaintenanceMode per-tenant maintenance window.
type MaintenanceMode struct {
	ID        string     `json:"id"`
	TenantID  string     `json:"tenantId"`
	Enabled   bool       `json:"enabled"`
	Message   string     `json:"message"`
	StartsAt  *time.Time `json:"startsAt"`
	EndsAt    *time.Time `json:"endsAt"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (m *MaintenanceMode) Validate() error {
	if strings.TrimSpace(m.TenantID) == "" {
		return requiredError("MaintenanceMode", "tenantId")
	}
	if m.StartsAt != nil && m.EndsAt != nil && m.EndsAt.Before(*m.StartsAt) {
		return ValidationError("MaintenanceMode", "endsAt", "endsAt must not be before startsAt")
	}
	return nil
}

// TenantNote append-only admin note on a tenant.
type TenantNote struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenantId"`
	AuthorID  string    `json:"authorId"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"createdAt"`
}

func (n *TenantNote) Validate() error {
	if strings.TrimSpace(n.TenantID) == "" {
		return requiredError("TenantNote", "tenantId")
	}
	if strings.TrimSpace(n.Note) == "" {
		return requiredError("TenantNote", "note")
	}
	return nil
}

// ImpersonationSession record of a platform admin acting as a tenant user.
type ImpersonationSession struct {
	ID           string     `json:"id"`
	TenantID     string     `json:"tenantId"`
	AdminID      string     `json:"adminId"`
	TargetUserID string     `json:"targetUserId"`
	Reason       string     `json:"reason"`
	StartedAt    time.Time  `json:"startedAt"`
	EndedAt      *time.Time `json:"endedAt"`
	CreatedAt    time.Time  `json:"createdAt"`
}

func (s *ImpersonationSession) Validate() error {
	if strings.TrimSpace(s.TenantID) == "" {
		return requiredError("ImpersonationSession", "tenantId")
	}
	if strings.TrimSpace(s.AdminID) == "" {
		return requiredError("ImpersonationSession", "adminId")
	}
	if strings.TrimSpace(s.TargetUserID) == "" {
		return requiredError("ImpersonationSession", "targetUserId")
	}
	return nil
}
