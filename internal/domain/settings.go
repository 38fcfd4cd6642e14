package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"
)

// PlatformSettingsKey identifies the singleton document.
const PlatformSettingsKey = "default"

type PlatformGroup struct {
	SiteName        string `json:"siteName"`
	SiteURL         string `json:"siteUrl"`
	SupportEmail    string `json:"supportEmail"`
	DefaultLanguage string `json:"defaultLanguage"`
	DefaultTimezone string `json:"defaultTimezone"`
	LogoURL         string `json:"logoUrl"`
}

type EmailGroup struct {
	Provider   string `json:"provider"`
	FromEmail  string `json:"fromEmail"`
	FromName   string `json:"fromName"`
	SMTPHost   string `json:"smtpHost"`
	SMTPPort   int    `json:"smtpPort"`
	SMTPSecure bool   `json:"smtpSecure"`
}

type SecurityGroup struct {
	SessionTimeoutMinutes int  `json:"sessionTimeoutMinutes"`
	PasswordMinLength     int  `json:"passwordMinLength"`
	RequireTwoFactor      bool `json:"requireTwoFactor"`
	MaxLoginAttempts      int  `json:"maxLoginAttempts"`
}

type FeaturesGroup struct {
	EnableRegistration  bool `json:"enableRegistration"`
	EnableMarketing     bool `json:"enableMarketing"`
	EnableAnalytics     bool `json:"enableAnalytics"`
	EnableNotifications bool `json:"enableNotifications"`
}

// PlatformSettings singleton platform-wide configuration.
type PlatformSettings struct {
	ID        string        `json:"id"`
	Platform  PlatformGroup `json:"platform"`
	Email     EmailGroup    `json:"email"`
	Security  SecurityGroup `json:"security"`
	Features  FeaturesGroup `json:"features"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// DefaultPlatformSettings schema defaults used when the singleton is first created.
func DefaultPlatformSettings() PlatformSettings {
	return PlatformSettings{
		Platform: PlatformGroup{
			SiteName:        "School Management Platform",
			DefaultLanguage: "en",
			DefaultTimezone: "UTC",
		},
		Email: EmailGroup{
			Provider: "smtp",
			SMTPPort: 587,
		},
		Security: SecurityGroup{
			SessionTimeoutMinutes: 60,
			PasswordMinLength:     8,
			RequireTwoFactor:      false,
			MaxLoginAttempts:      5,
		},
		Features: FeaturesGroup{
			EnableRegistration:  true,
			EnableMarketing:     true,
			EnableAnalytics:     true,
			EnableNotifications: true,
		},
	}
}

// Settings group names accepted by an update.
const (
	SettingsGroupPlatform = "platform"
	SettingsGroupEmail    = "email"
	SettingsGroupSecurity = "security"
	SettingsGroupFeatures = "features"
)

var SettingsGroups = []string{SettingsGroupPlatform, SettingsGroupEmail, SettingsGroupSecurity, SettingsGroupFeatures}

// settingsGroupFields known inner fields per group; others are dropped like unknown schema paths.
var settingsGroupFields = map[string]map[string]bool{
	SettingsGroupPlatform: {"siteName": true, "siteUrl": true, "supportEmail": true, "defaultLanguage": true, "defaultTimezone": true, "logoUrl": true},
	SettingsGroupEmail:    {"provider": true, "fromEmail": true, "fromName": true, "smtpHost": true, "smtpPort": true, "smtpSecure": true},
	SettingsGroupSecurity: {"sessionTimeoutMinutes": true, "passwordMinLength": true, "requireTwoFactor": true, "maxLoginAttempts": true},
	SettingsGroupFeatures: {"enableRegistration": true, "enableMarketing": true, "enableAnalytics": true, "enableNotifications": true},
}

// SettingsPatch group -> field -> raw JSON value. Every entry is a set of "group.field".
type SettingsPatch map[string]map[string]json.RawMessage

// Empty reports whether nothing would be written.
func (p SettingsPatch) Empty() bool {
	for _, fields := range p {
		if len(fields) > 0 {
			return false
		}
	}
	return true
}

// Paths returns the dotted "group.field" paths in sorted order.
func (p SettingsPatch) Paths() []string {
	var out []string
	for group, fields := range p {
		for field := range fields {
			out = append(out, group+"."+field)
		}
	}
	sort.Strings(out)
	return out
}

// GroupJSON returns the patch for group as a JSON object ("{}" when absent).
func (p SettingsPatch) GroupJSON(group string) []byte {
	fields := p[group]
	if len(fields) == 0 {
		return []byte("{}")
	}
	b, _ := json.Marshal(fields)
	return b
}

// BuildSettingsPatch flattens an update body into dotted-path sets. Only the four
// known groups are read, only when their value is a JSON object; unknown groups,
// non-object group values and unknown inner fields are ignored. A known field
// whose value does not fit the field type is a validation error.
func BuildSettingsPatch(update map[string]json.RawMessage) (SettingsPatch, error) {
	patch := SettingsPatch{}
	for _, group := range SettingsGroups {
		raw, ok := update[group]
		if !ok {
			continue
		}
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			continue
		}
		var inner map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &inner); err != nil {
			continue
		}
		known := settingsGroupFields[group]
		fields := map[string]json.RawMessage{}
		for k, v := range inner {
			// null is treated as absent so the stored value is kept.
			if !known[k] || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
				continue
			}
			fields[k] = v
		}
		if len(fields) == 0 {
			continue
		}
		if err := checkGroupTypes(group, fields); err != nil {
			return nil, err
		}
		patch[group] = fields
	}
	return patch, nil
}

func checkGroupTypes(group string, fields map[string]json.RawMessage) error {
	b, err := json.Marshal(fields)
	if err != nil {
		return ValidationError("PlatformSettings", group, err.Error())
	}
	var target any
	switch group {
	case SettingsGroupPlatform:
		target = &PlatformGroup{}
	case SettingsGroupEmail:
		target = &EmailGroup{}
	case SettingsGroupSecurity:
		target = &SecurityGroup{}
	case SettingsGroupFeatures:
		target = &FeaturesGroup{}
	default:
		return nil
	}
	if err := json.Unmarshal(b, target); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return ValidationError("PlatformSettings", group+"."+typeErr.Field, fmt.Sprintf("Cast to %s failed", typeErr.Type))
		}
		return ValidationError("PlatformSettings", group, err.Error())
	}
	return nil
}

// ApplyPatch overlays patch onto s (used by the in-memory store).
func (s *PlatformSettings) ApplyPatch(patch SettingsPatch) error {
	for group, fields := range patch {
		var target any
		switch group {
		case SettingsGroupPlatform:
			target = &s.Platform
		case SettingsGroupEmail:
			target = &s.Email
		case SettingsGroupSecurity:
			target = &s.Security
		case SettingsGroupFeatures:
			target = &s.Features
		default:
			continue
		}
		b, err := json.Marshal(fields)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(b, target); err != nil {
			return ValidationError("PlatformSettings", group, err.Error())
		}
	}
	return nil
}
