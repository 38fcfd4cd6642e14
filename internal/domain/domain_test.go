package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversionRate(t *testing.T) {
	assert.Equal(t, 0.0, ConversionRate(0, 0))
	assert.Equal(t, 0.0, ConversionRate(0, 5))
	assert.Equal(t, 30.0, ConversionRate(10, 3))
	assert.Equal(t, 33.3, ConversionRate(3, 1))
	assert.Equal(t, 66.7, ConversionRate(3, 2))
	assert.Equal(t, 100.0, ConversionRate(4, 4))
}

func TestLead_DefaultsAndValidate(t *testing.T) {
	l := Lead{Name: "A", Email: "a@x.com"}
	l.ApplyDefaults()
	assert.Equal(t, LeadSourceWebsite, l.Source)
	assert.Equal(t, LeadStatusNew, l.Status)
	require.NoError(t, l.Validate())

	l.Email = "  "
	err := l.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Contains(t, err.Error(), "email")

	l.Email = "a@x.com"
	l.Status = "archived"
	err = l.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "archived")
}

func TestLeadPatch_Apply(t *testing.T) {
	converted := LeadStatusConverted
	name := "B"
	p := LeadPatch{Name: &name, Status: &converted}
	assert.False(t, p.Empty())

	l := Lead{Name: "A", Email: "a@x.com", Status: LeadStatusNew}
	p.Apply(&l)
	assert.Equal(t, "B", l.Name)
	assert.Equal(t, LeadStatusConverted, l.Status)
	assert.Equal(t, "a@x.com", l.Email)

	assert.True(t, LeadPatch{}.Empty())
}

func TestLeadNote_Validate(t *testing.T) {
	n := LeadNote{LeadID: "x", Note: ""}
	err := n.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	n.Note = "called back"
	assert.NoError(t, n.Validate())
}

func TestCampaign_Validate(t *testing.T) {
	c := Campaign{Name: "Spring"}
	c.ApplyDefaults()
	assert.Equal(t, CampaignTypeEmail, c.Type)
	assert.Equal(t, CampaignStatusDraft, c.Status)
	require.NoError(t, c.Validate())

	c.Type = "fax"
	assert.Error(t, c.Validate())
}

func TestOnboardingUpdate_Apply(t *testing.T) {
	o := NewDefaultOnboarding()
	idx := 1
	step := 2
	OnboardingUpdate{StepIndex: &idx, StepCompleted: true, CurrentStep: &step}.Apply(&o)

	assert.False(t, o.Steps[0].Completed)
	assert.True(t, o.Steps[1].Completed)
	assert.False(t, o.Steps[2].Completed)
	assert.Equal(t, 2, o.CurrentStep)

	out := 7
	OnboardingUpdate{StepIndex: &out, StepCompleted: true}.Apply(&o)
	assert.Len(t, o.Steps, 3)
}

func raw(s string) json.RawMessage { return json.RawMessage(s) }

func TestBuildSettingsPatch(t *testing.T) {
	patch, err := BuildSettingsPatch(map[string]json.RawMessage{
		"platform": raw(`{"siteName":"Acme","unknownField":1}`),
		"email":    raw(`"not-an-object"`),
		"security": raw(`{"maxLoginAttempts":3}`),
		"billing":  raw(`{"plan":"pro"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"platform.siteName", "security.maxLoginAttempts"}, patch.Paths())
	assert.JSONEq(t, `{"siteName":"Acme"}`, string(patch.GroupJSON("platform")))
	assert.JSONEq(t, `{}`, string(patch.GroupJSON("email")))
}

func TestBuildSettingsPatch_TypeMismatch(t *testing.T) {
	_, err := BuildSettingsPatch(map[string]json.RawMessage{
		"security": raw(`{"maxLoginAttempts":"many"}`),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestBuildSettingsPatch_Empty(t *testing.T) {
	patch, err := BuildSettingsPatch(map[string]json.RawMessage{"features": raw(`[]`)})
	require.NoError(t, err)
	assert.True(t, patch.Empty())
}

func TestBuildSettingsPatch_NullKeepsStoredValue(t *testing.T) {
	patch, err := BuildSettingsPatch(map[string]json.RawMessage{
		"platform": raw(`{"siteName":null,"supportEmail":"help@acme.test"}`),
		"email":    raw(`{"smtpPort": null }`),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"platform.supportEmail"}, patch.Paths())

	s := DefaultPlatformSettings()
	require.NoError(t, s.ApplyPatch(patch))
	assert.Equal(t, "School Management Platform", s.Platform.SiteName)
	assert.Equal(t, "help@acme.test", s.Platform.SupportEmail)
	assert.Equal(t, DefaultPlatformSettings().Email.SMTPPort, s.Email.SMTPPort)
}

func TestPlatformSettings_ApplyPatch(t *testing.T) {
	s := DefaultPlatformSettings()
	patch, err := BuildSettingsPatch(map[string]json.RawMessage{
		"features": raw(`{"enableMarketing":false}`),
	})
	require.NoError(t, err)
	require.NoError(t, s.ApplyPatch(patch))

	assert.False(t, s.Features.EnableMarketing)
	assert.True(t, s.Features.EnableAnalytics)
	assert.Equal(t, "School Management Platform", s.Platform.SiteName)
}

func TestMaintenanceMode_Validate(t *testing.T) {
	m := MaintenanceMode{}
	assert.Error(t, m.Validate())
	m.TenantID = "t1"
	assert.NoError(t, m.Validate())
}
