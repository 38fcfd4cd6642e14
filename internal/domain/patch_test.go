package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawBody(t *testing.T, s string) map[string]json.RawMessage {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(s), &m))
	return m
}

func TestBuildLeadPatch(t *testing.T) {
	p, err := BuildLeadPatch(rawBody(t, `{"status":"converted","notes":"x","unknown":1,"createdAt":"2020-01-01"}`))
	require.NoError(t, err)
	require.NotNil(t, p.Status)
	assert.Equal(t, LeadStatusConverted, *p.Status)
	assert.Equal(t, "x", *p.Notes)
	assert.Nil(t, p.Name)

	_, err = BuildLeadPatch(rawBody(t, `{"name":123}`))
	assert.ErrorIs(t, err, ErrValidation)

	p, err = BuildLeadPatch(rawBody(t, `{}`))
	require.NoError(t, err)
	assert.True(t, p.Empty())
}

func TestBuildCampaignPatch_ScheduledDate(t *testing.T) {
	p, err := BuildCampaignPatch(rawBody(t, `{"scheduledDate":null,"status":"sent"}`))
	require.NoError(t, err)
	require.NotNil(t, p.ScheduledDate)
	assert.Nil(t, *p.ScheduledDate)
	assert.Equal(t, CampaignStatusSent, *p.Status)

	p, err = BuildCampaignPatch(rawBody(t, `{"scheduledDate":"2030-05-01T10:00:00Z"}`))
	require.NoError(t, err)
	require.NotNil(t, *p.ScheduledDate)
	assert.True(t, (*p.ScheduledDate).Equal(time.Date(2030, 5, 1, 10, 0, 0, 0, time.UTC)))

	_, err = BuildCampaignPatch(rawBody(t, `{"scheduledDate":"tomorrow"}`))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestParseTime(t *testing.T) {
	d, dateOnly, err := ParseTime("2024-01-31")
	require.NoError(t, err)
	assert.True(t, dateOnly)
	assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), d)

	ts, dateOnly, err := ParseTime("2024-01-31T12:30:00+02:00")
	require.NoError(t, err)
	assert.False(t, dateOnly)
	assert.Equal(t, 10, ts.Hour())

	_, _, err = ParseTime("31/01/2024")
	assert.Error(t, err)
}
