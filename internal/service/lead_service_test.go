package service

import (
	"context"
	"testing"

	"github.com/sagar-developer08/Api-v2-sub001/internal/domain"
	"github.com/sagar-developer08/Api-v2-sub001/internal/models"
	"github.com/sagar-developer08/Api-v2-sub001/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newLeadService() *LeadService {
	return NewLeadService(repository.NewMemoryLeadsRepo(), nil, zap.NewNop())
}

func TestLeadService_CreateDefaults(t *testing.T) {
	svc := newLeadService()
	lead, err := svc.CreateLead(context.Background(), CreateLeadRequest{Name: "Ana", Email: "a@x.io"})
	require.NoError(t, err)
	assert.NotEmpty(t, lead.ID)
	assert.Equal(t, domain.LeadSourceWebsite, lead.Source)
	assert.Equal(t, domain.LeadStatusNew, lead.Status)
}

func TestLeadService_CreateMissingEmail(t *testing.T) {
	svc := newLeadService()
	_, err := svc.CreateLead(context.Background(), CreateLeadRequest{Name: "Ana"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestLeadService_ListPagination(t *testing.T) {
	svc := newLeadService()
	ctx := context.Background()
	for _, name := range []string{"a", "b", "c"} {
		_, err := svc.CreateLead(ctx, CreateLeadRequest{Name: name, Email: name + "@x.io"})
		require.NoError(t, err)
	}

	resp, err := svc.ListLeads(ctx, ListLeadsRequest{Page: models.PageRequest{Page: 2, Limit: 2}})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "a", resp.Items[0].Name)
	assert.Equal(t, models.Pagination{Page: 2, Limit: 2, Total: 3, TotalPages: 2}, resp.Pagination)
}

func TestLeadService_ConvertAndUpdate(t *testing.T) {
	svc := newLeadService()
	ctx := context.Background()
	lead, err := svc.CreateLead(ctx, CreateLeadRequest{Name: "Ana", Email: "a@x.io"})
	require.NoError(t, err)

	converted, err := svc.ConvertLead(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LeadStatusConverted, converted.Status)

	// free-form update can move it back
	status := domain.LeadStatusContacted
	updated, err := svc.UpdateLead(ctx, lead.ID, domain.LeadPatch{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, domain.LeadStatusContacted, updated.Status)

	_, err = svc.ConvertLead(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLeadService_NotesSurviveDelete(t *testing.T) {
	svc := newLeadService()
	ctx := context.Background()
	lead, err := svc.CreateLead(ctx, CreateLeadRequest{Name: "Ana", Email: "a@x.io"})
	require.NoError(t, err)

	_, err = svc.AddLeadNote(ctx, AddLeadNoteRequest{LeadID: lead.ID, Note: "first"})
	require.NoError(t, err)
	_, err = svc.AddLeadNote(ctx, AddLeadNoteRequest{LeadID: lead.ID, Note: "second", CreatedBy: "u1"})
	require.NoError(t, err)
	_, err = svc.AddLeadNote(ctx, AddLeadNoteRequest{LeadID: lead.ID})
	assert.ErrorIs(t, err, domain.ErrValidation)

	require.NoError(t, svc.DeleteLead(ctx, lead.ID))
	_, err = svc.GetLead(ctx, lead.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	notes, err := svc.ListLeadNotes(ctx, lead.ID)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "second", notes[0].Note)
}

func TestLeadService_ExportIgnoresPaging(t *testing.T) {
	svc := newLeadService()
	ctx := context.Background()
	for i := 0; i < 12; i++ {
		_, err := svc.CreateLead(ctx, CreateLeadRequest{Name: "Lead", Email: "l@x.io"})
		require.NoError(t, err)
	}
	leads, err := svc.ExportLeads(ctx, "", "")
	require.NoError(t, err)
	assert.Len(t, leads, 12)
}
