package service

import (
	"context"
	"fmt"

	"github.com/sagar-developer08/Api-v2-sub001/internal/domain"
	"github.com/sagar-developer08/Api-v2-sub001/internal/metrics"
	"github.com/sagar-developer08/Api-v2-sub001/internal/models"
	"github.com/sagar-developer08/Api-v2-sub001/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// LeadService lead CRM: intake, admin edits, conversion and notes.
type LeadService struct {
	repo    repository.LeadsRepository
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewLeadService(repo repository.LeadsRepository, m *metrics.Metrics, logger *zap.Logger) *LeadService {
	return &LeadService{repo: repo, metrics: m, logger: logger}
}

type ListLeadsRequest struct {
	Status string
	Search string
	Page   models.PageRequest
}

type ListLeadsResponse struct {
	Items      []*domain.Lead
	Pagination models.Pagination
}

// ListLeads runs the page query and the count concurrently.
func (s *LeadService) ListLeads(ctx context.Context, req ListLeadsRequest) (*ListLeadsResponse, error) {
	filter := domain.LeadFilter{Status: req.Status, Search: req.Search}

	var items []*domain.Lead
	var total int64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.repo.ListLeads(gctx, filter, req.Page.Skip(), req.Page.Limit)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.repo.CountLeads(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &ListLeadsResponse{Items: items, Pagination: req.Page.With(total)}, nil
}

func (s *LeadService) GetLead(ctx context.Context, id string) (*domain.Lead, error) {
	return s.repo.GetLead(ctx, id)
}

// CreateLeadRequest public intake form. Status is not accepted from the form.
type CreateLeadRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Source   string `json:"source"`
	Interest string `json:"interest"`
	Notes    string `json:"notes"`
}

func (s *LeadService) CreateLead(ctx context.Context, req CreateLeadRequest) (*domain.Lead, error) {
	lead, err := s.repo.CreateLead(ctx, &domain.Lead{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Source:   domain.LeadSource(req.Source),
		Interest: req.Interest,
		Notes:    req.Notes,
	})
	if err != nil {
		return nil, err
	}
	s.metrics.LeadCreated()
	s.logger.Info("Lead created", zap.String("lead_id", lead.ID), zap.String("source", string(lead.Source)))
	return lead, nil
}

// UpdateLead free-form patch of any known field, status included.
func (s *LeadService) UpdateLead(ctx context.Context, id string, patch domain.LeadPatch) (*domain.Lead, error) {
	return s.repo.UpdateLead(ctx, id, patch)
}

// DeleteLead removes the lead only; its notes are kept.
func (s *LeadService) DeleteLead(ctx context.Context, id string) error {
	return s.repo.DeleteLead(ctx, id)
}

// ConvertLead forces status to converted. The caller's conversionType/notes are not stored.
func (s *LeadService) ConvertLead(ctx context.Context, id string) (*domain.Lead, error) {
	status := domain.LeadStatusConverted
	lead, err := s.repo.UpdateLead(ctx, id, domain.LeadPatch{Status: &status})
	if err != nil {
		return nil, err
	}
	s.metrics.LeadConverted()
	return lead, nil
}

type AddLeadNoteRequest struct {
	LeadID    string
	Note      string
	CreatedBy string
}

// AddLeadNote does not check that the lead exists; an empty note fails store validation.
func (s *LeadService) AddLeadNote(ctx context.Context, req AddLeadNoteRequest) (*domain.LeadNote, error) {
	return s.repo.CreateLeadNote(ctx, &domain.LeadNote{
		LeadID:    req.LeadID,
		Note:      req.Note,
		CreatedBy: req.CreatedBy,
	})
}

func (s *LeadService) ListLeadNotes(ctx context.Context, leadID string) ([]*domain.LeadNote, error) {
	return s.repo.ListLeadNotes(ctx, leadID)
}

// ExportLeads returns every lead matching the list filters, newest first.
func (s *LeadService) ExportLeads(ctx context.Context, status, search string) ([]*domain.Lead, error) {
	leads, err := s.repo.ListLeads(ctx, domain.LeadFilter{Status: status, Search: search}, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load leads for export: %w", err)
	}
	return leads, nil
}
