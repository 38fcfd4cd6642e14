package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sagar-developer08/Api-v2-sub001/internal/domain"
)

// PostgresTenantActivityRepository tenant_notes and impersonation_sessions.
type PostgresTenantActivityRepository struct {
	db *sql.DB
}

func NewPostgresTenantActivityRepository(db *sql.DB) *PostgresTenantActivityRepository {
	return &PostgresTenantActivityRepository{db: db}
}

var _ TenantActivityRepository = (*PostgresTenantActivityRepository)(nil)

const tenantNoteColumns = `id::text, tenant_id, author_id, note, created_at`

func scanTenantNote(row rowScanner) (*domain.TenantNote, error) {
	var n domain.TenantNote
	if err := row.Scan(&n.ID, &n.TenantID, &n.AuthorID, &n.Note, &n.CreatedAt); err != nil {
		return nil, err
	}
	n.CreatedAt = n.CreatedAt.UTC()
	return &n, nil
}

func (r *PostgresTenantActivityRepository) CreateTenantNote(ctx context.Context, n *domain.TenantNote) (*domain.TenantNote, error) {
	if err := n.Validate(); err != nil {
		return nil, err
	}
	out, err := scanTenantNote(r.db.QueryRowContext(ctx, `
		INSERT INTO tenant_notes (tenant_id, author_id, note)
		VALUES ($1, $2, $3)
		RETURNING `+tenantNoteColumns, n.TenantID, n.AuthorID, n.Note))
	if err != nil {
		return nil, wrapPQ("failed to create tenant note", err)
	}
	return out, nil
}

func (r *PostgresTenantActivityRepository) ListTenantNotes(ctx context.Context, tenantID string) ([]*domain.TenantNote, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+tenantNoteColumns+`
		FROM tenant_notes
		WHERE tenant_id = $1
		ORDER BY created_at DESC, id DESC`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenant notes: %w", err)
	}
	defer rows.Close()

	out := []*domain.TenantNote{}
	for rows.Next() {
		n, err := scanTenantNote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tenant note: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

const impersonationColumns = `id::text, tenant_id, admin_id, target_user_id, reason, started_at, ended_at, created_at`

func scanImpersonation(row rowScanner) (*domain.ImpersonationSession, error) {
	var s domain.ImpersonationSession
	var ended sql.NullTime
	if err := row.Scan(&s.ID, &s.TenantID, &s.AdminID, &s.TargetUserID, &s.Reason, &s.StartedAt, &ended, &s.CreatedAt); err != nil {
		return nil, err
	}
	s.EndedAt = nullTime(ended)
	s.StartedAt = s.StartedAt.UTC()
	s.CreatedAt = s.CreatedAt.UTC()
	return &s, nil
}

func (r *PostgresTenantActivityRepository) CreateImpersonationSession(ctx context.Context, s *domain.ImpersonationSession) (*domain.ImpersonationSession, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	var started any
	if !s.StartedAt.IsZero() {
		started = s.StartedAt.UTC()
	}
	out, err := scanImpersonation(r.db.QueryRowContext(ctx, `
		INSERT INTO impersonation_sessions (tenant_id, admin_id, target_user_id, reason, started_at, ended_at)
		VALUES ($1, $2, $3, $4, COALESCE($5, NOW()), $6)
		RETURNING `+impersonationColumns,
		s.TenantID, s.AdminID, s.TargetUserID, s.Reason, started, timeArg(s.EndedAt)))
	if err != nil {
		return nil, wrapPQ("failed to create impersonation session", err)
	}
	return out, nil
}

func (r *PostgresTenantActivityRepository) ListImpersonationSessions(ctx context.Context, tenantID string) ([]*domain.ImpersonationSession, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+impersonationColumns+`
		FROM impersonation_sessions
		WHERE tenant_id = $1
		ORDER BY created_at DESC, id DESC`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list impersonation sessions: %w", err)
	}
	defer rows.Close()

	out := []*domain.ImpersonationSession{}
	for rows.Next() {
		s, err := scanImpersonation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan impersonation session: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
