package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/sagar-developer08/Api-v2-sub001/internal/domain"
)

// PostgresAuditLogRepository platform_audit_logs (append-only).
type PostgresAuditLogRepository struct {
	db *sql.DB
}

func NewPostgresAuditLogRepository(db *sql.DB) *PostgresAuditLogRepository {
	return &PostgresAuditLogRepository{db: db}
}

var _ AuditLogRepository = (*PostgresAuditLogRepository)(nil)

const auditColumns = `
	id::text,
	tenant_id,
	user_id,
	action,
	resource_type,
	resource_id,
	metadata,
	ip_address,
	user_agent,
	created_at`

func scanAuditLog(row rowScanner) (*domain.PlatformAuditLog, error) {
	var a domain.PlatformAuditLog
	var metadata []byte
	if err := row.Scan(
		&a.ID,
		&a.TenantID,
		&a.UserID,
		&a.Action,
		&a.ResourceType,
		&a.ResourceID,
		&metadata,
		&a.IPAddress,
		&a.UserAgent,
		&a.CreatedAt,
	); err != nil {
		return nil, err
	}
	if len(metadata) > 0 {
		a.Metadata = json.RawMessage(metadata)
	}
	a.CreatedAt = a.CreatedAt.UTC()
	return &a, nil
}

func auditWhere(filter domain.AuditFilter) *whereBuilder {
	w := &whereBuilder{}
	if filter.TenantID != "" {
		w.add("tenant_id = ?", filter.TenantID)
	}
	if filter.UserID != "" {
		w.add("user_id = ?", filter.UserID)
	}
	return w
}

func (r *PostgresAuditLogRepository) AppendAuditLog(ctx context.Context, entry *domain.PlatformAuditLog) (*domain.PlatformAuditLog, error) {
	if err := entry.Validate(); err != nil {
		return nil, err
	}
	var metadata any
	if len(entry.Metadata) > 0 {
		metadata = []byte(entry.Metadata)
	}
	out, err := scanAuditLog(r.db.QueryRowContext(ctx, `
		INSERT INTO platform_audit_logs (tenant_id, user_id, action, resource_type, resource_id, metadata, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7, $8)
		RETURNING `+auditColumns,
		entry.TenantID, entry.UserID, entry.Action, entry.ResourceType, entry.ResourceID,
		metadata, entry.IPAddress, entry.UserAgent))
	if err != nil {
		return nil, wrapPQ("failed to append audit log", err)
	}
	return out, nil
}

func (r *PostgresAuditLogRepository) ListAuditLogs(ctx context.Context, filter domain.AuditFilter, skip, limit int) ([]*domain.PlatformAuditLog, error) {
	w := auditWhere(filter)
	query := fmt.Sprintf(`SELECT %s FROM platform_audit_logs %s ORDER BY created_at DESC, id DESC`, auditColumns, w.clause())
	args := w.args
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", w.next(), w.next()+1)
		args = append(args, limit, skip)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	defer rows.Close()

	out := []*domain.PlatformAuditLog{}
	for rows.Next() {
		a, err := scanAuditLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit log: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PostgresAuditLogRepository) CountAuditLogs(ctx context.Context, filter domain.AuditFilter) (int64, error) {
	w := auditWhere(filter)
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM platform_audit_logs `+w.clause(), w.args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count audit logs: %w", err)
	}
	return total, nil
}

// NewPostgresStore wires every Postgres repository onto one connection pool.
func NewPostgresStore(db *sql.DB) *Store {
	return &Store{
		Leads:          NewPostgresLeadsRepository(db),
		Campaigns:      NewPostgresCampaignsRepository(db),
		Pages:          NewPostgresPagesRepository(db),
		Onboarding:     NewPostgresOnboardingRepository(db),
		Settings:       NewPostgresPlatformSettingsRepository(db),
		TenantConfig:   NewPostgresTenantConfigRepository(db),
		TenantActivity: NewPostgresTenantActivityRepository(db),
		Audit:          NewPostgresAuditLogRepository(db),
	}
}
