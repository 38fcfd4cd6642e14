package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/sagar-developer08/Api-v2-sub001/internal/domain"
)

// PostgresTenantConfigRepository school_settings, feature_configs and maintenance_modes.
type PostgresTenantConfigRepository struct {
	db *sql.DB
}

func NewPostgresTenantConfigRepository(db *sql.DB) *PostgresTenantConfigRepository {
	return &PostgresTenantConfigRepository{db: db}
}

var _ TenantConfigRepository = (*PostgresTenantConfigRepository)(nil)

const schoolSettingsColumns = `
	id::text,
	school_id,
	school_name,
	academic_year,
	timezone,
	locale,
	currency,
	grading_system,
	metadata,
	created_at,
	updated_at`

func scanSchoolSettings(row rowScanner) (*domain.SchoolSettings, error) {
	var s domain.SchoolSettings
	var metadata []byte
	if err := row.Scan(
		&s.ID,
		&s.SchoolID,
		&s.SchoolName,
		&s.AcademicYear,
		&s.Timezone,
		&s.Locale,
		&s.Currency,
		&s.GradingSystem,
		&metadata,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(metadata) > 0 {
		s.Metadata = json.RawMessage(metadata)
	}
	s.CreatedAt = s.CreatedAt.UTC()
	s.UpdatedAt = s.UpdatedAt.UTC()
	return &s, nil
}

func (r *PostgresTenantConfigRepository) GetSchoolSettings(ctx context.Context, schoolID string) (*domain.SchoolSettings, error) {
	s, err := scanSchoolSettings(r.db.QueryRowContext(ctx,
		`SELECT `+schoolSettingsColumns+` FROM school_settings WHERE school_id = $1`, schoolID))
	if err != nil {
		return nil, notFoundOr("failed to get school settings", "school settings", schoolID, err)
	}
	return s, nil
}

func (r *PostgresTenantConfigRepository) UpsertSchoolSettings(ctx context.Context, in *domain.SchoolSettings) (*domain.SchoolSettings, error) {
	s := *in
	s.ApplyDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	var metadata any
	if len(s.Metadata) > 0 {
		metadata = []byte(s.Metadata)
	}
	query := `
		INSERT INTO school_settings (school_id, school_name, academic_year, timezone, locale, currency, grading_system, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb)
		ON CONFLICT (school_id) DO UPDATE SET
			school_name = EXCLUDED.school_name,
			academic_year = EXCLUDED.academic_year,
			timezone = EXCLUDED.timezone,
			locale = EXCLUDED.locale,
			currency = EXCLUDED.currency,
			grading_system = EXCLUDED.grading_system,
			metadata = EXCLUDED.metadata,
			updated_at = NOW()
		RETURNING ` + schoolSettingsColumns
	out, err := scanSchoolSettings(r.db.QueryRowContext(ctx, query,
		s.SchoolID, s.SchoolName, s.AcademicYear, s.Timezone, s.Locale, s.Currency, s.GradingSystem, metadata))
	if err != nil {
		return nil, wrapPQ("failed to upsert school settings", err)
	}
	return out, nil
}

const featureConfigColumns = `id::text, tenant_id, features, created_at, updated_at`

func scanFeatureConfig(row rowScanner) (*domain.FeatureConfig, error) {
	var f domain.FeatureConfig
	var features []byte
	if err := row.Scan(&f.ID, &f.TenantID, &features, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	f.Features = map[string]bool{}
	if len(features) > 0 {
		if err := json.Unmarshal(features, &f.Features); err != nil {
			return nil, fmt.Errorf("failed to decode features: %w", err)
		}
	}
	f.CreatedAt = f.CreatedAt.UTC()
	f.UpdatedAt = f.UpdatedAt.UTC()
	return &f, nil
}

func (r *PostgresTenantConfigRepository) GetFeatureConfig(ctx context.Context, tenantID string) (*domain.FeatureConfig, error) {
	f, err := scanFeatureConfig(r.db.QueryRowContext(ctx,
		`SELECT `+featureConfigColumns+` FROM feature_configs WHERE tenant_id = $1`, tenantID))
	if err != nil {
		return nil, notFoundOr("failed to get feature config", "feature config", tenantID, err)
	}
	return f, nil
}

func (r *PostgresTenantConfigRepository) UpsertFeatureConfig(ctx context.Context, in *domain.FeatureConfig) (*domain.FeatureConfig, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	features := in.Features
	if features == nil {
		features = map[string]bool{}
	}
	raw, err := json.Marshal(features)
	if err != nil {
		return nil, fmt.Errorf("failed to encode features: %w", err)
	}
	query := `
		INSERT INTO feature_configs (tenant_id, features)
		VALUES ($1, $2::jsonb)
		ON CONFLICT (tenant_id) DO UPDATE SET
			features = feature_configs.features || EXCLUDED.features,
			updated_at = NOW()
		RETURNING ` + featureConfigColumns
	out, err := scanFeatureConfig(r.db.QueryRowContext(ctx, query, in.TenantID, raw))
	if err != nil {
		return nil, wrapPQ("failed to upsert feature config", err)
	}
	return out, nil
}

const maintenanceColumns = `id::text, tenant_id, enabled, message, starts_at, ends_at, created_at, updated_at`

func scanMaintenance(row rowScanner) (*domain.MaintenanceMode, error) {
	var m domain.MaintenanceMode
	var starts, ends sql.NullTime
	if err := row.Scan(&m.ID, &m.TenantID, &m.Enabled, &m.Message, &starts, &ends, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	m.StartsAt = nullTime(starts)
	m.EndsAt = nullTime(ends)
	m.CreatedAt = m.CreatedAt.UTC()
	m.UpdatedAt = m.UpdatedAt.UTC()
	return &m, nil
}

func (r *PostgresTenantConfigRepository) GetMaintenanceMode(ctx context.Context, tenantID string) (*domain.MaintenanceMode, error) {
	m, err := scanMaintenance(r.db.QueryRowContext(ctx,
		`SELECT `+maintenanceColumns+` FROM maintenance_modes WHERE tenant_id = $1`, tenantID))
	if err != nil {
		return nil, notFoundOr("failed to get maintenance mode", "maintenance mode", tenantID, err)
	}
	return m, nil
}

func (r *PostgresTenantConfigRepository) UpsertMaintenanceMode(ctx context.Context, in *domain.MaintenanceMode) (*domain.MaintenanceMode, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	query := `
		INSERT INTO maintenance_modes (tenant_id, enabled, message, starts_at, ends_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (tenant_id) DO UPDATE SET
			enabled = EXCLUDED.enabled,
			message = EXCLUDED.message,
			starts_at = EXCLUDED.starts_at,
			ends_at = EXCLUDED.ends_at,
			updated_at = NOW()
		RETURNING ` + maintenanceColumns
	out, err := scanMaintenance(r.db.QueryRowContext(ctx, query,
		in.TenantID, in.Enabled, in.Message, timeArg(in.StartsAt), timeArg(in.EndsAt)))
	if err != nil {
		return nil, wrapPQ("failed to upsert maintenance mode", err)
	}
	return out, nil
}
