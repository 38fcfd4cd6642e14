package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/sagar-developer08/Api-v2-sub001/internal/domain"
)

// PostgresPlatformSettingsRepository platform_settings singleton row.
// Each group is a JSONB object so a patch is a per-group "||" merge.
type PostgresPlatformSettingsRepository struct {
	db *sql.DB
}

func NewPostgresPlatformSettingsRepository(db *sql.DB) *PostgresPlatformSettingsRepository {
	return &PostgresPlatformSettingsRepository{db: db}
}

var _ PlatformSettingsRepository = (*PostgresPlatformSettingsRepository)(nil)

const settingsColumns = `id::text, platform, email, security, features, created_at, updated_at`

func scanSettings(row rowScanner) (*domain.PlatformSettings, error) {
	var platform, email, security, features []byte
	// Start from defaults so fields missing from stored JSON keep their default.
	s := domain.DefaultPlatformSettings()
	if err := row.Scan(&s.ID, &platform, &email, &security, &features, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	for _, g := range []struct {
		raw    []byte
		target any
	}{
		{platform, &s.Platform},
		{email, &s.Email},
		{security, &s.Security},
		{features, &s.Features},
	} {
		if len(g.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(g.raw, g.target); err != nil {
			return nil, fmt.Errorf("failed to decode platform settings: %w", err)
		}
	}
	s.CreatedAt = s.CreatedAt.UTC()
	s.UpdatedAt = s.UpdatedAt.UTC()
	return &s, nil
}

func defaultSettingsGroups() (platform, email, security, features []byte) {
	d := domain.DefaultPlatformSettings()
	platform, _ = json.Marshal(d.Platform)
	email, _ = json.Marshal(d.Email)
	security, _ = json.Marshal(d.Security)
	features, _ = json.Marshal(d.Features)
	return
}

// GetOrCreatePlatformSettings seeds the defaults row once; later reads take no row lock.
func (r *PostgresPlatformSettingsRepository) GetOrCreatePlatformSettings(ctx context.Context) (*domain.PlatformSettings, error) {
	platform, email, security, features := defaultSettingsGroups()
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO platform_settings (settings_key, platform, email, security, features)
		VALUES ($1, $2::jsonb, $3::jsonb, $4::jsonb, $5::jsonb)
		ON CONFLICT (settings_key) DO NOTHING`,
		domain.PlatformSettingsKey, platform, email, security, features); err != nil {
		return nil, wrapPQ("failed to create platform settings", err)
	}
	s, err := scanSettings(r.db.QueryRowContext(ctx,
		`SELECT `+settingsColumns+` FROM platform_settings WHERE settings_key = $1`, domain.PlatformSettingsKey))
	if err != nil {
		return nil, fmt.Errorf("failed to get platform settings: %w", err)
	}
	return s, nil
}

// PatchPlatformSettings is a single upsert: the insert branch seeds defaults
// overlaid with the patch, the conflict branch merges the patch into each group.
func (r *PostgresPlatformSettingsRepository) PatchPlatformSettings(ctx context.Context, patch domain.SettingsPatch) (*domain.PlatformSettings, error) {
	platform, email, security, features := defaultSettingsGroups()
	query := `
		INSERT INTO platform_settings (settings_key, platform, email, security, features)
		VALUES ($1, $2::jsonb || $6::jsonb, $3::jsonb || $7::jsonb, $4::jsonb || $8::jsonb, $5::jsonb || $9::jsonb)
		ON CONFLICT (settings_key) DO UPDATE SET
			platform = platform_settings.platform || $6::jsonb,
			email = platform_settings.email || $7::jsonb,
			security = platform_settings.security || $8::jsonb,
			features = platform_settings.features || $9::jsonb,
			updated_at = CASE WHEN $10::boolean THEN NOW() ELSE platform_settings.updated_at END
		RETURNING ` + settingsColumns
	s, err := scanSettings(r.db.QueryRowContext(ctx, query,
		domain.PlatformSettingsKey,
		platform, email, security, features,
		patch.GroupJSON(domain.SettingsGroupPlatform),
		patch.GroupJSON(domain.SettingsGroupEmail),
		patch.GroupJSON(domain.SettingsGroupSecurity),
		patch.GroupJSON(domain.SettingsGroupFeatures),
		!patch.Empty(),
	))
	if err != nil {
		return nil, wrapPQ("failed to upsert platform settings", err)
	}
	return s, nil
}
