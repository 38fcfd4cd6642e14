package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/sagar-developer08/Api-v2-sub001/internal/domain"

	"github.com/lib/pq"
)

// PostgresOnboardingRepository marketing_onboarding table (single "default" row).
type PostgresOnboardingRepository struct {
	db *sql.DB
}

func NewPostgresOnboardingRepository(db *sql.DB) *PostgresOnboardingRepository {
	return &PostgresOnboardingRepository{db: db}
}

var _ OnboardingRepository = (*PostgresOnboardingRepository)(nil)

const onboardingColumns = `id::text, onboarding_key, steps, current_step, completed, created_at, updated_at`

func scanOnboarding(row rowScanner) (*domain.MarketingOnboarding, error) {
	var o domain.MarketingOnboarding
	var steps []byte
	if err := row.Scan(&o.ID, &o.Key, &steps, &o.CurrentStep, &o.Completed, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	o.Steps = []domain.OnboardingStep{}
	if len(steps) > 0 {
		if err := json.Unmarshal(steps, &o.Steps); err != nil {
			return nil, fmt.Errorf("failed to decode onboarding steps: %w", err)
		}
	}
	o.CreatedAt = o.CreatedAt.UTC()
	o.UpdatedAt = o.UpdatedAt.UTC()
	return &o, nil
}

func defaultStepsJSON() []byte {
	b, _ := json.Marshal(domain.DefaultOnboardingSteps())
	return b
}

func (r *PostgresOnboardingRepository) GetOrCreateOnboarding(ctx context.Context) (*domain.MarketingOnboarding, error) {
	// Concurrent first reads race on the unique key; DO NOTHING keeps exactly one row.
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO marketing_onboarding (onboarding_key, steps, current_step, completed)
		VALUES ($1, $2::jsonb, 0, FALSE)
		ON CONFLICT (onboarding_key) DO NOTHING`,
		domain.OnboardingDefaultKey, defaultStepsJSON()); err != nil {
		return nil, wrapPQ("failed to create onboarding", err)
	}
	o, err := scanOnboarding(r.db.QueryRowContext(ctx,
		`SELECT `+onboardingColumns+` FROM marketing_onboarding WHERE onboarding_key = $1`, domain.OnboardingDefaultKey))
	if err != nil {
		return nil, fmt.Errorf("failed to get onboarding: %w", err)
	}
	return o, nil
}

func (r *PostgresOnboardingRepository) UpdateOnboarding(ctx context.Context, u domain.OnboardingUpdate) (*domain.MarketingOnboarding, error) {
	if u.Empty() {
		return r.GetOrCreateOnboarding(ctx)
	}

	args := []any{domain.OnboardingDefaultKey}
	sets := []string{}
	if u.StepIndex != nil && *u.StepIndex >= 0 {
		path := pq.Array([]string{strconv.Itoa(*u.StepIndex), "completed"})
		args = append(args, path, u.StepCompleted)
		// jsonb_set with create_missing=false leaves out-of-range indexes untouched.
		sets = append(sets, fmt.Sprintf("steps = jsonb_set(steps, $%d::text[], to_jsonb($%d::boolean), false)", len(args)-1, len(args)))
	}
	if u.CurrentStep != nil {
		args = append(args, *u.CurrentStep)
		sets = append(sets, fmt.Sprintf("current_step = $%d", len(args)))
	}
	sets = append(sets, "updated_at = NOW()")

	query := `UPDATE marketing_onboarding SET ` + strings.Join(sets, ", ") +
		` WHERE onboarding_key = $1 RETURNING ` + onboardingColumns

	o, err := scanOnboarding(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, notFoundOr("failed to update onboarding", "onboarding", domain.OnboardingDefaultKey, err)
	}
	return o, nil
}

func (r *PostgresOnboardingRepository) CompleteOnboarding(ctx context.Context) (*domain.MarketingOnboarding, error) {
	o, err := scanOnboarding(r.db.QueryRowContext(ctx, `
		INSERT INTO marketing_onboarding (onboarding_key, steps, current_step, completed)
		VALUES ($1, $2::jsonb, 0, TRUE)
		ON CONFLICT (onboarding_key) DO UPDATE
		SET completed = TRUE, updated_at = NOW()
		RETURNING `+onboardingColumns,
		domain.OnboardingDefaultKey, defaultStepsJSON()))
	if err != nil {
		return nil, wrapPQ("failed to complete onboarding", err)
	}
	return o, nil
}
