package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sagar-developer08/Api-v2-sub001/internal/domain"
)

// PostgresCampaignsRepository campaigns table.
type PostgresCampaignsRepository struct {
	db *sql.DB
}

func NewPostgresCampaignsRepository(db *sql.DB) *PostgresCampaignsRepository {
	return &PostgresCampaignsRepository{db: db}
}

var _ CampaignsRepository = (*PostgresCampaignsRepository)(nil)

const campaignColumns = `
	id::text,
	name,
	type,
	subject,
	content,
	status,
	scheduled_date,
	sent_at,
	created_at,
	updated_at`

func scanCampaign(row rowScanner) (*domain.Campaign, error) {
	var c domain.Campaign
	var typ, status string
	var scheduled, sent sql.NullTime
	if err := row.Scan(
		&c.ID,
		&c.Name,
		&typ,
		&c.Subject,
		&c.Content,
		&status,
		&scheduled,
		&sent,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	c.Type = domain.CampaignType(typ)
	c.Status = domain.CampaignStatus(status)
	c.ScheduledDate = nullTime(scheduled)
	c.SentAt = nullTime(sent)
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	return &c, nil
}

func campaignWhere(filter domain.CampaignFilter) *whereBuilder {
	w := &whereBuilder{}
	if filter.Status != "" {
		w.add("status = ?", filter.Status)
	}
	if filter.Type != "" {
		w.add("type = ?", filter.Type)
	}
	return w
}

func (r *PostgresCampaignsRepository) ListCampaigns(ctx context.Context, filter domain.CampaignFilter, skip, limit int) ([]*domain.Campaign, error) {
	w := campaignWhere(filter)
	query := fmt.Sprintf(`SELECT %s FROM campaigns %s ORDER BY created_at DESC, id DESC`, campaignColumns, w.clause())
	args := w.args
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", w.next(), w.next()+1)
		args = append(args, limit, skip)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	defer rows.Close()

	out := []*domain.Campaign{}
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan campaign: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresCampaignsRepository) CountCampaigns(ctx context.Context, filter domain.CampaignFilter) (int64, error) {
	w := campaignWhere(filter)
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM campaigns `+w.clause(), w.args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count campaigns: %w", err)
	}
	return total, nil
}

func (r *PostgresCampaignsRepository) GetCampaign(ctx context.Context, id string) (*domain.Campaign, error) {
	if !validID(id) {
		return nil, fmt.Errorf("campaign %s: %w", id, domain.ErrNotFound)
	}
	c, err := scanCampaign(r.db.QueryRowContext(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE id = $1::uuid`, id))
	if err != nil {
		return nil, notFoundOr("failed to get campaign", "campaign", id, err)
	}
	return c, nil
}

func (r *PostgresCampaignsRepository) CreateCampaign(ctx context.Context, c *domain.Campaign) (*domain.Campaign, error) {
	in := *c
	in.ApplyDefaults()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	query := `
		INSERT INTO campaigns (name, type, subject, content, status, scheduled_date, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + campaignColumns
	out, err := scanCampaign(r.db.QueryRowContext(ctx, query,
		in.Name, string(in.Type), in.Subject, in.Content, string(in.Status), timeArg(in.ScheduledDate), timeArg(in.SentAt)))
	if err != nil {
		return nil, wrapPQ("failed to create campaign", err)
	}
	return out, nil
}

func (r *PostgresCampaignsRepository) UpdateCampaign(ctx context.Context, id string, patch domain.CampaignPatch) (*domain.Campaign, error) {
	if !validID(id) {
		return nil, fmt.Errorf("campaign %s: %w", id, domain.ErrNotFound)
	}
	if patch.Empty() {
		return r.GetCampaign(ctx, id)
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, domain.ValidationError("Campaign", "name", "Path `name` is required.")
	}
	if patch.Type != nil && !patch.Type.Valid() {
		return nil, domain.ValidationError("Campaign", "type", fmt.Sprintf("`%s` is not a valid enum value for path `type`.", *patch.Type))
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, domain.ValidationError("Campaign", "status", fmt.Sprintf("`%s` is not a valid enum value for path `status`.", *patch.Status))
	}

	sets := []string{}
	args := []any{id}
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.Name != nil {
		set("name", *patch.Name)
	}
	if patch.Type != nil {
		set("type", string(*patch.Type))
	}
	if patch.Subject != nil {
		set("subject", *patch.Subject)
	}
	if patch.Content != nil {
		set("content", *patch.Content)
	}
	if patch.Status != nil {
		set("status", string(*patch.Status))
	}
	if patch.ScheduledDate != nil {
		set("scheduled_date", timeArg(*patch.ScheduledDate))
	}
	sets = append(sets, "updated_at = NOW()")
	return r.update(ctx, id, sets, args, "failed to update campaign")
}

func (r *PostgresCampaignsRepository) TransitionCampaign(ctx context.Context, id string, t domain.CampaignTransition) (*domain.Campaign, error) {
	if !validID(id) {
		return nil, fmt.Errorf("campaign %s: %w", id, domain.ErrNotFound)
	}
	args := []any{id, string(t.Status)}
	sets := []string{"status = $2"}
	if t.SetScheduledDate {
		args = append(args, timeArg(t.ScheduledDate))
		sets = append(sets, fmt.Sprintf("scheduled_date = $%d", len(args)))
	}
	if t.SentAt != nil {
		args = append(args, t.SentAt.UTC())
		sets = append(sets, fmt.Sprintf("sent_at = $%d", len(args)))
	}
	sets = append(sets, "updated_at = NOW()")
	return r.update(ctx, id, sets, args, "failed to transition campaign")
}

func (r *PostgresCampaignsRepository) update(ctx context.Context, id string, sets []string, args []any, op string) (*domain.Campaign, error) {
	query := fmt.Sprintf(`UPDATE campaigns SET %s WHERE id = $1::uuid RETURNING %s`, strings.Join(sets, ", "), campaignColumns)
	out, err := scanCampaign(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, notFoundOr(op, "campaign", id, err)
	}
	return out, nil
}

func (r *PostgresCampaignsRepository) DeleteCampaign(ctx context.Context, id string) error {
	if !validID(id) {
		return fmt.Errorf("campaign %s: %w", id, domain.ErrNotFound)
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM campaigns WHERE id = $1::uuid`, id)
	if err != nil {
		return fmt.Errorf("failed to delete campaign: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete campaign: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("campaign %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *PostgresCampaignsRepository) CountCampaignsByStatus(ctx context.Context) ([]domain.StatusCount, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM campaigns GROUP BY status ORDER BY status ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to count campaigns by status: %w", err)
	}
	defer rows.Close()

	out := []domain.StatusCount{}
	for rows.Next() {
		var c domain.StatusCount
		if err := rows.Scan(&c.Status, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// timeArg passes nil for an absent timestamp so the column is written as NULL.
func timeArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
