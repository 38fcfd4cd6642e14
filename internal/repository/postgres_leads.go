package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sagar-developer08/Api-v2-sub001/internal/domain"
)

// PostgresLeadsRepository leads and lead_notes tables.
type PostgresLeadsRepository struct {
	db *sql.DB
}

func NewPostgresLeadsRepository(db *sql.DB) *PostgresLeadsRepository {
	return &PostgresLeadsRepository{db: db}
}

var _ LeadsRepository = (*PostgresLeadsRepository)(nil)

const leadColumns = `
	id::text,
	name,
	email,
	phone,
	source,
	interest,
	notes,
	status,
	created_at,
	updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (*domain.Lead, error) {
	var l domain.Lead
	var source, status string
	if err := row.Scan(
		&l.ID,
		&l.Name,
		&l.Email,
		&l.Phone,
		&source,
		&l.Interest,
		&l.Notes,
		&status,
		&l.CreatedAt,
		&l.UpdatedAt,
	); err != nil {
		return nil, err
	}
	l.Source = domain.LeadSource(source)
	l.Status = domain.LeadStatus(status)
	l.CreatedAt = l.CreatedAt.UTC()
	l.UpdatedAt = l.UpdatedAt.UTC()
	return &l, nil
}

func leadWhere(filter domain.LeadFilter) *whereBuilder {
	w := &whereBuilder{}
	if filter.Status != "" {
		w.add("status = ?", filter.Status)
	}
	if filter.Search != "" {
		w.add(`(name ILIKE ? ESCAPE '\' OR email ILIKE ? ESCAPE '\')`,
			"%"+escapeLike(filter.Search)+"%", "%"+escapeLike(filter.Search)+"%")
	}
	return w
}

func (r *PostgresLeadsRepository) ListLeads(ctx context.Context, filter domain.LeadFilter, skip, limit int) ([]*domain.Lead, error) {
	w := leadWhere(filter)
	query := fmt.Sprintf(`SELECT %s FROM leads %s ORDER BY created_at DESC, id DESC`, leadColumns, w.clause())
	args := w.args
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", w.next(), w.next()+1)
		args = append(args, limit, skip)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	defer rows.Close()

	out := []*domain.Lead{}
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lead: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *PostgresLeadsRepository) CountLeads(ctx context.Context, filter domain.LeadFilter) (int64, error) {
	w := leadWhere(filter)
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM leads `+w.clause(), w.args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count leads: %w", err)
	}
	return total, nil
}

func (r *PostgresLeadsRepository) GetLead(ctx context.Context, id string) (*domain.Lead, error) {
	if !validID(id) {
		return nil, fmt.Errorf("lead %s: %w", id, domain.ErrNotFound)
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1::uuid`, id)
	l, err := scanLead(row)
	if err != nil {
		return nil, notFoundOr("failed to get lead", "lead", id, err)
	}
	return l, nil
}

func (r *PostgresLeadsRepository) CreateLead(ctx context.Context, lead *domain.Lead) (*domain.Lead, error) {
	in := *lead
	in.ApplyDefaults()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	query := `
		INSERT INTO leads (name, email, phone, source, interest, notes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + leadColumns
	row := r.db.QueryRowContext(ctx, query,
		in.Name, in.Email, in.Phone, string(in.Source), in.Interest, in.Notes, string(in.Status))
	out, err := scanLead(row)
	if err != nil {
		return nil, wrapPQ("failed to create lead", err)
	}
	return out, nil
}

func (r *PostgresLeadsRepository) UpdateLead(ctx context.Context, id string, patch domain.LeadPatch) (*domain.Lead, error) {
	if !validID(id) {
		return nil, fmt.Errorf("lead %s: %w", id, domain.ErrNotFound)
	}
	if patch.Empty() {
		return r.GetLead(ctx, id)
	}
	if patch.Email != nil && strings.TrimSpace(*patch.Email) == "" {
		return nil, domain.ValidationError("Lead", "email", "Path `email` is required.")
	}
	if patch.Source != nil && !patch.Source.Valid() {
		return nil, domain.ValidationError("Lead", "source", fmt.Sprintf("`%s` is not a valid enum value for path `source`.", *patch.Source))
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, domain.ValidationError("Lead", "status", fmt.Sprintf("`%s` is not a valid enum value for path `status`.", *patch.Status))
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
	if patch.Email != nil {
		set("email", *patch.Email)
	}
	if patch.Phone != nil {
		set("phone", *patch.Phone)
	}
	if patch.Source != nil {
		set("source", string(*patch.Source))
	}
	if patch.Interest != nil {
		set("interest", *patch.Interest)
	}
	if patch.Notes != nil {
		set("notes", *patch.Notes)
	}
	if patch.Status != nil {
		set("status", string(*patch.Status))
	}
	sets = append(sets, "updated_at = NOW()")

	query := fmt.Sprintf(`UPDATE leads SET %s WHERE id = $1::uuid RETURNING %s`, strings.Join(sets, ", "), leadColumns)
	out, err := scanLead(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, notFoundOr("failed to update lead", "lead", id, err)
	}
	return out, nil
}

func (r *PostgresLeadsRepository) DeleteLead(ctx context.Context, id string) error {
	if !validID(id) {
		return fmt.Errorf("lead %s: %w", id, domain.ErrNotFound)
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM leads WHERE id = $1::uuid`, id)
	if err != nil {
		return fmt.Errorf("failed to delete lead: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete lead: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("lead %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *PostgresLeadsRepository) CountLeadsBySource(ctx context.Context) ([]domain.SourceCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT source, COUNT(*)
		FROM leads
		GROUP BY source
		ORDER BY source ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to count leads by source: %w", err)
	}
	defer rows.Close()

	out := []domain.SourceCount{}
	for rows.Next() {
		var c domain.SourceCount
		if err := rows.Scan(&c.Source, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan source count: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresLeadsRepository) CountLeadsByDate(ctx context.Context, from, to *time.Time) ([]domain.DateCount, error) {
	w := &whereBuilder{}
	if from != nil {
		w.add("created_at >= ?", from.UTC())
	}
	if to != nil {
		w.add("created_at <= ?", to.UTC())
	}
	query := fmt.Sprintf(`
		SELECT to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day, COUNT(*)
		FROM leads
		%s
		GROUP BY day
		ORDER BY day ASC`, w.clause())
	rows, err := r.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count leads by date: %w", err)
	}
	defer rows.Close()

	out := []domain.DateCount{}
	for rows.Next() {
		var c domain.DateCount
		if err := rows.Scan(&c.Date, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan date count: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

const leadNoteColumns = `id::text, lead_id::text, note, created_by, created_at, updated_at`

func scanLeadNote(row rowScanner) (*domain.LeadNote, error) {
	var n domain.LeadNote
	if err := row.Scan(&n.ID, &n.LeadID, &n.Note, &n.CreatedBy, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return nil, err
	}
	n.CreatedAt = n.CreatedAt.UTC()
	n.UpdatedAt = n.UpdatedAt.UTC()
	return &n, nil
}

func (r *PostgresLeadsRepository) CreateLeadNote(ctx context.Context, note *domain.LeadNote) (*domain.LeadNote, error) {
	if err := note.Validate(); err != nil {
		return nil, err
	}
	if !validID(note.LeadID) {
		return nil, domain.ValidationError("LeadNote", "leadId", fmt.Sprintf("Cast to ObjectId failed for value %q", note.LeadID))
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO lead_notes (lead_id, note, created_by)
		VALUES ($1::uuid, $2, $3)
		RETURNING `+leadNoteColumns, note.LeadID, note.Note, note.CreatedBy)
	out, err := scanLeadNote(row)
	if err != nil {
		return nil, wrapPQ("failed to create lead note", err)
	}
	return out, nil
}

func (r *PostgresLeadsRepository) ListLeadNotes(ctx context.Context, leadID string) ([]*domain.LeadNote, error) {
	out := []*domain.LeadNote{}
	if !validID(leadID) {
		return out, nil
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+leadNoteColumns+`
		FROM lead_notes
		WHERE lead_id = $1::uuid
		ORDER BY created_at DESC, id DESC`, leadID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lead notes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		n, err := scanLeadNote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lead note: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
