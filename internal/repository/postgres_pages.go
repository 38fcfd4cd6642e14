package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/sagar-developer08/Api-v2-sub001/internal/domain"
)

// PostgresPagesRepository marketing_pages key/value table.
type PostgresPagesRepository struct {
	db *sql.DB
}

func NewPostgresPagesRepository(db *sql.DB) *PostgresPagesRepository {
	return &PostgresPagesRepository{db: db}
}

var _ PagesRepository = (*PostgresPagesRepository)(nil)

const pageColumns = `id::text, page_key, content, created_at, updated_at`

func scanPage(row rowScanner) (*domain.MarketingPage, error) {
	var p domain.MarketingPage
	var content []byte
	if err := row.Scan(&p.ID, &p.Key, &content, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Content = json.RawMessage(content)
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return &p, nil
}

func (r *PostgresPagesRepository) GetPage(ctx context.Context, key string) (*domain.MarketingPage, error) {
	p, err := scanPage(r.db.QueryRowContext(ctx, `SELECT `+pageColumns+` FROM marketing_pages WHERE page_key = $1`, key))
	if err != nil {
		return nil, notFoundOr("failed to get page", "page", key, err)
	}
	return p, nil
}

func (r *PostgresPagesRepository) UpsertPage(ctx context.Context, key string, content json.RawMessage) (*domain.MarketingPage, error) {
	if len(content) == 0 || !json.Valid(content) {
		return nil, domain.ValidationError("MarketingPage", "content", "content must be a JSON value")
	}
	query := `
		INSERT INTO marketing_pages (page_key, content)
		VALUES ($1, $2::jsonb)
		ON CONFLICT (page_key) DO UPDATE
		SET content = EXCLUDED.content, updated_at = NOW()
		RETURNING ` + pageColumns
	p, err := scanPage(r.db.QueryRowContext(ctx, query, key, []byte(content)))
	if err != nil {
		return nil, wrapPQ(fmt.Sprintf("failed to upsert page %s", key), err)
	}
	return p, nil
}
