package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// SchemaSQL returns the embedded DDL (used by cmd/apply-migration --print).
func SchemaSQL() string { return schemaSQL }

// CreateSchema creates all tables and indexes. Safe to call repeatedly.
func CreateSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
