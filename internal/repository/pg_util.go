package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sagar-developer08/Api-v2-sub001/internal/domain"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Postgres error classes that count as schema validation failures.
var validationCodes = map[pq.ErrorCode]bool{
	"23502": true, // not_null_violation
	"23505": true, // unique_violation
	"23514": true, // check_violation
	"22P02": true, // invalid_text_representation
	"22007": true, // invalid_datetime_format
}

// wrapPQ converts constraint violations into domain.ErrValidation and wraps everything else with op.
func wrapPQ(op string, err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && validationCodes[pqErr.Code] {
		field := pqErr.Column
		if field == "" {
			field = pqErr.Constraint
		}
		return domain.ValidationError(pqErr.Table, field, pqErr.Message)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// notFoundOr maps sql.ErrNoRows to a wrapped domain.ErrNotFound.
func notFoundOr(op, entity, id string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
	}
	return wrapPQ(op, err)
}

// validID reports whether id can address a UUID primary key. Invalid ids are treated as absent.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// escapeLike makes s a literal ILIKE pattern fragment (backslash is the escape char).
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// whereBuilder accumulates AND-ed conditions with numbered placeholders.
type whereBuilder struct {
	conds []string
	args  []any
}

func (w *whereBuilder) add(cond string, args ...any) {
	// cond uses "?" for each arg; rewrite to $n.
	for _, a := range args {
		w.args = append(w.args, a)
		cond = strings.Replace(cond, "?", fmt.Sprintf("$%d", len(w.args)), 1)
	}
	w.conds = append(w.conds, cond)
}

func (w *whereBuilder) clause() string {
	if len(w.conds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(w.conds, " AND ")
}

// next returns the next placeholder index.
func (w *whereBuilder) next() int { return len(w.args) + 1 }

// nullTime converts a nullable timestamp column.
func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}
