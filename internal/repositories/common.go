package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"krishilink/internal/config"
	"krishilink/internal/domain"
	"krishilink/internal/domain/models"
	"krishilink/internal/query"
)

func pick(db *sql.DB) *sql.DB {
	if db != nil {
		return db
	}
	return config.DB
}

func errNoDB() error {
	return domain.InternalError{Msg: "database not connected"}
}

// notFound converts sql.ErrNoRows into a NotFoundError for resource.
func notFound(resource string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFoundError{Resource: resource, Err: err}
	}
	return err
}

// mustAffect turns a zero-row write into a NotFoundError.
func mustAffect(res sql.Result, resource string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFoundError{Resource: resource}
	}
	return nil
}

// count runs SELECT COUNT(*) over from with the predicate's condition.
func count(ctx context.Context, db *sql.DB, from string, p query.Predicate) (int, error) {
	where, args := p.Where()
	var total int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+from+" WHERE "+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return total, nil
}

// pageArgs appends LIMIT/OFFSET values to the predicate's arguments.
func pageArgs(args []any, page query.Page) []any {
	out := make([]any, 0, len(args)+2)
	out = append(out, args...)
	return append(out, page.Limit, page.Skip())
}

// owner builds the populated summary of a LEFT JOINed user; nil when the
// user row is missing.
func owner(id sql.NullInt64, name, phone, state, district string) *models.Owner {
	if !id.Valid {
		return nil
	}
	return &models.Owner{ID: id.Int64, Name: name, Phone: phone, State: state, District: district}
}
