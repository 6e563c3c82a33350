package repository

import (
	"context"
	"fmt"

	"couple-journal-backend/internal/dbx"
	"couple-journal-backend/internal/query"
)

// AccessRepository answers ownership questions with a single lookup
type AccessRepository struct {
	db dbx.DBTX
}

func NewAccessRepository(db dbx.DBTX) *AccessRepository {
	return &AccessRepository{db: db}
}

// Probe selects column from the first row of from matching where.
// It returns ErrNotFound when nothing matches.
func (r *AccessRepository) Probe(ctx context.Context, column, from string, where *query.Builder) (string, error) {
	cond, args := where.Build(0)
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT `+column+` FROM `+from+` WHERE `+cond+` LIMIT 1`, args...).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("failed to check access: %w", notFound(err))
	}
	return value, nil
}
