package repository

import (
	"context"
	"fmt"

	"couple-journal-backend/internal/dbx"
	"couple-journal-backend/internal/models"
	"couple-journal-backend/internal/query"
)

// UserRepository handles database operations for users
type UserRepository struct {
	db dbx.DBTX
}

// NewUserRepository creates a new user repository
func NewUserRepository(db dbx.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, name, email, image, created_at, updated_at`

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Image, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a user; timestamps come back from the database
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	q := `
		INSERT INTO users (id, name, email, image)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, q, user.ID, user.Name, user.Email, user.Image).
		Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", notFound(err))
	}
	return u, nil
}

// Exists checks whether a user id is known
func (r *UserRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return exists, nil
}

// Update applies a partial update and returns the stored user
func (r *UserRepository) Update(ctx context.Context, id string, patch models.UserPatch) (*models.User, error) {
	var set query.Set
	if patch.Name != nil {
		set.Add("name", *patch.Name)
	}
	if set.Len() == 0 {
		return r.GetByID(ctx, id)
	}
	assignments, args := set.Build(1)
	q := `UPDATE users SET ` + assignments + `, updated_at = now() WHERE id = $1 RETURNING ` + userColumns
	u, err := scanUser(r.db.QueryRowContext(ctx, q, append([]any{id}, args...)...))
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", notFound(err))
	}
	return u, nil
}
