// Package repository implements PostgreSQL storage for the journal. Every
// repository is bound to a dbx.DBTX so the same code runs on the pool or
// inside a transaction.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"couple-journal-backend/internal/dbx"
	"couple-journal-backend/internal/migrations"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pressly/goose/v3"
)

// ErrNotFound is returned when a row addressed by id does not exist
var ErrNotFound = errors.New("record not found")

const pgUniqueViolation = "23505"

// UniqueViolation reports whether err is a PostgreSQL unique violation and
// returns the violated constraint.
func UniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}

// Repositories bundles every repository bound to one handle
type Repositories struct {
	Users         *UserRepository
	Relationships *RelationshipRepository
	Settings      *SettingsRepository
	Milestones    *MilestoneRepository
	Timeline      *TimelineRepository
	Moods         *MoodRepository
	Access        *AccessRepository
}

func New(db dbx.DBTX) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(db),
		Relationships: NewRelationshipRepository(db),
		Settings:      NewSettingsRepository(db),
		Milestones:    NewMilestoneRepository(db),
		Timeline:      NewTimelineRepository(db),
		Moods:         NewMoodRepository(db),
		Access:        NewAccessRepository(db),
	}
}

// Store owns the connection and vends repositories on it or on a transaction
type Store struct {
	*Repositories
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{Repositories: New(db), db: db}
}

// Tx runs fn with repositories bound to a single transaction
func (s *Store) Tx(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context, r *Repositories) error) error {
	return dbx.WithTx(ctx, s.db, opts, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, New(tx))
	})
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// jsonList scans a JSONB string array, never leaving a nil slice
type jsonList struct {
	dst *[]string
}

func (j jsonList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*j.dst = []string{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported jsonb source %T", src)
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("failed to decode jsonb list: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	*j.dst = out
	return nil
}

func toJSON(list []string) string {
	if list == nil {
		return "[]"
	}
	b, _ := json.Marshal(list)
	return string(b)
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func affected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
