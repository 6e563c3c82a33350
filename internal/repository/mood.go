package repository

import (
	"context"
	"fmt"
	"strconv"

	"couple-journal-backend/internal/dbx"
	"couple-journal-backend/internal/models"
	"couple-journal-backend/internal/pagination"
	"couple-journal-backend/internal/query"
)

// MoodRepository handles database operations for mood entries
type MoodRepository struct {
	db dbx.DBTX
}

func NewMoodRepository(db dbx.DBTX) *MoodRepository {
	return &MoodRepository{db: db}
}

const moodColumns = `e.id, e.user_id, e.mood, e.intensity, e.note, e.date, e.created_at, e.updated_at`

func scanMoodEntry(row rowScanner) (*models.MoodEntry, error) {
	var e models.MoodEntry
	if err := row.Scan(&e.ID, &e.UserID, &e.Mood, &e.Intensity, &e.Note, &e.Date, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

func moodScope(alias, userID string, f models.MoodFilter) *query.Builder {
	b := query.Where(query.Eq(alias+".user_id", userID))
	if f.Mood != nil {
		b.And(query.Eq(alias+".mood", string(*f.Mood)))
	}
	if f.MinIntensity != nil {
		b.And(query.Gte(alias+".intensity", *f.MinIntensity))
	}
	if f.MaxIntensity != nil {
		b.And(query.Lte(alias+".intensity", *f.MaxIntensity))
	}
	if f.StartDate != nil {
		b.And(query.Gte(alias+".date", *f.StartDate))
	}
	if f.EndDate != nil {
		b.And(query.Lte(alias+".date", *f.EndDate))
	}
	return b
}

// Create inserts a mood entry
func (r *MoodRepository) Create(ctx context.Context, e *models.MoodEntry) error {
	q := `
		INSERT INTO mood_entries (id, user_id, mood, intensity, note, date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, q, e.ID, e.UserID, string(e.Mood), e.Intensity, e.Note, e.Date).
		Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create mood entry: %w", err)
	}
	return nil
}

// GetByID retrieves a mood entry by ID
func (r *MoodRepository) GetByID(ctx context.Context, id string) (*models.MoodEntry, error) {
	e, err := scanMoodEntry(r.db.QueryRowContext(ctx, `SELECT `+moodColumns+` FROM mood_entries e WHERE e.id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get mood entry: %w", notFound(err))
	}
	return e, nil
}

// List returns a page of the user's own entries, latest date first
func (r *MoodRepository) List(ctx context.Context, userID string, f models.MoodFilter, page pagination.Params) ([]*models.MoodEntry, error) {
	b := moodScope("e", userID, f)
	if page.Cursor != "" {
		b.And(query.Seek("e.date, e.id", "c.date, c.id", "mood_entries c",
			moodScope("c", userID, f).And(query.Eq("c.id", page.Cursor))))
	}
	where, args := b.Build(0)
	n := len(args)
	q := `SELECT ` + moodColumns + ` FROM mood_entries e WHERE ` + where +
		` ORDER BY e.date DESC, e.id DESC LIMIT $` + strconv.Itoa(n+1) + ` OFFSET $` + strconv.Itoa(n+2)

	rows, err := r.db.QueryContext(ctx, q, append(args, page.Limit(), page.Offset())...)
	if err != nil {
		return nil, fmt.Errorf("failed to list mood entries: %w", err)
	}
	defer rows.Close()

	var out []*models.MoodEntry
	for rows.Next() {
		e, err := scanMoodEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mood entry: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list mood entries: %w", err)
	}
	return out, nil
}

// Count counts the user's entries matching f
func (r *MoodRepository) Count(ctx context.Context, userID string, f models.MoodFilter) (int, error) {
	where, args := moodScope("e", userID, f).Build(0)
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM mood_entries e WHERE `+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count mood entries: %w", err)
	}
	return total, nil
}

// Update applies a partial update
func (r *MoodRepository) Update(ctx context.Context, id string, patch models.MoodEntryPatch) (*models.MoodEntry, error) {
	var set query.Set
	if patch.Mood != nil {
		set.Add("mood", string(*patch.Mood))
	}
	if patch.Intensity != nil {
		set.Add("intensity", *patch.Intensity)
	}
	if patch.Note != nil {
		set.Add("note", *patch.Note)
	}
	if patch.Date != nil {
		set.Add("date", *patch.Date)
	}
	if set.Len() == 0 {
		return r.GetByID(ctx, id)
	}

	assignments, args := set.Build(1)
	q := `UPDATE mood_entries e SET ` + assignments + `, updated_at = now() WHERE e.id = $1 RETURNING ` + moodColumns
	e, err := scanMoodEntry(r.db.QueryRowContext(ctx, q, append([]any{id}, args...)...))
	if err != nil {
		return nil, fmt.Errorf("failed to update mood entry: %w", notFound(err))
	}
	return e, nil
}

// Delete removes a mood entry
func (r *MoodRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM mood_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete mood entry: %w", err)
	}
	if err := affected(res); err != nil {
		return fmt.Errorf("failed to delete mood entry: %w", err)
	}
	return nil
}
