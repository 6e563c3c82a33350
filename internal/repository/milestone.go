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

// MilestoneRepository handles database operations for milestones
type MilestoneRepository struct {
	db dbx.DBTX
}

func NewMilestoneRepository(db dbx.DBTX) *MilestoneRepository {
	return &MilestoneRepository{db: db}
}

const milestoneColumns = `m.id, m.relationship_id, m.title, m.description, m.date, m.category, m.is_special, m.photos, m.location, m.created_at, m.updated_at`

func scanMilestone(row rowScanner) (*models.Milestone, error) {
	var m models.Milestone
	err := row.Scan(&m.ID, &m.RelationshipID, &m.Title, &m.Description, &m.Date, &m.Category,
		&m.IsSpecial, jsonList{&m.Photos}, &m.Location, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func milestoneScope(alias, relationshipID string, f models.MilestoneFilter) *query.Builder {
	b := query.Where(query.Eq(alias+".relationship_id", relationshipID))
	if f.Category != nil {
		b.And(query.Eq(alias+".category", string(*f.Category)))
	}
	if f.IsSpecial != nil {
		b.And(query.Eq(alias+".is_special", *f.IsSpecial))
	}
	if f.StartDate != nil {
		b.And(query.Gte(alias+".date", *f.StartDate))
	}
	if f.EndDate != nil {
		b.And(query.Lte(alias+".date", *f.EndDate))
	}
	return b
}

// Create inserts a milestone
func (r *MilestoneRepository) Create(ctx context.Context, m *models.Milestone) error {
	q := `
		INSERT INTO milestones (id, relationship_id, title, description, date, category, is_special, photos, location)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb, $9)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, q,
		m.ID, m.RelationshipID, m.Title, m.Description, m.Date, string(m.Category), m.IsSpecial, toJSON(m.Photos), m.Location,
	).Scan(&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create milestone: %w", err)
	}
	return nil
}

// GetByID retrieves a milestone by ID
func (r *MilestoneRepository) GetByID(ctx context.Context, id string) (*models.Milestone, error) {
	m, err := scanMilestone(r.db.QueryRowContext(ctx, `SELECT `+milestoneColumns+` FROM milestones m WHERE m.id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get milestone: %w", notFound(err))
	}
	return m, nil
}

// List returns a page of a relationship's milestones, latest date first
func (r *MilestoneRepository) List(ctx context.Context, relationshipID string, f models.MilestoneFilter, page pagination.Params) ([]*models.Milestone, error) {
	b := milestoneScope("m", relationshipID, f)
	if page.Cursor != "" {
		b.And(query.Seek("m.date, m.id", "c.date, c.id", "milestones c",
			milestoneScope("c", relationshipID, f).And(query.Eq("c.id", page.Cursor))))
	}
	where, args := b.Build(0)
	n := len(args)
	q := `SELECT ` + milestoneColumns + ` FROM milestones m WHERE ` + where +
		` ORDER BY m.date DESC, m.id DESC LIMIT $` + strconv.Itoa(n+1) + ` OFFSET $` + strconv.Itoa(n+2)

	rows, err := r.db.QueryContext(ctx, q, append(args, page.Limit(), page.Offset())...)
	if err != nil {
		return nil, fmt.Errorf("failed to list milestones: %w", err)
	}
	defer rows.Close()

	var out []*models.Milestone
	for rows.Next() {
		m, err := scanMilestone(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan milestone: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list milestones: %w", err)
	}
	return out, nil
}

// Count counts a relationship's milestones matching f
func (r *MilestoneRepository) Count(ctx context.Context, relationshipID string, f models.MilestoneFilter) (int, error) {
	where, args := milestoneScope("m", relationshipID, f).Build(0)
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM milestones m WHERE `+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count milestones: %w", err)
	}
	return total, nil
}

// Latest returns up to n most recent milestones
func (r *MilestoneRepository) Latest(ctx context.Context, relationshipID string, n int) ([]*models.Milestone, error) {
	return r.List(ctx, relationshipID, models.MilestoneFilter{}, pagination.Params{Take: n})
}

// Update applies a partial update
func (r *MilestoneRepository) Update(ctx context.Context, id string, patch models.MilestonePatch) (*models.Milestone, error) {
	var set query.Set
	if patch.Title != nil {
		set.Add("title", *patch.Title)
	}
	if patch.Description != nil {
		set.Add("description", *patch.Description)
	}
	if patch.Date != nil {
		set.Add("date", *patch.Date)
	}
	if patch.Category != nil {
		set.Add("category", string(*patch.Category))
	}
	if patch.IsSpecial != nil {
		set.Add("is_special", *patch.IsSpecial)
	}
	if patch.Photos != nil {
		set.Add("photos", toJSON(*patch.Photos))
	}
	if patch.Location != nil {
		set.Add("location", *patch.Location)
	}
	if set.Len() == 0 {
		return r.GetByID(ctx, id)
	}

	assignments, args := set.Build(1)
	q := `UPDATE milestones m SET ` + assignments + `, updated_at = now() WHERE m.id = $1 RETURNING ` + milestoneColumns
	m, err := scanMilestone(r.db.QueryRowContext(ctx, q, append([]any{id}, args...)...))
	if err != nil {
		return nil, fmt.Errorf("failed to update milestone: %w", notFound(err))
	}
	return m, nil
}

// Delete removes a milestone
func (r *MilestoneRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM milestones WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete milestone: %w", err)
	}
	if err := affected(res); err != nil {
		return fmt.Errorf("failed to delete milestone: %w", err)
	}
	return nil
}
