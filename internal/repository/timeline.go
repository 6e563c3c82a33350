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

// TimelineRepository handles database operations for timeline entries
type TimelineRepository struct {
	db dbx.DBTX
}

func NewTimelineRepository(db dbx.DBTX) *TimelineRepository {
	return &TimelineRepository{db: db}
}

const timelineColumns = `t.id, t.relationship_id, t.user_id, t.title, t.content, t.type, t.date, t.photos, t.location, t.tags, t.is_private, t.created_at, t.updated_at,
		u.name, u.image`

const timelineFrom = `timeline_entries t JOIN users u ON u.id = t.user_id`

func scanTimelineEntry(row rowScanner) (*models.TimelineEntry, error) {
	var e models.TimelineEntry
	author := &models.UserSummary{}
	err := row.Scan(&e.ID, &e.RelationshipID, &e.UserID, &e.Title, &e.Content, &e.Type, &e.Date,
		jsonList{&e.Photos}, &e.Location, jsonList{&e.Tags}, &e.IsPrivate, &e.CreatedAt, &e.UpdatedAt,
		&author.Name, &author.Image)
	if err != nil {
		return nil, err
	}
	author.ID = e.UserID
	e.Author = author
	return &e, nil
}

// Visible matches entries userID may read: shared ones and their own
func Visible(alias, userID string) query.Clause {
	return query.Or(query.Eq(alias+".is_private", false), query.Eq(alias+".user_id", userID))
}

func timelineScope(alias, relationshipID, viewerID string, f models.TimelineFilter) *query.Builder {
	b := query.Where(query.Eq(alias+".relationship_id", relationshipID))
	if f.IncludePrivate {
		b.And(Visible(alias, viewerID))
	} else {
		b.And(query.Eq(alias+".is_private", false))
	}
	if f.Type != nil {
		b.And(query.Eq(alias+".type", string(*f.Type)))
	}
	if len(f.Tags) > 0 {
		b.And(query.JSONHasAny(alias+".tags", f.Tags))
	}
	if f.StartDate != nil {
		b.And(query.Gte(alias+".date", *f.StartDate))
	}
	if f.EndDate != nil {
		b.And(query.Lte(alias+".date", *f.EndDate))
	}
	return b
}

// Create inserts a timeline entry
func (r *TimelineRepository) Create(ctx context.Context, e *models.TimelineEntry) error {
	q := `
		INSERT INTO timeline_entries (id, relationship_id, user_id, title, content, type, date, photos, location, tags, is_private)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb, $9, $10::jsonb, $11)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, q,
		e.ID, e.RelationshipID, e.UserID, e.Title, e.Content, string(e.Type), e.Date,
		toJSON(e.Photos), e.Location, toJSON(e.Tags), e.IsPrivate,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create timeline entry: %w", err)
	}
	return nil
}

// GetByID retrieves an entry with its author
func (r *TimelineRepository) GetByID(ctx context.Context, id string) (*models.TimelineEntry, error) {
	e, err := scanTimelineEntry(r.db.QueryRowContext(ctx, `SELECT `+timelineColumns+` FROM `+timelineFrom+` WHERE t.id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get timeline entry: %w", notFound(err))
	}
	return e, nil
}

// List returns a page of entries visible to viewerID, latest date first
func (r *TimelineRepository) List(ctx context.Context, relationshipID, viewerID string, f models.TimelineFilter, page pagination.Params) ([]*models.TimelineEntry, error) {
	b := timelineScope("t", relationshipID, viewerID, f)
	if page.Cursor != "" {
		b.And(query.Seek("t.date, t.id", "c.date, c.id", "timeline_entries c",
			timelineScope("c", relationshipID, viewerID, f).And(query.Eq("c.id", page.Cursor))))
	}
	where, args := b.Build(0)
	n := len(args)
	q := `SELECT ` + timelineColumns + ` FROM ` + timelineFrom + ` WHERE ` + where +
		` ORDER BY t.date DESC, t.id DESC LIMIT $` + strconv.Itoa(n+1) + ` OFFSET $` + strconv.Itoa(n+2)

	rows, err := r.db.QueryContext(ctx, q, append(args, page.Limit(), page.Offset())...)
	if err != nil {
		return nil, fmt.Errorf("failed to list timeline entries: %w", err)
	}
	defer rows.Close()

	var out []*models.TimelineEntry
	for rows.Next() {
		e, err := scanTimelineEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan timeline entry: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list timeline entries: %w", err)
	}
	return out, nil
}

// Count counts entries matching f that are visible to viewerID
func (r *TimelineRepository) Count(ctx context.Context, relationshipID, viewerID string, f models.TimelineFilter) (int, error) {
	where, args := timelineScope("t", relationshipID, viewerID, f).Build(0)
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM timeline_entries t WHERE `+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count timeline entries: %w", err)
	}
	return total, nil
}

// Recent returns up to n latest shared entries
func (r *TimelineRepository) Recent(ctx context.Context, relationshipID string, n int) ([]*models.TimelineEntry, error) {
	return r.List(ctx, relationshipID, "", models.TimelineFilter{}, pagination.Params{Take: n})
}

// Update applies a partial update
func (r *TimelineRepository) Update(ctx context.Context, id string, patch models.TimelineEntryPatch) (*models.TimelineEntry, error) {
	var set query.Set
	if patch.Title != nil {
		set.Add("title", *patch.Title)
	}
	if patch.Content != nil {
		set.Add("content", *patch.Content)
	}
	if patch.Type != nil {
		set.Add("type", string(*patch.Type))
	}
	if patch.Date != nil {
		set.Add("date", *patch.Date)
	}
	if patch.Photos != nil {
		set.Add("photos", toJSON(*patch.Photos))
	}
	if patch.Location != nil {
		set.Add("location", *patch.Location)
	}
	if patch.Tags != nil {
		set.Add("tags", toJSON(*patch.Tags))
	}
	if patch.IsPrivate != nil {
		set.Add("is_private", *patch.IsPrivate)
	}
	if set.Len() > 0 {
		assignments, args := set.Build(1)
		q := `UPDATE timeline_entries SET ` + assignments + `, updated_at = now() WHERE id = $1`
		res, err := r.db.ExecContext(ctx, q, append([]any{id}, args...)...)
		if err != nil {
			return nil, fmt.Errorf("failed to update timeline entry: %w", err)
		}
		if err := affected(res); err != nil {
			return nil, fmt.Errorf("failed to update timeline entry: %w", err)
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes an entry
func (r *TimelineRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM timeline_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete timeline entry: %w", err)
	}
	if err := affected(res); err != nil {
		return fmt.Errorf("failed to delete timeline entry: %w", err)
	}
	return nil
}
