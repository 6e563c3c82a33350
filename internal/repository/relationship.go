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

// RelationshipRepository handles database operations for relationships
type RelationshipRepository struct {
	db dbx.DBTX
}

// NewRelationshipRepository creates a new relationship repository
func NewRelationshipRepository(db dbx.DBTX) *RelationshipRepository {
	return &RelationshipRepository{db: db}
}

const relationshipColumns = `r.id, r.partner1_id, r.partner2_id, r.status, r.start_date, r.end_date, r.created_at, r.updated_at,
		u1.id, u1.name, u1.email, u1.image, u2.id, u2.name, u2.email, u2.image`

const relationshipFrom = `relationships r
		JOIN users u1 ON u1.id = r.partner1_id
		JOIN users u2 ON u2.id = r.partner2_id`

func scanRelationship(row rowScanner, extra ...any) (*models.Relationship, error) {
	var rel models.Relationship
	p1, p2 := &models.UserSummary{}, &models.UserSummary{}
	dest := []any{
		&rel.ID, &rel.Partner1ID, &rel.Partner2ID, &rel.Status, &rel.StartDate, &rel.EndDate, &rel.CreatedAt, &rel.UpdatedAt,
		&p1.ID, &p1.Name, &p1.Email, &p1.Image, &p2.ID, &p2.Name, &p2.Email, &p2.Image,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	rel.Partner1, rel.Partner2 = p1, p2
	return &rel, nil
}

// PartnerOf matches relationships where userID is either partner
func PartnerOf(alias, userID string) query.Clause {
	return query.Or(query.Eq(alias+".partner1_id", userID), query.Eq(alias+".partner2_id", userID))
}

func relationshipScope(alias, userID string, f models.RelationshipFilter) *query.Builder {
	b := query.Where(PartnerOf(alias, userID))
	if f.Status != nil {
		b.And(query.Eq(alias+".status", string(*f.Status)))
	}
	if !f.IncludeEnded {
		b.And(query.IsNull(alias + ".end_date"))
	}
	return b
}

// Create inserts a relationship
func (r *RelationshipRepository) Create(ctx context.Context, rel *models.Relationship) error {
	q := `
		INSERT INTO relationships (id, partner1_id, partner2_id, status, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, q,
		rel.ID, rel.Partner1ID, rel.Partner2ID, string(rel.Status), rel.StartDate, rel.EndDate,
	).Scan(&rel.CreatedAt, &rel.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create relationship: %w", err)
	}
	return nil
}

// ActiveBetween checks for an active relationship between two users in either orientation
func (r *RelationshipRepository) ActiveBetween(ctx context.Context, a, b string) (bool, error) {
	where, args := query.Where(
		query.Or(
			query.And(query.Eq("partner1_id", a), query.Eq("partner2_id", b)),
			query.And(query.Eq("partner1_id", b), query.Eq("partner2_id", a)),
		),
		query.IsNull("end_date"),
	).Build(0)

	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM relationships WHERE `+where+`)`, args...).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check active relationship: %w", err)
	}
	return exists, nil
}

// GetByID retrieves a relationship with both partner summaries
func (r *RelationshipRepository) GetByID(ctx context.Context, id string) (*models.Relationship, error) {
	q := `SELECT ` + relationshipColumns + ` FROM ` + relationshipFrom + ` WHERE r.id = $1`
	rel, err := scanRelationship(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get relationship: %w", notFound(err))
	}
	return rel, nil
}

// List returns the user's relationships, newest first, with child counts.
// Timeline counts only include entries visible to userID.
func (r *RelationshipRepository) List(ctx context.Context, userID string, f models.RelationshipFilter, page pagination.Params) ([]*models.RelationshipSummary, error) {
	b := relationshipScope("r", userID, f)
	if page.Cursor != "" {
		b.And(query.Seek("r.created_at, r.id", "c.created_at, c.id", "relationships c",
			relationshipScope("c", userID, f).And(query.Eq("c.id", page.Cursor))))
	}
	where, args := b.Build(1)
	n := len(args) + 1

	q := `
		SELECT ` + relationshipColumns + `,
			(SELECT COUNT(*) FROM milestones m WHERE m.relationship_id = r.id),
			(SELECT COUNT(*) FROM timeline_entries t WHERE t.relationship_id = r.id AND (t.is_private = FALSE OR t.user_id = $1))
		FROM ` + relationshipFrom + `
		WHERE ` + where + `
		ORDER BY r.created_at DESC, r.id DESC
		LIMIT $` + strconv.Itoa(n+1) + ` OFFSET $` + strconv.Itoa(n+2)

	args = append([]any{userID}, args...)
	args = append(args, page.Limit(), page.Offset())

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list relationships: %w", err)
	}
	defer rows.Close()

	var out []*models.RelationshipSummary
	for rows.Next() {
		var counts models.RelationshipCounts
		rel, err := scanRelationship(rows, &counts.Milestones, &counts.Timeline)
		if err != nil {
			return nil, fmt.Errorf("failed to scan relationship: %w", err)
		}
		out = append(out, &models.RelationshipSummary{Relationship: *rel, Counts: counts})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list relationships: %w", err)
	}
	return out, nil
}

// Count counts the user's relationships matching f
func (r *RelationshipRepository) Count(ctx context.Context, userID string, f models.RelationshipFilter) (int, error) {
	where, args := relationshipScope("r", userID, f).Build(0)
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM relationships r WHERE `+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count relationships: %w", err)
	}
	return total, nil
}

// Update applies a partial update
func (r *RelationshipRepository) Update(ctx context.Context, id string, patch models.RelationshipPatch) (*models.Relationship, error) {
	var set query.Set
	if patch.Status != nil {
		set.Add("status", string(*patch.Status))
	}
	if patch.StartDate != nil {
		set.Add("start_date", *patch.StartDate)
	}
	if patch.EndDateSet {
		set.Add("end_date", patch.EndDate)
	}
	if set.Len() > 0 {
		assignments, args := set.Build(1)
		q := `UPDATE relationships SET ` + assignments + `, updated_at = now() WHERE id = $1`
		res, err := r.db.ExecContext(ctx, q, append([]any{id}, args...)...)
		if err != nil {
			return nil, fmt.Errorf("failed to update relationship: %w", err)
		}
		if err := affected(res); err != nil {
			return nil, fmt.Errorf("failed to update relationship: %w", err)
		}
	}
	return r.GetByID(ctx, id)
}

// Partners returns both partner ids
func (r *RelationshipRepository) Partners(ctx context.Context, id string) ([]string, error) {
	var p1, p2 string
	err := r.db.QueryRowContext(ctx, `SELECT partner1_id, partner2_id FROM relationships WHERE id = $1`, id).Scan(&p1, &p2)
	if err != nil {
		return nil, fmt.Errorf("failed to get partners: %w", notFound(err))
	}
	return []string{p1, p2}, nil
}

// Delete removes a relationship; dependent rows cascade
func (r *RelationshipRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM relationships WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete relationship: %w", err)
	}
	if err := affected(res); err != nil {
		return fmt.Errorf("failed to delete relationship: %w", err)
	}
	return nil
}
