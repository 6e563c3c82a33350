package repository

import (
	"context"
	"regexp"
	"testing"

	"couple-journal-backend/internal/models"
	"couple-journal-backend/internal/pagination"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var relationshipRowColumns = []string{
	"id", "partner1_id", "partner2_id", "status", "start_date", "end_date", "created_at", "updated_at",
	"u1_id", "u1_name", "u1_email", "u1_image", "u2_id", "u2_name", "u2_email", "u2_image",
}

func TestRelationshipCreate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRelationshipRepository(db)

	rel := &models.Relationship{ID: "r1", Partner1ID: "u1", Partner2ID: "u2", Status: models.RelationshipStatusDating, StartDate: ts}
	mock.ExpectQuery(`(?s)INSERT INTO relationships \(id, partner1_id, partner2_id, status, start_date, end_date\).*RETURNING created_at, updated_at`).
		WithArgs("r1", "u1", "u2", "DATING", ts, nil).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(ts, ts))

	require.NoError(t, repo.Create(context.Background(), rel))
	assert.Equal(t, ts, rel.CreatedAt)
}

func TestRelationshipActiveBetween_ChecksBothOrientations(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRelationshipRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT EXISTS(SELECT 1 FROM relationships WHERE ((partner1_id = $1 AND partner2_id = $2) OR (partner1_id = $3 AND partner2_id = $4)) AND end_date IS NULL)`)).
		WithArgs("a", "b", "b", "a").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ActiveBetween(context.Background(), "a", "b")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRelationshipGetByID_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRelationshipRepository(db)

	mock.ExpectQuery(`FROM relationships r\s+JOIN users u1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(relationshipRowColumns))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRelationshipList_CursorAndCounts(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRelationshipRepository(db)

	page := pagination.Params{Take: 20, Cursor: "c1"}
	mock.ExpectQuery(`(?s)t\.user_id = \$1\).*` + regexp.QuoteMeta(
		`WHERE (r.partner1_id = $2 OR r.partner2_id = $3) AND r.end_date IS NULL AND (r.created_at, r.id) <= (SELECT c.created_at, c.id FROM relationships c WHERE (c.partner1_id = $4 OR c.partner2_id = $5) AND c.end_date IS NULL AND c.id = $6)`) +
		`\s+ORDER BY r\.created_at DESC, r\.id DESC\s+LIMIT \$7 OFFSET \$8`).
		WithArgs("u1", "u1", "u1", "u1", "u1", "c1", 20, 1).
		WillReturnRows(sqlmock.NewRows(append(relationshipRowColumns, "milestones", "timeline")).
			AddRow("r1", "u1", "u2", "ENGAGED", ts, nil, ts, ts, "u1", "Ann", "ann@example.com", nil, "u2", "Bob", nil, nil, 3, 7))

	list, err := repo.List(context.Background(), "u1", models.RelationshipFilter{}, page)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.RelationshipStatusEngaged, list[0].Status)
	assert.Nil(t, list[0].EndDate)
	assert.Equal(t, "Ann", *list[0].Partner1.Name)
	assert.Nil(t, list[0].Partner2.Email)
	assert.Equal(t, models.RelationshipCounts{Milestones: 3, Timeline: 7}, list[0].Counts)
}

func TestRelationshipCount_StatusAndEnded(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRelationshipRepository(db)

	status := models.RelationshipStatusMarried
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM relationships r WHERE (r.partner1_id = $1 OR r.partner2_id = $2) AND r.status = $3`)).
		WithArgs("u1", "u1", "MARRIED").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	n, err := repo.Count(context.Background(), "u1", models.RelationshipFilter{Status: &status, IncludeEnded: true})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestRelationshipUpdate_ClearsEndDate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRelationshipRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE relationships SET end_date = $2, updated_at = now() WHERE id = $1`)).
		WithArgs("r1", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`WHERE r\.id = \$1`).
		WithArgs("r1").
		WillReturnRows(sqlmock.NewRows(relationshipRowColumns).
			AddRow("r1", "u1", "u2", "DATING", ts, nil, ts, ts, "u1", nil, nil, nil, "u2", nil, nil, nil))

	rel, err := repo.Update(context.Background(), "r1", models.RelationshipPatch{EndDateSet: true})
	require.NoError(t, err)
	assert.Nil(t, rel.EndDate)
}

func TestRelationshipDelete_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRelationshipRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM relationships WHERE id = $1`)).
		WithArgs("r1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), "r1"), ErrNotFound)
}

func TestRelationshipPartners(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRelationshipRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT partner1_id, partner2_id FROM relationships WHERE id = $1`)).
		WithArgs("r1").
		WillReturnRows(sqlmock.NewRows([]string{"partner1_id", "partner2_id"}).AddRow("u1", "u2"))

	got, err := repo.Partners(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u2"}, got)
}
