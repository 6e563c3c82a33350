package repository

import (
	"context"
	"regexp"
	"testing"

	"couple-journal-backend/internal/models"
	"couple-journal-backend/internal/pagination"
	"couple-journal-backend/internal/query"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var timelineRowColumns = []string{"id", "relationship_id", "user_id", "title", "content", "type", "date", "photos", "location", "tags", "is_private", "created_at", "updated_at", "name", "image"}

func TestTimelineList_SharedOnlyByDefault(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTimelineRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE t.relationship_id = $1 AND t.is_private = $2 ORDER BY t.date DESC, t.id DESC LIMIT $3 OFFSET $4`)).
		WithArgs("r1", false, 20, 0).
		WillReturnRows(sqlmock.NewRows(timelineRowColumns).
			AddRow("e1", "r1", "u2", "Beach", nil, "PHOTO", ts, `["https://x/a.jpg"]`, nil, `["trip"]`, false, ts, ts, "Bob", nil))

	list, err := repo.List(context.Background(), "r1", "u1", models.TimelineFilter{}, pagination.Params{Take: 20})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, []string{"trip"}, list[0].Tags)
	assert.Equal(t, "u2", list[0].Author.ID)
	assert.Equal(t, "Bob", *list[0].Author.Name)
}

func TestTimelineCount_IncludePrivateShowsOwnOnly(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTimelineRepository(db)

	entryType := models.TimelineEntryTypeMemory
	f := models.TimelineFilter{IncludePrivate: true, Type: &entryType, Tags: []string{"trip", "food"}}
	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT COUNT(*) FROM timeline_entries t WHERE t.relationship_id = $1 AND (t.is_private = $2 OR t.user_id = $3) AND t.type = $4 AND t.tags ?| ARRAY(SELECT jsonb_array_elements_text($5::jsonb))`)).
		WithArgs("r1", false, "u1", "MEMORY", `["trip","food"]`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	n, err := repo.Count(context.Background(), "r1", "u1", f)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestTimelineCreate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTimelineRepository(db)

	e := &models.TimelineEntry{ID: "e1", RelationshipID: "r1", UserID: "u1", Title: "Note", Type: models.TimelineEntryTypeNote, Date: ts, IsPrivate: true}
	mock.ExpectQuery(`INSERT INTO timeline_entries`).
		WithArgs("e1", "r1", "u1", "Note", nil, "NOTE", ts, "[]", nil, "[]", true).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(ts, ts))

	require.NoError(t, repo.Create(context.Background(), e))
}

func TestTimelineUpdate_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTimelineRepository(db)

	private := false
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE timeline_entries SET is_private = $2, updated_at = now() WHERE id = $1`)).
		WithArgs("e1", false).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.Update(context.Background(), "e1", models.TimelineEntryPatch{IsPrivate: &private})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAccessProbe(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAccessRepository(db)

	where := query.Where(query.Eq("m.id", "m1"), PartnerOf("r", "u1"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT m.relationship_id FROM milestones m JOIN relationships r ON r.id = m.relationship_id WHERE m.id = $1 AND (r.partner1_id = $2 OR r.partner2_id = $3) LIMIT 1`)).
		WithArgs("m1", "u1", "u1").
		WillReturnRows(sqlmock.NewRows([]string{"relationship_id"}).AddRow("r1"))

	got, err := repo.Probe(context.Background(), "m.relationship_id", "milestones m JOIN relationships r ON r.id = m.relationship_id", where)
	require.NoError(t, err)
	assert.Equal(t, "r1", got)

	mock.ExpectQuery(`SELECT m.relationship_id FROM milestones m`).
		WithArgs("m1", "u1", "u1").
		WillReturnRows(sqlmock.NewRows([]string{"relationship_id"}))
	_, err = repo.Probe(context.Background(), "m.relationship_id", "milestones m JOIN relationships r ON r.id = m.relationship_id", where)
	assert.ErrorIs(t, err, ErrNotFound)
}
