package services

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"couple-journal-backend/internal/apperr"
	"couple-journal-backend/internal/events"
	"couple-journal-backend/internal/models"
	"couple-journal-backend/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ts = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

var (
	relationshipRowColumns = []string{
		"id", "partner1_id", "partner2_id", "status", "start_date", "end_date", "created_at", "updated_at",
		"u1_id", "u1_name", "u1_email", "u1_image", "u2_id", "u2_name", "u2_email", "u2_image",
	}
	timelineRowColumns = []string{"id", "relationship_id", "user_id", "title", "content", "type", "date", "photos", "location", "tags", "is_private", "created_at", "updated_at", "name", "image"}
	settingsRowColumns = []string{"id", "relationship_id", "is_public", "allow_mood_share", "timezone", "created_at", "updated_at"}
)

func newStore(t *testing.T) (*repository.Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return repository.NewStore(db), mock
}

// recorder is an events.Publisher that keeps what it was given
type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Publish(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func requireAppErr(t *testing.T, err error, status int, code apperr.Code, message string) {
	t.Helper()
	e, ok := apperr.As(err)
	require.True(t, ok, "expected *apperr.Error, got %v", err)
	assert.Equal(t, status, e.Status)
	assert.Equal(t, code, e.Code)
	if message != "" {
		assert.Equal(t, message, e.Message)
	}
}

func expectRelationshipAccess(mock sqlmock.Sqlmock, relationshipID, userID string, ok bool) {
	rows := sqlmock.NewRows([]string{"id"})
	if ok {
		rows.AddRow(relationshipID)
	}
	mock.ExpectQuery(`SELECT r\.id FROM relationships r WHERE r\.id = \$1 AND \(r\.partner1_id = \$2 OR r\.partner2_id = \$3\) LIMIT 1`).
		WithArgs(relationshipID, userID, userID).
		WillReturnRows(rows)
}

func TestRelationshipCreate_Self(t *testing.T) {
	store, _ := newStore(t)
	svc := NewRelationshipService(store, NewAccess(store), nil)

	_, err := svc.Create(context.Background(), "u1", &models.Relationship{Partner2ID: "u1"})
	requireAppErr(t, err, http.StatusBadRequest, apperr.CodeBadRequest, "Cannot create relationship with yourself")
}

func TestRelationshipCreate_PartnerNotFound(t *testing.T) {
	store, mock := newStore(t)
	svc := NewRelationshipService(store, NewAccess(store), nil)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM users WHERE id = \$1\)`).
		WithArgs("u2").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), "u1", &models.Relationship{Partner2ID: "u2", StartDate: ts})
	requireAppErr(t, err, http.StatusNotFound, apperr.CodeNotFound, "Partner not found")
}

func TestRelationshipCreate_ActiveDuplicate(t *testing.T) {
	store, mock := newStore(t)
	svc := NewRelationshipService(store, NewAccess(store), nil)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs("u2").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(`FROM relationships WHERE`).
		WithArgs("u1", "u2", "u2", "u1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), "u1", &models.Relationship{Partner2ID: "u2", StartDate: ts})
	requireAppErr(t, err, http.StatusConflict, apperr.CodeConflict, "Active relationship already exists with this user")
}

func TestRelationshipCreate_RaceMapsUniqueViolation(t *testing.T) {
	store, mock := newStore(t)
	svc := NewRelationshipService(store, NewAccess(store), nil)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(`FROM relationships WHERE`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`INSERT INTO relationships`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "relationships_active_pair_key"})
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), "u1", &models.Relationship{Partner2ID: "u2", StartDate: ts})
	requireAppErr(t, err, http.StatusConflict, apperr.CodeConflict, "Active relationship already exists with this user")
}

func TestRelationshipCreate_NotifiesBothPartners(t *testing.T) {
	store, mock := newStore(t)
	pub := &recorder{}
	svc := NewRelationshipService(store, NewAccess(store), pub)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(`FROM relationships WHERE`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`INSERT INTO relationships`).
		WithArgs(sqlmock.AnyArg(), "u1", "u2", "DATING", ts, nil).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(ts, ts))
	mock.ExpectQuery(`WHERE r\.id = \$1`).
		WillReturnRows(sqlmock.NewRows(relationshipRowColumns).
			AddRow("r1", "u1", "u2", "DATING", ts, nil, ts, ts, "u1", "Ann", nil, nil, "u2", "Bob", nil, nil))
	mock.ExpectCommit()

	rel, err := svc.Create(context.Background(), "u1", &models.Relationship{
		Partner2ID: "u2", Status: models.RelationshipStatusDating, StartDate: ts,
	})
	require.NoError(t, err)
	assert.Equal(t, "u1", rel.Partner1ID)
	assert.Equal(t, "Bob", *rel.Partner2.Name)

	require.Len(t, pub.events, 1)
	assert.Equal(t, events.RelationshipCreated, pub.events[0].Type)
	assert.Equal(t, []string{"u1", "u2"}, pub.events[0].Recipients)
}

func TestRelationshipGet_NotPartner(t *testing.T) {
	store, mock := newStore(t)
	svc := NewRelationshipService(store, NewAccess(store), nil)

	expectRelationshipAccess(mock, "r1", "u3", false)

	_, err := svc.Get(context.Background(), "u3", "r1", models.RelationshipIncludes{})
	requireAppErr(t, err, http.StatusNotFound, apperr.CodeNotFound, "Relationship not found")
}

func TestRelationshipUpdate_EndBeforeStart(t *testing.T) {
	store, mock := newStore(t)
	svc := NewRelationshipService(store, NewAccess(store), nil)

	expectRelationshipAccess(mock, "r1", "u1", true)
	mock.ExpectBegin()
	mock.ExpectQuery(`WHERE r\.id = \$1`).
		WillReturnRows(sqlmock.NewRows(relationshipRowColumns).
			AddRow("r1", "u1", "u2", "DATING", ts, nil, ts, ts, "u1", nil, nil, nil, "u2", nil, nil, nil))
	mock.ExpectRollback()

	end := ts.AddDate(0, 0, -1)
	_, err := svc.Update(context.Background(), "u1", "r1", models.RelationshipPatch{EndDateSet: true, EndDate: &end})
	requireAppErr(t, err, http.StatusBadRequest, apperr.CodeValidationFailed, "")

	e, _ := apperr.As(err)
	assert.Equal(t, []apperr.FieldError{{Field: "endDate", Message: "must not be before startDate"}}, e.Details)
}

func TestRelationshipSettings_GetOrCreateIsStable(t *testing.T) {
	store, mock := newStore(t)
	svc := NewRelationshipService(store, NewAccess(store), nil)

	for range 2 {
		expectRelationshipAccess(mock, "r1", "u1", true)
		mock.ExpectExec(`ON CONFLICT \(relationship_id\) DO NOTHING`).
			WithArgs(sqlmock.AnyArg(), "r1").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`FROM relationship_settings WHERE relationship_id = \$1`).
			WithArgs("r1").
			WillReturnRows(sqlmock.NewRows(settingsRowColumns).AddRow("s1", "r1", false, false, "UTC", ts, ts))
	}

	first, err := svc.Settings(context.Background(), "u1", "r1")
	require.NoError(t, err)
	second, err := svc.Settings(context.Background(), "u1", "r1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "UTC", second.Timezone)
}

func TestMilestoneCreate_RelationshipMismatch(t *testing.T) {
	store, mock := newStore(t)
	svc := NewMilestoneService(store, NewAccess(store), nil)

	expectRelationshipAccess(mock, "r1", "u1", true)

	_, err := svc.Create(context.Background(), "u1", "r1", &models.Milestone{RelationshipID: "r2", Title: "x", Date: ts})
	requireAppErr(t, err, http.StatusBadRequest, apperr.CodeBadRequest, msgRelationshipMismatch)
}

func TestMilestoneGet_NotMember(t *testing.T) {
	store, mock := newStore(t)
	svc := NewMilestoneService(store, NewAccess(store), nil)

	mock.ExpectQuery(`SELECT m\.relationship_id FROM milestones m JOIN relationships r ON r\.id = m\.relationship_id WHERE m\.id = \$1`).
		WithArgs("m1", "u3", "u3").
		WillReturnRows(sqlmock.NewRows([]string{"relationship_id"}))

	_, err := svc.Get(context.Background(), "u3", "m1")
	requireAppErr(t, err, http.StatusNotFound, apperr.CodeNotFound, "Milestone not found")
}

func TestTimelineCreate_PrivateEntryNotifiesAuthorOnly(t *testing.T) {
	store, mock := newStore(t)
	pub := &recorder{}
	svc := NewTimelineService(store, NewAccess(store), pub)

	expectRelationshipAccess(mock, "r1", "u1", true)
	mock.ExpectQuery(`INSERT INTO timeline_entries`).
		WithArgs(sqlmock.AnyArg(), "r1", "u1", "Secret", nil, "NOTE", ts, "[]", nil, "[]", true).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(ts, ts))
	mock.ExpectQuery(`WHERE t\.id = \$1`).
		WillReturnRows(sqlmock.NewRows(timelineRowColumns).
			AddRow("e1", "r1", "u1", "Secret", nil, "NOTE", ts, "[]", nil, "[]", true, ts, ts, "Ann", nil))

	e, err := svc.Create(context.Background(), "u1", "r1", &models.TimelineEntry{
		RelationshipID: "r1", Title: "Secret", Type: models.TimelineEntryTypeNote, Date: ts,
		Photos: []string{}, Tags: []string{}, IsPrivate: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ann", *e.Author.Name)

	require.Len(t, pub.events, 1)
	assert.Equal(t, events.TimelineEntryCreated, pub.events[0].Type)
	assert.Equal(t, []string{"u1"}, pub.events[0].Recipients)
}

func TestTimelineUpdate_NotAuthor(t *testing.T) {
	store, mock := newStore(t)
	svc := NewTimelineService(store, NewAccess(store), nil)

	mock.ExpectQuery(`SELECT t\.relationship_id FROM timeline_entries t JOIN relationships r .* AND t\.user_id = \$4 LIMIT 1`).
		WithArgs("e1", "u2", "u2", "u2").
		WillReturnRows(sqlmock.NewRows([]string{"relationship_id"}))

	title := "changed"
	_, err := svc.Update(context.Background(), "u2", "e1", models.TimelineEntryPatch{Title: &title})
	requireAppErr(t, err, http.StatusNotFound, apperr.CodeNotFound, msgTimelineEntryNotOwned)
}

func TestMoodGet_OtherUsersEntry(t *testing.T) {
	store, mock := newStore(t)
	svc := NewMoodService(store, NewAccess(store))

	mock.ExpectQuery(`SELECT e\.id FROM mood_entries e WHERE e\.id = \$1 AND e\.user_id = \$2 LIMIT 1`).
		WithArgs("me1", "u2").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.Get(context.Background(), "u2", "me1")
	requireAppErr(t, err, http.StatusNotFound, apperr.CodeNotFound, "Mood entry not found")
}

func TestMoodCreate_AssignsOwner(t *testing.T) {
	store, mock := newStore(t)
	svc := NewMoodService(store, NewAccess(store))

	mock.ExpectQuery(`INSERT INTO mood_entries`).
		WithArgs(sqlmock.AnyArg(), "u1", "HAPPY", 7, nil, ts).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(ts, ts))

	e, err := svc.Create(context.Background(), "u1", &models.MoodEntry{UserID: "someone-else", Mood: models.MoodHappy, Intensity: 7, Date: ts})
	require.NoError(t, err)
	assert.Equal(t, "u1", e.UserID)
	assert.NotEmpty(t, e.ID)
}

type staticTokens string

func (s staticTokens) Generate(string) (string, error) { return string(s), nil }

func TestUserCreate_DuplicateEmail(t *testing.T) {
	store, mock := newStore(t)
	svc := NewUserService(store, staticTokens("tok"))

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	_, err := svc.CreateUser(context.Background(), "Ann", "ann@example.com", nil)
	requireAppErr(t, err, http.StatusConflict, apperr.CodeConflict, "Email already registered")
}

func TestUserCreate_ReturnsToken(t *testing.T) {
	store, mock := newStore(t)
	svc := NewUserService(store, staticTokens("tok"))

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(sqlmock.AnyArg(), "Ann", "ann@example.com", nil).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(ts, ts))

	created, err := svc.CreateUser(context.Background(), "Ann", "ann@example.com", nil)
	require.NoError(t, err)
	assert.Equal(t, "tok", created.Token)
	assert.Equal(t, "ann@example.com", *created.User.Email)
}

func TestUserMe_NotFound(t *testing.T) {
	store, mock := newStore(t)
	svc := NewUserService(store, staticTokens("tok"))

	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs("u1").
		WillReturnError(sql.ErrNoRows)

	_, err := svc.Me(context.Background(), "u1")
	requireAppErr(t, err, http.StatusNotFound, apperr.CodeNotFound, "User not found")
}

func TestPublish_FailureIsSwallowed(t *testing.T) {
	publish(context.Background(), failing{}, events.New(events.MilestoneCreated, "r1", "u1", nil, nil))
	publish(context.Background(), nil, events.Event{})
}

type failing struct{}

func (failing) Publish(context.Context, events.Event) error { return errors.New("broker down") }
