package services

import (
	"context"

	"couple-journal-backend/internal/apperr"
	"couple-journal-backend/internal/dbx"
	"couple-journal-backend/internal/events"
	"couple-journal-backend/internal/models"
	"couple-journal-backend/internal/pagination"
	"couple-journal-backend/internal/repository"

	"github.com/google/uuid"
)

// TimelineService handles timeline entry business logic. Private entries are
// only visible to, and only announced to, their author.
type TimelineService struct {
	store  *repository.Store
	access *Access
	events events.Publisher
}

func NewTimelineService(store *repository.Store, access *Access, pub events.Publisher) *TimelineService {
	return &TimelineService{store: store, access: access, events: pub}
}

func (s *TimelineService) List(ctx context.Context, userID, relationshipID string, f models.TimelineFilter, page pagination.Params) (pagination.List[*models.TimelineEntry], error) {
	if err := s.access.EnsureRelationship(ctx, relationshipID, userID); err != nil {
		return pagination.List[*models.TimelineEntry]{}, err
	}

	var (
		items []*models.TimelineEntry
		total int
	)
	err := s.store.Tx(ctx, dbx.ReadOnlySnapshot, func(ctx context.Context, r *repository.Repositories) error {
		var err error
		if items, err = r.Timeline.List(ctx, relationshipID, userID, f, page); err != nil {
			return err
		}
		total, err = r.Timeline.Count(ctx, relationshipID, userID, f)
		return err
	})
	if err != nil {
		return pagination.List[*models.TimelineEntry]{}, err
	}
	return pagination.NewList(items, page, total), nil
}

// Create records an entry authored by userID
func (s *TimelineService) Create(ctx context.Context, userID, relationshipID string, e *models.TimelineEntry) (*models.TimelineEntry, error) {
	if err := s.access.EnsureRelationship(ctx, relationshipID, userID); err != nil {
		return nil, err
	}
	if e.RelationshipID != relationshipID {
		return nil, apperr.BadRequest(msgRelationshipMismatch, nil)
	}

	e.ID = uuid.New().String()
	e.UserID = userID
	if err := s.store.Timeline.Create(ctx, e); err != nil {
		return nil, err
	}
	created, err := s.store.Timeline.GetByID(ctx, e.ID)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, events.TimelineEntryCreated, created, created)
	return created, nil
}

func (s *TimelineService) Get(ctx context.Context, userID, id string) (*models.TimelineEntry, error) {
	if _, err := s.access.EnsureTimelineEntry(ctx, id, userID, false); err != nil {
		return nil, err
	}
	return s.store.Timeline.GetByID(ctx, id)
}

// Update is restricted to the entry's author
func (s *TimelineService) Update(ctx context.Context, userID, id string, patch models.TimelineEntryPatch) (*models.TimelineEntry, error) {
	if _, err := s.access.EnsureTimelineEntry(ctx, id, userID, true); err != nil {
		return nil, err
	}
	e, err := s.store.Timeline.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, events.TimelineEntryUpdated, e, e)
	return e, nil
}

// Delete is restricted to the entry's author
func (s *TimelineService) Delete(ctx context.Context, userID, id string) error {
	relationshipID, err := s.access.EnsureTimelineEntry(ctx, id, userID, true)
	if err != nil {
		return err
	}

	var e *models.TimelineEntry
	if s.events != nil {
		if e, err = s.store.Timeline.GetByID(ctx, id); err != nil {
			return err
		}
	}
	if err := s.store.Timeline.Delete(ctx, id); err != nil {
		return err
	}

	if e == nil {
		e = &models.TimelineEntry{ID: id, RelationshipID: relationshipID, UserID: userID}
	}
	s.notify(ctx, events.TimelineEntryDeleted, e, map[string]string{"id": id})
	return nil
}

func (s *TimelineService) notify(ctx context.Context, t events.Type, e *models.TimelineEntry, data any) {
	if s.events == nil {
		return
	}
	publish(ctx, s.events, events.New(t, e.RelationshipID, e.UserID, s.recipients(ctx, e), data))
}

func (s *TimelineService) recipients(ctx context.Context, e *models.TimelineEntry) []string {
	if e.IsPrivate {
		return []string{e.UserID}
	}
	partners, err := s.store.Relationships.Partners(ctx, e.RelationshipID)
	if err != nil {
		return []string{e.UserID}
	}
	return partners
}
