package services

import (
	"context"
	"fmt"

	"couple-journal-backend/internal/apperr"
	"couple-journal-backend/internal/dbx"
	"couple-journal-backend/internal/events"
	"couple-journal-backend/internal/models"
	"couple-journal-backend/internal/pagination"
	"couple-journal-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	detailMilestones = 10
	detailTimeline   = 5
)

// RelationshipService handles relationship-related business logic
type RelationshipService struct {
	store  *repository.Store
	access *Access
	events events.Publisher
}

// NewRelationshipService creates a new relationship service
func NewRelationshipService(store *repository.Store, access *Access, pub events.Publisher) *RelationshipService {
	return &RelationshipService{store: store, access: access, events: pub}
}

// List returns the caller's relationships; the page and its total come from one snapshot
func (s *RelationshipService) List(ctx context.Context, userID string, f models.RelationshipFilter, page pagination.Params) (pagination.List[*models.RelationshipSummary], error) {
	var (
		items []*models.RelationshipSummary
		total int
	)
	err := s.store.Tx(ctx, dbx.ReadOnlySnapshot, func(ctx context.Context, r *repository.Repositories) error {
		var err error
		if items, err = r.Relationships.List(ctx, userID, f, page); err != nil {
			return err
		}
		total, err = r.Relationships.Count(ctx, userID, f)
		return err
	})
	if err != nil {
		return pagination.List[*models.RelationshipSummary]{}, err
	}
	return pagination.NewList(items, page, total), nil
}

// Create links the caller with a partner. Partner existence, the duplicate
// check and the insert run in one transaction; the partial unique index
// rejects a concurrent duplicate.
func (s *RelationshipService) Create(ctx context.Context, userID string, rel *models.Relationship) (*models.Relationship, error) {
	if rel.Partner2ID == userID {
		return nil, apperr.BadRequest("Cannot create relationship with yourself", nil)
	}
	rel.ID = uuid.New().String()
	rel.Partner1ID = userID

	var created *models.Relationship
	err := s.store.Tx(ctx, nil, func(ctx context.Context, r *repository.Repositories) error {
		exists, err := r.Users.Exists(ctx, rel.Partner2ID)
		if err != nil {
			return err
		}
		if !exists {
			return apperr.NotFound("Partner not found")
		}

		active, err := r.Relationships.ActiveBetween(ctx, userID, rel.Partner2ID)
		if err != nil {
			return err
		}
		if active {
			return apperr.Conflict("Active relationship already exists with this user", nil)
		}

		if err := r.Relationships.Create(ctx, rel); err != nil {
			return err
		}
		created, err = r.Relationships.GetByID(ctx, rel.ID)
		return err
	})
	if err != nil {
		if _, ok := repository.UniqueViolation(err); ok {
			return nil, apperr.Conflict("Active relationship already exists with this user", nil)
		}
		return nil, err
	}

	log.Info().
		Str("relationship_id", created.ID).
		Str("user_id", userID).
		Str("partner_id", created.Partner2ID).
		Msg("Relationship created")

	publish(ctx, s.events, events.New(events.RelationshipCreated, created.ID, userID,
		[]string{created.Partner1ID, created.Partner2ID}, created))
	return created, nil
}

// Get returns a relationship with the requested related collections
func (s *RelationshipService) Get(ctx context.Context, userID, id string, inc models.RelationshipIncludes) (*models.RelationshipDetail, error) {
	if err := s.access.EnsureRelationship(ctx, id, userID); err != nil {
		return nil, err
	}
	rel, err := s.store.Relationships.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &models.RelationshipDetail{Relationship: *rel}
	if inc.Settings {
		if detail.Settings, err = s.store.Settings.GetOrCreate(ctx, id); err != nil {
			return nil, err
		}
	}
	if inc.Milestones {
		if detail.Milestones, err = s.store.Milestones.Latest(ctx, id, detailMilestones); err != nil {
			return nil, err
		}
		if detail.Milestones == nil {
			detail.Milestones = []*models.Milestone{}
		}
	}
	if inc.RecentTimeline {
		if detail.RecentTimeline, err = s.store.Timeline.Recent(ctx, id, detailTimeline); err != nil {
			return nil, err
		}
		if detail.RecentTimeline == nil {
			detail.RecentTimeline = []*models.TimelineEntry{}
		}
	}
	return detail, nil
}

// Update applies a partial update; the resulting end date may not precede the start date
func (s *RelationshipService) Update(ctx context.Context, userID, id string, patch models.RelationshipPatch) (*models.Relationship, error) {
	if err := s.access.EnsureRelationship(ctx, id, userID); err != nil {
		return nil, err
	}

	var updated *models.Relationship
	err := s.store.Tx(ctx, nil, func(ctx context.Context, r *repository.Repositories) error {
		current, err := r.Relationships.GetByID(ctx, id)
		if err != nil {
			return err
		}
		start, end := current.StartDate, current.EndDate
		if patch.StartDate != nil {
			start = *patch.StartDate
		}
		if patch.EndDateSet {
			end = patch.EndDate
		}
		if end != nil && end.Before(start) {
			return apperr.Validation([]apperr.FieldError{{Field: "endDate", Message: "must not be before startDate"}})
		}

		updated, err = r.Relationships.Update(ctx, id, patch)
		return err
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.events, events.New(events.RelationshipUpdated, id, userID,
		[]string{updated.Partner1ID, updated.Partner2ID}, updated))
	return updated, nil
}

// Delete removes the relationship and everything recorded under it
func (s *RelationshipService) Delete(ctx context.Context, userID, id string) error {
	if err := s.access.EnsureRelationship(ctx, id, userID); err != nil {
		return err
	}
	var partners []string
	if s.events != nil {
		p, err := s.store.Relationships.Partners(ctx, id)
		if err != nil {
			return err
		}
		partners = p
	}
	if err := s.store.Relationships.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete relationship: %w", err)
	}

	log.Info().Str("relationship_id", id).Str("user_id", userID).Msg("Relationship deleted")
	publish(ctx, s.events, events.New(events.RelationshipDeleted, id, userID, partners, map[string]string{"id": id}))
	return nil
}

// Settings returns the relationship's settings, creating defaults on first access
func (s *RelationshipService) Settings(ctx context.Context, userID, id string) (*models.RelationshipSettings, error) {
	if err := s.access.EnsureRelationship(ctx, id, userID); err != nil {
		return nil, err
	}
	return s.store.Settings.GetOrCreate(ctx, id)
}

// UpdateSettings upserts the relationship's settings
func (s *RelationshipService) UpdateSettings(ctx context.Context, userID, id string, patch models.SettingsPatch) (*models.RelationshipSettings, error) {
	if err := s.access.EnsureRelationship(ctx, id, userID); err != nil {
		return nil, err
	}
	return s.store.Settings.Upsert(ctx, id, patch)
}
