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

const msgRelationshipMismatch = "Relationship ID in body does not match the URL"

// MilestoneService handles milestone business logic
type MilestoneService struct {
	store  *repository.Store
	access *Access
	events events.Publisher
}

func NewMilestoneService(store *repository.Store, access *Access, pub events.Publisher) *MilestoneService {
	return &MilestoneService{store: store, access: access, events: pub}
}

func (s *MilestoneService) List(ctx context.Context, userID, relationshipID string, f models.MilestoneFilter, page pagination.Params) (pagination.List[*models.Milestone], error) {
	if err := s.access.EnsureRelationship(ctx, relationshipID, userID); err != nil {
		return pagination.List[*models.Milestone]{}, err
	}

	var (
		items []*models.Milestone
		total int
	)
	err := s.store.Tx(ctx, dbx.ReadOnlySnapshot, func(ctx context.Context, r *repository.Repositories) error {
		var err error
		if items, err = r.Milestones.List(ctx, relationshipID, f, page); err != nil {
			return err
		}
		total, err = r.Milestones.Count(ctx, relationshipID, f)
		return err
	})
	if err != nil {
		return pagination.List[*models.Milestone]{}, err
	}
	return pagination.NewList(items, page, total), nil
}

// Create records a milestone under relationshipID; m.RelationshipID must agree
func (s *MilestoneService) Create(ctx context.Context, userID, relationshipID string, m *models.Milestone) (*models.Milestone, error) {
	if err := s.access.EnsureRelationship(ctx, relationshipID, userID); err != nil {
		return nil, err
	}
	if m.RelationshipID != relationshipID {
		return nil, apperr.BadRequest(msgRelationshipMismatch, nil)
	}

	m.ID = uuid.New().String()
	if err := s.store.Milestones.Create(ctx, m); err != nil {
		return nil, err
	}

	s.notify(ctx, events.MilestoneCreated, relationshipID, userID, m)
	return m, nil
}

func (s *MilestoneService) Get(ctx context.Context, userID, id string) (*models.Milestone, error) {
	if _, err := s.access.EnsureMilestone(ctx, id, userID); err != nil {
		return nil, err
	}
	return s.store.Milestones.GetByID(ctx, id)
}

func (s *MilestoneService) Update(ctx context.Context, userID, id string, patch models.MilestonePatch) (*models.Milestone, error) {
	relationshipID, err := s.access.EnsureMilestone(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	m, err := s.store.Milestones.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, events.MilestoneUpdated, relationshipID, userID, m)
	return m, nil
}

func (s *MilestoneService) Delete(ctx context.Context, userID, id string) error {
	relationshipID, err := s.access.EnsureMilestone(ctx, id, userID)
	if err != nil {
		return err
	}
	if err := s.store.Milestones.Delete(ctx, id); err != nil {
		return err
	}

	s.notify(ctx, events.MilestoneDeleted, relationshipID, userID, map[string]string{"id": id})
	return nil
}

func (s *MilestoneService) notify(ctx context.Context, t events.Type, relationshipID, userID string, data any) {
	if s.events == nil {
		return
	}
	partners, err := s.store.Relationships.Partners(ctx, relationshipID)
	if err != nil {
		partners = []string{userID}
	}
	publish(ctx, s.events, events.New(t, relationshipID, userID, partners, data))
}
