package services

import (
	"context"

	"couple-journal-backend/internal/dbx"
	"couple-journal-backend/internal/models"
	"couple-journal-backend/internal/pagination"
	"couple-journal-backend/internal/repository"

	"github.com/google/uuid"
)

// MoodService manages personal mood entries; every operation is owner-only
type MoodService struct {
	store  *repository.Store
	access *Access
}

func NewMoodService(store *repository.Store, access *Access) *MoodService {
	return &MoodService{store: store, access: access}
}

func (s *MoodService) List(ctx context.Context, userID string, f models.MoodFilter, page pagination.Params) (pagination.List[*models.MoodEntry], error) {
	var (
		items []*models.MoodEntry
		total int
	)
	err := s.store.Tx(ctx, dbx.ReadOnlySnapshot, func(ctx context.Context, r *repository.Repositories) error {
		var err error
		if items, err = r.Moods.List(ctx, userID, f, page); err != nil {
			return err
		}
		total, err = r.Moods.Count(ctx, userID, f)
		return err
	})
	if err != nil {
		return pagination.List[*models.MoodEntry]{}, err
	}
	return pagination.NewList(items, page, total), nil
}

func (s *MoodService) Create(ctx context.Context, userID string, e *models.MoodEntry) (*models.MoodEntry, error) {
	e.ID = uuid.New().String()
	e.UserID = userID
	if err := s.store.Moods.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *MoodService) Get(ctx context.Context, userID, id string) (*models.MoodEntry, error) {
	if err := s.access.EnsureMoodEntry(ctx, id, userID); err != nil {
		return nil, err
	}
	return s.store.Moods.GetByID(ctx, id)
}

func (s *MoodService) Update(ctx context.Context, userID, id string, patch models.MoodEntryPatch) (*models.MoodEntry, error) {
	if err := s.access.EnsureMoodEntry(ctx, id, userID); err != nil {
		return nil, err
	}
	return s.store.Moods.Update(ctx, id, patch)
}

func (s *MoodService) Delete(ctx context.Context, userID, id string) error {
	if err := s.access.EnsureMoodEntry(ctx, id, userID); err != nil {
		return err
	}
	return s.store.Moods.Delete(ctx, id)
}
