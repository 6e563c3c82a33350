package repository

import (
	"context"
	"fmt"

	"couple-journal-backend/internal/dbx"
	"couple-journal-backend/internal/models"

	"github.com/google/uuid"
)

// SettingsRepository stores per-relationship settings
type SettingsRepository struct {
	db dbx.DBTX
}

func NewSettingsRepository(db dbx.DBTX) *SettingsRepository {
	return &SettingsRepository{db: db}
}

const settingsColumns = `id, relationship_id, is_public, allow_mood_share, timezone, created_at, updated_at`

func scanSettings(row rowScanner) (*models.RelationshipSettings, error) {
	var s models.RelationshipSettings
	err := row.Scan(&s.ID, &s.RelationshipID, &s.IsPublic, &s.AllowMoodShare, &s.Timezone, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetOrCreate returns the settings of a relationship, creating the default
// row on first access. Concurrent callers observe the same row.
func (r *SettingsRepository) GetOrCreate(ctx context.Context, relationshipID string) (*models.RelationshipSettings, error) {
	q := `
		INSERT INTO relationship_settings (id, relationship_id)
		VALUES ($1, $2)
		ON CONFLICT (relationship_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, q, uuid.NewString(), relationshipID); err != nil {
		return nil, fmt.Errorf("failed to create settings: %w", err)
	}

	s, err := scanSettings(r.db.QueryRowContext(ctx,
		`SELECT `+settingsColumns+` FROM relationship_settings WHERE relationship_id = $1`, relationshipID))
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", notFound(err))
	}
	return s, nil
}

// Upsert creates or updates the settings; nil patch fields keep the stored
// value, or the default when the row is new.
func (r *SettingsRepository) Upsert(ctx context.Context, relationshipID string, patch models.SettingsPatch) (*models.RelationshipSettings, error) {
	q := `
		INSERT INTO relationship_settings (id, relationship_id, is_public, allow_mood_share, timezone)
		VALUES ($1, $2, COALESCE($3, FALSE), COALESCE($4, FALSE), COALESCE($5, 'UTC'))
		ON CONFLICT (relationship_id) DO UPDATE SET
			is_public = COALESCE($3, relationship_settings.is_public),
			allow_mood_share = COALESCE($4, relationship_settings.allow_mood_share),
			timezone = COALESCE($5, relationship_settings.timezone),
			updated_at = now()
		RETURNING ` + settingsColumns
	s, err := scanSettings(r.db.QueryRowContext(ctx, q,
		uuid.NewString(), relationshipID, patch.IsPublic, patch.AllowMoodShare, patch.Timezone))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert settings: %w", err)
	}
	return s, nil
}
