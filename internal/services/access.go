package services

import (
	"context"
	"errors"

	"couple-journal-backend/internal/apperr"
	"couple-journal-backend/internal/query"
	"couple-journal-backend/internal/repository"
)

const (
	msgRelationshipNotFound  = "Relationship not found"
	msgMilestoneNotFound     = "Milestone not found"
	msgMoodEntryNotFound     = "Mood entry not found"
	msgTimelineEntryNotFound = "Timeline entry not found"
	msgTimelineEntryNotOwned = "Timeline entry not found or you don't have permission to edit it"
)

// Access answers "may this user touch this record" with one query per check.
// A denied check is reported as NOT_FOUND so existence is never disclosed.
type Access struct {
	probe *repository.AccessRepository
}

func NewAccess(store *repository.Store) *Access {
	return &Access{probe: store.Access}
}

func (a *Access) check(ctx context.Context, column, from string, where *query.Builder, notFound string) (string, error) {
	v, err := a.probe.Probe(ctx, column, from, where)
	if errors.Is(err, repository.ErrNotFound) {
		return "", apperr.NotFound(notFound)
	}
	return v, err
}

// EnsureRelationship requires userID to be a partner of the relationship
func (a *Access) EnsureRelationship(ctx context.Context, relationshipID, userID string) error {
	_, err := a.check(ctx, "r.id", "relationships r",
		query.Where(query.Eq("r.id", relationshipID), repository.PartnerOf("r", userID)),
		msgRelationshipNotFound)
	return err
}

// EnsureMilestone requires userID to be a partner of the milestone's
// relationship and returns that relationship's id.
func (a *Access) EnsureMilestone(ctx context.Context, milestoneID, userID string) (string, error) {
	return a.check(ctx, "m.relationship_id", "milestones m JOIN relationships r ON r.id = m.relationship_id",
		query.Where(query.Eq("m.id", milestoneID), repository.PartnerOf("r", userID)),
		msgMilestoneNotFound)
}

// EnsureMoodEntry requires userID to own the entry
func (a *Access) EnsureMoodEntry(ctx context.Context, entryID, userID string) error {
	_, err := a.check(ctx, "e.id", "mood_entries e",
		query.Where(query.Eq("e.id", entryID), query.Eq("e.user_id", userID)),
		msgMoodEntryNotFound)
	return err
}

// EnsureTimelineEntry requires partner membership plus authorship when
// requireOwnership is set, or visibility otherwise. It returns the entry's
// relationship id.
func (a *Access) EnsureTimelineEntry(ctx context.Context, entryID, userID string, requireOwnership bool) (string, error) {
	where := query.Where(query.Eq("t.id", entryID), repository.PartnerOf("r", userID))
	msg := msgTimelineEntryNotFound
	if requireOwnership {
		where.And(query.Eq("t.user_id", userID))
		msg = msgTimelineEntryNotOwned
	} else {
		where.And(repository.Visible("t", userID))
	}
	return a.check(ctx, "t.relationship_id", "timeline_entries t JOIN relationships r ON r.id = t.relationship_id", where, msg)
}
