package services

import (
	"context"

	"couple-journal-backend/internal/events"

	"github.com/rs/zerolog/log"
)

// publish emits e after a successful write; delivery failures never fail the request
func publish(ctx context.Context, pub events.Publisher, e events.Event) {
	if pub == nil {
		return
	}
	if err := pub.Publish(context.WithoutCancel(ctx), e); err != nil {
		log.Warn().
			Err(err).
			Str("event", string(e.Type)).
			Str("relationship_id", e.RelationshipID).
			Msg("Failed to publish event")
	}
}
