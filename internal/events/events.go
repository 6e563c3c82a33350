// Package events fans out journal changes to interested partners: live over
// websockets and, optionally, to a RabbitMQ topic exchange.
package events

import (
	"context"
	"errors"
	"time"
)

// Type names a change; it doubles as the AMQP routing key
type Type string

const (
	RelationshipCreated  Type = "relationship_created"
	RelationshipUpdated  Type = "relationship_updated"
	RelationshipDeleted  Type = "relationship_deleted"
	MilestoneCreated     Type = "milestone_created"
	MilestoneUpdated     Type = "milestone_updated"
	MilestoneDeleted     Type = "milestone_deleted"
	TimelineEntryCreated Type = "timeline_entry_created"
	TimelineEntryUpdated Type = "timeline_entry_updated"
	TimelineEntryDeleted Type = "timeline_entry_deleted"
)

// Event is one change delivered to Recipients
type Event struct {
	Type           Type      `json:"type"`
	RelationshipID string    `json:"relationshipId"`
	ActorID        string    `json:"actorId"`
	Recipients     []string  `json:"recipients"`
	Data           any       `json:"data,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

func New(t Type, relationshipID, actorID string, recipients []string, data any) Event {
	return Event{
		Type:           t,
		RelationshipID: relationshipID,
		ActorID:        actorID,
		Recipients:     recipients,
		Data:           data,
		Timestamp:      time.Now().UTC(),
	}
}

// Publisher delivers events
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Multi publishes to every publisher and joins their errors
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop discards events
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
