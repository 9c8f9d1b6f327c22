package events

import (
	"context"
	"time"
)

// Event types published by the design workflow
const (
	SessionCreated   = "session.created"
	SessionDeleted   = "session.deleted"
	RoomTypeSelected = "room_type.selected"
	ThemeSelected    = "theme.selected"
	DimensionsSet    = "dimensions.set"
	FurnitureAdded   = "furniture.added"
	FurnitureRemoved = "furniture.removed"
	PriceRangeSet    = "price_range.set"
	SearchCompleted  = "search.completed"
	SearchCleared    = "search.cleared"
	ImageGenerated   = "image.generated"
	SessionsPurged   = "sessions.purged"
)

// WorkflowEvent is one step transition of a design session
type WorkflowEvent struct {
	Type      string         `json:"type"`
	SessionID string         `json:"session_id"`
	At        time.Time      `json:"at"`
	Attrs     map[string]any `json:"attrs,omitempty"`
}

// New creates an event stamped with the current time
func New(eventType, sessionID string, attrs map[string]any) WorkflowEvent {
	return WorkflowEvent{
		Type:      eventType,
		SessionID: sessionID,
		At:        time.Now().UTC(),
		Attrs:     attrs,
	}
}

// Publisher delivers workflow events to downstream consumers
type Publisher interface {
	Publish(ctx context.Context, evt WorkflowEvent) error
	Close() error
}

// NoopPublisher drops every event
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, WorkflowEvent) error { return nil }

func (NoopPublisher) Close() error { return nil }
