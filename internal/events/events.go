package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Event types published after a successful write.
const (
	TypeDeleted       = "deleted"
	TypeUpdated       = "updated"
	TypeUploaded      = "uploaded"
	TypePurchased     = "purchased"
	TypeArtistCreated = "artist_created"
)

const publishTimeout = 2 * time.Second

type Event struct {
	ID       string    `json:"id"`
	Type     string    `json:"type"`
	Entity   string    `json:"entity"`
	EntityID int       `json:"entityId,omitempty"`
	UserID   int       `json:"userId,omitempty"`
	At       time.Time `json:"at"`
}

func New(eventType, entity string, entityID, userID int) Event {
	return Event{
		ID:       uuid.NewString(),
		Type:     eventType,
		Entity:   entity,
		EntityID: entityID,
		UserID:   userID,
		At:       time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Emit publishes e and only logs failures. The write it describes has
// already happened upstream, so the caller's response never depends on it.
func Emit(ctx context.Context, p Publisher, e Event) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := p.Publish(ctx, e); err != nil {
		slog.Warn("Publishing event failed", "type", e.Type, "entity", e.Entity, "entityId", e.EntityID, "error", err)
		return
	}
	slog.Debug("Published event", "id", e.ID, "type", e.Type, "entity", e.Entity, "entityId", e.EntityID)
}

// Nop drops every event. Used when no brokers are configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }
