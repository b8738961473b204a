package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/kavi/kavi-backend/internal/cache"
	"github.com/kavi/kavi-backend/internal/websocket"
	"github.com/rs/zerolog/log"
)

// Invalidator drops a user's cached analytics after a write and tells their
// open dashboards to refetch.
type Invalidator struct {
	cache     *cache.Cache
	publisher websocket.EventPublisher
}

// NewInvalidator creates a new Invalidator. A nil publisher disables push.
func NewInvalidator(c *cache.Cache, publisher websocket.EventPublisher) *Invalidator {
	if publisher == nil {
		publisher = &websocket.NoOpPublisher{}
	}
	return &Invalidator{
		cache:     c,
		publisher: publisher,
	}
}

// Invalidate runs synchronously. Delete failures are logged; the entries
// they leave behind expire with their TTL.
func (i *Invalidator) Invalidate(ctx context.Context, userID uuid.UUID, businessID *uuid.UUID, reason string) {
	if err := i.cache.Invalidate(ctx, userID, businessID); err != nil {
		log.Error().Err(err).
			Str("user_id", userID.String()).
			Str("reason", reason).
			Msg("Failed to invalidate analytics cache")
	}
	i.publisher.Publish(userID, websocket.AnalyticsInvalidated(businessID, reason))
}

// Publish forwards an entity event to the user's connections
func (i *Invalidator) Publish(userID uuid.UUID, event websocket.Event) {
	i.publisher.Publish(userID, event)
}
