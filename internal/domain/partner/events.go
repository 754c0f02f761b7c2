package partner

import (
	"github.com/google/uuid"

	"github.com/fabworks/backend/internal/domain/shared"
)

// Event types for the partner context
const (
	EventClientCreated = "partner.client.created"
	EventClientMerged  = "partner.client.merged"
)

// ClientCreatedEvent is raised when a new client is registered
type ClientCreatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewClientCreatedEvent creates a new client created event
func NewClientCreatedEvent(c *Client) *ClientCreatedEvent {
	return &ClientCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventClientCreated, "Client", c.GetID()),
		Name:            c.Name,
	}
}

// ClientMergedEvent is raised when a duplicate client is merged away
type ClientMergedEvent struct {
	shared.BaseDomainEvent
	SurvivorID uuid.UUID `json:"survivor_id"`
}

// NewClientMergedEvent creates a new client merged event
func NewClientMergedEvent(c *Client, survivorID uuid.UUID) *ClientMergedEvent {
	return &ClientMergedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventClientMerged, "Client", c.GetID()),
		SurvivorID:      survivorID,
	}
}
