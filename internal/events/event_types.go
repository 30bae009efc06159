package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventProductCreated       EventType = "product_created"
	EventProductImageReplaced EventType = "product_image_replaced"
	EventProductDeleted       EventType = "product_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ProductID string      `json:"product_id"`
	ActorID   string      `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ProductCreatedPayload payload.
type ProductCreatedPayload struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// ProductImageReplacedPayload names the hosted image that is no longer referenced.
type ProductImageReplacedPayload struct {
	OldImageURL string `json:"old_image_url"`
	OldPublicID string `json:"old_public_id"`
	NewImageURL string `json:"new_image_url"`
}

// ProductDeletedPayload payload.
type ProductDeletedPayload struct {
	PublicID string `json:"public_id,omitempty"`
}
