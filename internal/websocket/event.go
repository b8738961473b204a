package websocket

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventType represents what happened to an entity
type EventType string

const (
	EventTypeCreated     EventType = "created"
	EventTypeUpdated     EventType = "updated"
	EventTypeSent        EventType = "sent"
	EventTypePaid        EventType = "paid"
	EventTypeOverdue     EventType = "overdue"
	EventTypeInvalidated EventType = "invalidated"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeTransaction EntityType = "transaction"
	EntityTypeInvoice     EntityType = "invoice"
	EntityTypeBudget      EntityType = "budget"
	EntityTypeAnalytics   EntityType = "analytics"
)

// Event represents a WebSocket event message sent to clients
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`      // Combined type e.g. "invoice.paid"
	Entity    EntityType  `json:"entity"`    // Entity type e.g. "invoice"
	Payload   interface{} `json:"payload"`   // Entity data
	Timestamp time.Time   `json:"timestamp"` // Event timestamp
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// InvalidationPayload tells dashboards which scope to refetch
type InvalidationPayload struct {
	BusinessID *uuid.UUID `json:"businessId,omitempty"`
	Reason     string     `json:"reason"`
}

// AnalyticsInvalidated creates an analytics.invalidated event
func AnalyticsInvalidated(businessID *uuid.UUID, reason string) Event {
	return NewEvent(EventTypeInvalidated, EntityTypeAnalytics, InvalidationPayload{
		BusinessID: businessID,
		Reason:     reason,
	})
}

// TransactionCreated creates a transaction.created event
func TransactionCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeTransaction, payload)
}

// TransactionUpdated creates a transaction.updated event
func TransactionUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeTransaction, payload)
}

// InvoiceCreated creates an invoice.created event
func InvoiceCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeInvoice, payload)
}

// InvoiceUpdated creates an invoice.updated event
func InvoiceUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeInvoice, payload)
}

// InvoiceSent creates an invoice.sent event
func InvoiceSent(payload interface{}) Event {
	return NewEvent(EventTypeSent, EntityTypeInvoice, payload)
}

// InvoicePaid creates an invoice.paid event
func InvoicePaid(payload interface{}) Event {
	return NewEvent(EventTypePaid, EntityTypeInvoice, payload)
}

// InvoiceOverdue creates an invoice.overdue event
func InvoiceOverdue(payload interface{}) Event {
	return NewEvent(EventTypeOverdue, EntityTypeInvoice, payload)
}

// BudgetCreated creates a budget.created event
func BudgetCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeBudget, payload)
}

// BudgetUpdated creates a budget.updated event
func BudgetUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeBudget, payload)
}
