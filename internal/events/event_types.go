package events

import (
	"time"

	"github.com/spec-kit/ticket-notify/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketAssigned      EventType = "ticket_assigned"
)

// Event represents a lifecycle event emitted by the trigger API.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketStatusChangedPayload carries everything the orchestrator needs to
// compose a customer notification without re-reading the ticket.
type TicketStatusChangedPayload struct {
	Title         string                `json:"title"`
	OldStatus     domain.TicketStatus   `json:"old_status"`
	NewStatus     domain.TicketStatus   `json:"new_status"`
	CustomerID    string                `json:"customer_id"`
	CustomerName  string                `json:"customer_name"`
	CustomerPhone string                `json:"customer_phone"`
	Priority      domain.TicketPriority `json:"priority,omitempty"`
	AssigneeName  string                `json:"assignee_name,omitempty"`
	ETA           string                `json:"eta,omitempty"`
}

// TicketAssignedPayload notifies the assignee, not the customer.
type TicketAssignedPayload struct {
	Title         string                `json:"title"`
	CustomerName  string                `json:"customer_name"`
	AssigneeName  string                `json:"assignee_name"`
	AssigneePhone string                `json:"assignee_phone"`
	Priority      domain.TicketPriority `json:"priority,omitempty"`
	ETA           string                `json:"eta,omitempty"`
}
