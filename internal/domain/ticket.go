package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets. Tickets are owned by
// the ticket-management system; this service only reads them and records
// status history.
type TicketStatus string

const (
	TicketStatusOpen            TicketStatus = "OPEN"
	TicketStatusReopened        TicketStatus = "REOPENED"
	TicketStatusAssigned        TicketStatus = "ASSIGNED"
	TicketStatusInProgress      TicketStatus = "IN_PROGRESS"
	TicketStatusPending         TicketStatus = "PENDING"
	TicketStatusWaitingCustomer TicketStatus = "WAITING_CUSTOMER"
	TicketStatusOnHold          TicketStatus = "ON_HOLD"
	TicketStatusClosed          TicketStatus = "CLOSED"
	TicketStatusResolved        TicketStatus = "RESOLVED"
	TicketStatusClosedPending   TicketStatus = "CLOSED_PENDING"
	TicketStatusCancelled       TicketStatus = "CANCELLED"
)

// RatableStatuses lists statuses that keep a ticket open for rating
// collection. Tickets in any other status are never matched by the inbound
// reply lookup.
var RatableStatuses = []TicketStatus{
	TicketStatusClosed,
	TicketStatusResolved,
	TicketStatusPending,
	TicketStatusClosedPending,
}

// Ratable reports whether status permits rating collection.
func (s TicketStatus) Ratable() bool {
	for _, candidate := range RatableStatuses {
		if s == candidate {
			return true
		}
	}
	return false
}

// TicketPriority enumerates SLA urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "LOW"
	TicketPriorityMedium TicketPriority = "MEDIUM"
	TicketPriorityHigh   TicketPriority = "HIGH"
	TicketPriorityUrgent TicketPriority = "URGENT"
)

// Ticket is the read model for externally owned support tickets.
type Ticket struct {
	ID           string
	Title        string
	Status       TicketStatus
	CustomerID   string
	CustomerName string
	ContactPhone string
	Zone         string
	Priority     TicketPriority
	AssigneeName *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TicketStatusChange is an immutable history entry recorded per transition.
type TicketStatusChange struct {
	ID        string
	TicketID  string
	OldStatus TicketStatus
	NewStatus TicketStatus
	CreatedAt time.Time
}
