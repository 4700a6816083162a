package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-notify/internal/domain"
	"github.com/spec-kit/ticket-notify/internal/events"
	"github.com/spec-kit/ticket-notify/internal/repository"
	util "github.com/spec-kit/ticket-notify/pkg/util/errorutil"
)

// TicketEventService is the lifecycle trigger API used by ticket-management
// code. It records status history and publishes lifecycle events; it never
// mutates ticket state itself.
type TicketEventService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewTicketEventService constructs the service.
func NewTicketEventService(tickets repository.TicketRepository, dispatcher events.Dispatcher, logger *zap.Logger) *TicketEventService {
	return &TicketEventService{tickets: tickets, dispatcher: dispatcher, logger: logger}
}

// StatusChangeInput carries one ticket status transition.
type StatusChangeInput struct {
	TicketID      string
	Title         string
	CustomerID    string
	CustomerName  string
	CustomerPhone string
	OldStatus     domain.TicketStatus
	NewStatus     domain.TicketStatus
	Priority      domain.TicketPriority
	AssigneeName  string
	ETA           string
}

// AssignmentInput carries one assignment notification request.
type AssignmentInput struct {
	TicketID      string
	Title         string
	CustomerName  string
	AssigneeName  string
	AssigneePhone string
	Priority      domain.TicketPriority
	ETA           string
}

// ChangeStatus records the transition and publishes the lifecycle event. The
// history write is best-effort: a failed audit entry never blocks the
// notification flow.
func (s *TicketEventService) ChangeStatus(ctx context.Context, input StatusChangeInput) error {
	missing := map[string]any{}
	if strings.TrimSpace(input.TicketID) == "" {
		missing["ticket_id"] = "required"
	}
	if input.NewStatus == "" {
		missing["new_status"] = "required"
	}
	if strings.TrimSpace(input.CustomerPhone) == "" {
		missing["customer_phone"] = "required"
	}
	if len(missing) > 0 {
		return util.NewValidationError("missing required fields", missing)
	}

	if s.tickets != nil {
		change := &domain.TicketStatusChange{
			TicketID:  input.TicketID,
			OldStatus: input.OldStatus,
			NewStatus: input.NewStatus,
		}
		if err := s.tickets.RecordStatusChange(ctx, change); err != nil {
			s.logger.Warn("status history write failed",
				zap.String("ticket_id", input.TicketID),
				zap.Error(err))
		}
	}

	return s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTicketStatusChanged,
		TicketID:  input.TicketID,
		Timestamp: time.Now().UTC(),
		Payload: events.TicketStatusChangedPayload{
			Title:         input.Title,
			OldStatus:     input.OldStatus,
			NewStatus:     input.NewStatus,
			CustomerID:    input.CustomerID,
			CustomerName:  input.CustomerName,
			CustomerPhone: input.CustomerPhone,
			Priority:      input.Priority,
			AssigneeName:  input.AssigneeName,
			ETA:           input.ETA,
		},
	})
}

// Assign publishes the assignment event addressed to the assignee.
func (s *TicketEventService) Assign(ctx context.Context, input AssignmentInput) error {
	missing := map[string]any{}
	if strings.TrimSpace(input.TicketID) == "" {
		missing["ticket_id"] = "required"
	}
	if strings.TrimSpace(input.AssigneePhone) == "" {
		missing["assignee_phone"] = "required"
	}
	if len(missing) > 0 {
		return util.NewValidationError("missing required fields", missing)
	}

	return s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTicketAssigned,
		TicketID:  input.TicketID,
		Timestamp: time.Now().UTC(),
		Payload: events.TicketAssignedPayload{
			Title:         input.Title,
			CustomerName:  input.CustomerName,
			AssigneeName:  input.AssigneeName,
			AssigneePhone: input.AssigneePhone,
			Priority:      input.Priority,
			ETA:           input.ETA,
		},
	})
}
