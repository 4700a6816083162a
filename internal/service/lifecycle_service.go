package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-notify/internal/config"
	"github.com/spec-kit/ticket-notify/internal/domain"
	"github.com/spec-kit/ticket-notify/internal/events"
	"github.com/spec-kit/ticket-notify/internal/messaging"
	"github.com/spec-kit/ticket-notify/internal/observability"
	"github.com/spec-kit/ticket-notify/internal/phone"
)

// LifecycleService maps ticket status transitions to outbound notifications.
// Notification failures are logged and swallowed here so that delivery never
// blocks or fails the status-change operation that triggered it.
type LifecycleService struct {
	sender       messaging.Sender
	ratings      *RatingService
	countryCode  string
	requestDelay time.Duration
	logger       *zap.Logger
	metrics      *observability.Metrics
}

// LifecycleDependencies bundles collaborators for the orchestrator.
type LifecycleDependencies struct {
	Sender       messaging.Sender
	Ratings      *RatingService
	Messaging    config.MessagingConfig
	RequestDelay time.Duration
	Logger       *zap.Logger
	Metrics      *observability.Metrics
}

// NewLifecycleService constructs the orchestrator.
func NewLifecycleService(deps LifecycleDependencies) *LifecycleService {
	delay := deps.RequestDelay
	if delay <= 0 {
		delay = 5 * time.Second
	}
	return &LifecycleService{
		sender:       deps.Sender,
		ratings:      deps.Ratings,
		countryCode:  deps.Messaging.DefaultCountryCode,
		requestDelay: delay,
		logger:       deps.Logger,
		metrics:      deps.Metrics,
	}
}

// HandleStatusChanged dispatches on the ticket's new status. It always
// returns nil: the caller's status change must never observe a notification
// failure.
func (s *LifecycleService) HandleStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketStatusChangedPayload)
	if !ok {
		s.logger.Warn("unexpected status change payload", zap.String("ticket_id", event.TicketID))
		return nil
	}

	notice := TicketNotice{
		TicketID:     event.TicketID,
		Title:        payload.Title,
		CustomerName: payload.CustomerName,
		Priority:     payload.Priority,
		AssigneeName: payload.AssigneeName,
		ETA:          payload.ETA,
	}

	switch payload.NewStatus {
	case domain.TicketStatusOpen, domain.TicketStatusReopened:
		s.notify(ctx, "opened", payload.CustomerPhone, ComposeOpened(notice))
	case domain.TicketStatusPending, domain.TicketStatusWaitingCustomer, domain.TicketStatusOnHold:
		s.notify(ctx, "pending", payload.CustomerPhone, ComposePending(notice))
	case domain.TicketStatusClosed, domain.TicketStatusResolved:
		s.notify(ctx, "closed", payload.CustomerPhone, ComposeClosed(notice))
		s.maybeScheduleRatingRequest(ctx, notice, payload.CustomerPhone)
	default:
		s.logger.Debug("no notification for status",
			zap.String("ticket_id", event.TicketID),
			zap.String("old_status", string(payload.OldStatus)),
			zap.String("new_status", string(payload.NewStatus)))
	}
	return nil
}

// HandleAssigned notifies the assignee, not the customer. Invoked by the
// assignment workflow directly rather than through the status dispatch table.
func (s *LifecycleService) HandleAssigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketAssignedPayload)
	if !ok {
		s.logger.Warn("unexpected assignment payload", zap.String("ticket_id", event.TicketID))
		return nil
	}

	notice := TicketNotice{
		TicketID:     event.TicketID,
		Title:        payload.Title,
		CustomerName: payload.CustomerName,
		Priority:     payload.Priority,
		AssigneeName: payload.AssigneeName,
		ETA:          payload.ETA,
	}
	s.notify(ctx, "assigned", payload.AssigneePhone, ComposeAssigned(notice))
	return nil
}

// notify makes a single best-effort delivery attempt. Failures are counted
// and logged, never propagated.
func (s *LifecycleService) notify(ctx context.Context, stage, rawPhone, body string) {
	address, err := phone.FormatOutbound(rawPhone, s.countryCode)
	if err != nil {
		s.metrics.RecordNotification(stage, false)
		s.logger.Warn("notification skipped: invalid phone",
			zap.String("stage", stage),
			zap.String("phone", rawPhone),
			zap.Error(err))
		return
	}

	if _, err := s.sender.Send(ctx, address, body, nil); err != nil {
		s.metrics.RecordNotification(stage, false)
		s.logger.Warn("notification send failed",
			zap.String("stage", stage),
			zap.String("to", address),
			zap.Error(err))
		return
	}
	s.metrics.RecordNotification(stage, true)
}

// maybeScheduleRatingRequest defers a standalone rating prompt. The scheduled
// task is not cancellable; it re-checks rating existence at fire time instead.
func (s *LifecycleService) maybeScheduleRatingRequest(ctx context.Context, notice TicketNotice, rawPhone string) {
	exists, err := s.ratings.Exists(ctx, notice.TicketID)
	if err != nil {
		s.logger.Warn("rating existence pre-check failed", zap.String("ticket_id", notice.TicketID), zap.Error(err))
	}
	if exists {
		return
	}

	time.AfterFunc(s.requestDelay, func() {
		// detached from the triggering call; bounded by its own timeout
		fireCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		exists, err := s.ratings.Exists(fireCtx, notice.TicketID)
		if err != nil {
			s.logger.Warn("rating existence re-check failed", zap.String("ticket_id", notice.TicketID), zap.Error(err))
			return
		}
		if exists {
			s.logger.Debug("rating request suppressed: already rated", zap.String("ticket_id", notice.TicketID))
			return
		}
		s.notify(fireCtx, "rating_request", rawPhone, ComposeRatingRequest(notice))
	})
}
