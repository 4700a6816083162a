package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-notify/internal/config"
	"github.com/spec-kit/ticket-notify/internal/domain"
	"github.com/spec-kit/ticket-notify/internal/messaging"
	"github.com/spec-kit/ticket-notify/internal/observability"
	"github.com/spec-kit/ticket-notify/internal/phone"
	"github.com/spec-kit/ticket-notify/internal/repository"
	util "github.com/spec-kit/ticket-notify/pkg/util/errorutil"
)

// ReplyOutcome is the terminal state of one inbound reply.
type ReplyOutcome string

const (
	ReplyOutcomeInvalidInput ReplyOutcome = "invalid_input"
	ReplyOutcomeUnresolved   ReplyOutcome = "unresolved"
	ReplyOutcomeDuplicate    ReplyOutcome = "duplicate"
	ReplyOutcomeRecorded     ReplyOutcome = "recorded"
	ReplyOutcomeError        ReplyOutcome = "error"
)

// InboundReply mirrors the messaging channel webhook fields.
type InboundReply struct {
	Body string
	From string
	To   string
}

// ReplyService resolves unstructured inbound replies into rating records.
type ReplyService struct {
	contacts    repository.ContactRepository
	tickets     repository.TicketRepository
	ratings     *RatingService
	sender      messaging.Sender
	countryCode string
	logger      *zap.Logger
	metrics     *observability.Metrics
}

// ReplyDependencies bundles collaborators for the resolver.
type ReplyDependencies struct {
	ContactRepo repository.ContactRepository
	TicketRepo  repository.TicketRepository
	Ratings     *RatingService
	Sender      messaging.Sender
	Messaging   config.MessagingConfig
	Logger      *zap.Logger
	Metrics     *observability.Metrics
}

// NewReplyService constructs the resolver.
func NewReplyService(deps ReplyDependencies) *ReplyService {
	return &ReplyService{
		contacts:    deps.ContactRepo,
		tickets:     deps.TicketRepo,
		ratings:     deps.Ratings,
		sender:      deps.Sender,
		countryCode: deps.Messaging.DefaultCountryCode,
		logger:      deps.Logger,
		metrics:     deps.Metrics,
	}
}

// HandleInbound runs the reply state machine. Every terminal state is a
// normal outcome for the webhook caller; only the internal error terminal
// also returns an error for the operator report.
func (s *ReplyService) HandleInbound(ctx context.Context, reply InboundReply) (ReplyOutcome, error) {
	outcome, err := s.resolve(ctx, reply)
	s.metrics.RecordReplyOutcome(string(outcome))
	s.logger.Info("inbound reply resolved",
		zap.String("from", reply.From),
		zap.String("outcome", string(outcome)))
	return outcome, err
}

func (s *ReplyService) resolve(ctx context.Context, reply InboundReply) (ReplyOutcome, error) {
	score, err := strconv.Atoi(strings.TrimSpace(reply.Body))
	if err != nil || score < domain.RatingMin || score > domain.RatingMax {
		s.ack(ctx, reply.From, ComposeInvalidRatingReply())
		return ReplyOutcomeInvalidInput, nil
	}

	ticket, err := s.resolveTicket(ctx, reply.From)
	if err != nil {
		if util.IsNotFound(err) {
			s.ack(ctx, reply.From, ComposeTicketNotFoundReply())
			return ReplyOutcomeUnresolved, nil
		}
		s.ack(ctx, reply.From, ComposeApologyReply())
		return ReplyOutcomeError, err
	}

	exists, err := s.ratings.Exists(ctx, ticket.ID)
	if err != nil {
		s.ack(ctx, reply.From, ComposeApologyReply())
		return ReplyOutcomeError, err
	}
	if exists {
		s.ack(ctx, reply.From, ComposeAlreadyRatedReply())
		return ReplyOutcomeDuplicate, nil
	}

	_, err = s.ratings.Create(ctx, RatingCreateInput{
		TicketID:   ticket.ID,
		CustomerID: ticket.CustomerID,
		Rating:     score,
		Phone:      phone.Digits(reply.From),
		Source:     domain.RatingSourceWhatsApp,
	})
	if err != nil {
		// a concurrent create winning the race is the same as exists==true
		if util.IsDuplicate(err) {
			s.ack(ctx, reply.From, ComposeAlreadyRatedReply())
			return ReplyOutcomeDuplicate, nil
		}
		s.ack(ctx, reply.From, ComposeApologyReply())
		return ReplyOutcomeError, err
	}

	s.ack(ctx, reply.From, ComposeThankYouReply(score))
	return ReplyOutcomeRecorded, nil
}

// resolveTicket finds the single most relevant open-for-rating ticket: the
// most recently updated eligible ticket per matched contact, then the most
// recent across all matched contacts.
func (s *ReplyService) resolveTicket(ctx context.Context, from string) (*domain.Ticket, error) {
	candidates := phone.Candidates(from)
	if len(candidates) == 0 {
		return nil, util.NewNotFound("ticket", map[string]any{"from": from})
	}

	contacts, err := s.contacts.FindByPhoneCandidates(ctx, candidates)
	if err != nil {
		return nil, err
	}
	if len(contacts) == 0 {
		return nil, util.NewNotFound("ticket", map[string]any{"from": from})
	}

	var best *domain.Ticket
	for _, contact := range contacts {
		ticket, err := s.tickets.MostRecentRatableByCustomer(ctx, contact.CustomerID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				continue
			}
			return nil, err
		}
		if best == nil || ticket.UpdatedAt.After(best.UpdatedAt) {
			best = ticket
		}
	}
	if best == nil {
		return nil, util.NewNotFound("ticket", map[string]any{"from": from})
	}
	return best, nil
}

// ack sends a customer-facing reply. Failures are logged only: an ack that
// cannot be delivered never converts a resolved outcome into an error.
func (s *ReplyService) ack(ctx context.Context, to, body string) {
	address, err := phone.FormatOutbound(to, s.countryCode)
	if err != nil {
		s.logger.Warn("ack skipped: invalid phone", zap.String("to", to), zap.Error(err))
		return
	}
	if _, err := s.sender.Send(ctx, address, body, nil); err != nil {
		s.logger.Warn("ack send failed", zap.String("to", address), zap.Error(err))
	}
}
