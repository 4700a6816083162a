package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-notify/internal/domain"
	"github.com/spec-kit/ticket-notify/internal/observability"
	"github.com/spec-kit/ticket-notify/internal/repository"
	util "github.com/spec-kit/ticket-notify/pkg/util/errorutil"
)

const ratingCacheKeyPrefix = "rating:ticket:"

// RatingService is the single creation/query path for ratings, shared by the
// web rating endpoint and the inbound reply resolver.
type RatingService struct {
	ratings  repository.RatingRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   *zap.Logger
	metrics  *observability.Metrics
}

// RatingDependencies bundles collaborators for the rating service.
type RatingDependencies struct {
	RatingRepo repository.RatingRepository
	Cache      *redis.Client
	CacheTTL   time.Duration
	Logger     *zap.Logger
	Metrics    *observability.Metrics
}

// RatingCreateInput describes a rating creation request.
type RatingCreateInput struct {
	TicketID   string
	CustomerID string
	Rating     int
	Feedback   *string
	Phone      string
	Source     domain.RatingSource
}

// NewRatingService constructs the service.
func NewRatingService(deps RatingDependencies) *RatingService {
	return &RatingService{
		ratings:  deps.RatingRepo,
		cache:    deps.Cache,
		cacheTTL: deps.CacheTTL,
		logger:   deps.Logger,
		metrics:  deps.Metrics,
	}
}

// Create validates and persists a rating. A uniqueness violation surfaces as
// a DUPLICATE domain error; callers treat it identically to Exists()==true.
func (s *RatingService) Create(ctx context.Context, input RatingCreateInput) (*domain.Rating, error) {
	missing := map[string]any{}
	if strings.TrimSpace(input.TicketID) == "" {
		missing["ticket_id"] = "required"
	}
	if strings.TrimSpace(input.CustomerID) == "" {
		missing["customer_id"] = "required"
	}
	if input.Rating == 0 {
		missing["rating"] = "required"
	}
	if strings.TrimSpace(input.Phone) == "" {
		missing["phone"] = "required"
	}
	if len(missing) > 0 {
		return nil, util.NewValidationError("missing required fields", missing)
	}
	if input.Rating < domain.RatingMin || input.Rating > domain.RatingMax {
		return nil, util.NewValidationError("rating must be between 1 and 5", map[string]any{"rating": input.Rating})
	}

	source := input.Source
	if source == "" {
		source = domain.RatingSourceWeb
	}

	rating := &domain.Rating{
		TicketID:      input.TicketID,
		CustomerID:    input.CustomerID,
		Rating:        input.Rating,
		Feedback:      input.Feedback,
		CustomerPhone: input.Phone,
		Source:        source,
	}
	if err := s.ratings.Create(ctx, rating); err != nil {
		return nil, err
	}

	s.cacheExists(ctx, rating.TicketID)
	s.metrics.RecordRating(string(source))
	s.logger.Info("rating recorded",
		zap.String("ticket_id", rating.TicketID),
		zap.Int("rating", rating.Rating),
		zap.String("source", string(source)))
	return rating, nil
}

// Exists reports whether a rating is already recorded for the ticket. The
// cache lookup is an optimization only; the ratings unique index remains the
// authority for concurrent creates.
func (s *RatingService) Exists(ctx context.Context, ticketID string) (bool, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, ratingCacheKeyPrefix+ticketID).Result()
		if err == nil && cached == "1" {
			return true, nil
		}
		if err != nil && !errors.Is(err, redis.Nil) {
			s.logger.Debug("rating cache read failed", zap.String("ticket_id", ticketID), zap.Error(err))
		}
	}

	exists, err := s.ratings.Exists(ctx, ticketID)
	if err != nil {
		return false, err
	}
	if exists {
		s.cacheExists(ctx, ticketID)
	}
	return exists, nil
}

// GetByTicket fetches the rating recorded for a ticket.
func (s *RatingService) GetByTicket(ctx context.Context, ticketID string) (*domain.Rating, error) {
	rating, err := s.ratings.GetByTicket(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("rating", map[string]any{"ticket_id": ticketID})
		}
		return nil, util.MapError(err)
	}
	return rating, nil
}

// ListByCustomer returns a customer's ratings, most recent first.
func (s *RatingService) ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]domain.Rating, error) {
	return s.ratings.ListByCustomer(ctx, customerID, limit, offset)
}

// Stats summarizes recorded ratings.
func (s *RatingService) Stats(ctx context.Context) (*domain.RatingStats, error) {
	return s.ratings.Stats(ctx)
}

func (s *RatingService) cacheExists(ctx context.Context, ticketID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, ratingCacheKeyPrefix+ticketID, "1", s.cacheTTL).Err(); err != nil {
		s.logger.Debug("rating cache write failed", zap.String("ticket_id", ticketID), zap.Error(err))
	}
}
