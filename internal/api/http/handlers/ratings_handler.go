package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-notify/internal/api/dto"
	"github.com/spec-kit/ticket-notify/internal/domain"
	"github.com/spec-kit/ticket-notify/internal/service"
	util "github.com/spec-kit/ticket-notify/pkg/util/errorutil"
)

// RatingsHandler exposes the rating query/creation API used by the web form.
type RatingsHandler struct {
	service *service.RatingService
}

// NewRatingsHandler constructs handler.
func NewRatingsHandler(ratingService *service.RatingService) *RatingsHandler {
	return &RatingsHandler{service: ratingService}
}

// Create POST /ratings.
func (h *RatingsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateRatingRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	source := domain.RatingSource(req.Source)
	if source == "" {
		source = domain.RatingSourceWeb
	}

	rating, err := h.service.Create(c.Context(), service.RatingCreateInput{
		TicketID:   req.TicketID,
		CustomerID: req.CustomerID,
		Rating:     req.Rating,
		Feedback:   req.Feedback,
		Phone:      req.Phone,
		Source:     source,
	})
	if err != nil {
		// an existing rating is a soft success for the end user
		if util.IsDuplicate(err) {
			return c.JSON(fiber.Map{"data": fiber.Map{"status": "already_rated", "ticket_id": req.TicketID}})
		}
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": ratingResponse(rating)})
}

// GetByTicket GET /ratings/ticket/:ticketID.
func (h *RatingsHandler) GetByTicket(c *fiber.Ctx) error {
	rating, err := h.service.GetByTicket(c.Context(), c.Params("ticketID"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ratingResponse(rating)})
}

// ListByCustomer GET /ratings/customer/:customerID.
func (h *RatingsHandler) ListByCustomer(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	ratings, err := h.service.ListByCustomer(c.Context(), c.Params("customerID"), limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.RatingResponse, 0, len(ratings))
	for i := range ratings {
		items = append(items, ratingResponse(&ratings[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Stats GET /ratings/stats.
func (h *RatingsHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.RatingStatsResponse{
		Count:     stats.Count,
		Average:   stats.Average,
		Min:       stats.Min,
		Max:       stats.Max,
		Histogram: stats.Histogram,
	}})
}

func ratingResponse(rating *domain.Rating) dto.RatingResponse {
	return dto.RatingResponse{
		ID:            rating.ID,
		TicketID:      rating.TicketID,
		CustomerID:    rating.CustomerID,
		Rating:        rating.Rating,
		Feedback:      rating.Feedback,
		CustomerPhone: rating.CustomerPhone,
		Source:        rating.Source,
		CreatedAt:     rating.CreatedAt,
	}
}
