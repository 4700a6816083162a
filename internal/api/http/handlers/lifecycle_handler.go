package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-notify/internal/api/dto"
	"github.com/spec-kit/ticket-notify/internal/domain"
	"github.com/spec-kit/ticket-notify/internal/service"
	util "github.com/spec-kit/ticket-notify/pkg/util/errorutil"
)

// LifecycleHandler is the trigger API for ticket-management code.
type LifecycleHandler struct {
	service *service.TicketEventService
}

// NewLifecycleHandler constructs handler.
func NewLifecycleHandler(eventService *service.TicketEventService) *LifecycleHandler {
	return &LifecycleHandler{service: eventService}
}

// StatusChange POST /internal/lifecycle/status-change.
func (h *LifecycleHandler) StatusChange(c *fiber.Ctx) error {
	var req dto.StatusChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	err := h.service.ChangeStatus(c.Context(), service.StatusChangeInput{
		TicketID:      req.TicketID,
		Title:         req.Title,
		CustomerID:    req.CustomerID,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		OldStatus:     domain.TicketStatus(req.OldStatus),
		NewStatus:     domain.TicketStatus(req.NewStatus),
		Priority:      domain.TicketPriority(req.Priority),
		AssigneeName:  req.AssigneeName,
		ETA:           req.ETA,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"data": fiber.Map{"status": "accepted"}})
}

// Assignment POST /internal/lifecycle/assignment.
func (h *LifecycleHandler) Assignment(c *fiber.Ctx) error {
	var req dto.AssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	err := h.service.Assign(c.Context(), service.AssignmentInput{
		TicketID:      req.TicketID,
		Title:         req.Title,
		CustomerName:  req.CustomerName,
		AssigneeName:  req.AssigneeName,
		AssigneePhone: req.AssigneePhone,
		Priority:      domain.TicketPriority(req.Priority),
		ETA:           req.ETA,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"data": fiber.Map{"status": "accepted"}})
}
