package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-notify/internal/api/dto"
	"github.com/spec-kit/ticket-notify/internal/service"
)

// WebhookHandler receives inbound messages from the messaging channel.
type WebhookHandler struct {
	replies *service.ReplyService
	logger  *zap.Logger
}

// NewWebhookHandler constructs handler.
func NewWebhookHandler(replies *service.ReplyService, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{replies: replies, logger: logger}
}

// Receive POST /webhooks/whatsapp. Always acknowledges with 200 so the
// channel does not retry delivery of a message that was already understood;
// internal failures are reported in the body and the logs only.
func (h *WebhookHandler) Receive(c *fiber.Ctx) error {
	var req dto.InboundMessageRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Warn("webhook payload parse failed", zap.Error(err))
		return c.JSON(fiber.Map{"status": "received", "outcome": "ignored"})
	}

	outcome, err := h.replies.HandleInbound(c.Context(), service.InboundReply{
		Body: req.Body,
		From: req.From,
		To:   req.To,
	})
	if err != nil {
		h.logger.Error("inbound reply processing failed",
			zap.String("from", req.From),
			zap.Error(err))
		return c.JSON(fiber.Map{
			"status":     "received",
			"outcome":    string(outcome),
			"error_code": "INTERNAL_ERROR",
		})
	}
	return c.JSON(fiber.Map{"status": "received", "outcome": string(outcome)})
}

// Verify GET /webhooks/whatsapp. Echoes the channel's verification challenge
// when present, otherwise returns a generic OK.
func (h *WebhookHandler) Verify(c *fiber.Ctx) error {
	if challenge := c.Query("hub.challenge"); challenge != "" {
		return c.SendString(challenge)
	}
	if challenge := c.Query("challenge"); challenge != "" {
		return c.SendString(challenge)
	}
	return c.SendString("OK")
}
