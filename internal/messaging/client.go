// Package messaging sends outbound messages through a Twilio-style REST
// gateway and exposes the narrow Sender contract the rest of the service
// depends on.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-notify/internal/config"
	util "github.com/spec-kit/ticket-notify/pkg/util/errorutil"
)

// Sender delivers a message body (plus optional media) to a channel address.
// Implementations make a single best-effort attempt; retry policy belongs to
// the caller.
type Sender interface {
	Send(ctx context.Context, to, body string, mediaURLs []string) (string, error)
}

// Client talks to the messaging gateway REST API.
type Client struct {
	cfg        config.MessagingConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient constructs a gateway client with a bounded send timeout.
func NewClient(cfg config.MessagingConfig, logger *zap.Logger) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.SendTimeout()},
		logger:     logger,
	}
}

type messageResponse struct {
	SID          string `json:"sid"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
}

// Send posts the message and returns the gateway message identifier. After a
// successful send it fires a detached delivery-status check; that check never
// blocks or fails the send path.
func (c *Client) Send(ctx context.Context, to, body string, mediaURLs []string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.SendTimeout())
	defer cancel()

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", c.cfg.FromAddress)
	form.Set("Body", body)
	for _, media := range mediaURLs {
		form.Add("MediaUrl", media)
	}

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.cfg.APIBaseURL, c.cfg.AccountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", util.NewTransportFailure("build send request", err)
	}
	req.SetBasicAuth(c.cfg.AccountSID, c.cfg.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", util.NewTransportFailure("messaging gateway unreachable", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return "", util.NewTransportFailure("read gateway response", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", util.NewTransportFailure(
			fmt.Sprintf("messaging gateway rejected send: status %d: %s", resp.StatusCode, strings.TrimSpace(string(payload))), nil)
	}

	var message messageResponse
	if err := json.Unmarshal(payload, &message); err != nil {
		return "", util.NewTransportFailure("decode gateway response", err)
	}

	c.logger.Info("message sent",
		zap.String("to", to),
		zap.String("message_id", message.SID),
		zap.String("status", message.Status))

	go c.pollDeliveryStatus(message.SID)

	return message.SID, nil
}

// pollDeliveryStatus checks the delivery state once after a fixed delay,
// purely for observability. The outcome is logged and discarded.
func (c *Client) pollDeliveryStatus(messageID string) {
	if messageID == "" {
		return
	}
	time.Sleep(c.cfg.StatusPollDelay())

	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.SendTimeout())
	defer cancel()

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages/%s.json", c.cfg.APIBaseURL, c.cfg.AccountSID, messageID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.logger.Debug("delivery status request build failed", zap.String("message_id", messageID), zap.Error(err))
		return
	}
	req.SetBasicAuth(c.cfg.AccountSID, c.cfg.AuthToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("delivery status check failed", zap.String("message_id", messageID), zap.Error(err))
		return
	}
	defer resp.Body.Close()

	var message messageResponse
	if err := json.NewDecoder(resp.Body).Decode(&message); err != nil {
		c.logger.Debug("delivery status decode failed", zap.String("message_id", messageID), zap.Error(err))
		return
	}

	c.logger.Info("delivery status",
		zap.String("message_id", messageID),
		zap.String("status", message.Status),
		zap.String("error_message", message.ErrorMessage))
}
