package handlers

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-notify/internal/config"
	"github.com/spec-kit/ticket-notify/internal/domain"
	"github.com/spec-kit/ticket-notify/internal/observability"
	"github.com/spec-kit/ticket-notify/internal/repository"
	"github.com/spec-kit/ticket-notify/internal/service"
	util "github.com/spec-kit/ticket-notify/pkg/util/errorutil"
)

type stubContactRepo struct{ contacts []domain.Contact }

func (s *stubContactRepo) FindByPhoneCandidates(_ context.Context, candidates []string) ([]domain.Contact, error) {
	var result []domain.Contact
	for _, contact := range s.contacts {
		for _, candidate := range candidates {
			if strings.Contains(contact.Phone, candidate) {
				result = append(result, contact)
				break
			}
		}
	}
	return result, nil
}

type stubTicketRepo struct{ ticket *domain.Ticket }

func (s *stubTicketRepo) GetByID(_ context.Context, _ string) (*domain.Ticket, error) {
	if s.ticket == nil {
		return nil, pgx.ErrNoRows
	}
	return s.ticket, nil
}

func (s *stubTicketRepo) MostRecentRatableByCustomer(_ context.Context, _ string) (*domain.Ticket, error) {
	if s.ticket == nil || !s.ticket.Status.Ratable() {
		return nil, pgx.ErrNoRows
	}
	return s.ticket, nil
}

func (s *stubTicketRepo) RecordStatusChange(_ context.Context, _ *domain.TicketStatusChange) error {
	return nil
}

type stubRatingRepo struct {
	created  int
	existing map[string]bool
}

func (s *stubRatingRepo) Exists(_ context.Context, ticketID string) (bool, error) {
	return s.existing[ticketID], nil
}

func (s *stubRatingRepo) Create(_ context.Context, rating *domain.Rating) error {
	if s.existing[rating.TicketID] {
		return util.NewDuplicate("rating", nil)
	}
	if s.existing == nil {
		s.existing = map[string]bool{}
	}
	s.existing[rating.TicketID] = true
	s.created++
	rating.ID = "rating-1"
	rating.CreatedAt = time.Now()
	return nil
}

func (s *stubRatingRepo) GetByTicket(_ context.Context, _ string) (*domain.Rating, error) {
	return nil, pgx.ErrNoRows
}

func (s *stubRatingRepo) ListByCustomer(_ context.Context, _ string, _, _ int) ([]domain.Rating, error) {
	return nil, nil
}

func (s *stubRatingRepo) Stats(_ context.Context) (*domain.RatingStats, error) {
	return &domain.RatingStats{}, nil
}

type dropSender struct{}

func (dropSender) Send(_ context.Context, _, _ string, _ []string) (string, error) {
	return "SM1", nil
}

var _ repository.ContactRepository = (*stubContactRepo)(nil)
var _ repository.TicketRepository = (*stubTicketRepo)(nil)
var _ repository.RatingRepository = (*stubRatingRepo)(nil)

func newWebhookApp(ratingRepo *stubRatingRepo) *fiber.App {
	ratings := service.NewRatingService(service.RatingDependencies{
		RatingRepo: ratingRepo,
		Logger:     zap.NewNop(),
		Metrics:    observability.NewMetrics(),
	})
	replies := service.NewReplyService(service.ReplyDependencies{
		ContactRepo: &stubContactRepo{contacts: []domain.Contact{{ID: "ct-1", CustomerID: "C-1", Phone: "918639224022"}}},
		TicketRepo: &stubTicketRepo{ticket: &domain.Ticket{
			ID:         "T-101",
			Status:     domain.TicketStatusClosed,
			CustomerID: "C-1",
			UpdatedAt:  time.Now(),
		}},
		Ratings:   ratings,
		Sender:    dropSender{},
		Messaging: config.MessagingConfig{DefaultCountryCode: "91"},
		Logger:    zap.NewNop(),
		Metrics:   observability.NewMetrics(),
	})

	app := fiber.New()
	handler := NewWebhookHandler(replies, zap.NewNop())
	app.Get("/webhooks/whatsapp", handler.Verify)
	app.Post("/webhooks/whatsapp", handler.Receive)
	return app
}

func TestWebhookVerifyEchoesChallenge(t *testing.T) {
	app := newWebhookApp(&stubRatingRepo{})

	resp, err := app.Test(httptest.NewRequest("GET", "/webhooks/whatsapp?hub.challenge=abc123", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "abc123", string(body))
}

func TestWebhookVerifyDefaultsToOK(t *testing.T) {
	app := newWebhookApp(&stubRatingRepo{})

	resp, err := app.Test(httptest.NewRequest("GET", "/webhooks/whatsapp", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "OK", string(body))
}

func TestWebhookAcknowledgesValidRating(t *testing.T) {
	ratingRepo := &stubRatingRepo{}
	app := newWebhookApp(ratingRepo)

	form := "Body=5&From=whatsapp%3A%2B918639224022&To=whatsapp%3A%2B14155238886"
	req := httptest.NewRequest("POST", "/webhooks/whatsapp", strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, string(body), `"outcome":"recorded"`)
	assert.Equal(t, 1, ratingRepo.created)
}

func TestWebhookAcknowledgesInvalidInputWith200(t *testing.T) {
	app := newWebhookApp(&stubRatingRepo{})

	form := "Body=9&From=whatsapp%3A%2B918639224022&To=whatsapp%3A%2B14155238886"
	req := httptest.NewRequest("POST", "/webhooks/whatsapp", strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, string(body), `"outcome":"invalid_input"`)
}

func TestWebhookAcknowledgesDuplicateWith200(t *testing.T) {
	ratingRepo := &stubRatingRepo{existing: map[string]bool{"T-101": true}}
	app := newWebhookApp(ratingRepo)

	form := "Body=5&From=whatsapp%3A%2B918639224022&To=whatsapp%3A%2B14155238886"
	req := httptest.NewRequest("POST", "/webhooks/whatsapp", strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, string(body), `"outcome":"duplicate"`)
	assert.Equal(t, 0, ratingRepo.created)
}
