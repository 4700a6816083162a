package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/ticket-notify/internal/domain"
	util "github.com/spec-kit/ticket-notify/pkg/util/errorutil"
)

type sentMessage struct {
	To   string
	Body string
}

// fakeSender records outbound sends and can simulate transport failures.
type fakeSender struct {
	mu       sync.Mutex
	messages []sentMessage
	err      error
}

func (f *fakeSender) Send(_ context.Context, to, body string, _ []string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.messages = append(f.messages, sentMessage{To: to, Body: body})
	return fmt.Sprintf("SM%d", len(f.messages)), nil
}

func (f *fakeSender) sent() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage{}, f.messages...)
}

// fakeRatingRepo enforces the ticket_id uniqueness the real table carries.
type fakeRatingRepo struct {
	mu        sync.Mutex
	byTicket  map[string]*domain.Rating
	createErr error
	existsErr error
	// forceExistsFalse makes the pre-check miss, exercising the race where
	// the unique constraint is the only guard.
	forceExistsFalse bool
}

func newFakeRatingRepo() *fakeRatingRepo {
	return &fakeRatingRepo{byTicket: make(map[string]*domain.Rating)}
}

func (f *fakeRatingRepo) Exists(_ context.Context, ticketID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.existsErr != nil {
		return false, f.existsErr
	}
	if f.forceExistsFalse {
		return false, nil
	}
	_, ok := f.byTicket[ticketID]
	return ok, nil
}

func (f *fakeRatingRepo) Create(_ context.Context, rating *domain.Rating) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.byTicket[rating.TicketID]; ok {
		return util.NewDuplicate("rating", map[string]any{"ticket_id": rating.TicketID})
	}
	rating.ID = fmt.Sprintf("rating-%d", len(f.byTicket)+1)
	rating.CreatedAt = time.Now()
	stored := *rating
	f.byTicket[rating.TicketID] = &stored
	return nil
}

func (f *fakeRatingRepo) GetByTicket(_ context.Context, ticketID string) (*domain.Rating, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rating, ok := f.byTicket[ticketID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *rating
	return &copied, nil
}

func (f *fakeRatingRepo) ListByCustomer(_ context.Context, customerID string, _, _ int) ([]domain.Rating, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.Rating
	for _, rating := range f.byTicket {
		if rating.CustomerID == customerID {
			result = append(result, *rating)
		}
	}
	return result, nil
}

func (f *fakeRatingRepo) Stats(_ context.Context) (*domain.RatingStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := domain.RatingStats{Histogram: make(map[int]int64)}
	sum := 0
	for _, rating := range f.byTicket {
		stats.Count++
		sum += rating.Rating
		stats.Histogram[rating.Rating]++
		if stats.Min == 0 || rating.Rating < stats.Min {
			stats.Min = rating.Rating
		}
		if rating.Rating > stats.Max {
			stats.Max = rating.Rating
		}
	}
	if stats.Count > 0 {
		stats.Average = float64(sum) / float64(stats.Count)
	}
	return &stats, nil
}

func (f *fakeRatingRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byTicket)
}

type fakeContactRepo struct {
	contacts []domain.Contact
	err      error
}

func (f *fakeContactRepo) FindByPhoneCandidates(_ context.Context, candidates []string) ([]domain.Contact, error) {
	if f.err != nil {
		return nil, f.err
	}
	var result []domain.Contact
	for _, contact := range f.contacts {
		for _, candidate := range candidates {
			if strings.Contains(contact.Phone, candidate) {
				result = append(result, contact)
				break
			}
		}
	}
	return result, nil
}

type fakeTicketRepo struct {
	mu      sync.Mutex
	tickets []domain.Ticket
	history []domain.TicketStatusChange
	err     error
}

func (f *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.tickets {
		if f.tickets[i].ID == id {
			copied := f.tickets[i]
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeTicketRepo) MostRecentRatableByCustomer(_ context.Context, customerID string) (*domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var best *domain.Ticket
	for i := range f.tickets {
		ticket := f.tickets[i]
		if ticket.CustomerID != customerID || !ticket.Status.Ratable() {
			continue
		}
		if best == nil || ticket.UpdatedAt.After(best.UpdatedAt) {
			copied := ticket
			best = &copied
		}
	}
	if best == nil {
		return nil, pgx.ErrNoRows
	}
	return best, nil
}

func (f *fakeTicketRepo) RecordStatusChange(_ context.Context, change *domain.TicketStatusChange) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	change.ID = fmt.Sprintf("change-%d", len(f.history)+1)
	change.CreatedAt = time.Now()
	f.history = append(f.history, *change)
	return nil
}
