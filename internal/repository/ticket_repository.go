package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/ticket-notify/internal/domain"
)

// TicketRepository is the narrow read/history interface onto the externally
// owned ticket store. This service never mutates ticket state.
type TicketRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	MostRecentRatableByCustomer(ctx context.Context, customerID string) (*domain.Ticket, error)
	RecordStatusChange(ctx context.Context, change *domain.TicketStatusChange) error
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, title, status, customer_id,
               COALESCE((SELECT name FROM customers WHERE customers.id = tickets.customer_id), ''),
               contact_phone, zone, priority, assignee_name, created_at, updated_at`

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

// MostRecentRatableByCustomer returns the customer's most recently updated
// ticket among statuses still open for rating collection.
func (r *ticketRepository) MostRecentRatableByCustomer(ctx context.Context, customerID string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + `
        FROM tickets
        WHERE customer_id=$1 AND status = ANY($2)
        ORDER BY updated_at DESC
        LIMIT 1`
	statuses := make([]string, 0, len(domain.RatableStatuses))
	for _, status := range domain.RatableStatuses {
		statuses = append(statuses, string(status))
	}
	return r.fetchSingle(ctx, query, customerID, statuses)
}

func (r *ticketRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Status,
		&ticket.CustomerID,
		&ticket.CustomerName,
		&ticket.ContactPhone,
		&ticket.Zone,
		&ticket.Priority,
		&ticket.AssigneeName,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// RecordStatusChange appends an immutable history entry for a transition.
func (r *ticketRepository) RecordStatusChange(ctx context.Context, change *domain.TicketStatusChange) error {
	const query = `
        INSERT INTO ticket_status_history (ticket_id, old_status, new_status)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		change.TicketID,
		change.OldStatus,
		change.NewStatus,
	).Scan(&change.ID, &change.CreatedAt)
}
