package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/ticket-notify/internal/domain"
	util "github.com/spec-kit/ticket-notify/pkg/util/errorutil"
)

const uniqueViolationCode = "23505"

// RatingRepository persists and queries rating records. The ratings table
// carries UNIQUE (ticket_id); Create surfaces a violation as a DUPLICATE
// domain error, which callers treat identically to Exists returning true.
type RatingRepository interface {
	Exists(ctx context.Context, ticketID string) (bool, error)
	Create(ctx context.Context, rating *domain.Rating) error
	GetByTicket(ctx context.Context, ticketID string) (*domain.Rating, error)
	ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]domain.Rating, error)
	Stats(ctx context.Context) (*domain.RatingStats, error)
}

type ratingRepository struct {
	pool *pgxpool.Pool
}

// NewRatingRepository instantiates repository.
func NewRatingRepository(pool *pgxpool.Pool) RatingRepository {
	return &ratingRepository{pool: pool}
}

func (r *ratingRepository) Exists(ctx context.Context, ticketID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM ratings WHERE ticket_id=$1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, ticketID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *ratingRepository) Create(ctx context.Context, rating *domain.Rating) error {
	const query = `
        INSERT INTO ratings (ticket_id, customer_id, rating, feedback, customer_phone, source)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, query,
		rating.TicketID,
		rating.CustomerID,
		rating.Rating,
		rating.Feedback,
		rating.CustomerPhone,
		rating.Source,
	).Scan(&rating.ID, &rating.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return util.NewDuplicate("rating", map[string]any{"ticket_id": rating.TicketID})
		}
		return err
	}
	return nil
}

func (r *ratingRepository) GetByTicket(ctx context.Context, ticketID string) (*domain.Rating, error) {
	const query = `
        SELECT id, ticket_id, customer_id, rating, feedback, customer_phone, source, created_at
        FROM ratings WHERE ticket_id=$1`
	var rating domain.Rating
	if err := r.pool.QueryRow(ctx, query, ticketID).Scan(
		&rating.ID,
		&rating.TicketID,
		&rating.CustomerID,
		&rating.Rating,
		&rating.Feedback,
		&rating.CustomerPhone,
		&rating.Source,
		&rating.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *ratingRepository) ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]domain.Rating, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT id, ticket_id, customer_id, rating, feedback, customer_phone, source, created_at
        FROM ratings WHERE customer_id=$1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, customerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRatings(rows)
}

func (r *ratingRepository) Stats(ctx context.Context) (*domain.RatingStats, error) {
	const aggregate = `
        SELECT COUNT(*), COALESCE(AVG(rating), 0), COALESCE(MIN(rating), 0), COALESCE(MAX(rating), 0)
        FROM ratings`
	stats := domain.RatingStats{Histogram: make(map[int]int64)}
	if err := r.pool.QueryRow(ctx, aggregate).Scan(&stats.Count, &stats.Average, &stats.Min, &stats.Max); err != nil {
		return nil, err
	}

	const histogram = `SELECT rating, COUNT(*) FROM ratings GROUP BY rating`
	rows, err := r.pool.Query(ctx, histogram)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var value int
		var count int64
		if err := rows.Scan(&value, &count); err != nil {
			return nil, err
		}
		stats.Histogram[value] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &stats, nil
}

func scanRatings(rows pgx.Rows) ([]domain.Rating, error) {
	var result []domain.Rating
	for rows.Next() {
		var rating domain.Rating
		if err := rows.Scan(
			&rating.ID,
			&rating.TicketID,
			&rating.CustomerID,
			&rating.Rating,
			&rating.Feedback,
			&rating.CustomerPhone,
			&rating.Source,
			&rating.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, rating)
	}
	return result, rows.Err()
}
