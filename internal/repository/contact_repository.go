package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/ticket-notify/internal/domain"
)

// ContactRepository looks up contacts in the externally owned directory.
type ContactRepository interface {
	FindByPhoneCandidates(ctx context.Context, candidates []string) ([]domain.Contact, error)
}

type contactRepository struct {
	pool *pgxpool.Pool
}

// NewContactRepository instantiates repository.
func NewContactRepository(pool *pgxpool.Pool) ContactRepository {
	return &contactRepository{pool: pool}
}

// FindByPhoneCandidates returns contacts whose stored phone contains any of
// the candidate representations. Stored phones are free-format, so matching
// is substring based rather than exact.
func (r *contactRepository) FindByPhoneCandidates(ctx context.Context, candidates []string) ([]domain.Contact, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	clauses := make([]string, 0, len(candidates))
	args := make([]any, 0, len(candidates))
	for _, candidate := range candidates {
		args = append(args, "%"+candidate+"%")
		clauses = append(clauses, fmt.Sprintf("phone LIKE $%d", len(args)))
	}

	query := fmt.Sprintf(`
        SELECT id, customer_id, phone, created_at
        FROM contacts WHERE %s`, strings.Join(clauses, " OR "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Contact
	for rows.Next() {
		var contact domain.Contact
		if err := rows.Scan(&contact.ID, &contact.CustomerID, &contact.Phone, &contact.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, contact)
	}
	return result, rows.Err()
}
