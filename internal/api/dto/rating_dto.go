package dto

import (
	"time"

	"github.com/spec-kit/ticket-notify/internal/domain"
)

// CreateRatingRequest payload for the web rating endpoint.
type CreateRatingRequest struct {
	TicketID   string  `json:"ticket_id"`
	CustomerID string  `json:"customer_id"`
	Rating     int     `json:"rating"`
	Feedback   *string `json:"feedback"`
	Phone      string  `json:"phone"`
	Source     string  `json:"source"`
}

// RatingResponse representation.
type RatingResponse struct {
	ID            string              `json:"id"`
	TicketID      string              `json:"ticket_id"`
	CustomerID    string              `json:"customer_id"`
	Rating        int                 `json:"rating"`
	Feedback      *string             `json:"feedback,omitempty"`
	CustomerPhone string              `json:"customer_phone"`
	Source        domain.RatingSource `json:"source"`
	CreatedAt     time.Time           `json:"created_at"`
}

// RatingStatsResponse aggregates recorded ratings.
type RatingStatsResponse struct {
	Count     int64         `json:"count"`
	Average   float64       `json:"average"`
	Min       int           `json:"min"`
	Max       int           `json:"max"`
	Histogram map[int]int64 `json:"histogram"`
}
