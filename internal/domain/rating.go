package domain

import "time"

// RatingSource identifies which path recorded a rating.
type RatingSource string

const (
	RatingSourceWeb      RatingSource = "WEB"
	RatingSourceWhatsApp RatingSource = "WHATSAPP"
)

// Rating bounds.
const (
	RatingMin = 1
	RatingMax = 5
)

// Rating is a customer satisfaction score tied to exactly one ticket. The
// ratings table enforces UNIQUE (ticket_id); ratings are created once and
// never updated or deleted by this service.
type Rating struct {
	ID            string
	TicketID      string
	CustomerID    string
	Rating        int
	Feedback      *string
	CustomerPhone string
	Source        RatingSource
	CreatedAt     time.Time
}

// RatingStats summarizes recorded ratings.
type RatingStats struct {
	Count     int64
	Average   float64
	Min       int
	Max       int
	Histogram map[int]int64
}
