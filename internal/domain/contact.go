package domain

import "time"

// Customer is the read model for the externally owned customer directory.
type Customer struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Contact belongs to exactly one customer and carries a phone string in
// free/mixed format, exactly as the directory stores it.
type Contact struct {
	ID         string
	CustomerID string
	Phone      string
	CreatedAt  time.Time
}
