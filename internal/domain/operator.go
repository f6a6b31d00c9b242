package domain

import "time"

// Operator is a human registered to work the queue.
type Operator struct {
	ID        string
	Username  string
	ContactID *string
	IsActive  bool
	CreatedAt time.Time
}
