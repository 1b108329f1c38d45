package entity

import "time"

// Attempt is one submission to the add endpoint, kept only for statistics.
type Attempt struct {
	ID        uint64
	Payload   string
	CreatedAt time.Time
}
