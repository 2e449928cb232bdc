package domain

import (
	"github.com/google/uuid"
)

// NewID generates a UUIDv7 string for query executions. UUIDv7 keeps ids
// roughly time-ordered, which makes query log rows sort naturally.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}
