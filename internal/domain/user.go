package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account allowed to edit the dictionary.
type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}
