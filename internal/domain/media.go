package domain

import (
	"time"

	"github.com/google/uuid"
)

// Media is an image, audio clip, video or gif attached to a word.
type Media struct {
	ID        uuid.UUID
	WordID    uuid.UUID
	Type      MediaType
	URL       string
	Caption   *string
	CreatedAt time.Time
}
