package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction is the kind of change recorded in a word's history.
type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
)

func (a AuditAction) String() string { return string(a) }

// IsValid reports whether a is a known action.
func (a AuditAction) IsValid() bool {
	switch a {
	case AuditActionCreate, AuditActionUpdate, AuditActionDelete:
		return true
	}
	return false
}

// AuditRecord is one entry of a word's edit history. History outlives the
// word, so WordID is not a live reference. UserID is nil when the change
// was not made by an authenticated editor.
type AuditRecord struct {
	ID        uuid.UUID
	WordID    uuid.UUID
	UserID    *uuid.UUID
	Action    AuditAction
	Changes   map[string]any
	CreatedAt time.Time
}
