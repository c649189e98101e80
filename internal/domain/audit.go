package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction names an account-level change worth keeping a record of.
type AuditAction string

const (
	// AuditActionTelegramLinked records a chat id attached to an account,
	// including any placeholder merged into it.
	AuditActionTelegramLinked AuditAction = "telegram_linked"
)

func (a AuditAction) String() string { return string(a) }

// AuditRecord is an append-only log entry. EntityID points at the other
// party of the change, such as a merged placeholder, and may be nil.
type AuditRecord struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Action    AuditAction
	EntityID  *uuid.UUID
	Changes   map[string]any
	CreatedAt time.Time
}
