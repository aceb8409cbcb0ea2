package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lexdesk/casework/pkg/domain/types"
)

// AuditRecordID is the identifier of a persisted audit record
type AuditRecordID string

// NewAuditRecordID generates a new time-ordered audit record ID
func NewAuditRecordID() AuditRecordID {
	return AuditRecordID(uuid.Must(uuid.NewV7()).String())
}

// AuditRecord describes one attempted action and its outcome
type AuditRecord struct {
	ID        AuditRecordID
	Action    types.AuditAction
	Actor     string
	Message   string
	CreatedAt time.Time
}

// NewAuditRecord builds a record stamped with a fresh ID and the current time
func NewAuditRecord(action types.AuditAction, actor, message string) *AuditRecord {
	return &AuditRecord{
		ID:        NewAuditRecordID(),
		Action:    action,
		Actor:     actor,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
}
