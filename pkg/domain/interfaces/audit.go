package interfaces

import (
	"context"

	"github.com/lexdesk/casework/pkg/domain/model"
)

// AuditEmitter receives one record per attempted todo operation. Emit must
// not fail the caller; implementations handle their own errors.
type AuditEmitter interface {
	Emit(ctx context.Context, record model.AuditRecord)
}

// AuditLogRepository persists audit records
type AuditLogRepository interface {
	Put(ctx context.Context, record *model.AuditRecord) error

	// List returns records newest first
	List(ctx context.Context) ([]*model.AuditRecord, error)
}
