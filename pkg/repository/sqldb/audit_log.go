package sqldb

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lexdesk/casework/pkg/domain/model"
	"github.com/lexdesk/casework/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

type auditLogRow struct {
	ID        string    `db:"id"`
	Action    string    `db:"action"`
	Actor     string    `db:"actor"`
	Message   string    `db:"message"`
	CreatedAt time.Time `db:"created_at"`
}

type auditLogRepository struct {
	db *sqlx.DB
}

func (r *auditLogRepository) Put(ctx context.Context, record *model.AuditRecord) error {
	row := auditLogRow{
		ID:        string(record.ID),
		Action:    string(record.Action),
		Actor:     record.Actor,
		Message:   record.Message,
		CreatedAt: record.CreatedAt.UTC(),
	}
	q := `INSERT INTO audit_logs (id, action, actor, message, created_at) VALUES (:id, :action, :actor, :message, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, q, row); err != nil {
		return goerr.Wrap(err, "failed to insert audit record", goerr.V("id", record.ID))
	}
	return nil
}

// List returns records newest first. IDs are time ordered and break ties.
func (r *auditLogRepository) List(ctx context.Context) ([]*model.AuditRecord, error) {
	var rows []auditLogRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT id, action, actor, message, created_at FROM audit_logs ORDER BY created_at DESC, id DESC`); err != nil {
		return nil, goerr.Wrap(err, "failed to list audit records")
	}

	records := make([]*model.AuditRecord, len(rows))
	for i, row := range rows {
		records[i] = &model.AuditRecord{
			ID:        model.AuditRecordID(row.ID),
			Action:    types.AuditAction(row.Action),
			Actor:     row.Actor,
			Message:   row.Message,
			CreatedAt: row.CreatedAt.UTC(),
		}
	}
	return records, nil
}
