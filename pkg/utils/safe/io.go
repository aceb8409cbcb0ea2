package safe

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"

	"github.com/lexdesk/casework/pkg/utils/logging"
)

// Close closes closer and logs any error. Nil closers are ignored.
func Close(ctx context.Context, closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.From(ctx).Error("Failed to close", slog.Any("error", err))
	}
}

// Write writes data to w and logs any error
func Write(ctx context.Context, w io.Writer, data []byte) {
	if w == nil {
		return
	}
	if _, err := w.Write(data); err != nil {
		logging.From(ctx).Error("Failed to write", slog.Any("error", err))
	}
}

// Rollback aborts a transaction unless it has already been committed
func Rollback(ctx context.Context, tx interface{ Rollback() error }) {
	if tx == nil {
		return
	}
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		logging.From(ctx).Error("Failed to rollback", slog.Any("error", err))
	}
}
