package audit

import (
	"context"
	"sync"
	"time"

	"github.com/lexdesk/casework/pkg/domain/interfaces"
	"github.com/lexdesk/casework/pkg/domain/model"
	"github.com/lexdesk/casework/pkg/utils/errutil"
	"github.com/lexdesk/casework/pkg/utils/logging"
)

// LogEmitter writes audit records to the context logger
type LogEmitter struct{}

var _ interfaces.AuditEmitter = (*LogEmitter)(nil)

func NewLogEmitter() *LogEmitter {
	return &LogEmitter{}
}

func (e *LogEmitter) Emit(ctx context.Context, record model.AuditRecord) {
	logger := logging.From(ctx)
	args := []any{
		"action", record.Action.String(),
		"actor", record.Actor,
		"message", record.Message,
	}
	if record.Action.IsFailure() {
		logger.Warn("audit", args...)
		return
	}
	logger.Info("audit", args...)
}

// RepositoryEmitter persists audit records. Persistence failures are
// reported through errutil and never reach the caller.
type RepositoryEmitter struct {
	repo interfaces.AuditLogRepository
	now  func() time.Time
}

var _ interfaces.AuditEmitter = (*RepositoryEmitter)(nil)

func NewRepositoryEmitter(repo interfaces.AuditLogRepository) *RepositoryEmitter {
	return &RepositoryEmitter{
		repo: repo,
		now:  time.Now,
	}
}

func (e *RepositoryEmitter) Emit(ctx context.Context, record model.AuditRecord) {
	if record.ID == "" {
		record.ID = model.NewAuditRecordID()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = e.now().UTC()
	}

	if err := e.repo.Put(ctx, &record); err != nil {
		_ = errutil.Handle(ctx, err, "failed to persist audit record")
	}
}

// Multi fans a record out to every emitter in order
type Multi []interfaces.AuditEmitter

var _ interfaces.AuditEmitter = Multi(nil)

func NewMulti(emitters ...interfaces.AuditEmitter) Multi {
	return Multi(emitters)
}

func (m Multi) Emit(ctx context.Context, record model.AuditRecord) {
	for _, e := range m {
		if e == nil {
			continue
		}
		e.Emit(ctx, record)
	}
}

// Recorder keeps emitted records in memory
type Recorder struct {
	mu      sync.Mutex
	records []model.AuditRecord
}

var _ interfaces.AuditEmitter = (*Recorder)(nil)

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Emit(ctx context.Context, record model.AuditRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
}

// Records returns a copy of the records emitted so far
func (r *Recorder) Records() []model.AuditRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.AuditRecord, len(r.records))
	copy(out, r.records)
	return out
}

// Reset drops all recorded entries
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = nil
}
