package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/lexdesk/casework/pkg/domain/model"
)

type auditLogRepository struct {
	mu      sync.RWMutex
	records []*model.AuditRecord
}

func newAuditLogRepository() *auditLogRepository {
	return &auditLogRepository{}
}

func (r *auditLogRepository) Put(ctx context.Context, record *model.AuditRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *record
	r.records = append(r.records, &copied)
	return nil
}

func (r *auditLogRepository) List(ctx context.Context) ([]*model.AuditRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]*model.AuditRecord, 0, len(r.records))
	for i := len(r.records) - 1; i >= 0; i-- {
		copied := *r.records[i]
		records = append(records, &copied)
	}
	// newest first; later inserts win ties
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, nil
}
