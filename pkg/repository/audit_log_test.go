package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/lexdesk/casework/pkg/domain/interfaces"
	"github.com/lexdesk/casework/pkg/domain/model"
	"github.com/lexdesk/casework/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func runAuditLogRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("List returns records newest first", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		base := time.Now().UTC().Truncate(time.Millisecond)
		older := model.NewAuditRecord(types.AuditCreateTodo, "alice", "Created a todo: Draft")
		older.CreatedAt = base.Add(-time.Minute)
		newer := model.NewAuditRecord(types.AuditDeleteTodo.Failed(), "bob", "Failed to delete todo with id: 999")
		newer.CreatedAt = base

		gt.NoError(t, repo.AuditLog().Put(ctx, older)).Required()
		gt.NoError(t, repo.AuditLog().Put(ctx, newer)).Required()

		records, err := repo.AuditLog().List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, records).Length(2)

		gt.Value(t, records[0].ID).Equal(newer.ID)
		gt.Value(t, records[0].Action).Equal(types.AuditDeleteTodo.Failed())
		gt.Value(t, records[0].Actor).Equal("bob")
		gt.Value(t, records[0].Message).Equal("Failed to delete todo with id: 999")
		gt.Bool(t, records[0].CreatedAt.Equal(base)).True()

		gt.Value(t, records[1].ID).Equal(older.ID)
		gt.Value(t, records[1].Action).Equal(types.AuditCreateTodo)
	})

	t.Run("List of empty log", func(t *testing.T) {
		repo := newRepo(t)

		records, err := repo.AuditLog().List(context.Background())
		gt.NoError(t, err).Required()
		gt.Array(t, records).Length(0)
	})
}

func TestAuditLogRepository(t *testing.T) {
	runForEachBackend(t, runAuditLogRepositoryTest)
}
