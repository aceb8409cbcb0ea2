package audit_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/lexdesk/casework/pkg/domain/model"
	"github.com/lexdesk/casework/pkg/domain/types"
	"github.com/lexdesk/casework/pkg/repository/memory"
	"github.com/lexdesk/casework/pkg/service/audit"
	"github.com/lexdesk/casework/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

func TestLogEmitter(t *testing.T) {
	var buf bytes.Buffer
	ctx := logging.With(context.Background(), slog.New(slog.NewJSONHandler(&buf, nil)))

	audit.NewLogEmitter().Emit(ctx, model.AuditRecord{
		Action:  types.AuditDeleteTodoFailed,
		Actor:   "alice",
		Message: "Failed to delete todo with id: 999",
	})

	out := buf.String()
	gt.String(t, out).Contains(`"level":"WARN"`)
	gt.String(t, out).Contains(`"action":"DELETE_TODO_FAILED"`)
	gt.String(t, out).Contains(`"actor":"alice"`)
}

func TestRepositoryEmitter(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	emitter := audit.NewRepositoryEmitter(repo.AuditLog())

	emitter.Emit(ctx, model.AuditRecord{Action: types.AuditCreateTodo, Actor: "alice", Message: "Created a todo: Draft"})

	records, err := repo.AuditLog().List(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, records).Length(1).Required()
	gt.String(t, string(records[0].ID)).NotEqual("")
	gt.Bool(t, records[0].CreatedAt.IsZero()).False()
	gt.Value(t, records[0].Message).Equal("Created a todo: Draft")
}

type failingAuditLog struct{}

func (failingAuditLog) Put(ctx context.Context, record *model.AuditRecord) error {
	return goerr.New("audit store down")
}

func (failingAuditLog) List(ctx context.Context) ([]*model.AuditRecord, error) {
	return nil, nil
}

func TestRepositoryEmitter_SwallowsErrors(t *testing.T) {
	emitter := audit.NewRepositoryEmitter(failingAuditLog{})
	emitter.Emit(context.Background(), model.AuditRecord{Action: types.AuditViewAllTodos, Actor: "alice"})
}

func TestMulti(t *testing.T) {
	r1 := audit.NewRecorder()
	r2 := audit.NewRecorder()
	multi := audit.NewMulti(r1, nil, r2)

	multi.Emit(context.Background(), model.AuditRecord{Action: types.AuditViewOneTodo, Actor: "bob"})

	gt.Array(t, r1.Records()).Length(1)
	gt.Array(t, r2.Records()).Length(1)

	r1.Reset()
	gt.Array(t, r1.Records()).Length(0)
}
