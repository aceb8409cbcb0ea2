package usecase

import (
	"context"
	"fmt"

	"github.com/lexdesk/casework/pkg/domain/interfaces"
	"github.com/lexdesk/casework/pkg/domain/model"
	"github.com/lexdesk/casework/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// operation describes one audited invocation
type operation struct {
	action types.AuditAction
	actor  string

	// public is the fixed message returned to the caller on failure
	public string
	// failed renders the audit message for a failure
	failed func(err error) string
}

// audited runs fn and emits exactly one audit record: the primary tag with
// the message returned by fn on success, or the paired failure tag otherwise.
func audited[T any](ctx context.Context, emitter interfaces.AuditEmitter, op operation, fn func(ctx context.Context) (T, string, error)) (T, error) {
	result, msg, err := fn(ctx)
	if err != nil {
		emitter.Emit(ctx, model.AuditRecord{
			Action:  op.action.Failed(),
			Actor:   op.actor,
			Message: op.failed(err),
		})

		var zero T
		opErr := &OperationError{
			Kind:    classify(err),
			Message: op.public,
			Cause:   err,
		}
		return zero, goerr.Wrap(opErr, "todo operation failed",
			goerr.V(ActorKey, op.actor),
			goerr.V(ActionKey, op.action.String()),
		)
	}

	emitter.Emit(ctx, model.AuditRecord{
		Action:  op.action,
		Actor:   op.actor,
		Message: msg,
	})
	return result, nil
}

// failedMessage renders the public failure template "Failed <verb> <noun>[, id: <id>]"
func failedMessage(verb, noun string, id ...int64) string {
	if len(id) > 0 {
		return fmt.Sprintf("Failed %s %s, id: %d", verb, noun, id[0])
	}
	return fmt.Sprintf("Failed %s %s", verb, noun)
}

func fixed(msg string) func(error) string {
	return func(error) string { return msg }
}
