package types_test

import (
	"testing"

	"github.com/lexdesk/casework/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func TestAuditAction_Failed(t *testing.T) {
	tests := []struct {
		action types.AuditAction
		want   types.AuditAction
	}{
		{types.AuditViewAllTodos, types.AuditViewAllTodosFailed},
		{types.AuditViewOneTodo, types.AuditViewOneTodoFailed},
		{types.AuditCreateTodo, types.AuditCreateTodoFailed},
		{types.AuditUpdateTodo, types.AuditUpdateTodoFailed},
		{types.AuditDeleteTodo, types.AuditDeleteTodoFailed},
		{types.AuditDeleteTodoFailed, types.AuditDeleteTodoFailed},
	}

	for _, tt := range tests {
		t.Run(tt.action.String(), func(t *testing.T) {
			gt.Value(t, tt.action.Failed()).Equal(tt.want)
			gt.B(t, tt.action.Failed().IsFailure()).True()
		})
	}
}

func TestAuditAction_IsValid(t *testing.T) {
	for _, a := range types.AllAuditActions() {
		gt.B(t, a.IsValid()).True()
	}
	gt.B(t, types.AuditAction("VIEW_SOMETHING").IsValid()).False()
	gt.B(t, types.AuditAction("").IsValid()).False()
}
