package types

// AuditAction tags an audit record with the attempted action and its outcome
type AuditAction string

const (
	AuditViewAllTodos       AuditAction = "VIEW_ALL_TODOS"
	AuditViewAllTodosFailed AuditAction = "VIEW_ALL_TODOS_FAILED"
	AuditViewOneTodo        AuditAction = "VIEW_ONE_TODO"
	AuditViewOneTodoFailed  AuditAction = "VIEW_ONE_TODO_FAILED"
	AuditCreateTodo         AuditAction = "CREATE_TODO"
	AuditCreateTodoFailed   AuditAction = "CREATE_TODO_FAILED"
	AuditUpdateTodo         AuditAction = "UPDATE_TODO"
	AuditUpdateTodoFailed   AuditAction = "UPDATE_TODO_FAILED"
	AuditDeleteTodo         AuditAction = "DELETE_TODO"
	AuditDeleteTodoFailed   AuditAction = "DELETE_TODO_FAILED"
)

var auditFailurePairs = map[AuditAction]AuditAction{
	AuditViewAllTodos: AuditViewAllTodosFailed,
	AuditViewOneTodo:  AuditViewOneTodoFailed,
	AuditCreateTodo:   AuditCreateTodoFailed,
	AuditUpdateTodo:   AuditUpdateTodoFailed,
	AuditDeleteTodo:   AuditDeleteTodoFailed,
}

// AllAuditActions returns all valid audit actions
func AllAuditActions() []AuditAction {
	return []AuditAction{
		AuditViewAllTodos, AuditViewAllTodosFailed,
		AuditViewOneTodo, AuditViewOneTodoFailed,
		AuditCreateTodo, AuditCreateTodoFailed,
		AuditUpdateTodo, AuditUpdateTodoFailed,
		AuditDeleteTodo, AuditDeleteTodoFailed,
	}
}

// Failed returns the failure tag paired with a success tag. Failure tags map
// to themselves.
func (a AuditAction) Failed() AuditAction {
	if f, ok := auditFailurePairs[a]; ok {
		return f
	}
	return a
}

// IsFailure reports whether a is one of the "-failed" tags
func (a AuditAction) IsFailure() bool {
	for _, f := range auditFailurePairs {
		if a == f {
			return true
		}
	}
	return false
}

// IsValid checks if the audit action is valid
func (a AuditAction) IsValid() bool {
	if _, ok := auditFailurePairs[a]; ok {
		return true
	}
	return a.IsFailure()
}

// String returns the string representation of the audit action
func (a AuditAction) String() string {
	return string(a)
}
