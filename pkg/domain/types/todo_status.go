package types

import "fmt"

// TodoStatus represents the progress of a todo
type TodoStatus string

const (
	TodoStatusNotStarted TodoStatus = "NOT_STARTED"
	TodoStatusInProgress TodoStatus = "IN_PROGRESS"
	TodoStatusDone       TodoStatus = "DONE"
)

// AllTodoStatuses returns all valid todo statuses
func AllTodoStatuses() []TodoStatus {
	return []TodoStatus{
		TodoStatusNotStarted,
		TodoStatusInProgress,
		TodoStatusDone,
	}
}

// IsValid checks if the todo status is valid
func (s TodoStatus) IsValid() bool {
	switch s {
	case TodoStatusNotStarted,
		TodoStatusInProgress,
		TodoStatusDone:
		return true
	default:
		return false
	}
}

// String returns the string representation of the todo status
func (s TodoStatus) String() string {
	return string(s)
}

// ParseTodoStatus parses a string into a TodoStatus
func ParseTodoStatus(s string) (TodoStatus, error) {
	status := TodoStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid todo status: %s", s)
	}
	return status, nil
}
