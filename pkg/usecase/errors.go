package usecase

import (
	"errors"

	"github.com/lexdesk/casework/pkg/domain/interfaces"
)

// Sentinel errors for use case layer
var (
	// ErrNotFound is shared with the repository layer so store lookups classify without translation
	ErrNotFound = interfaces.ErrNotFound

	ErrOperationFailed = errors.New("operation failed")
	ErrInvalidRequest  = errors.New("invalid request")
	ErrForbidden       = errors.New("forbidden")
)

// Context keys for error values
const (
	TodoIDKey   = "todo_id"
	CaseIDKey   = "case_id"
	ClientIDKey = "client_id"
	ActorKey    = "actor"
	ActionKey   = "action"
)

// OperationError is the error surfaced by audited operations. Message is the
// fixed public text; Kind is one of the sentinel errors and Cause keeps the
// underlying failure for diagnostics.
type OperationError struct {
	Kind    error
	Message string
	Cause   error
}

func (e *OperationError) Error() string {
	return e.Message
}

func (e *OperationError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// classify maps an arbitrary failure onto one of the sentinel kinds
func classify(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return ErrNotFound
	case errors.Is(err, ErrInvalidRequest):
		return ErrInvalidRequest
	case errors.Is(err, ErrForbidden):
		return ErrForbidden
	default:
		return ErrOperationFailed
	}
}

// PublicMessage returns the fixed message of an OperationError in the chain,
// or an empty string.
func PublicMessage(err error) string {
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return opErr.Message
	}
	return ""
}
