package interfaces

import "errors"

// ErrNotFound is wrapped by every repository implementation when a record is absent
var ErrNotFound = errors.New("not found")

// Repository defines the interface for data persistence
type Repository interface {
	Todo() TodoRepository
	Case() CaseRepository
	Client() ClientRepository
	User() UserRepository
	AuditLog() AuditLogRepository

	// Close releases the underlying connection, if any
	Close() error
}
