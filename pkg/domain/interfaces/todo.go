package interfaces

import (
	"context"

	"github.com/lexdesk/casework/pkg/domain/model"
)

// TodoRepository defines the interface for Todo data access
type TodoRepository interface {
	// List retrieves all todos including archived ones
	List(ctx context.Context) ([]*model.Todo, error)

	// ListNonArchived retrieves todos whose archived flag is false
	ListNonArchived(ctx context.Context) ([]*model.Todo, error)

	// Get retrieves a todo by ID. Returns an error wrapping ErrNotFound if absent.
	Get(ctx context.Context, id int64) (*model.Todo, error)

	// ListNonArchivedByCaseUser retrieves distinct non-archived todos that
	// belong to a case whose members include username
	ListNonArchivedByCaseUser(ctx context.Context, username string) ([]*model.Todo, error)

	// ListNonArchivedByAssignee retrieves distinct non-archived todos assigned to username
	ListNonArchivedByAssignee(ctx context.Context, username string) ([]*model.Todo, error)

	// Save creates the todo when its ID is zero and replaces it otherwise.
	// Replacing a missing todo returns an error wrapping ErrNotFound.
	Save(ctx context.Context, todo *model.Todo) (*model.Todo, error)

	// Delete deletes a todo by ID
	Delete(ctx context.Context, id int64) error

	// Count returns the number of stored todos including archived ones
	Count(ctx context.Context) (int64, error)

	// DetachCase clears the case reference of every todo attached to caseID
	DetachCase(ctx context.Context, caseID int64) error
}
