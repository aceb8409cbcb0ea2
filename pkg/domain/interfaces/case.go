package interfaces

import (
	"context"

	"github.com/lexdesk/casework/pkg/domain/model"
)

// CaseRepository defines the interface for Case data access
type CaseRepository interface {
	// Create creates a new case with auto-generated ID
	Create(ctx context.Context, c *model.Case) (*model.Case, error)

	// Get retrieves a case by ID
	Get(ctx context.Context, id int64) (*model.Case, error)

	// List retrieves all cases
	List(ctx context.Context) ([]*model.Case, error)

	// ListByUser retrieves cases whose members include username
	ListByUser(ctx context.Context, username string) ([]*model.Case, error)

	// Update updates an existing case
	Update(ctx context.Context, c *model.Case) (*model.Case, error)

	// Delete deletes a case by ID
	Delete(ctx context.Context, id int64) error
}
