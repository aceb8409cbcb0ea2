package interfaces

import (
	"context"

	"github.com/lexdesk/casework/pkg/domain/model"
)

// UserRepository is the user directory. The todo core only calls GetByUsername.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	Save(ctx context.Context, user *model.User) error
	List(ctx context.Context) ([]*model.User, error)
}
