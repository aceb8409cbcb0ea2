package interfaces

import (
	"context"

	"github.com/lexdesk/casework/pkg/domain/model"
)

type ClientRepository interface {
	Create(ctx context.Context, client *model.Client) (*model.Client, error)
	List(ctx context.Context) ([]*model.Client, error)
	GetByIDPrefix(ctx context.Context, idPrefix int64) (*model.Client, error)
	GetByName(ctx context.Context, name string) (*model.Client, error)
	Delete(ctx context.Context, idPrefix int64) error
}
