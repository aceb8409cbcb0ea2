package usecase

import (
	"context"
	"errors"

	"github.com/lexdesk/casework/pkg/domain/interfaces"
	"github.com/lexdesk/casework/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

type ClientUseCase struct {
	repo interfaces.Repository
}

func NewClientUseCase(repo interfaces.Repository) *ClientUseCase {
	return &ClientUseCase{repo: repo}
}

func (uc *ClientUseCase) ListClients(ctx context.Context) ([]*model.Client, error) {
	clients, err := uc.repo.Client().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list clients")
	}
	return clients, nil
}

func (uc *ClientUseCase) GetClientByIDPrefix(ctx context.Context, idPrefix int64) (*model.Client, error) {
	client, err := uc.repo.Client().GetByIDPrefix(ctx, idPrefix)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get client", goerr.V(ClientIDKey, idPrefix))
	}
	return client, nil
}

func (uc *ClientUseCase) GetClientByName(ctx context.Context, name string) (*model.Client, error) {
	client, err := uc.repo.Client().GetByName(ctx, name)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get client", goerr.V("name", name))
	}
	return client, nil
}

// CreateClient registers a client. Name and IDPrefix must both be unused.
func (uc *ClientUseCase) CreateClient(ctx context.Context, name string, idPrefix int64, userIDs []string) (*model.Client, error) {
	if name == "" {
		return nil, goerr.Wrap(ErrInvalidRequest, "client name is required")
	}
	if idPrefix <= 0 {
		return nil, goerr.Wrap(ErrInvalidRequest, "client id prefix must be positive", goerr.V(ClientIDKey, idPrefix))
	}

	if _, err := uc.repo.Client().GetByName(ctx, name); err == nil {
		return nil, goerr.Wrap(ErrInvalidRequest, "client name already exists", goerr.V("name", name))
	} else if !errors.Is(err, ErrNotFound) {
		return nil, goerr.Wrap(err, "failed to look up client by name", goerr.V("name", name))
	}

	if _, err := uc.repo.Client().GetByIDPrefix(ctx, idPrefix); err == nil {
		return nil, goerr.Wrap(ErrInvalidRequest, "client id prefix already exists", goerr.V(ClientIDKey, idPrefix))
	} else if !errors.Is(err, ErrNotFound) {
		return nil, goerr.Wrap(err, "failed to look up client by id prefix", goerr.V(ClientIDKey, idPrefix))
	}

	created, err := uc.repo.Client().Create(ctx, &model.Client{
		Name:     name,
		IDPrefix: idPrefix,
		UserIDs:  model.UniqueStrings(userIDs),
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create client", goerr.V("name", name))
	}
	return created, nil
}

func (uc *ClientUseCase) DeleteClient(ctx context.Context, idPrefix int64) error {
	if err := uc.repo.Client().Delete(ctx, idPrefix); err != nil {
		return goerr.Wrap(err, "failed to delete client", goerr.V(ClientIDKey, idPrefix))
	}
	return nil
}
