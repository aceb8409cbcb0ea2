package usecase

import (
	"context"

	"github.com/lexdesk/casework/pkg/domain/interfaces"
	"github.com/lexdesk/casework/pkg/domain/model"
	"github.com/lexdesk/casework/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

type CaseUseCase struct {
	repo interfaces.Repository
}

func NewCaseUseCase(repo interfaces.Repository) *CaseUseCase {
	return &CaseUseCase{repo: repo}
}

func (uc *CaseUseCase) CreateCase(ctx context.Context, name string, clientID *int64, userIDs []string) (*model.Case, error) {
	if name == "" {
		return nil, goerr.Wrap(ErrInvalidRequest, "case name is required")
	}

	caseModel := &model.Case{
		Name:     name,
		ClientID: clientID,
		UserIDs:  model.UniqueStrings(userIDs),
	}

	created, err := uc.repo.Case().Create(ctx, caseModel)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create case")
	}
	return created, nil
}

func (uc *CaseUseCase) GetCase(ctx context.Context, id int64) (*model.Case, error) {
	c, err := uc.repo.Case().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get case", goerr.V(CaseIDKey, id))
	}
	return c, nil
}

func (uc *CaseUseCase) ListCases(ctx context.Context) ([]*model.Case, error) {
	cases, err := uc.repo.Case().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list cases")
	}
	return cases, nil
}

// UpdateCase replaces name, client and members of an existing case
func (uc *CaseUseCase) UpdateCase(ctx context.Context, id int64, name string, clientID *int64, userIDs []string) (*model.Case, error) {
	if name == "" {
		return nil, goerr.Wrap(ErrInvalidRequest, "case name is required", goerr.V(CaseIDKey, id))
	}

	existing, err := uc.repo.Case().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get case", goerr.V(CaseIDKey, id))
	}

	existing.Name = name
	existing.ClientID = clientID
	existing.UserIDs = model.UniqueStrings(userIDs)

	updated, err := uc.repo.Case().Update(ctx, existing)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update case", goerr.V(CaseIDKey, id))
	}
	return updated, nil
}

// DeleteCase removes a case. Todos attached to it are kept and detached.
func (uc *CaseUseCase) DeleteCase(ctx context.Context, id int64) error {
	if _, err := uc.repo.Case().Get(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to get case", goerr.V(CaseIDKey, id))
	}

	if err := uc.repo.Todo().DetachCase(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to detach todos from case", goerr.V(CaseIDKey, id))
	}

	if err := uc.repo.Case().Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete case", goerr.V(CaseIDKey, id))
	}

	logging.From(ctx).Info("case deleted", "case_id", id)
	return nil
}
