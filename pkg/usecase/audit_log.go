package usecase

import (
	"context"

	"github.com/lexdesk/casework/pkg/domain/interfaces"
	"github.com/lexdesk/casework/pkg/domain/model"
	"github.com/lexdesk/casework/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

type AuditLogUseCase struct {
	repo interfaces.Repository
}

func NewAuditLogUseCase(repo interfaces.Repository) *AuditLogUseCase {
	return &AuditLogUseCase{repo: repo}
}

// ListLogs returns persisted audit records, newest first. Only ADMIN users may read them.
func (uc *AuditLogUseCase) ListLogs(ctx context.Context, actor string) ([]*model.AuditRecord, error) {
	user, err := uc.repo.User().GetByUsername(ctx, actor)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get actor", goerr.V(ActorKey, actor))
	}
	if !user.HasRole(types.RoleAdmin) {
		return nil, goerr.Wrap(ErrForbidden, "audit log requires ADMIN role", goerr.V(ActorKey, actor))
	}

	records, err := uc.repo.AuditLog().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list audit records")
	}
	return records, nil
}
