package usecase

import (
	"github.com/lexdesk/casework/pkg/domain/interfaces"
	"github.com/lexdesk/casework/pkg/service/audit"
)

type UseCases struct {
	repo     interfaces.Repository
	emitter  interfaces.AuditEmitter
	Todo     *TodoUseCase
	Case     *CaseUseCase
	Client   *ClientUseCase
	AuditLog *AuditLogUseCase
	Auth     AuthUseCaseInterface
}

type Option func(*UseCases)

// WithAuditEmitter replaces the default emitter, which writes audit records to the process logger
func WithAuditEmitter(emitter interfaces.AuditEmitter) Option {
	return func(uc *UseCases) {
		uc.emitter = emitter
	}
}

func WithAuth(auth AuthUseCaseInterface) Option {
	return func(uc *UseCases) {
		uc.Auth = auth
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo: repo,
	}

	for _, opt := range opts {
		opt(uc)
	}

	if uc.emitter == nil {
		uc.emitter = audit.NewLogEmitter()
	}

	uc.Todo = NewTodoUseCase(repo, uc.emitter)
	uc.Case = NewCaseUseCase(repo)
	uc.Client = NewClientUseCase(repo)
	uc.AuditLog = NewAuditLogUseCase(repo)

	return uc
}
