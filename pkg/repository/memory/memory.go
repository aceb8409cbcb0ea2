package memory

import (
	"github.com/lexdesk/casework/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

type Memory struct {
	todo     *todoRepository
	caseRepo *caseRepository
	client   *clientRepository
	user     *userRepository
	auditLog *auditLogRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	caseRepo := newCaseRepository()

	return &Memory{
		todo:     newTodoRepository(caseRepo),
		caseRepo: caseRepo,
		client:   newClientRepository(),
		user:     newUserRepository(),
		auditLog: newAuditLogRepository(),
	}
}

func (m *Memory) Todo() interfaces.TodoRepository {
	return m.todo
}

func (m *Memory) Case() interfaces.CaseRepository {
	return m.caseRepo
}

func (m *Memory) Client() interfaces.ClientRepository {
	return m.client
}

func (m *Memory) User() interfaces.UserRepository {
	return m.user
}

func (m *Memory) AuditLog() interfaces.AuditLogRepository {
	return m.auditLog
}

func (m *Memory) Close() error {
	return nil
}
