package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/lexdesk/casework/pkg/domain/interfaces"
	"github.com/lexdesk/casework/pkg/domain/model"
	"github.com/lexdesk/casework/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

type TodoUseCase struct {
	repo    interfaces.Repository
	emitter interfaces.AuditEmitter
	now     func() time.Time
}

func NewTodoUseCase(repo interfaces.Repository, emitter interfaces.AuditEmitter) *TodoUseCase {
	return &TodoUseCase{
		repo:    repo,
		emitter: emitter,
		now:     time.Now,
	}
}

// ListVisible returns the non-archived todos the actor may see. The breadth
// depends on ResolveScope applied to the actor's roles.
func (uc *TodoUseCase) ListVisible(ctx context.Context, actor string) ([]*model.TodoResponse, error) {
	op := operation{
		action: types.AuditViewAllTodos,
		actor:  actor,
		public: failedMessage("fetching", "todos"),
		failed: fixed("Failed to view todos"),
	}

	return audited(ctx, uc.emitter, op, func(ctx context.Context) ([]*model.TodoResponse, string, error) {
		user, err := uc.repo.User().GetByUsername(ctx, actor)
		if err != nil {
			return nil, "", goerr.Wrap(err, "failed to get actor", goerr.V(ActorKey, actor))
		}

		scope := ResolveScope(user.RoleSet())

		var todos []*model.Todo
		switch scope {
		case types.ScopeCaseScoped:
			todos, err = uc.repo.Todo().ListNonArchivedByCaseUser(ctx, actor)
		default:
			todos, err = uc.repo.Todo().ListNonArchived(ctx)
		}
		if err != nil {
			return nil, "", goerr.Wrap(err, "failed to list todos", goerr.V(ActorKey, actor), goerr.V("scope", scope.String()))
		}

		return model.NewTodoResponses(visible(todos)), "Viewed todos", nil
	})
}

// ListAssigned returns the non-archived todos assigned to the actor
func (uc *TodoUseCase) ListAssigned(ctx context.Context, actor string) ([]*model.TodoResponse, error) {
	op := operation{
		action: types.AuditViewAllTodos,
		actor:  actor,
		public: failedMessage("fetching", "assigned todos"),
		failed: fixed("Failed to view todos assigned to user"),
	}

	return audited(ctx, uc.emitter, op, func(ctx context.Context) ([]*model.TodoResponse, string, error) {
		todos, err := uc.repo.Todo().ListNonArchivedByAssignee(ctx, actor)
		if err != nil {
			return nil, "", goerr.Wrap(err, "failed to list assigned todos", goerr.V(ActorKey, actor))
		}
		return model.NewTodoResponses(visible(todos)), "Viewed todos assigned to user", nil
	})
}

// Get returns a single todo regardless of its archived flag
func (uc *TodoUseCase) Get(ctx context.Context, actor string, id int64) (*model.TodoResponse, error) {
	op := operation{
		action: types.AuditViewOneTodo,
		actor:  actor,
		public: failedMessage("fetching", "todo", id),
		failed: fixed(fmt.Sprintf("Failed to view todo with id: %d", id)),
	}

	return audited(ctx, uc.emitter, op, func(ctx context.Context) (*model.TodoResponse, string, error) {
		todo, err := uc.repo.Todo().Get(ctx, id)
		if err != nil {
			return nil, "", goerr.Wrap(err, "failed to get todo", goerr.V(TodoIDKey, id))
		}
		return model.NewTodoResponse(todo), "Viewed todo: " + todo.Name, nil
	})
}

// Create stores a new todo. Status and archived flag are always reset to
// NOT_STARTED and false.
func (uc *TodoUseCase) Create(ctx context.Context, actor string, req model.TodoRequest) (*model.TodoResponse, error) {
	op := operation{
		action: types.AuditCreateTodo,
		actor:  actor,
		public: failedMessage("creating", "todo"),
		failed: fixed("Failed to create todo: " + req.Name),
	}

	return audited(ctx, uc.emitter, op, func(ctx context.Context) (*model.TodoResponse, string, error) {
		priority := req.Priority.Normalize()
		if err := validateTodoFields(req.Name, req.StartDate, req.EndDate, priority, types.TodoStatusNotStarted); err != nil {
			return nil, "", err
		}

		if req.CaseID != nil {
			if _, err := uc.repo.Case().Get(ctx, *req.CaseID); err != nil {
				return nil, "", goerr.Wrap(ErrInvalidRequest, "case does not exist",
					goerr.V(CaseIDKey, *req.CaseID), goerr.V("error", err.Error()))
			}
		}

		todo := &model.Todo{
			Name:        req.Name,
			Description: req.Description,
			CreatedAt:   uc.now().UTC(),
			StartDate:   req.StartDate,
			EndDate:     req.EndDate,
			Priority:    priority,
			Status:      types.TodoStatusNotStarted,
			Archived:    false,
			AssigneeIDs: model.UniqueStrings(req.AssigneeIDs),
			CaseID:      req.CaseID,
		}

		created, err := uc.repo.Todo().Save(ctx, todo)
		if err != nil {
			return nil, "", goerr.Wrap(err, "failed to save todo")
		}
		return model.NewTodoResponse(created), "Created a todo: " + created.Name, nil
	})
}

// Update fully replaces the mutable fields of an existing todo
func (uc *TodoUseCase) Update(ctx context.Context, actor string, id int64, req model.TodoUpdateRequest) (*model.TodoResponse, error) {
	op := operation{
		action: types.AuditUpdateTodo,
		actor:  actor,
		public: failedMessage("updating", "todo", id),
		failed: func(err error) string {
			return fmt.Sprintf("Failed to update todo: %s, id: %d %s", req.Name, id, err.Error())
		},
	}

	return audited(ctx, uc.emitter, op, func(ctx context.Context) (*model.TodoResponse, string, error) {
		todo, err := uc.repo.Todo().Get(ctx, id)
		if err != nil {
			return nil, "", goerr.Wrap(err, "failed to get todo", goerr.V(TodoIDKey, id))
		}

		priority := req.Priority.Normalize()
		if err := validateTodoFields(req.Name, req.StartDate, req.EndDate, priority, req.Status); err != nil {
			return nil, "", goerr.Wrap(err, "invalid update", goerr.V(TodoIDKey, id))
		}

		todo.Name = req.Name
		todo.Description = req.Description
		todo.StartDate = req.StartDate
		todo.EndDate = req.EndDate
		todo.AssigneeIDs = model.UniqueStrings(req.AssigneeIDs)
		todo.Priority = priority
		todo.Status = req.Status
		todo.Archived = req.Archived

		updated, err := uc.repo.Todo().Save(ctx, todo)
		if err != nil {
			return nil, "", goerr.Wrap(err, "failed to save todo", goerr.V(TodoIDKey, id))
		}
		return model.NewTodoResponse(updated), "Updated todo: " + updated.Name, nil
	})
}

// Delete removes a todo
func (uc *TodoUseCase) Delete(ctx context.Context, actor string, id int64) error {
	op := operation{
		action: types.AuditDeleteTodo,
		actor:  actor,
		public: failedMessage("deleting", "todo", id),
		failed: func(err error) string {
			return fmt.Sprintf("Failed to delete todo with id: %d %s", id, err.Error())
		},
	}

	_, err := audited(ctx, uc.emitter, op, func(ctx context.Context) (struct{}, string, error) {
		todo, err := uc.repo.Todo().Get(ctx, id)
		if err != nil {
			return struct{}{}, "", goerr.Wrap(err, "failed to get todo", goerr.V(TodoIDKey, id))
		}

		if err := uc.repo.Todo().Delete(ctx, id); err != nil {
			return struct{}{}, "", goerr.Wrap(err, "failed to delete todo", goerr.V(TodoIDKey, id))
		}
		return struct{}{}, fmt.Sprintf("Deleted todo: %s, id: %d", todo.Name, id), nil
	})
	return err
}

// Count returns the number of stored todos, archived ones included
func (uc *TodoUseCase) Count(ctx context.Context) (int64, error) {
	n, err := uc.repo.Todo().Count(ctx)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to count todos")
	}
	return n, nil
}

func validateTodoFields(name string, start, end types.Date, priority types.Priority, status types.TodoStatus) error {
	if name == "" {
		return goerr.Wrap(ErrInvalidRequest, "todo name is required")
	}
	if !priority.IsValid() {
		return goerr.Wrap(ErrInvalidRequest, "invalid priority", goerr.V("priority", priority.String()))
	}
	if !status.IsValid() {
		return goerr.Wrap(ErrInvalidRequest, "invalid status", goerr.V("status", status.String()))
	}
	for _, d := range []types.Date{start, end} {
		if err := d.Validate(); err != nil {
			return goerr.Wrap(ErrInvalidRequest, "invalid date", goerr.V("date", d.String()), goerr.V("error", err.Error()))
		}
	}
	if end.Before(start) {
		return goerr.Wrap(ErrInvalidRequest, "end date is before start date",
			goerr.V("start_date", start.String()), goerr.V("end_date", end.String()))
	}
	return nil
}

// visible drops archived todos and duplicates, keeping the first occurrence
func visible(todos []*model.Todo) []*model.Todo {
	seen := make(map[int64]struct{}, len(todos))
	out := make([]*model.Todo, 0, len(todos))
	for _, t := range todos {
		if t.Archived {
			continue
		}
		if _, ok := seen[t.ID]; ok {
			continue
		}
		seen[t.ID] = struct{}{}
		out = append(out, t)
	}
	return out
}
