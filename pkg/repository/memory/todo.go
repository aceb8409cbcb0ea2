package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/lexdesk/casework/pkg/domain/interfaces"
	"github.com/lexdesk/casework/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

type todoRepository struct {
	mu     sync.RWMutex
	todos  map[int64]*model.Todo
	nextID int64
	cases  *caseRepository
}

func newTodoRepository(cases *caseRepository) *todoRepository {
	return &todoRepository{
		todos:  make(map[int64]*model.Todo),
		nextID: 1,
		cases:  cases,
	}
}

// copyTodo creates a deep copy of a todo
func copyTodo(t *model.Todo) *model.Todo {
	assignees := make([]string, len(t.AssigneeIDs))
	copy(assignees, t.AssigneeIDs)

	var caseID *int64
	if t.CaseID != nil {
		id := *t.CaseID
		caseID = &id
	}

	return &model.Todo{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
		StartDate:   t.StartDate,
		EndDate:     t.EndDate,
		Priority:    t.Priority,
		Status:      t.Status,
		Archived:    t.Archived,
		AssigneeIDs: assignees,
		CaseID:      caseID,
	}
}

// filter returns copies of todos matching pred, ordered by ID
func (r *todoRepository) filter(pred func(*model.Todo) bool) []*model.Todo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	todos := make([]*model.Todo, 0, len(r.todos))
	for _, t := range r.todos {
		if pred(t) {
			todos = append(todos, copyTodo(t))
		}
	}
	sort.Slice(todos, func(i, j int) bool { return todos[i].ID < todos[j].ID })
	return todos
}

func (r *todoRepository) List(ctx context.Context) ([]*model.Todo, error) {
	return r.filter(func(*model.Todo) bool { return true }), nil
}

func (r *todoRepository) ListNonArchived(ctx context.Context) ([]*model.Todo, error) {
	return r.filter(func(t *model.Todo) bool { return !t.Archived }), nil
}

func (r *todoRepository) Get(ctx context.Context, id int64) (*model.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, exists := r.todos[id]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "todo not found", goerr.V("id", id))
	}
	return copyTodo(t), nil
}

func (r *todoRepository) ListNonArchivedByCaseUser(ctx context.Context, username string) ([]*model.Todo, error) {
	cases, err := r.cases.ListByUser(ctx, username)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list cases of user", goerr.V("username", username))
	}

	caseIDs := make(map[int64]struct{}, len(cases))
	for _, c := range cases {
		caseIDs[c.ID] = struct{}{}
	}

	return r.filter(func(t *model.Todo) bool {
		if t.Archived || t.CaseID == nil {
			return false
		}
		_, ok := caseIDs[*t.CaseID]
		return ok
	}), nil
}

func (r *todoRepository) ListNonArchivedByAssignee(ctx context.Context, username string) ([]*model.Todo, error) {
	return r.filter(func(t *model.Todo) bool {
		return !t.Archived && t.HasAssignee(username)
	}), nil
}

func (r *todoRepository) Save(ctx context.Context, todo *model.Todo) (*model.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	saved := copyTodo(todo)
	saved.AssigneeIDs = model.UniqueStrings(saved.AssigneeIDs)

	if saved.ID == 0 {
		saved.ID = r.nextID
		r.nextID++
	} else {
		existing, exists := r.todos[saved.ID]
		if !exists {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "todo not found", goerr.V("id", saved.ID))
		}
		saved.CreatedAt = existing.CreatedAt
	}

	r.todos[saved.ID] = saved
	return copyTodo(saved), nil
}

func (r *todoRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.todos[id]; !exists {
		return goerr.Wrap(interfaces.ErrNotFound, "todo not found", goerr.V("id", id))
	}

	delete(r.todos, id)
	return nil
}

func (r *todoRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.todos)), nil
}

func (r *todoRepository) DetachCase(ctx context.Context, caseID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.todos {
		if t.BelongsToCase(caseID) {
			t.CaseID = nil
		}
	}
	return nil
}
