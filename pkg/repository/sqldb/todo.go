package sqldb

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lexdesk/casework/pkg/domain/interfaces"
	"github.com/lexdesk/casework/pkg/domain/model"
	"github.com/lexdesk/casework/pkg/domain/types"
	"github.com/lexdesk/casework/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
)

const todoColumns = `t.id, t.name, t.description, t.created_at, t.start_date, t.end_date, t.priority, t.status, t.archived, t.case_id`

type todoRow struct {
	ID          int64         `db:"id"`
	Name        string        `db:"name"`
	Description string        `db:"description"`
	CreatedAt   time.Time     `db:"created_at"`
	StartDate   string        `db:"start_date"`
	EndDate     string        `db:"end_date"`
	Priority    string        `db:"priority"`
	Status      string        `db:"status"`
	Archived    bool          `db:"archived"`
	CaseID      sql.NullInt64 `db:"case_id"`
}

func (r *todoRow) toModel() *model.Todo {
	t := &model.Todo{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		CreatedAt:   r.CreatedAt.UTC(),
		StartDate:   types.Date(r.StartDate),
		EndDate:     types.Date(r.EndDate),
		Priority:    types.Priority(r.Priority),
		Status:      types.TodoStatus(r.Status),
		Archived:    r.Archived,
		AssigneeIDs: []string{},
	}
	if r.CaseID.Valid {
		id := r.CaseID.Int64
		t.CaseID = &id
	}
	return t
}

type assigneeRow struct {
	TodoID   int64  `db:"todo_id"`
	Username string `db:"username"`
}

type todoRepository struct {
	db *sqlx.DB
}

// query selects todos and attaches their assignees, ordered by ID
func (r *todoRepository) query(ctx context.Context, q string, args ...any) ([]*model.Todo, error) {
	var rows []todoRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(q), args...); err != nil {
		return nil, goerr.Wrap(err, "failed to query todos")
	}

	todos := make([]*model.Todo, len(rows))
	byID := make(map[int64]*model.Todo, len(rows))
	ids := make([]int64, len(rows))
	for i := range rows {
		todos[i] = rows[i].toModel()
		byID[rows[i].ID] = todos[i]
		ids[i] = rows[i].ID
	}
	if len(ids) == 0 {
		return todos, nil
	}

	aq, aargs, err := sqlx.In(`SELECT todo_id, username FROM todo_assignees WHERE todo_id IN (?) ORDER BY todo_id, username`, ids)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build assignee query")
	}
	var assignees []assigneeRow
	if err := r.db.SelectContext(ctx, &assignees, r.db.Rebind(aq), aargs...); err != nil {
		return nil, goerr.Wrap(err, "failed to query todo assignees")
	}
	for _, a := range assignees {
		if t, ok := byID[a.TodoID]; ok {
			t.AssigneeIDs = append(t.AssigneeIDs, a.Username)
		}
	}

	return todos, nil
}

func (r *todoRepository) List(ctx context.Context) ([]*model.Todo, error) {
	return r.query(ctx, `SELECT `+todoColumns+` FROM todos t ORDER BY t.id`)
}

func (r *todoRepository) ListNonArchived(ctx context.Context) ([]*model.Todo, error) {
	return r.query(ctx, `SELECT `+todoColumns+` FROM todos t WHERE t.archived = FALSE ORDER BY t.id`)
}

func (r *todoRepository) Get(ctx context.Context, id int64) (*model.Todo, error) {
	todos, err := r.query(ctx, `SELECT `+todoColumns+` FROM todos t WHERE t.id = ?`, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get todo", goerr.V("id", id))
	}
	if len(todos) == 0 {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "todo not found", goerr.V("id", id))
	}
	return todos[0], nil
}

func (r *todoRepository) ListNonArchivedByCaseUser(ctx context.Context, username string) ([]*model.Todo, error) {
	return r.query(ctx, `SELECT DISTINCT `+todoColumns+` FROM todos t
		JOIN case_users cu ON cu.case_id = t.case_id
		WHERE cu.username = ? AND t.archived = FALSE
		ORDER BY t.id`, username)
}

func (r *todoRepository) ListNonArchivedByAssignee(ctx context.Context, username string) ([]*model.Todo, error) {
	return r.query(ctx, `SELECT DISTINCT `+todoColumns+` FROM todos t
		JOIN todo_assignees ta ON ta.todo_id = t.id
		WHERE ta.username = ? AND t.archived = FALSE
		ORDER BY t.id`, username)
}

func nullInt64(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}

func (r *todoRepository) Save(ctx context.Context, todo *model.Todo) (*model.Todo, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to begin transaction")
	}
	defer safe.Rollback(ctx, tx)

	id := todo.ID
	if id == 0 {
		createdAt := todo.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}
		err := tx.GetContext(ctx, &id, tx.Rebind(`INSERT INTO todos
			(name, description, created_at, start_date, end_date, priority, status, archived, case_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`),
			todo.Name, todo.Description, createdAt.UTC(), string(todo.StartDate), string(todo.EndDate),
			string(todo.Priority), string(todo.Status), todo.Archived, nullInt64(todo.CaseID))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to insert todo")
		}
	} else {
		res, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE todos SET
			name = ?, description = ?, start_date = ?, end_date = ?, priority = ?, status = ?, archived = ?, case_id = ?
			WHERE id = ?`),
			todo.Name, todo.Description, string(todo.StartDate), string(todo.EndDate),
			string(todo.Priority), string(todo.Status), todo.Archived, nullInt64(todo.CaseID), id)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to update todo", goerr.V("id", id))
		}
		if n, err := res.RowsAffected(); err != nil {
			return nil, goerr.Wrap(err, "failed to check updated rows", goerr.V("id", id))
		} else if n == 0 {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "todo not found", goerr.V("id", id))
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM todo_assignees WHERE todo_id = ?`), id); err != nil {
			return nil, goerr.Wrap(err, "failed to clear todo assignees", goerr.V("id", id))
		}
	}

	for _, username := range model.UniqueStrings(todo.AssigneeIDs) {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`INSERT INTO todo_assignees (todo_id, username) VALUES (?, ?)`), id, username); err != nil {
			return nil, goerr.Wrap(err, "failed to insert todo assignee", goerr.V("id", id), goerr.V("username", username))
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, goerr.Wrap(err, "failed to commit todo", goerr.V("id", id))
	}

	return r.Get(ctx, id)
}

func (r *todoRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM todos WHERE id = ?`), id)
	if err != nil {
		return goerr.Wrap(err, "failed to delete todo", goerr.V("id", id))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return goerr.Wrap(err, "failed to check deleted rows", goerr.V("id", id))
	}
	if n == 0 {
		return goerr.Wrap(interfaces.ErrNotFound, "todo not found", goerr.V("id", id))
	}
	return nil
}

func (r *todoRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM todos`); err != nil {
		return 0, goerr.Wrap(err, "failed to count todos")
	}
	return n, nil
}

func (r *todoRepository) DetachCase(ctx context.Context, caseID int64) error {
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE todos SET case_id = NULL WHERE case_id = ?`), caseID); err != nil {
		return goerr.Wrap(err, "failed to detach case from todos", goerr.V("case_id", caseID))
	}
	return nil
}
