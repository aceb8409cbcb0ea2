package sqldb

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lexdesk/casework/pkg/domain/interfaces"
	"github.com/lexdesk/casework/pkg/domain/model"
	"github.com/lexdesk/casework/pkg/domain/types"
	"github.com/lexdesk/casework/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
)

type userRow struct {
	Username string `db:"username"`
	Name     string `db:"name"`
	Email    string `db:"email"`
}

type roleRow struct {
	Username string `db:"username"`
	Role     string `db:"role"`
}

type userRepository struct {
	db *sqlx.DB
}

func (r *userRepository) query(ctx context.Context, q string, args ...any) ([]*model.User, error) {
	var rows []userRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(q), args...); err != nil {
		return nil, goerr.Wrap(err, "failed to query users")
	}

	users := make([]*model.User, len(rows))
	byName := make(map[string]*model.User, len(rows))
	names := make([]string, len(rows))
	for i, row := range rows {
		users[i] = &model.User{Username: row.Username, Name: row.Name, Email: row.Email, Roles: []types.Role{}}
		byName[row.Username] = users[i]
		names[i] = row.Username
	}
	if len(names) == 0 {
		return users, nil
	}

	rq, rargs, err := sqlx.In(`SELECT username, role FROM user_roles WHERE username IN (?)`, names)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build role query")
	}
	var roles []roleRow
	if err := r.db.SelectContext(ctx, &roles, r.db.Rebind(rq), rargs...); err != nil {
		return nil, goerr.Wrap(err, "failed to query user roles")
	}
	for _, role := range roles {
		if u, ok := byName[role.Username]; ok {
			u.Roles = append(u.Roles, types.Role(role.Role))
		}
	}
	for _, u := range users {
		u.Roles = u.RoleSet().Slice()
	}
	return users, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	users, err := r.query(ctx, `SELECT username, name, email FROM users WHERE username = ?`, username)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get user", goerr.V("username", username))
	}
	if len(users) == 0 {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "user not found", goerr.V("username", username))
	}
	return users[0], nil
}

// Save inserts or replaces the user and its roles
func (r *userRepository) Save(ctx context.Context, user *model.User) error {
	if user.Username == "" {
		return goerr.New("username is required")
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return goerr.Wrap(err, "failed to begin transaction")
	}
	defer safe.Rollback(ctx, tx)

	if _, err := tx.ExecContext(ctx, tx.Rebind(`INSERT INTO users (username, name, email) VALUES (?, ?, ?)
		ON CONFLICT (username) DO UPDATE SET name = excluded.name, email = excluded.email`),
		user.Username, user.Name, user.Email); err != nil {
		return goerr.Wrap(err, "failed to upsert user", goerr.V("username", user.Username))
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM user_roles WHERE username = ?`), user.Username); err != nil {
		return goerr.Wrap(err, "failed to clear user roles", goerr.V("username", user.Username))
	}
	for _, role := range user.RoleSet().Slice() {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`INSERT INTO user_roles (username, role) VALUES (?, ?)`), user.Username, string(role)); err != nil {
			return goerr.Wrap(err, "failed to insert user role", goerr.V("username", user.Username), goerr.V("role", role))
		}
	}

	if err := tx.Commit(); err != nil {
		return goerr.Wrap(err, "failed to commit user", goerr.V("username", user.Username))
	}
	return nil
}

func (r *userRepository) List(ctx context.Context) ([]*model.User, error) {
	return r.query(ctx, `SELECT username, name, email FROM users ORDER BY username`)
}
