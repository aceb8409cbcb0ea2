package sqldb

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lexdesk/casework/pkg/domain/interfaces"
	"github.com/lexdesk/casework/pkg/domain/model"
	"github.com/lexdesk/casework/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
)

const caseColumns = `c.id, c.name, c.client_id, c.created_at, c.updated_at`

type caseRow struct {
	ID        int64         `db:"id"`
	Name      string        `db:"name"`
	ClientID  sql.NullInt64 `db:"client_id"`
	CreatedAt time.Time     `db:"created_at"`
	UpdatedAt time.Time     `db:"updated_at"`
}

type memberRow struct {
	OwnerID  int64  `db:"owner_id"`
	Username string `db:"username"`
}

type caseRepository struct {
	db *sqlx.DB
}

func (r *caseRepository) query(ctx context.Context, q string, args ...any) ([]*model.Case, error) {
	var rows []caseRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(q), args...); err != nil {
		return nil, goerr.Wrap(err, "failed to query cases")
	}

	cases := make([]*model.Case, len(rows))
	byID := make(map[int64]*model.Case, len(rows))
	ids := make([]int64, len(rows))
	for i, row := range rows {
		c := &model.Case{
			ID:        row.ID,
			Name:      row.Name,
			UserIDs:   []string{},
			CreatedAt: row.CreatedAt.UTC(),
			UpdatedAt: row.UpdatedAt.UTC(),
		}
		if row.ClientID.Valid {
			id := row.ClientID.Int64
			c.ClientID = &id
		}
		cases[i] = c
		byID[c.ID] = c
		ids[i] = c.ID
	}
	if len(ids) == 0 {
		return cases, nil
	}

	mq, margs, err := sqlx.In(`SELECT case_id AS owner_id, username FROM case_users WHERE case_id IN (?) ORDER BY case_id, username`, ids)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build case member query")
	}
	var members []memberRow
	if err := r.db.SelectContext(ctx, &members, r.db.Rebind(mq), margs...); err != nil {
		return nil, goerr.Wrap(err, "failed to query case members")
	}
	for _, m := range members {
		if c, ok := byID[m.OwnerID]; ok {
			c.UserIDs = append(c.UserIDs, m.Username)
		}
	}
	return cases, nil
}

func replaceCaseUsers(ctx context.Context, tx *sqlx.Tx, caseID int64, usernames []string) error {
	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM case_users WHERE case_id = ?`), caseID); err != nil {
		return goerr.Wrap(err, "failed to clear case members", goerr.V("id", caseID))
	}
	for _, u := range model.UniqueStrings(usernames) {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`INSERT INTO case_users (case_id, username) VALUES (?, ?)`), caseID, u); err != nil {
			return goerr.Wrap(err, "failed to insert case member", goerr.V("id", caseID), goerr.V("username", u))
		}
	}
	return nil
}

func (r *caseRepository) Create(ctx context.Context, c *model.Case) (*model.Case, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to begin transaction")
	}
	defer safe.Rollback(ctx, tx)

	now := time.Now().UTC()
	var id int64
	if err := tx.GetContext(ctx, &id, tx.Rebind(`INSERT INTO cases (name, client_id, created_at, updated_at)
		VALUES (?, ?, ?, ?) RETURNING id`), c.Name, nullInt64(c.ClientID), now, now); err != nil {
		return nil, goerr.Wrap(err, "failed to insert case")
	}
	if err := replaceCaseUsers(ctx, tx, id, c.UserIDs); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, goerr.Wrap(err, "failed to commit case", goerr.V("id", id))
	}

	return r.Get(ctx, id)
}

func (r *caseRepository) Get(ctx context.Context, id int64) (*model.Case, error) {
	cases, err := r.query(ctx, `SELECT `+caseColumns+` FROM cases c WHERE c.id = ?`, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get case", goerr.V("id", id))
	}
	if len(cases) == 0 {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "case not found", goerr.V("id", id))
	}
	return cases[0], nil
}

func (r *caseRepository) List(ctx context.Context) ([]*model.Case, error) {
	return r.query(ctx, `SELECT `+caseColumns+` FROM cases c ORDER BY c.id`)
}

func (r *caseRepository) ListByUser(ctx context.Context, username string) ([]*model.Case, error) {
	return r.query(ctx, `SELECT `+caseColumns+` FROM cases c
		JOIN case_users cu ON cu.case_id = c.id
		WHERE cu.username = ?
		ORDER BY c.id`, username)
}

func (r *caseRepository) Update(ctx context.Context, c *model.Case) (*model.Case, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to begin transaction")
	}
	defer safe.Rollback(ctx, tx)

	res, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE cases SET name = ?, client_id = ?, updated_at = ? WHERE id = ?`),
		c.Name, nullInt64(c.ClientID), time.Now().UTC(), c.ID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update case", goerr.V("id", c.ID))
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, goerr.Wrap(err, "failed to check updated rows", goerr.V("id", c.ID))
	} else if n == 0 {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "case not found", goerr.V("id", c.ID))
	}
	if err := replaceCaseUsers(ctx, tx, c.ID, c.UserIDs); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, goerr.Wrap(err, "failed to commit case", goerr.V("id", c.ID))
	}

	return r.Get(ctx, c.ID)
}

func (r *caseRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM cases WHERE id = ?`), id)
	if err != nil {
		return goerr.Wrap(err, "failed to delete case", goerr.V("id", id))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return goerr.Wrap(err, "failed to check deleted rows", goerr.V("id", id))
	}
	if n == 0 {
		return goerr.Wrap(interfaces.ErrNotFound, "case not found", goerr.V("id", id))
	}
	return nil
}
