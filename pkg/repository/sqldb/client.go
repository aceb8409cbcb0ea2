package sqldb

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lexdesk/casework/pkg/domain/interfaces"
	"github.com/lexdesk/casework/pkg/domain/model"
	"github.com/lexdesk/casework/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
)

const clientColumns = `c.id, c.name, c.id_prefix, c.created_at`

type clientRow struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	IDPrefix  int64     `db:"id_prefix"`
	CreatedAt time.Time `db:"created_at"`
}

type clientRepository struct {
	db *sqlx.DB
}

func (r *clientRepository) query(ctx context.Context, q string, args ...any) ([]*model.Client, error) {
	var rows []clientRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(q), args...); err != nil {
		return nil, goerr.Wrap(err, "failed to query clients")
	}

	clients := make([]*model.Client, len(rows))
	byID := make(map[int64]*model.Client, len(rows))
	ids := make([]int64, len(rows))
	for i, row := range rows {
		clients[i] = &model.Client{
			ID:        row.ID,
			Name:      row.Name,
			UserIDs:   []string{},
			IDPrefix:  row.IDPrefix,
			CreatedAt: row.CreatedAt.UTC(),
		}
		byID[row.ID] = clients[i]
		ids[i] = row.ID
	}
	if len(ids) == 0 {
		return clients, nil
	}

	mq, margs, err := sqlx.In(`SELECT client_id AS owner_id, username FROM client_users WHERE client_id IN (?) ORDER BY client_id, username`, ids)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build client member query")
	}
	var members []memberRow
	if err := r.db.SelectContext(ctx, &members, r.db.Rebind(mq), margs...); err != nil {
		return nil, goerr.Wrap(err, "failed to query client members")
	}
	for _, m := range members {
		if c, ok := byID[m.OwnerID]; ok {
			c.UserIDs = append(c.UserIDs, m.Username)
		}
	}
	return clients, nil
}

func (r *clientRepository) one(ctx context.Context, q string, arg any, key string) (*model.Client, error) {
	clients, err := r.query(ctx, q, arg)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get client", goerr.V(key, arg))
	}
	if len(clients) == 0 {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "client not found", goerr.V(key, arg))
	}
	return clients[0], nil
}

func (r *clientRepository) Create(ctx context.Context, client *model.Client) (*model.Client, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to begin transaction")
	}
	defer safe.Rollback(ctx, tx)

	var id int64
	err = tx.GetContext(ctx, &id, tx.Rebind(`INSERT INTO clients (name, id_prefix, created_at) VALUES (?, ?, ?) RETURNING id`),
		client.Name, client.IDPrefix, time.Now().UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return nil, goerr.Wrap(err, "client already exists",
				goerr.V("name", client.Name), goerr.V("id_prefix", client.IDPrefix))
		}
		return nil, goerr.Wrap(err, "failed to insert client")
	}

	for _, u := range model.UniqueStrings(client.UserIDs) {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`INSERT INTO client_users (client_id, username) VALUES (?, ?)`), id, u); err != nil {
			return nil, goerr.Wrap(err, "failed to insert client member", goerr.V("id", id), goerr.V("username", u))
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, goerr.Wrap(err, "failed to commit client", goerr.V("id", id))
	}

	return r.GetByIDPrefix(ctx, client.IDPrefix)
}

func (r *clientRepository) List(ctx context.Context) ([]*model.Client, error) {
	return r.query(ctx, `SELECT `+clientColumns+` FROM clients c ORDER BY c.id`)
}

func (r *clientRepository) GetByIDPrefix(ctx context.Context, idPrefix int64) (*model.Client, error) {
	return r.one(ctx, `SELECT `+clientColumns+` FROM clients c WHERE c.id_prefix = ?`, idPrefix, "id_prefix")
}

func (r *clientRepository) GetByName(ctx context.Context, name string) (*model.Client, error) {
	return r.one(ctx, `SELECT `+clientColumns+` FROM clients c WHERE c.name = ?`, name, "name")
}

func (r *clientRepository) Delete(ctx context.Context, idPrefix int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM clients WHERE id_prefix = ?`), idPrefix)
	if err != nil {
		return goerr.Wrap(err, "failed to delete client", goerr.V("id_prefix", idPrefix))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return goerr.Wrap(err, "failed to check deleted rows", goerr.V("id_prefix", idPrefix))
	}
	if n == 0 {
		return goerr.Wrap(interfaces.ErrNotFound, "client not found", goerr.V("id_prefix", idPrefix))
	}
	return nil
}
