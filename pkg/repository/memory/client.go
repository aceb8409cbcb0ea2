package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/lexdesk/casework/pkg/domain/interfaces"
	"github.com/lexdesk/casework/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

type clientRepository struct {
	mu      sync.RWMutex
	clients map[int64]*model.Client // keyed by IDPrefix
	nextID  int64
}

func newClientRepository() *clientRepository {
	return &clientRepository{
		clients: make(map[int64]*model.Client),
		nextID:  1,
	}
}

func copyClient(c *model.Client) *model.Client {
	userIDs := make([]string, len(c.UserIDs))
	copy(userIDs, c.UserIDs)

	return &model.Client{
		ID:        c.ID,
		Name:      c.Name,
		UserIDs:   userIDs,
		IDPrefix:  c.IDPrefix,
		CreatedAt: c.CreatedAt,
	}
}

func (r *clientRepository) Create(ctx context.Context, client *model.Client) (*model.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.clients[client.IDPrefix]; exists {
		return nil, goerr.New("client id prefix already exists", goerr.V("id_prefix", client.IDPrefix))
	}
	for _, c := range r.clients {
		if c.Name == client.Name {
			return nil, goerr.New("client name already exists", goerr.V("name", client.Name))
		}
	}

	created := copyClient(client)
	created.ID = r.nextID
	created.CreatedAt = time.Now().UTC()
	r.nextID++

	r.clients[created.IDPrefix] = created
	return copyClient(created), nil
}

func (r *clientRepository) List(ctx context.Context) ([]*model.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clients := make([]*model.Client, 0, len(r.clients))
	for _, c := range r.clients {
		clients = append(clients, copyClient(c))
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].ID < clients[j].ID })
	return clients, nil
}

func (r *clientRepository) GetByIDPrefix(ctx context.Context, idPrefix int64) (*model.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, exists := r.clients[idPrefix]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "client not found", goerr.V("id_prefix", idPrefix))
	}
	return copyClient(c), nil
}

func (r *clientRepository) GetByName(ctx context.Context, name string) (*model.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.clients {
		if c.Name == name {
			return copyClient(c), nil
		}
	}
	return nil, goerr.Wrap(interfaces.ErrNotFound, "client not found", goerr.V("name", name))
}

func (r *clientRepository) Delete(ctx context.Context, idPrefix int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.clients[idPrefix]; !exists {
		return goerr.Wrap(interfaces.ErrNotFound, "client not found", goerr.V("id_prefix", idPrefix))
	}
	delete(r.clients, idPrefix)
	return nil
}
