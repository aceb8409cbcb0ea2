package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/lexdesk/casework/pkg/domain/interfaces"
	"github.com/lexdesk/casework/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

type userRepository struct {
	mu    sync.RWMutex
	users map[string]*model.User
}

func newUserRepository() *userRepository {
	return &userRepository{
		users: make(map[string]*model.User),
	}
}

func copyUser(u *model.User) *model.User {
	return &model.User{
		Username: u.Username,
		Name:     u.Name,
		Email:    u.Email,
		Roles:    u.RoleSet().Slice(),
	}
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, exists := r.users[username]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "user not found", goerr.V("username", username))
	}
	return copyUser(u), nil
}

// Save inserts or replaces the user keyed by username. Roles are normalized on the way in.
func (r *userRepository) Save(ctx context.Context, user *model.User) error {
	if user.Username == "" {
		return goerr.New("username is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.users[user.Username] = copyUser(user)
	return nil
}

func (r *userRepository) List(ctx context.Context) ([]*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*model.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, copyUser(u))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

