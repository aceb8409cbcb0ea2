package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/lexdesk/casework/pkg/domain/interfaces"
	"github.com/lexdesk/casework/pkg/domain/model"
	"github.com/lexdesk/casework/pkg/domain/types"
	"github.com/lexdesk/casework/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultTTL = 5 * time.Minute
	keyUser    = "casework:user:"
)

// ErrMiss is returned by a Store when the key is absent
var ErrMiss = errors.New("cache miss")

// Store is the key-value backend of the cache
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// RedisStore is a Store backed by Redis
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

// NewRedisClient parses a redis:// or rediss:// URL and checks connectivity
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid redis URL")
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, goerr.Wrap(err, "failed to ping redis", goerr.V("addr", opts.Addr))
	}
	return rdb, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get cache entry", goerr.V("key", key))
	}
	return b, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return goerr.Wrap(err, "failed to set cache entry", goerr.V("key", key))
	}
	return nil
}

func (s *RedisStore) Del(ctx context.Context, keys ...string) error {
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		return goerr.Wrap(err, "failed to delete cache entries", goerr.V("keys", keys))
	}
	return nil
}

// cachedUser is the JSON form of a user entry
type cachedUser struct {
	Username string   `json:"username"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}

func encodeUser(u *model.User) ([]byte, error) {
	roles := u.RoleSet().Slice()
	c := cachedUser{Username: u.Username, Name: u.Name, Email: u.Email, Roles: make([]string, len(roles))}
	for i, r := range roles {
		c.Roles[i] = string(r)
	}
	b, err := json.Marshal(c)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to encode user", goerr.V("username", u.Username))
	}
	return b, nil
}

func decodeUser(b []byte) (*model.User, error) {
	var c cachedUser
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, goerr.Wrap(err, "failed to decode cached user")
	}
	u := &model.User{Username: c.Username, Name: c.Name, Email: c.Email}
	for _, r := range c.Roles {
		u.Roles = append(u.Roles, types.NewRole(r))
	}
	return u, nil
}

// UserRepository is a read-through cache in front of a user directory.
// Concurrent misses for the same username share one backend lookup.
type UserRepository struct {
	base  interfaces.UserRepository
	store Store
	ttl   time.Duration
	group singleflight.Group
}

var _ interfaces.UserRepository = &UserRepository{}

func NewUserRepository(base interfaces.UserRepository, store Store, ttl time.Duration) *UserRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &UserRepository{base: base, store: store, ttl: ttl}
}

func userKey(username string) string {
	return keyUser + username
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	b, err := r.store.Get(ctx, userKey(username))
	switch {
	case err == nil:
		u, decodeErr := decodeUser(b)
		if decodeErr == nil {
			return u, nil
		}
		logging.From(ctx).Warn("discarding corrupt cache entry", "username", username, "error", decodeErr)
	case !errors.Is(err, ErrMiss):
		logging.From(ctx).Warn("user cache unavailable", "username", username, "error", err)
	}

	v, err, _ := r.group.Do(username, func() (any, error) {
		u, err := r.base.GetByUsername(ctx, username)
		if err != nil {
			return nil, err
		}
		r.put(ctx, u)
		return u, nil
	})
	if err != nil {
		return nil, err
	}

	// shared results must not alias between callers
	u := *v.(*model.User)
	u.Roles = append([]types.Role(nil), u.Roles...)
	return &u, nil
}

// Save writes through to the directory and drops the cached entry
func (r *UserRepository) Save(ctx context.Context, user *model.User) error {
	if err := r.base.Save(ctx, user); err != nil {
		return err
	}
	if err := r.store.Del(ctx, userKey(user.Username)); err != nil {
		logging.From(ctx).Warn("failed to invalidate cached user", "username", user.Username, "error", err)
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context) ([]*model.User, error) {
	return r.base.List(ctx)
}

// Warm loads every user of the directory into the cache and returns how many were stored
func (r *UserRepository) Warm(ctx context.Context) (int, error) {
	users, err := r.base.List(ctx)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to list users")
	}
	for _, u := range users {
		if err := r.set(ctx, u); err != nil {
			return 0, err
		}
	}
	return len(users), nil
}

func (r *UserRepository) set(ctx context.Context, u *model.User) error {
	b, err := encodeUser(u)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, userKey(u.Username), b, r.ttl)
}

func (r *UserRepository) put(ctx context.Context, u *model.User) {
	if err := r.set(ctx, u); err != nil {
		logging.From(ctx).Warn("failed to cache user", "username", u.Username, "error", err)
	}
}

// Repository replaces the user directory of a repository with a cached one
type Repository struct {
	interfaces.Repository
	users *UserRepository
}

var _ interfaces.Repository = &Repository{}

func Wrap(base interfaces.Repository, store Store, ttl time.Duration) *Repository {
	return &Repository{
		Repository: base,
		users:      NewUserRepository(base.User(), store, ttl),
	}
}

func (r *Repository) User() interfaces.UserRepository {
	return r.users
}

// Users exposes the cache for warming
func (r *Repository) Users() *UserRepository {
	return r.users
}
