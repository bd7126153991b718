package repo

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/cardkeep/internal/model"
)

// WithUserCache caches successful email lookups. Users are never updated or
// deleted, so only misses need to reach the store.
func WithUserCache(s Store, size int, ttl time.Duration) Store {
	if s == nil || size <= 0 || ttl <= 0 {
		return s
	}
	return &cachedStore{
		Store: s,
		users: newCachedUsers(s.Users(), size, ttl),
	}
}

type cachedStore struct {
	Store
	users UserStore
}

func (s *cachedStore) Users() UserStore {
	return s.users
}

type cachedUsers struct {
	next  UserStore
	cache *expirable.LRU[string, model.User]
}

func newCachedUsers(next UserStore, size int, ttl time.Duration) *cachedUsers {
	return &cachedUsers{
		next:  next,
		cache: expirable.NewLRU[string, model.User](size, nil, ttl),
	}
}

func (c *cachedUsers) Create(ctx context.Context, user *model.User) error {
	if err := c.next.Create(ctx, user); err != nil {
		return err
	}
	c.cache.Add(user.Email, *user)
	return nil
}

func (c *cachedUsers) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if cached, ok := c.cache.Get(email); ok {
		logutil.GetLogger(ctx).Debug("user cache hit", zap.String("email", email))
		return &cached, nil
	}
	user, err := c.next.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	c.cache.Add(email, *user)
	return user, nil
}
