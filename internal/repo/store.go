package repo

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/xxxsen/cardkeep/internal/config"
	"github.com/xxxsen/cardkeep/internal/model"
)

// UserStore persists users keyed by their normalized email.
type UserStore interface {
	// Create returns ErrConflict when the email is already taken.
	Create(ctx context.Context, user *model.User) error
	// GetByEmail returns ErrNotFound when no user has the email.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// CardStore persists cards. Every read and delete matches on owner as well as
// id, so a card owned by someone else looks exactly like a missing one.
type CardStore interface {
	Create(ctx context.Context, card *model.Card) error
	ListByOwner(ctx context.Context, owner string) ([]model.Card, error)
	GetByOwner(ctx context.Context, owner, id string) (*model.Card, error)
	// DeleteByOwner returns ErrNotFound when nothing was removed.
	DeleteByOwner(ctx context.Context, owner, id string) error
}

type Store interface {
	Users() UserStore
	Cards() CardStore
	// Migrate creates tables or indexes, including the unique constraints on
	// user email and card id.
	Migrate(ctx context.Context) error
	Close(ctx context.Context) error
}

type Factory func(ctx context.Context, cfg config.StoreConfig) (Store, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

func Register(name string, factory Factory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	registryMu.Lock()
	registry[key] = factory
	registryMu.Unlock()
}

func New(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	key := strings.ToLower(strings.TrimSpace(cfg.Type))
	if key == "" {
		return nil, fmt.Errorf("store.type is required")
	}
	registryMu.RLock()
	factory := registry[key]
	registryMu.RUnlock()
	if factory == nil {
		return nil, fmt.Errorf("unsupported store type: %s", cfg.Type)
	}
	return factory(ctx, cfg)
}
