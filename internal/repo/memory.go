package repo

import (
	"context"
	"sync"

	"github.com/xxxsen/cardkeep/internal/config"
	"github.com/xxxsen/cardkeep/internal/model"
	appErr "github.com/xxxsen/cardkeep/internal/pkg/errors"
)

func init() {
	Register(config.StoreMemory, func(ctx context.Context, cfg config.StoreConfig) (Store, error) {
		return NewMemoryStore(), nil
	})
}

// MemoryStore keeps everything in process. Cards are listed in insertion order.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]model.User
	cards []model.Card
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]model.User)}
}

func (s *MemoryStore) Users() UserStore {
	return memoryUsers{s: s}
}

func (s *MemoryStore) Cards() CardStore {
	return memoryCards{s: s}
}

func (s *MemoryStore) Migrate(ctx context.Context) error {
	return nil
}

func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

type memoryUsers struct {
	s *MemoryStore
}

func (m memoryUsers) Create(ctx context.Context, user *model.User) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.users[user.Email]; ok {
		return appErr.ErrConflict
	}
	m.s.users[user.Email] = *user
	return nil
}

func (m memoryUsers) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	user, ok := m.s.users[email]
	if !ok {
		return nil, appErr.ErrNotFound
	}
	return &user, nil
}

type memoryCards struct {
	s *MemoryStore
}

func (m memoryCards) Create(ctx context.Context, card *model.Card) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, existing := range m.s.cards {
		if existing.ID == card.ID {
			return appErr.ErrConflict
		}
	}
	m.s.cards = append(m.s.cards, *card)
	return nil
}

func (m memoryCards) ListByOwner(ctx context.Context, owner string) ([]model.Card, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	cards := make([]model.Card, 0)
	for _, card := range m.s.cards {
		if card.Owner == owner {
			cards = append(cards, card)
		}
	}
	return cards, nil
}

func (m memoryCards) GetByOwner(ctx context.Context, owner, id string) (*model.Card, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	for _, card := range m.s.cards {
		if card.ID == id && card.Owner == owner {
			found := card
			return &found, nil
		}
	}
	return nil, appErr.ErrNotFound
}

func (m memoryCards) DeleteByOwner(ctx context.Context, owner, id string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for i, card := range m.s.cards {
		if card.ID == id && card.Owner == owner {
			m.s.cards = append(m.s.cards[:i], m.s.cards[i+1:]...)
			return nil
		}
	}
	return appErr.ErrNotFound
}
