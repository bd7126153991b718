package repo

import (
	"context"
	"time"

	"github.com/xxxsen/cardkeep/internal/model"
)

// WithTimeout bounds every user and card call by d. d <= 0 returns s as is.
func WithTimeout(s Store, d time.Duration) Store {
	if s == nil || d <= 0 {
		return s
	}
	return &timeoutStore{
		Store: s,
		users: &timeoutUsers{next: s.Users(), d: d},
		cards: &timeoutCards{next: s.Cards(), d: d},
	}
}

type timeoutStore struct {
	Store
	users UserStore
	cards CardStore
}

func (s *timeoutStore) Users() UserStore {
	return s.users
}

func (s *timeoutStore) Cards() CardStore {
	return s.cards
}

type timeoutUsers struct {
	next UserStore
	d    time.Duration
}

func (t *timeoutUsers) Create(ctx context.Context, user *model.User) error {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()
	return t.next.Create(ctx, user)
}

func (t *timeoutUsers) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()
	return t.next.GetByEmail(ctx, email)
}

type timeoutCards struct {
	next CardStore
	d    time.Duration
}

func (t *timeoutCards) Create(ctx context.Context, card *model.Card) error {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()
	return t.next.Create(ctx, card)
}

func (t *timeoutCards) ListByOwner(ctx context.Context, owner string) ([]model.Card, error) {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()
	return t.next.ListByOwner(ctx, owner)
}

func (t *timeoutCards) GetByOwner(ctx context.Context, owner, id string) (*model.Card, error) {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()
	return t.next.GetByOwner(ctx, owner, id)
}

func (t *timeoutCards) DeleteByOwner(ctx context.Context, owner, id string) error {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()
	return t.next.DeleteByOwner(ctx, owner, id)
}
