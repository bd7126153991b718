package service

import (
	"context"
	"strings"
	"time"

	"github.com/xxxsen/cardkeep/internal/model"
	appErr "github.com/xxxsen/cardkeep/internal/pkg/errors"
	"github.com/xxxsen/cardkeep/internal/repo"
)

// CardService runs every card operation on behalf of an authenticated owner.
// Cards belonging to anyone else are reported as ErrNotFound.
type CardService struct {
	users repo.UserStore
	cards repo.CardStore
}

func NewCardService(users repo.UserStore, cards repo.CardStore) *CardService {
	return &CardService{users: users, cards: cards}
}

type CardCreateInput struct {
	Name    string
	Title   string
	Company string
	Email   string
	Phone   string
}

// requireUser guards against tokens that outlive their user.
func (s *CardService) requireUser(ctx context.Context, owner string) error {
	if owner == "" {
		return appErr.ErrUnknownUser
	}
	if _, err := s.users.GetByEmail(ctx, owner); err != nil {
		if appErr.IsNotFound(err) {
			return appErr.ErrUnknownUser
		}
		return err
	}
	return nil
}

func (s *CardService) Create(ctx context.Context, owner string, input CardCreateInput) (*model.Card, error) {
	if err := s.requireUser(ctx, owner); err != nil {
		return nil, err
	}
	card := &model.Card{
		ID:      newID(),
		Owner:   owner,
		Name:    strings.TrimSpace(input.Name),
		Title:   strings.TrimSpace(input.Title),
		Company: strings.TrimSpace(input.Company),
		Email:   strings.TrimSpace(input.Email),
		Phone:   strings.TrimSpace(input.Phone),
		Ctime:   time.Now().UnixMilli(),
	}
	if err := s.cards.Create(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}

func (s *CardService) List(ctx context.Context, owner string) ([]model.Card, error) {
	if err := s.requireUser(ctx, owner); err != nil {
		return nil, err
	}
	return s.cards.ListByOwner(ctx, owner)
}

func (s *CardService) Get(ctx context.Context, owner, cardID string) (*model.Card, error) {
	if err := s.requireUser(ctx, owner); err != nil {
		return nil, err
	}
	return s.cards.GetByOwner(ctx, owner, cardID)
}

func (s *CardService) Delete(ctx context.Context, owner, cardID string) error {
	if err := s.requireUser(ctx, owner); err != nil {
		return err
	}
	return s.cards.DeleteByOwner(ctx, owner, cardID)
}
