package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/cardkeep/internal/model"
	appErr "github.com/xxxsen/cardkeep/internal/pkg/errors"
	"github.com/xxxsen/cardkeep/internal/pkg/jwt"
	"github.com/xxxsen/cardkeep/internal/pkg/password"
	"github.com/xxxsen/cardkeep/internal/repo"
)

// NormalizeEmail is the single email policy: trimmed and lower-cased.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type AuthService struct {
	users     repo.UserStore
	hasher    *password.Hasher
	tokens    *jwt.Signer
	tokenTTL  time.Duration
	dummyHash string
}

func NewAuthService(users repo.UserStore, hasher *password.Hasher, tokens *jwt.Signer, ttl time.Duration) (*AuthService, error) {
	if hasher == nil || tokens == nil {
		return nil, fmt.Errorf("auth service requires a hasher and a token signer")
	}
	// compared against when the user does not exist so both login failures cost the same
	dummy, err := hasher.Hash("cardkeep-login-placeholder")
	if err != nil {
		return nil, fmt.Errorf("init dummy hash: %w", err)
	}
	return &AuthService{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		tokenTTL:  ttl,
		dummyHash: dummy,
	}, nil
}

func (s *AuthService) Register(ctx context.Context, email, plainPassword string) error {
	email = NormalizeEmail(email)
	if email == "" || plainPassword == "" {
		return appErr.ErrInvalid
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return appErr.ErrDuplicateUser
	} else if !appErr.IsNotFound(err) {
		return err
	}
	hash, err := s.hasher.Hash(plainPassword)
	if err != nil {
		return err
	}
	user := &model.User{
		Email:        email,
		PasswordHash: hash,
		Ctime:        time.Now().UnixMilli(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if appErr.IsConflict(err) {
			return appErr.ErrDuplicateUser
		}
		return err
	}
	logutil.GetLogger(ctx).Info("user registered", zap.String("email", email))
	return nil
}

// Login returns a bearer token for the user. Unknown email and wrong password
// both fail with ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, plainPassword string) (string, error) {
	email = NormalizeEmail(email)
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if appErr.IsNotFound(err) {
			s.hasher.Verify(plainPassword, s.dummyHash)
			return "", appErr.ErrInvalidCredentials
		}
		return "", err
	}
	if !s.hasher.Verify(plainPassword, user.PasswordHash) {
		return "", appErr.ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(user.Email, s.tokenTTL)
	if err != nil {
		return "", err
	}
	return token, nil
}
