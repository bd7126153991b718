package repo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/cardkeep/internal/model"
	appErr "github.com/xxxsen/cardkeep/internal/pkg/errors"
)

type countingUsers struct {
	UserStore
	lookups int
}

func (c *countingUsers) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	c.lookups++
	return c.UserStore.GetByEmail(ctx, email)
}

func TestCachedUsersServesHits(t *testing.T) {
	ctx := context.Background()
	inner := &countingUsers{UserStore: NewMemoryStore().Users()}
	users := newCachedUsers(inner, 8, time.Minute)

	require.NoError(t, inner.UserStore.Create(ctx, &model.User{Email: "a@x.com", PasswordHash: "h"}))
	for i := 0; i < 3; i++ {
		user, err := users.GetByEmail(ctx, "a@x.com")
		require.NoError(t, err)
		require.Equal(t, "h", user.PasswordHash)
	}
	require.Equal(t, 1, inner.lookups)
}

func TestCachedUsersDoesNotCacheMisses(t *testing.T) {
	ctx := context.Background()
	inner := &countingUsers{UserStore: NewMemoryStore().Users()}
	users := newCachedUsers(inner, 8, time.Minute)

	_, err := users.GetByEmail(ctx, "a@x.com")
	require.ErrorIs(t, err, appErr.ErrNotFound)
	require.NoError(t, users.Create(ctx, &model.User{Email: "a@x.com", PasswordHash: "h"}))
	user, err := users.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.Equal(t, "a@x.com", user.Email)
	require.Equal(t, 1, inner.lookups)

	require.ErrorIs(t, users.Create(ctx, &model.User{Email: "a@x.com"}), appErr.ErrConflict)
}

func TestCachedUsersReturnsCopies(t *testing.T) {
	ctx := context.Background()
	users := newCachedUsers(NewMemoryStore().Users(), 8, time.Minute)
	require.NoError(t, users.Create(ctx, &model.User{Email: "a@x.com", PasswordHash: "h"}))

	first, err := users.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	first.PasswordHash = "mutated"
	second, err := users.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.Equal(t, "h", second.PasswordHash)
}
