package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	appErr "github.com/xxxsen/cardkeep/internal/pkg/errors"
)

func TestHashVerify(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	for _, plain := range []string{"pw1", "", "correct horse battery staple", "пароль"} {
		hash, err := h.Hash(plain)
		require.NoError(t, err)
		require.NotEqual(t, plain, hash)
		require.True(t, h.Verify(plain, hash))
		require.False(t, h.Verify(plain+"x", hash))
	}
}

func TestHashIsSalted(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)
	require.NotEqual(t, a, b)
	require.True(t, h.Verify("same", a))
	require.True(t, h.Verify("same", b))
}

func TestVerifyMalformedHash(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	require.False(t, h.Verify("pw", ""))
	require.False(t, h.Verify("pw", "not-a-bcrypt-hash"))
}

func TestHashTooLong(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	_, err := h.Hash(strings.Repeat("a", MaxLength+1))
	require.ErrorIs(t, err, appErr.ErrInvalid)

	hash, err := h.Hash(strings.Repeat("a", MaxLength))
	require.NoError(t, err)
	require.True(t, h.Verify(strings.Repeat("a", MaxLength), hash))
}

func TestNewHasherCost(t *testing.T) {
	require.Equal(t, bcrypt.DefaultCost, NewHasher(0).Cost())
	require.Equal(t, bcrypt.MinCost, NewHasher(1).Cost())
	require.Equal(t, bcrypt.MaxCost, NewHasher(99).Cost())
	require.Equal(t, 12, NewHasher(12).Cost())

	h := NewHasher(5)
	hash, err := h.Hash("pw")
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	require.Equal(t, 5, cost)
}
