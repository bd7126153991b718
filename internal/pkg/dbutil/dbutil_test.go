package dbutil

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func TestFinalize(t *testing.T) {
	args := []interface{}{"a", "b"}
	q, out := Finalize("postgres", "SELECT * FROM cards WHERE owner=? AND id=?", args)
	require.Equal(t, "SELECT * FROM cards WHERE owner=$1 AND id=$2", q)
	require.Equal(t, args, out)

	q, _ = Finalize("sqlite", "SELECT * FROM cards WHERE owner=? AND id=?", args)
	require.Equal(t, "SELECT * FROM cards WHERE owner=? AND id=?", q)
}

func TestIsConflict(t *testing.T) {
	require.True(t, IsConflict(&pq.Error{Code: "23505"}))
	require.True(t, IsConflict(fmt.Errorf("insert: %w", &pq.Error{Code: "23505"})))
	require.False(t, IsConflict(&pq.Error{Code: "23503"}))
	require.False(t, IsConflict(errors.New("boom")))
	require.False(t, IsConflict(nil))
}
