package sem

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIdentPoolDeclareAssignsSequentialIDs(t *testing.T) {
	pool := NewIdentPool()
	types := NewTypePool()

	a := pool.Declare("assert", types.Void(), false)
	b := pool.Declare("print", types.Void(), false)

	require.Equal(t, Ident(1), a)
	require.Equal(t, Ident(2), b)
	require.Equal(t, "assert", pool.Spelling(a))
	require.False(t, pool.IsLocal(a))
}

func TestIdentPoolDeclareDisplayKeepsDistinctDisplayName(t *testing.T) {
	pool := NewIdentPool()
	types := NewTypePool()

	id := pool.DeclareDisplay("x.1", "x", types.Int(), true)
	require.Equal(t, "x.1", pool.Spelling(id))
	require.Equal(t, "x", pool.Display(id))
	require.True(t, pool.IsLocal(id))
}

func TestIdentPoolUserFuncBoundary(t *testing.T) {
	pool := NewIdentPool()
	types := NewTypePool()

	pool.Declare("assert", types.Void(), false)
	pool.Declare("print", types.Void(), false)
	pool.MarkUserFuncBoundary()
	f := pool.Declare("f", types.Int(), false)

	require.Equal(t, 3, pool.BeginUserFunc())
	require.GreaterOrEqual(t, int(f), pool.BeginUserFunc())
}

func TestIdentPoolMain(t *testing.T) {
	pool := NewIdentPool()
	types := NewTypePool()

	require.Equal(t, Ident(0), pool.Main())
	m := pool.Declare("main", types.Int(), false)
	pool.SetMain(m)
	require.Equal(t, m, pool.Main())
}
