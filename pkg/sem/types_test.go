package sem

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTypePoolScalarsAreInterned(t *testing.T) {
	pool := NewTypePool()
	require.Same(t, pool.Int(), pool.Int())
	require.Same(t, pool.Float(), pool.Float())
	require.NotSame(t, pool.Int(), pool.Float())
}

func TestTypePoolPointerCaching(t *testing.T) {
	pool := NewTypePool()
	p1 := pool.Pointer(pool.Int())
	p2 := pool.Pointer(pool.Int())
	require.Same(t, p1, p2, "two pointers-to-int must share one *Type")
	require.Equal(t, POINTER, p1.Kind)
	require.Equal(t, "int*", p1.String())
}

func TestTypePoolArrayCaching(t *testing.T) {
	pool := NewTypePool()
	a1 := pool.Array(pool.Float())
	a2 := pool.Array(pool.Float())
	require.Same(t, a1, a2)
	require.True(t, a1.IsArray())
}

func TestTypePoolStructsAreDistinctPerCall(t *testing.T) {
	pool := NewTypePool()
	fields := []Field{{Name: "x", Type: pool.Int()}}
	s1 := pool.Struct("point", fields)
	s2 := pool.Struct("point", fields)
	require.NotSame(t, s1, s2, "each Struct call registers a nominally distinct type")
	require.Equal(t, 0, s1.FieldIndex("x"))
	require.Equal(t, -1, s1.FieldIndex("y"))
}

func TestTypePoolBeginUserType(t *testing.T) {
	pool := NewTypePool()
	require.Equal(t, 0, pool.BeginUserType())
	pool.Struct("s", nil)
	require.Equal(t, 1, pool.BeginUserType())
}

func TestTypeClassPredicates(t *testing.T) {
	pool := NewTypePool()
	cases := []struct {
		name       string
		typ        *Type
		arithmetic bool
		integer    bool
		floating   bool
	}{
		{"int", pool.Int(), true, true, false},
		{"char", pool.Char(), true, true, false},
		{"bool", pool.Bool(), true, true, false},
		{"float", pool.Float(), true, false, true},
		{"pointer", pool.Pointer(pool.Int()), false, false, false},
		{"void", pool.Void(), false, false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.arithmetic, tc.typ.IsArithmetic())
			require.Equal(t, tc.integer, tc.typ.IsInteger())
			require.Equal(t, tc.floating, tc.typ.IsFloating())
		})
	}
}

func TestDecayToPointer(t *testing.T) {
	pool := NewTypePool()
	arr := pool.Array(pool.Int())
	decayed := arr.DecayToPointer(pool)
	require.True(t, decayed.IsPointer())
	require.Same(t, pool.Int(), decayed.Elem)

	// A non-array type decays to itself.
	require.Same(t, pool.Int(), pool.Int().DecayToPointer(pool))
}

func TestTypeKindString(t *testing.T) {
	require.Equal(t, "int", INT.String())
	require.Equal(t, "array", ARRAY.String())
	require.Contains(t, TypeKind(99).String(), "TypeKind")
}
