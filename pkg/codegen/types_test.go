package codegen

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Mexanobar/RuC/pkg/config"
	"github.com/Mexanobar/RuC/pkg/diag"
	"github.com/Mexanobar/RuC/pkg/sem"
)

func newTestContext(t *testing.T) (*Context, *sem.Syntax) {
	t.Helper()
	syn := sem.NewSyntax(&bytes.Buffer{})
	ws := config.NewWorkspace(nil)
	sink := diag.NewSink(&bytes.Buffer{}, nil)
	return NewContext(syn, ws, sink), syn
}

func TestTypeStringScalars(t *testing.T) {
	c, syn := newTestContext(t)
	cases := []struct {
		name string
		typ  *sem.Type
		want string
	}{
		{"void", syn.Types.Void(), "void"},
		{"bool", syn.Types.Bool(), "i1"},
		{"char", syn.Types.Char(), "i8"},
		{"int always i32 regardless of word size", syn.Types.Int(), "i32"},
		{"float", syn.Types.Float(), "double"},
		{"null pointer", syn.Types.NullPtr(), "i8*"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, c.typeString(tc.typ))
		})
	}
}

func TestTypeStringIntIgnoresMipselWordSize(t *testing.T) {
	syn := sem.NewSyntax(&bytes.Buffer{})
	ws := config.NewWorkspace([]string{"--mipsel"})
	sink := diag.NewSink(&bytes.Buffer{}, nil)
	c := NewContext(syn, ws, sink)

	require.Equal(t, "i32", c.typeString(syn.Types.Int()))
}

func TestTypeStringPointerAndArray(t *testing.T) {
	c, syn := newTestContext(t)
	require.Equal(t, "i32*", c.typeString(syn.Types.Pointer(syn.Types.Int())))
	// The bare element type: the Array Registry's llvmShape is what
	// prints the full nested shape, not TypeKind ARRAY on its own.
	require.Equal(t, "double", c.typeString(syn.Types.Array(syn.Types.Float())))
}

func TestTypeStringStructUsesBeginUserTypeOffset(t *testing.T) {
	c, syn := newTestContext(t)
	s1 := syn.Types.Struct("point", []sem.Field{{Name: "x", Type: syn.Types.Int()}})
	s2 := syn.Types.Struct("rect", nil)

	require.Equal(t, "%struct_opt.1", c.typeString(s1))
	require.Equal(t, "%struct_opt.2", c.typeString(s2))
}

func TestTypeStringFileSetsIOFileStructNeed(t *testing.T) {
	c, _ := newTestContext(t)
	require.False(t, c.needs.ioFileStruct)
	got := c.typeString(&sem.Type{Kind: sem.FILE})
	require.Equal(t, "%struct._IO_FILE*", got)
	require.True(t, c.needs.ioFileStruct)
}
