package codegen

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Mexanobar/RuC/pkg/sem"
)

func TestEmitScalarDeclWithInitializer(t *testing.T) {
	c, syn := newTestContext(t)
	var buf bytes.Buffer
	c.out = &buf

	id := syn.Idents.Declare("a", syn.Types.Int(), true)
	data := sem.VarDecl{ID: id, Init: sem.NewIntLit(sem.NoPos, syn.Types.Int(), 2)}
	c.emitScalarDecl(&sem.Node{}, data, syn.Types.Int())

	slot := fmt.Sprintf("%%var.%d", int(id))
	require.Equal(t, fmt.Sprintf("  %s = alloca i32\n  store i32 2, i32* %s\n", slot, slot), buf.String())
}

func TestEmitArrayDeclDynamicEmitsStacksaveOnceForFunction(t *testing.T) {
	c, syn := newTestContext(t)
	var buf bytes.Buffer
	c.out = &buf

	n := syn.Idents.Declare("n", syn.Types.Int(), true)
	syn.Idents.Declare("ignored", syn.Types.Int(), true) // keep id allocation realistic
	a := syn.Idents.Declare("a", syn.Types.Int(), true)
	b := syn.Idents.Declare("b", syn.Types.Int(), true)

	dimExpr := sem.NewIdent(sem.NoPos, syn.Types.Int(), n)
	dataA := sem.VarDecl{ID: a, Dims: []*sem.Node{dimExpr}}
	dataB := sem.VarDecl{ID: b, Dims: []*sem.Node{dimExpr}}

	c.emitArrayDecl(&sem.Node{}, dataA, syn.Types.Int())
	require.True(t, c.wasDynamic)
	require.Contains(t, buf.String(), "%dyn.-1 = call i8* @llvm.stacksave()")

	firstLen := buf.Len()
	c.emitArrayDecl(&sem.Node{}, dataB, syn.Types.Int())
	// The second dynamic array in the same function must not print a
	// second stacksave — only the function's first one does.
	require.Equal(t, 1, countOccurrences(buf.String(), "llvm.stacksave()"))
	require.Greater(t, buf.Len(), firstLen)
}

func countOccurrences(s, substr string) int {
	count := 0
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			count++
			i += len(substr) - 1
		}
	}
	return count
}

func TestGlobalConstTextLiteralsAndNull(t *testing.T) {
	_, syn := newTestContext(t)
	require.Equal(t, "7", globalConstText(sem.NewIntLit(sem.NoPos, syn.Types.Int(), 7), syn.Types.Int()))
	require.Equal(t, "1.5", globalConstText(sem.NewFloatLit(sem.NoPos, syn.Types.Float(), 1.5), syn.Types.Float()))
	require.Equal(t, "7.0", globalConstText(sem.NewIntLit(sem.NoPos, syn.Types.Float(), 7), syn.Types.Float()))
	require.Equal(t, "null", globalConstText(sem.NewNullLit(sem.NoPos, syn.Types.NullPtr()), syn.Types.NullPtr()))
}
