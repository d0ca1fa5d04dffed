package codegen

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Mexanobar/RuC/pkg/sem"
)

func TestEmitReturnWidensComparisonToDeclaredIntReturn(t *testing.T) {
	c, syn := newTestContext(t)
	c.retType = syn.Types.Int()
	var buf bytes.Buffer
	c.out = &buf

	x := syn.Idents.Declare("x", syn.Types.Int(), true)
	cond := sem.NewBinary(sem.NoPos, syn.Types.Bool(), sem.BinGt,
		sem.NewIdent(sem.NoPos, syn.Types.Int(), x),
		sem.NewIntLit(sem.NoPos, syn.Types.Int(), 0))

	c.emitReturn(&sem.Node{}, sem.ReturnStmt{Expr: cond})

	out := buf.String()
	require.Contains(t, out, "icmp sgt i32")
	require.Contains(t, out, "zext i1")
	require.Contains(t, out, "ret i32")
	require.True(t, c.terminated)
}

func TestEmitReturnVoidTerminatesBlock(t *testing.T) {
	c, _ := newTestContext(t)
	var buf bytes.Buffer
	c.out = &buf

	c.emitReturn(&sem.Node{}, sem.ReturnStmt{})
	require.Equal(t, "  ret void\n", buf.String())
	require.True(t, c.terminated)
}

func TestEmitReturnInsideAlreadyTerminatedBlockIsANoOp(t *testing.T) {
	c, _ := newTestContext(t)
	c.terminated = true
	var buf bytes.Buffer
	c.out = &buf

	c.emitReturn(&sem.Node{}, sem.ReturnStmt{})
	require.Empty(t, buf.String())
}

func TestEmitReturnInsideMainEvaluatesExprButPrintsNothing(t *testing.T) {
	c, syn := newTestContext(t)
	c.isMain = true
	var buf bytes.Buffer
	c.out = &buf

	x := syn.Idents.Declare("x", syn.Types.Int(), true)
	c.emitReturn(&sem.Node{}, sem.ReturnStmt{Expr: sem.NewIdent(sem.NoPos, syn.Types.Int(), x)})

	require.Contains(t, buf.String(), "load i32")
	require.NotContains(t, buf.String(), "ret")
}

func TestEmitReturnRestoresStackWhenFunctionAllocatedDynamicArray(t *testing.T) {
	c, _ := newTestContext(t)
	c.wasDynamic = true
	var buf bytes.Buffer
	c.out = &buf

	c.emitReturn(&sem.Node{}, sem.ReturnStmt{})
	require.Equal(t, "  call void @llvm.stackrestore(i8* %dyn.-1)\n  ret void\n", buf.String())
}

func TestEmitStackRestoreNoOpWithoutDynamicArray(t *testing.T) {
	c, _ := newTestContext(t)
	var buf bytes.Buffer
	c.out = &buf

	c.emitStackRestore()
	require.Empty(t, buf.String())
}
