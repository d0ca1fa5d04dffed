package codegen

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Mexanobar/RuC/pkg/ir"
)

func TestWidenToReturnTypeNoOpWithoutRetType(t *testing.T) {
	c, syn := newTestContext(t)
	a := regAnswer(ir.Reg{N: 1}, syn.Types.Bool())
	got := c.widenToReturnType(a)
	require.Equal(t, a, got)
}

func TestWidenToReturnTypeNoOpWhenAlreadyWideEnough(t *testing.T) {
	c, syn := newTestContext(t)
	c.retType = syn.Types.Int()
	a := regAnswer(ir.Reg{N: 1}, syn.Types.Int())
	got := c.widenToReturnType(a)
	require.Equal(t, a, got)
}

func TestWidenToReturnTypeNoOpForFloatReturn(t *testing.T) {
	c, syn := newTestContext(t)
	c.retType = syn.Types.Float()
	a := regAnswer(ir.Reg{N: 1}, syn.Types.Bool())
	got := c.widenToReturnType(a)
	require.Equal(t, a, got)
}

func TestWidenToReturnTypeZextsBoolRegister(t *testing.T) {
	c, syn := newTestContext(t)
	c.retType = syn.Types.Int()
	var buf bytes.Buffer
	c.out = &buf

	a := regAnswer(ir.Reg{N: 5}, syn.Types.Bool())
	got := c.widenToReturnType(a)

	require.Equal(t, AReg, got.kind)
	require.Same(t, syn.Types.Int(), got.typ)
	require.Equal(t, "  %.1 = zext i1 %.5 to i32\n", buf.String())
}

func TestWidenToReturnTypeFoldsConstant(t *testing.T) {
	c, syn := newTestContext(t)
	c.retType = syn.Types.Int()
	a := constIntAnswer(1, syn.Types.Bool())
	got := c.widenToReturnType(a)

	require.Equal(t, AConst, got.kind)
	require.Equal(t, int64(1), got.iconst)
	require.Same(t, syn.Types.Int(), got.typ)
}
