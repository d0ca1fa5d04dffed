package codegen

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Mexanobar/RuC/pkg/ir"
	"github.com/Mexanobar/RuC/pkg/sem"
)

func TestOpcodeIntVsFloat(t *testing.T) {
	c, syn := newTestContext(t)
	require.Equal(t, "add nsw", c.opcode(sem.BinAdd, syn.Types.Int()))
	require.Equal(t, "fadd", c.opcode(sem.BinAdd, syn.Types.Float()))
	require.Equal(t, "sdiv", c.opcode(sem.BinDiv, syn.Types.Int()))
	require.Equal(t, "fdiv", c.opcode(sem.BinDiv, syn.Types.Float()))
}

func TestOpcodeComparisonPredicates(t *testing.T) {
	c, syn := newTestContext(t)
	require.Equal(t, "slt", c.opcode(sem.BinLt, syn.Types.Int()))
	require.Equal(t, "olt", c.opcode(sem.BinLt, syn.Types.Float()))
	require.Equal(t, "eq", c.opcode(sem.BinEq, syn.Types.Int()))
	require.Equal(t, "oeq", c.opcode(sem.BinEq, syn.Types.Float()))
}

func TestIsComparison(t *testing.T) {
	require.True(t, isComparison(sem.BinLt))
	require.True(t, isComparison(sem.BinNe))
	require.False(t, isComparison(sem.BinAdd))
	require.False(t, isComparison(sem.BinLogAnd))
}

func TestCompareKeyword(t *testing.T) {
	_, syn := newTestContext(t)
	require.Equal(t, "icmp", compareKeyword(syn.Types.Int()))
	require.Equal(t, "fcmp", compareKeyword(syn.Types.Float()))
}

func TestAssignOpToBinaryOp(t *testing.T) {
	op, ok := assignOpToBinaryOp(sem.AssignAdd)
	require.True(t, ok)
	require.Equal(t, sem.BinAdd, op)

	_, ok = assignOpToBinaryOp(sem.AssignOp(999))
	require.False(t, ok)
}

func TestUsualArithmeticConversion(t *testing.T) {
	_, syn := newTestContext(t)
	require.Same(t, syn.Types.Float(), usualArithmeticConversion(syn.Types, syn.Types.Int(), syn.Types.Float()))
	require.Same(t, syn.Types.Float(), usualArithmeticConversion(syn.Types, syn.Types.Float(), syn.Types.Int()))
	require.Same(t, syn.Types.Int(), usualArithmeticConversion(syn.Types, syn.Types.Int(), syn.Types.Char()))
}

func TestConvertToLeavesAlreadyFloatingAnswerUntouched(t *testing.T) {
	c, syn := newTestContext(t)
	a := regAnswer(ir.Reg{N: 1}, syn.Types.Float())
	got := c.convertTo(a, syn.Types.Float())
	require.Equal(t, a, got)
}

func TestConvertToFoldsIntConstantDirectly(t *testing.T) {
	c, syn := newTestContext(t)
	a := constIntAnswer(0, syn.Types.Int())
	got := c.convertTo(a, syn.Types.Float())
	require.Equal(t, AConst, got.kind)
	require.Equal(t, 0.0, got.fconst)
	require.Same(t, syn.Types.Float(), got.typ)
}

func TestConvertToEmitsSitofpForRegisterOperand(t *testing.T) {
	c, syn := newTestContext(t)
	var buf bytes.Buffer
	c.out = &buf

	a := regAnswer(ir.Reg{N: 1}, syn.Types.Int())
	got := c.convertTo(a, syn.Types.Float())

	require.Equal(t, AReg, got.kind)
	require.Same(t, syn.Types.Float(), got.typ)
	require.Contains(t, buf.String(), "sitofp i32")
	require.Contains(t, buf.String(), "to double")
}
