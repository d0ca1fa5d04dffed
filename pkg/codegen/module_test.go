package codegen

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Mexanobar/RuC/pkg/sem"
)

func TestEscapeStringLiteralOnlyEscapesNewline(t *testing.T) {
	require.Equal(t, "hi\\0Athere", escapeStringLiteral("hi\nthere"))
	require.Equal(t, "plain", escapeStringLiteral("plain"))
}

func TestEmitArchitectureX86_64(t *testing.T) {
	c, _ := newTestContext(t)
	var buf bytes.Buffer
	c.out = &buf

	c.emitArchitecture()
	require.Equal(t, "target datalayout = \"e-m:e-i64:64-f80:128-n8:16:32:64-S128\"\ntarget triple = \"x86_64-pc-linux-gnu\"\n\n", buf.String())
}

func TestStubUsedMatchesBySpelling(t *testing.T) {
	c, syn := newTestContext(t)
	printID := syn.Idents.Declare("print", syn.Types.Void(), false)

	require.False(t, c.stubUsed("print"))
	c.builtinsUsed[printID] = true
	require.True(t, c.stubUsed("print"))
	require.False(t, c.stubUsed("printid"))
}

func TestEmitStructsDeclarationPrintsFieldsInOrder(t *testing.T) {
	c, syn := newTestContext(t)
	syn.Types.Struct("point", []sem.Field{
		{Name: "x", Type: syn.Types.Int()},
		{Name: "y", Type: syn.Types.Float()},
	})
	var buf bytes.Buffer
	c.out = &buf

	c.emitStructsDeclaration()
	require.Equal(t, "%struct_opt.1 = type { i32, double }\n\n", buf.String())
}

func TestEmitStructsDeclarationNoOpWhenEmpty(t *testing.T) {
	c, _ := newTestContext(t)
	var buf bytes.Buffer
	c.out = &buf

	c.emitStructsDeclaration()
	require.Empty(t, buf.String())
}

func TestEmitNeedsEpilogueGatedByFlags(t *testing.T) {
	c, _ := newTestContext(t)
	var buf bytes.Buffer
	c.out = &buf
	c.needs.stackSaveRestore = true

	c.emitNeedsEpilogue()
	out := buf.String()
	require.Contains(t, out, "declare i8* @llvm.stacksave()\ndeclare void @llvm.stackrestore(i8*)\n")
}

func TestEmitNeedsEpilogueAlwaysDeclaresAssertsExterns(t *testing.T) {
	c, _ := newTestContext(t)
	var buf bytes.Buffer
	c.out = &buf

	// printf/exit back @assert, which emitRuntime defines
	// unconditionally, so they carry no Needs gate either.
	c.emitNeedsEpilogue()
	require.Equal(t, "declare i32 @printf(i8*, ...)\ndeclare void @exit(i32)\n", buf.String())
}
