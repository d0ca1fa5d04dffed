package sem

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExprConstructorsSetKindAndData(t *testing.T) {
	pool := NewTypePool()
	intT := pool.Int()

	ident := NewIdent(NoPos, intT, Ident(1))
	require.Equal(t, KindIdent, ident.Kind)
	require.Equal(t, IdentExpr{ID: Ident(1)}, ident.Data)

	lit := NewIntLit(NoPos, intT, 42)
	require.Equal(t, KindIntLit, lit.Kind)
	require.Equal(t, int64(42), lit.Data.(IntLit).Value)

	bin := NewBinary(NoPos, intT, BinAdd, ident, lit)
	require.Equal(t, KindBinary, bin.Kind)
	data := bin.Data.(BinaryExpr)
	require.Equal(t, BinAdd, data.Op)
	require.Same(t, ident, data.Left)
	require.Same(t, lit, data.Right)

	un := NewUnary(NoPos, intT, UnNeg, ident)
	require.Equal(t, UnNeg, un.Data.(UnaryExpr).Op)

	tern := NewTernary(NoPos, intT, ident, lit, lit)
	data2 := tern.Data.(TernaryExpr)
	require.Same(t, ident, data2.Cond)
	require.Same(t, lit, data2.Then)
	require.Same(t, lit, data2.Else)

	call := NewCall(NoPos, intT, nil, []*Node{lit, lit})
	require.Len(t, call.Data.(CallExpr).Args, 2)
	require.Nil(t, call.Data.(CallExpr).Callee)

	cast := NewCast(NoPos, intT, lit)
	require.Equal(t, intT, cast.Typ)
}

func TestStmtConstructorsHaveNilType(t *testing.T) {
	pool := NewTypePool()
	cond := NewIntLit(NoPos, pool.Int(), 1)
	body := NewCompound(NoPos, nil, false)

	ifStmt := NewIf(NoPos, cond, body, nil)
	require.Nil(t, ifStmt.Typ)
	require.Equal(t, KindIf, ifStmt.Kind)

	whileStmt := NewWhile(NoPos, cond, body)
	require.Equal(t, KindWhile, whileStmt.Kind)

	forStmt := NewFor(NoPos, nil, cond, nil, body)
	fdata := forStmt.Data.(ForStmt)
	require.Nil(t, fdata.Init)
	require.Same(t, cond, fdata.Cond)

	ret := NewReturn(NoPos, cond)
	require.Same(t, cond, ret.Data.(ReturnStmt).Expr)

	brk := NewBreak(NoPos)
	require.Equal(t, KindBreak, brk.Kind)
}

func TestDeclConstructors(t *testing.T) {
	pool := NewTypePool()
	id := Ident(3)
	init := NewIntLit(NoPos, pool.Int(), 5)

	decl := NewVarDecl(NoPos, id, init, nil)
	data := decl.Data.(VarDecl)
	require.Equal(t, id, data.ID)
	require.Same(t, init, data.Init)

	fn := NewFuncDecl(NoPos, id, []Ident{4, 5}, nil)
	fdata := fn.Data.(FuncDecl)
	require.Equal(t, []Ident{4, 5}, fdata.Params)

	td := NewTypeDecl(NoPos, "point", pool.Int())
	require.Equal(t, "point", td.Data.(TypeDecl).Name)
}
