package codegen

import (
	"github.com/Mexanobar/RuC/pkg/diag"
	"github.com/Mexanobar/RuC/pkg/ir"
	"github.com/Mexanobar/RuC/pkg/sem"
)

// maxCallArguments is the original implementation's hard cap on a
// single call expression's argument count (original spec §4.4's
// TooManyArguments limit).
const maxCallArguments = 128

// emitExpr dispatches on the concrete type of n.Data, grounded on
// emit_expression's switch in the original implementation. req tells
// the callee what shape of answer the caller actually needs; most
// recursive calls pass LocReg, but lvalue contexts (the left side of
// an assignment, the operand of `&`) pass LocMem.
func (c *Context) emitExpr(n *sem.Node, req locationRequest) answer {
	switch data := n.Data.(type) {
	case sem.IdentExpr:
		return c.emitIdent(n, data, req)
	case sem.IntLit:
		return constIntAnswer(data.Value, n.Typ)
	case sem.FloatLit:
		return constFloatAnswer(data.Value, n.Typ)
	case sem.StringLit:
		return strAnswer(ir.StringConst{Index: data.Index, Length: c.syn.Strings.Length(data.Index)}, n.Typ)
	case sem.NullLit:
		return nullAnswer(n.Typ)
	case sem.SubscriptExpr:
		return c.emitSubscript(n, data, req)
	case sem.MemberExpr:
		return c.emitMember(n, data, req)
	case sem.CallExpr:
		return c.emitCall(n, data)
	case sem.UnaryExpr:
		return c.emitUnary(n, data, req)
	case sem.BinaryExpr:
		return c.emitBinary(n, data)
	case sem.AssignExpr:
		return c.emitAssign(n, data)
	case sem.TernaryExpr:
		return c.emitTernary(n, data)
	case sem.CastExpr:
		return c.emitCast(n, data)
	default:
		c.diag.Report(diag.UnknownAST, n.Pos, "unhandled expression node kind %v", n.Kind)
		return constIntAnswer(0, c.syn.Types.Int())
	}
}

// toReg materializes any answer as a plain register, loading from
// memory or printing a constant-as-value where needed. Most binary
// operands and call arguments funnel through this.
func (c *Context) toReg(a answer) answer {
	switch a.kind {
	case AReg, AConst, AStr, ANull:
		return a
	case AMem:
		r := c.newReg()
		c.emit("  %s = load %s, %s* %s\n", r, c.typeString(a.typ), c.typeString(a.typ), a.reg)
		return regAnswer(r, a.typ)
	case ALogic:
		// A comparison's own ALOGIC answer already carries the icmp/fcmp
		// register that produced it — nothing to materialize, just
		// relabel it AREG (mirrors the original's to_code_try_zext_to,
		// which zext's straight from answer_reg with no new comparison).
		if a.reg != nil {
			return regAnswer(a.reg, a.typ)
		}
		// Otherwise this is a short-circuit (&&/||) condition that
		// already branched at evaluation time with no register of its
		// own: materialize it into i1 0/1 via a phi over the two labels
		// it branched to — original spec §9's documented Open Item for
		// '!' used as a value generalizes to every LOGIC->value lift.
		return c.liftLogicToReg(a)
	default:
		return a
	}
}

// liftLogicToReg prints the two-predecessor phi that turns a
// short-circuit condition's already-taken branch into an i1 value.
// Callers that only branch on the condition (an if/while's test) never
// call this; only a caller that needs the condition AS a value does
// (e.g. `x = a && b;`).
func (c *Context) liftLogicToReg(a answer) answer {
	trueLbl, falseLbl := c.labelTrue, c.labelFalse
	joinLbl := c.newLabel()
	c.markLabel(trueLbl)
	c.jump(joinLbl)
	c.markLabel(falseLbl)
	c.jump(joinLbl)
	c.markLabel(joinLbl)
	r := c.newReg()
	c.emit("  %s = phi i1 [ true, %%label%d ], [ false, %%label%d ]\n", r, trueLbl, falseLbl)
	return regAnswer(r, a.typ)
}

// operandSlot returns the address an identifier's value lives behind:
// the named %var./%arr./%dynarr. register the Declaration Emitter
// allocated for it, or a plain @name global for a top-level variable.
func (c *Context) operandSlot(id sem.Ident) ir.Value {
	if d, ok := c.arrays.lookup(id); ok {
		return d.baseReg(id)
	}
	if c.syn.Idents.IsLocal(id) {
		return namedReg("var", int(id))
	}
	return ir.Global{Name: c.syn.Idents.Spelling(id)}
}

// emitIdent handles a bare identifier reference, grounded on
// emit_identifier_expression in the original implementation: an array
// identifier decays to a pointer to its first element rather than
// loading (arrays are never loaded as a whole); any other identifier
// loads from its slot unless the caller asked for LocMem.
func (c *Context) emitIdent(n *sem.Node, data sem.IdentExpr, req locationRequest) answer {
	slot := c.operandSlot(data.ID)

	if d, ok := c.arrays.lookup(data.ID); ok {
		if req == LocMem {
			return memAnswer(slot, n.Typ)
		}
		r := c.newReg()
		shape := c.llvmShape(d)
		// A dynamic array's slot is already a bare-element pointer (its
		// alloca's result type), so decaying it to "pointer to first
		// element" takes exactly one index; a static array's slot is a
		// pointer to the whole nested-array aggregate, so the first index
		// steps through that pointer and a second reaches element 0 —
		// matching to_code_slice's IS_STATIC vs. dynamic split in the
		// original implementation.
		if d.Dynamic {
			c.emit("  %s = getelementptr inbounds %s, %s* %s, i64 0\n", r, shape, shape, slot)
		} else {
			c.emit("  %s = getelementptr inbounds %s, %s* %s, i64 0, i64 0\n", r, shape, shape, slot)
		}
		return regAnswer(r, n.Typ)
	}

	if req == LocMem {
		return memAnswer(slot, n.Typ)
	}

	r := c.newReg()
	c.emit("  %s = load %s, %s* %s\n", r, c.typeString(n.Typ), c.typeString(n.Typ), slot)
	return regAnswer(r, n.Typ)
}

// emitSubscript lowers `arr[idx]`, grounded on emit_subscript_expression:
// a getelementptr through the array's base register, then a load
// unless the caller wants the address (LocMem) or the element is
// itself an array (another subscript chains off the address without
// loading).
func (c *Context) emitSubscript(n *sem.Node, data sem.SubscriptExpr, req locationRequest) answer {
	idxAns := c.toReg(c.emitExpr(data.Index, LocReg))

	baseID, ok := identOf(data.Array)
	if !ok {
		c.diag.Report(diag.UnsupportedShape, n.Pos, "subscript base must be a named array")
		return constIntAnswer(0, n.Typ)
	}
	d, ok := c.arrays.lookup(baseID)
	if !ok {
		c.diag.Report(diag.UnsupportedShape, n.Pos, "identifier is not a registered array")
		return constIntAnswer(0, n.Typ)
	}
	slot := d.baseReg(baseID)
	shape := c.llvmShape(d)

	r := c.newReg()
	// Same IS_STATIC/dynamic split as emitIdent's decay above: a static
	// array's pointee is the nested-array aggregate, so the subscript
	// index follows a leading "i64 0" pointer-step index; a dynamic
	// array's slot already points straight at the bare element type, so
	// the subscript index is the pointer's only index.
	if d.Dynamic {
		c.emit("  %s = getelementptr inbounds %s, %s* %s, %s %s\n",
			r, shape, shape, slot, c.typeString(idxAns.typ), operandString(idxAns))
	} else {
		c.emit("  %s = getelementptr inbounds %s, %s* %s, i64 0, %s %s\n",
			r, shape, shape, slot, c.typeString(idxAns.typ), operandString(idxAns))
	}

	if req == LocMem || n.Typ.IsArray() {
		return memAnswer(r, n.Typ)
	}
	out := c.newReg()
	c.emit("  %s = load %s, %s* %s\n", out, c.typeString(n.Typ), c.typeString(n.Typ), r)
	return regAnswer(out, n.Typ)
}

// identOf unwraps a bare identifier node, the only shape the
// Subscript/Member emitters accept as their base (multi-dimensional
// subscripts and struct-in-struct access are expressed as nested
// Subscript/Member nodes whose own Array/Base happens to recurse back
// here once the outer GEP has already been folded into one index
// list by the type checker — out of scope for this generator, which
// only ever sees the flattened one-identifier base the original's
// own to_code_slice / emit_member_expression assume).
func identOf(n *sem.Node) (sem.Ident, bool) {
	if id, ok := n.Data.(sem.IdentExpr); ok {
		return id.ID, true
	}
	return 0, false
}

// emitMember lowers `base.field` / `base->field`, grounded on
// emit_member_expression: a struct GEP to the field's ordinal, with
// an extra load first when Arrow is true (the base is a pointer to
// struct, not the struct itself). The original's documented "suspect"
// re-load only happens when the caller actually wants a value back;
// an address request never re-loads.
func (c *Context) emitMember(n *sem.Node, data sem.MemberExpr, req locationRequest) answer {
	baseReq := LocMem
	if data.Arrow {
		baseReq = LocReg
	}
	base := c.emitExpr(data.Base, baseReq)

	var structPtr ir.Value
	var structTyp *sem.Type
	if data.Arrow {
		base = c.toReg(base)
		structPtr = base.reg
		structTyp = base.typ.Elem
	} else {
		structPtr = base.reg
		structTyp = base.typ
	}

	r := c.newReg()
	c.emit("  %s = getelementptr inbounds %s, %s* %s, i32 0, i32 %d\n",
		r, c.typeString(structTyp), c.typeString(structTyp), structPtr, data.FieldIdx)

	if req == LocMem {
		return memAnswer(r, n.Typ)
	}
	out := c.newReg()
	c.emit("  %s = load %s, %s* %s\n", out, c.typeString(n.Typ), c.typeString(n.Typ), r)
	return regAnswer(out, n.Typ)
}

// emitCall lowers a function call, grounded on emit_call_expression:
// arguments evaluate strictly left to right (a deliberate divergence
// from argument evaluation order elsewhere in the toolchain) and the
// call is capped at maxCallArguments, reported as a TranslationLimit
// diagnostic rather than silently truncated or unbounded.
func (c *Context) emitCall(n *sem.Node, data sem.CallExpr) answer {
	calleeID, ok := identOf(data.Callee)
	if !ok {
		c.diag.Report(diag.UnsupportedShape, n.Pos, "indirect calls through a function pointer are not supported")
		return constIntAnswer(0, n.Typ)
	}

	if len(data.Args) > maxCallArguments {
		c.diag.ReportLimit(n.Pos, maxCallArguments, "call passes more than %LIMIT% arguments")
		return constIntAnswer(0, n.Typ)
	}

	c.builtinsUsed[calleeID] = true

	argAnswers := make([]answer, 0, len(data.Args))
	for _, arg := range data.Args {
		argAnswers = append(argAnswers, c.toReg(c.emitExpr(arg, LocReg)))
	}

	args := make([]string, len(argAnswers))
	for i, a := range argAnswers {
		args[i] = c.typeString(a.typ) + " " + operandString(a)
	}

	calleeName := c.syn.Idents.Spelling(calleeID)
	if n.Typ.IsVoid() {
		c.emit("  call void @%s(%s)\n", calleeName, joinArgs(args))
		return nullAnswer(n.Typ)
	}
	r := c.newReg()
	c.emit("  %s = call %s @%s(%s)\n", r, c.typeString(n.Typ), calleeName, joinArgs(args))
	return regAnswer(r, n.Typ)
}

func joinArgs(args []string) string {
	out := ""
	for i, a := range args {
		if i > 0 {
			out += ", "
		}
		out += a
	}
	return out
}

// operandString renders an answer as the operand text an instruction
// line embeds (no type prefix — callers print that separately).
func operandString(a answer) string {
	switch a.kind {
	case AReg, AMem:
		return a.reg.String()
	case AConst:
		if a.typ != nil && a.typ.IsFloating() {
			return ir.FloatConst{Value: a.fconst}.String()
		}
		return ir.IntConst{Value: a.iconst}.String()
	case AStr:
		return a.str.String()
	case ANull:
		return "null"
	default:
		return "0"
	}
}

// emitUnary lowers the unary operators, grounded on
// emit_unary_expression. UnLogNot only swaps the active branch-target
// labels and never materializes a value by itself — the documented
// Open Item ("'!' as a value") is resolved by letting the caller's
// own toReg lift the resulting LOGIC answer into i1 only when it's
// actually consumed as a value, exactly mirroring how every other
// LOGIC-producing construct (&&, ||, relational operators) behaves.
func (c *Context) emitUnary(n *sem.Node, data sem.UnaryExpr, req locationRequest) answer {
	switch data.Op {
	case sem.UnLogNot:
		c.labelTrue, c.labelFalse = c.labelFalse, c.labelTrue
		inner := c.emitExpr(data.Operand, LocFree)
		c.branchOn(inner)
		return logicAnswer(n.Typ)

	case sem.UnAddr:
		return c.emitExpr(data.Operand, LocMem)

	case sem.UnDeref:
		ptr := c.toReg(c.emitExpr(data.Operand, LocReg))
		if req == LocMem {
			return memAnswer(ptr.reg, n.Typ)
		}
		r := c.newReg()
		c.emit("  %s = load %s, %s* %s\n", r, c.typeString(n.Typ), c.typeString(n.Typ), ptr.reg)
		return regAnswer(r, n.Typ)

	case sem.UnNeg:
		v := c.toReg(c.emitExpr(data.Operand, LocReg))
		r := c.newReg()
		if n.Typ.IsFloating() {
			c.emit("  %s = fneg double %s\n", r, operandString(v))
		} else {
			c.emit("  %s = sub nsw %s 0, %s\n", r, c.typeString(n.Typ), operandString(v))
		}
		return regAnswer(r, n.Typ)

	case sem.UnNot:
		v := c.toReg(c.emitExpr(data.Operand, LocReg))
		r := c.newReg()
		c.emit("  %s = xor %s %s, -1\n", r, c.typeString(n.Typ), operandString(v))
		return regAnswer(r, n.Typ)

	case sem.UnAbs:
		// Computed from the usual arithmetic conversions on the operand
		// before dispatch, not the call node's own result type: this is
		// the documented fix for the original's abs-result-type
		// inconsistency (it dispatched on the argument's declared type
		// but let the call expression's own, sometimes-stale, type
		// decide int-vs-double @abs/@llvm.fabs.f64 selection).
		v := c.toReg(c.emitExpr(data.Operand, LocReg))
		r := c.newReg()
		if v.typ.IsFloating() {
			c.needs.fabs = true
			c.emit("  %s = call double @llvm.fabs.f64(double %s)\n", r, operandString(v))
		} else {
			c.needs.abs = true
			c.emit("  %s = call i32 @abs(i32 %s)\n", r, operandString(v))
		}
		return regAnswer(r, v.typ)

	case sem.UnPreInc, sem.UnPreDec, sem.UnPostInc, sem.UnPostDec:
		return c.emitIncDec(n, data, req)

	default:
		c.diag.Report(diag.UnknownAST, n.Pos, "unhandled unary operator %v", data.Op)
		return constIntAnswer(0, n.Typ)
	}
}

// emitIncDec lowers ++x/x++/--x/x--, grounded on
// emit_inc_dec_expression: load, add/sub 1, store; pre-forms answer
// with the new value, post-forms answer with the value read before
// the store.
func (c *Context) emitIncDec(n *sem.Node, data sem.UnaryExpr, _ locationRequest) answer {
	addr := c.toMemAddr(data.Operand)
	old := c.newReg()
	c.emit("  %s = load %s, %s* %s\n", old, c.typeString(n.Typ), c.typeString(n.Typ), addr)

	delta := "1"
	op := "add nsw"
	if data.Op == sem.UnPreDec || data.Op == sem.UnPostDec {
		op = "sub nsw"
	}
	if n.Typ.IsFloating() {
		op = "fadd"
		if data.Op == sem.UnPreDec || data.Op == sem.UnPostDec {
			op = "fsub"
		}
		delta = "1.0"
	}
	updated := c.newReg()
	c.emit("  %s = %s %s %s, %s\n", updated, op, c.typeString(n.Typ), old, delta)
	c.emit("  store %s %s, %s* %s\n", c.typeString(n.Typ), updated, c.typeString(n.Typ), addr)

	if data.Op == sem.UnPreInc || data.Op == sem.UnPreDec {
		return regAnswer(updated, n.Typ)
	}
	return regAnswer(old, n.Typ)
}

// toMemAddr evaluates n under LocMem and returns the bare address
// register, for the handful of emitters (inc/dec, compound assignment)
// that always need the address regardless of the answer kind the
// expression would otherwise prefer.
func (c *Context) toMemAddr(n *sem.Node) ir.Value {
	a := c.emitExpr(n, LocMem)
	if a.kind == AMem || a.kind == AReg {
		return a.reg
	}
	c.diag.Report(diag.UnsupportedShape, n.Pos, "expression is not assignable")
	return c.newReg()
}

// emitBinary lowers the arithmetic, relational, bitwise and
// short-circuit logical operators, grounded on emit_binary_expression.
// && and || share one "next" label: the left operand's true (for &&)
// or false (for ||) target is the start of the right operand's own
// evaluation, not the enclosing labelFalse/labelTrue, matching the
// original's label_next wiring.
func (c *Context) emitBinary(n *sem.Node, data sem.BinaryExpr) answer {
	switch data.Op {
	case sem.BinLogAnd:
		return c.emitLogAnd(n, data)
	case sem.BinLogOr:
		return c.emitLogOr(n, data)
	}

	lhs := c.toReg(c.emitExpr(data.Left, LocReg))
	rhs := c.toReg(c.emitExpr(data.Right, LocReg))
	opTyp := usualArithmeticConversion(c.syn.Types, lhs.typ, rhs.typ)
	lhs = c.convertTo(lhs, opTyp)
	rhs = c.convertTo(rhs, opTyp)

	if isComparison(data.Op) {
		r := c.newReg()
		c.emit("  %s = %s %s %s %s, %s\n", r, compareKeyword(opTyp), c.opcode(data.Op, opTyp),
			c.typeString(opTyp), operandString(lhs), operandString(rhs))
		return logicRegAnswer(r, n.Typ)
	}

	r := c.newReg()
	c.emit("  %s = %s %s %s, %s\n", r, c.opcode(data.Op, opTyp), c.typeString(opTyp), operandString(lhs), operandString(rhs))
	return regAnswer(r, n.Typ)
}

// emitLogAnd lowers `a && b`: if a is false, the whole expression is
// false without evaluating b; otherwise the expression's truth value
// is exactly b's.
func (c *Context) emitLogAnd(n *sem.Node, data sem.BinaryExpr) answer {
	rhsLabel := c.newLabel()
	outerTrue, outerFalse := c.labelTrue, c.labelFalse

	c.labelTrue, c.labelFalse = rhsLabel, outerFalse
	left := c.emitExpr(data.Left, LocFree)
	c.branchOn(left)

	c.markLabel(rhsLabel)
	c.labelTrue, c.labelFalse = outerTrue, outerFalse
	right := c.emitExpr(data.Right, LocFree)
	c.branchOn(right)

	return logicAnswer(n.Typ)
}

// emitLogOr lowers `a || b`: if a is true, the whole expression is
// true without evaluating b; otherwise the expression's truth value
// is exactly b's.
func (c *Context) emitLogOr(n *sem.Node, data sem.BinaryExpr) answer {
	rhsLabel := c.newLabel()
	outerTrue, outerFalse := c.labelTrue, c.labelFalse

	c.labelTrue, c.labelFalse = outerTrue, rhsLabel
	left := c.emitExpr(data.Left, LocFree)
	c.branchOn(left)

	c.markLabel(rhsLabel)
	c.labelTrue, c.labelFalse = outerTrue, outerFalse
	right := c.emitExpr(data.Right, LocFree)
	c.branchOn(right)

	return logicAnswer(n.Typ)
}

// emitAssign lowers `=` and the compound assignment operators,
// grounded on emit_assignment_expression: a compound op loads the
// current value, applies the binary op, then stores; plain `=` just
// stores the right-hand side's value.
func (c *Context) emitAssign(n *sem.Node, data sem.AssignExpr) answer {
	addr := c.toMemAddr(data.Left)

	if data.Op == sem.AssignPlain {
		rhs := c.toReg(c.emitExpr(data.Right, LocReg))
		c.emit("  store %s %s, %s* %s\n", c.typeString(n.Typ), operandString(rhs), c.typeString(n.Typ), addr)
		return regAnswer(rhs.reg, n.Typ)
	}

	binOp, ok := assignOpToBinaryOp(data.Op)
	if !ok {
		c.diag.Report(diag.UnknownAST, n.Pos, "unhandled compound assignment operator %v", data.Op)
		return constIntAnswer(0, n.Typ)
	}
	old := c.newReg()
	c.emit("  %s = load %s, %s* %s\n", old, c.typeString(n.Typ), c.typeString(n.Typ), addr)
	rhs := c.toReg(c.emitExpr(data.Right, LocReg))

	result := c.newReg()
	c.emit("  %s = %s %s %s, %s\n", result, c.opcode(binOp, n.Typ), c.typeString(n.Typ), old, operandString(rhs))
	c.emit("  store %s %s, %s* %s\n", c.typeString(n.Typ), result, c.typeString(n.Typ), addr)
	return regAnswer(result, n.Typ)
}

// emitTernary lowers `cond ? then : else`, grounded on
// emit_ternary_expression: three labels (then/else/end) plus a phi
// joining the two branches' values. A ternary nested in the `then` or
// `else` arm of an outer ternary reuses the outer's end label so the
// phi only ever has the two predecessors the original's
// label_ternary_end propagation guarantees.
func (c *Context) emitTernary(n *sem.Node, data sem.TernaryExpr) answer {
	thenLbl, elseLbl := c.newLabel(), c.newLabel()
	endLbl := c.labelTernaryEnd
	ownEnd := endLbl == 0
	if ownEnd {
		endLbl = c.newLabel()
		c.labelTernaryEnd = endLbl
	}

	savedTrue, savedFalse := c.labelTrue, c.labelFalse
	c.labelTrue, c.labelFalse = thenLbl, elseLbl
	cond := c.emitExpr(data.Cond, LocFree)
	c.branchOn(cond)
	c.labelTrue, c.labelFalse = savedTrue, savedFalse

	c.markLabel(thenLbl)
	thenVal := c.toReg(c.emitExpr(data.Then, LocReg))
	thenFrom := thenLbl
	c.jump(endLbl)

	c.markLabel(elseLbl)
	elseVal := c.toReg(c.emitExpr(data.Else, LocReg))
	elseFrom := elseLbl
	c.jump(endLbl)

	c.markLabel(endLbl)
	if ownEnd {
		c.labelTernaryEnd = 0
	}
	r := c.newReg()
	c.emit("  %s = phi %s [ %s, %%label%d ], [ %s, %%label%d ]\n",
		r, c.typeString(n.Typ), operandString(thenVal), thenFrom, operandString(elseVal), elseFrom)
	return regAnswer(r, n.Typ)
}

// emitCast lowers an explicit type cast, grounded on
// emit_type_cast_expression: int<->float conversion prints
// sitofp/fptosi and a pointer-to-pointer cast prints a bitcast; any
// other pair (integer casts between widths included) passes the
// operand through unchanged with no instruction.
func (c *Context) emitCast(n *sem.Node, data sem.CastExpr) answer {
	v := c.toReg(c.emitExpr(data.Operand, LocReg))
	from, to := v.typ, data.To

	if from.IsFloating() && to.IsInteger() {
		r := c.newReg()
		c.emit("  %s = fptosi double %s to %s\n", r, operandString(v), c.typeString(to))
		return regAnswer(r, to)
	}
	if from.IsInteger() && to.IsFloating() {
		r := c.newReg()
		c.emit("  %s = sitofp %s %s to double\n", r, c.typeString(from), operandString(v))
		return regAnswer(r, to)
	}
	if from.IsPointer() && to.IsPointer() {
		r := c.newReg()
		c.emit("  %s = bitcast %s %s to %s\n", r, c.typeString(from), operandString(v), c.typeString(to))
		return regAnswer(r, to)
	}
	return regAnswer(v.reg, to)
}
