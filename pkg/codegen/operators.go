package codegen

import "github.com/Mexanobar/RuC/pkg/sem"

// opcode returns the LLVM mnemonic for a binary operator given the
// (already usual-arithmetic-converted) operand type, grounded on
// operation_to_io in the original implementation. Comparison operators
// return the icmp/fcmp predicate name, not "icmp"/"fcmp" itself — the
// caller (emitBinary / emitAssign) prints the instruction keyword.
func (c *Context) opcode(op sem.BinaryOp, typ *sem.Type) string {
	if typ.IsFloating() {
		switch op {
		case sem.BinAdd:
			return "fadd"
		case sem.BinSub:
			return "fsub"
		case sem.BinMul:
			return "fmul"
		case sem.BinDiv:
			return "fdiv"
		case sem.BinRem:
			return "frem"
		case sem.BinLt:
			return "olt"
		case sem.BinGt:
			return "ogt"
		case sem.BinLe:
			return "ole"
		case sem.BinGe:
			return "oge"
		case sem.BinEq:
			return "oeq"
		case sem.BinNe:
			return "one"
		}
	}

	switch op {
	case sem.BinAdd:
		return "add nsw"
	case sem.BinSub:
		return "sub nsw"
	case sem.BinMul:
		return "mul nsw"
	case sem.BinDiv:
		return "sdiv"
	case sem.BinRem:
		return "srem"
	case sem.BinShl:
		return "shl"
	case sem.BinShr:
		return "ashr"
	case sem.BinAnd:
		return "and"
	case sem.BinOr:
		return "or"
	case sem.BinXor:
		return "xor"
	case sem.BinLt:
		return "slt"
	case sem.BinGt:
		return "sgt"
	case sem.BinLe:
		return "sle"
	case sem.BinGe:
		return "sge"
	case sem.BinEq:
		return "eq"
	case sem.BinNe:
		return "ne"
	}
	return "add nsw"
}

// isComparison reports whether op lowers to icmp/fcmp rather than a
// plain arithmetic/bitwise instruction.
func isComparison(op sem.BinaryOp) bool {
	switch op {
	case sem.BinLt, sem.BinGt, sem.BinLe, sem.BinGe, sem.BinEq, sem.BinNe:
		return true
	default:
		return false
	}
}

// compareKeyword is "icmp" or "fcmp" for a comparison op over typ.
func compareKeyword(typ *sem.Type) string {
	if typ.IsFloating() {
		return "fcmp"
	}
	return "icmp"
}

// assignOpToBinaryOp maps a compound assignment's operator to the
// plain binary operator the generator lowers it to after the implicit
// load, grounded on operation_is_assignment / the switch in
// emit_assignment_expression in the original implementation.
func assignOpToBinaryOp(op sem.AssignOp) (sem.BinaryOp, bool) {
	switch op {
	case sem.AssignAdd:
		return sem.BinAdd, true
	case sem.AssignSub:
		return sem.BinSub, true
	case sem.AssignMul:
		return sem.BinMul, true
	case sem.AssignDiv:
		return sem.BinDiv, true
	case sem.AssignRem:
		return sem.BinRem, true
	case sem.AssignShl:
		return sem.BinShl, true
	case sem.AssignShr:
		return sem.BinShr, true
	case sem.AssignAnd:
		return sem.BinAnd, true
	case sem.AssignOr:
		return sem.BinOr, true
	case sem.AssignXor:
		return sem.BinXor, true
	default:
		return 0, false
	}
}

// usualArithmeticConversion returns the type a binary operation's
// operands are promoted to: FLOAT dominates INT/CHAR/BOOL, matching
// usual_arithmetic_conversions in the original implementation. Only
// called for arithmetic/comparison operators; logical && and || never
// promote their operands (they're evaluated for truthiness only).
func usualArithmeticConversion(pool *sem.TypePool, l, r *sem.Type) *sem.Type {
	if l.IsFloating() || r.IsFloating() {
		return pool.Float()
	}
	return pool.Int()
}

// convertTo promotes a to the usual-arithmetic-conversion result type
// computed for its sibling operand, grounded on the original's own
// sitofp insertion ahead of a mixed-type `fadd`/`fcmp`: usual
// arithmetic conversion only ever promotes int/char/bool up to float,
// never the reverse, so the only conversion this needs to print is
// sitofp. A constant operand folds directly to its float value instead
// of printing a conversion of a literal.
func (c *Context) convertTo(a answer, to *sem.Type) answer {
	if !to.IsFloating() || a.typ == nil || a.typ.IsFloating() {
		return a
	}
	if a.kind == AConst {
		return constFloatAnswer(float64(a.iconst), to)
	}
	r := c.newReg()
	c.emit("  %s = sitofp %s %s to double\n", r, c.typeString(a.typ), operandString(a))
	return regAnswer(r, to)
}
