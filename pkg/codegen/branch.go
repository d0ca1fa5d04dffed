package codegen

import (
	"github.com/Mexanobar/RuC/pkg/diag"
	"github.com/Mexanobar/RuC/pkg/sem"
)

// branchOn lowers an already-evaluated answer into a conditional
// branch to c.labelTrue/c.labelFalse, grounded on
// check_type_and_branch in the original implementation. Every
// statement that needs a condition (if/while/do/for/the short-circuit
// operators/the ternary) evaluates its condition expression under
// LocFree and then calls this.
//
// A comparison's ALOGIC answer carries the icmp/fcmp register that
// produced it (logicRegAnswer) and branches straight off that
// register — the original's fallthrough from AREG into ALOGIC really
// only ever applies to a genuine non-boolean register value (AREG
// below), since a comparison is never tagged AREG in the first place.
// A nested && / || 's ALOGIC answer has no register: it already
// branched to the labels active at evaluation time, so there is
// nothing left to do.
func (c *Context) branchOn(a answer) {
	switch a.kind {
	case AConst:
		c.branchOnConst(a)
	case AReg:
		c.liftRegToLogic(a)
	case ALogic:
		if a.reg != nil {
			c.emit("  br i1 %s, label %%label%d, label %%label%d\n", a.reg, c.labelTrue, c.labelFalse)
			c.terminate()
		}
	case ANull:
		// A bare `null` condition is always false.
		c.jump(c.labelFalse)
	default:
		c.diag.Report(diag.UnknownAST, sem.NoPos, "value of kind %v cannot be used as a branch condition", a.kind)
	}
}

// branchOnConst resolves a compile-time-constant condition to an
// unconditional jump, skipping the runtime comparison entirely.
func (c *Context) branchOnConst(a answer) {
	truthy := false
	if a.typ != nil && a.typ.IsFloating() {
		truthy = a.fconst != 0
	} else {
		truthy = a.iconst != 0
	}
	if truthy {
		c.jump(c.labelTrue)
	} else {
		c.jump(c.labelFalse)
	}
}

// liftRegToLogic prints the `icmp ne`/`fcmp one` that turns a plain
// non-boolean register value into a branch — a genuine AREG answer
// (an int or float expression used directly as a condition), never a
// comparison's own answer, which is tagged ALOGIC from the start and
// branches off its existing register instead.
func (c *Context) liftRegToLogic(a answer) {
	cmp := c.newReg()
	if a.typ != nil && a.typ.IsFloating() {
		c.emit("  %s = fcmp one double %s, 0.0\n", cmp, a.reg)
	} else {
		c.emit("  %s = icmp ne %s %s, 0\n", cmp, c.typeString(a.typ), a.reg)
	}
	c.emit("  br i1 %s, label %%label%d, label %%label%d\n", cmp, c.labelTrue, c.labelFalse)
	c.terminate()
}
