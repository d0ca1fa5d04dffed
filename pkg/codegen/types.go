package codegen

import (
	"strconv"

	"github.com/Mexanobar/RuC/pkg/diag"
	"github.com/Mexanobar/RuC/pkg/sem"
)

// printType writes t's LLVM spelling, grounded on type_to_io in the
// original implementation. Struct types print as `%struct_opt.N`; the
// definitions themselves are emitted once up front by the Module
// Emitter (emitStructsDeclaration).
func (c *Context) printType(t *sem.Type) {
	c.emit("%s", c.typeString(t))
}

// typeString is printType without the side effect, used by call sites
// that need to interpolate the spelling inline (argument lists, GEP
// operands) rather than print it standalone.
func (c *Context) typeString(t *sem.Type) string {
	switch t.Kind {
	case sem.VOID:
		return "void"
	case sem.BOOL:
		return "i1"
	case sem.CHAR:
		return "i8"
	case sem.INT:
		// A fixed 32-bit width regardless of target word size: this
		// generator's `int` is a C-style fixed-width type, not the
		// teacher's own machine-word-sized "int" — one of the few
		// points where following the teacher's B-language semantics
		// would have contradicted the language this generator targets.
		return "i32"
	case sem.FLOAT:
		return "double"
	case sem.NULLPTR:
		return "i8*"
	case sem.POINTER:
		return c.typeString(t.Elem) + "*"
	case sem.ARRAY:
		// Bare element type; the Array Registry prints the full
		// nested `[N x [M x T]]` shape itself, since that needs the
		// dimension bounds the type alone doesn't carry.
		return c.typeString(t.Elem)
	case sem.STRUCT:
		return "%struct_opt." + strconv.Itoa(c.structIndex(t))
	case sem.FUNCTION:
		return c.typeString(t.Return)
	case sem.FILE:
		c.needs.ioFileStruct = true
		return "%struct._IO_FILE*"
	case sem.VARARG:
		return "..."
	default:
		c.diag.Report(diag.UnknownAST, sem.NoPos, "unprintable semantic type kind %v", t.Kind)
		return "i32"
	}
}

// structIndex returns the stable index a struct type prints under
// (`%struct_opt.N`): its 0-based registration position plus
// BeginUserType (1 once any struct exists), so the first struct prints
// as %struct_opt.1 — matching the original's reuse of the type
// pool's own vector index for struct naming.
func (c *Context) structIndex(t *sem.Type) int {
	for i, s := range c.syn.Types.Structs() {
		if s == t {
			return i + c.syn.Types.BeginUserType()
		}
	}
	return 0
}
