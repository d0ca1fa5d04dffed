package codegen

import (
	"github.com/Mexanobar/RuC/pkg/diag"
	"github.com/Mexanobar/RuC/pkg/ir"
	"github.com/Mexanobar/RuC/pkg/sem"
)

// emitVarDecl lowers a local variable or array declaration, grounded
// on emit_variable_declaration: a scalar gets a plain `alloca` into
// its %var.N slot; an array registers its shape in the Array Registry
// and allocates either a fixed-size `alloca` (every dimension
// constant) or a runtime-sized one computed from its first dimension
// (the one-non-constant-leading-dimension invariant VarDecl.Dims
// documents). A scalar's or static array's initializer, if present, is
// stored right after the alloca; a dynamic array's initializer is not
// emitted.
func (c *Context) emitVarDecl(n *sem.Node) {
	data := n.Data.(sem.VarDecl)
	typ := c.syn.Idents.Type(data.ID)

	if len(data.Dims) == 0 {
		c.emitScalarDecl(n, data, typ)
		return
	}
	c.emitArrayDecl(n, data, typ)
}

func (c *Context) emitScalarDecl(n *sem.Node, data sem.VarDecl, typ *sem.Type) {
	slot := namedReg("var", int(data.ID))
	c.emit("  %s = alloca %s\n", slot, c.typeString(typ))
	if data.Init != nil {
		v := c.toReg(c.emitExpr(data.Init, LocReg))
		// A literal initializer stores directly into the declared slot's
		// type (original spec §4.4/§4.7's "meets an outstanding MEM
		// request" contract): an int literal against a float-typed slot
		// converts to its float value rather than printing an integer
		// constant under a `double` store.
		if lit, ok := data.Init.Data.(sem.IntLit); ok && typ.IsFloating() {
			v = constFloatAnswer(float64(lit.Value), typ)
		}
		c.emit("  store %s %s, %s* %s\n", c.typeString(typ), operandString(v), c.typeString(typ), slot)
	}
}

func (c *Context) emitArrayDecl(n *sem.Node, data sem.VarDecl, typ *sem.Type) {
	elem := typ.Elem
	if elem == nil {
		elem = typ
	}

	// Only the leading dimension may be non-constant (VarDecl.Dims'
	// documented invariant); everything else in Dims must already have
	// folded to an IntLit by the time this generator sees it.
	dims := make([]int64, 0, len(data.Dims))
	dynamic := false
	for i, d := range data.Dims {
		lit, ok := d.Data.(sem.IntLit)
		if !ok {
			if i != 0 {
				c.diag.Report(diag.UnsupportedShape, n.Pos, "only an array's first dimension may be runtime-computed")
				return
			}
			dynamic = true
			continue
		}
		dims = append(dims, lit.Value)
	}

	c.arrays.register(data.ID, elem, dims, dynamic)
	c.diag.Logger().Printw("array registered", "id", int(data.ID), "dynamic", dynamic, "dims", dims, "scope", "local")
	desc, _ := c.arrays.lookup(data.ID)
	slot := desc.baseReg(data.ID)

	if !dynamic {
		shape := c.llvmShape(desc)
		c.emit("  %s = alloca %s\n", slot, shape)
		if data.Init != nil {
			c.emitArrayInitializer(data.Init, desc, slot)
		}
		return
	}

	// A dynamic array's size is only known at run time: the function's
	// first one saves the stack pointer into the fixed %dyn.-1 slot
	// (original spec §4 Array: "the first dynamic allocation in a
	// function emits a stacksave with index -1"); every subsequent
	// dynamic array in the same function reuses that save. The matching
	// stackrestore is emitted by the Statement Emitter right before
	// every `ret` this function prints, once c.wasDynamic is set.
	if !c.wasDynamic {
		c.emit("  %s = call i8* @llvm.stacksave()\n", namedReg("dyn", -1))
	}
	c.wasDynamic = true
	c.needs.stackSaveRestore = true
	count := c.toReg(c.emitExpr(data.Dims[0], LocReg))
	c.emit("  %s = alloca %s, %s %s\n", slot, c.typeString(elem), c.typeString(count.typ), operandString(count))
}

// emitArrayInitializer lowers a local array's brace initializer,
// grounded on emit_one_dimension_initialization: each element gets
// its own `getelementptr` + `store`, in source order. Only flat
// (single-dimension) initializers are supported here; a higher-rank
// initializer is expected to have already been flattened to one
// DeclStmt-per-row by the time it reaches this generator.
func (c *Context) emitArrayInitializer(init *sem.Node, desc *arrayDescriptor, base ir.Value) {
	data, ok := init.Data.(sem.CallExpr)
	if !ok {
		return
	}
	shape := c.llvmShape(desc)
	for i, elemExpr := range data.Args {
		v := c.toReg(c.emitExpr(elemExpr, LocReg))
		ptr := c.newReg()
		c.emit("  %s = getelementptr inbounds %s, %s* %s, i64 0, i64 %d\n", ptr, shape, shape, base, i)
		c.emit("  store %s %s, %s* %s\n", c.typeString(desc.Elem), operandString(v), c.typeString(desc.Elem), ptr)
	}
}

// emitGlobalDecl lowers a top-level variable or array, grounded on
// emit_variable_declaration's IS_STATIC path: printed once at module
// scope, in declaration order by Encode's top-level loop, not inside
// any function body. A
// constant scalar initializer prints inline; an array prints its
// full literal `[...]` list, matching the original's global-array
// initializer shape (as opposed to the per-element GEP+store a local
// array's initializer needs).
func (c *Context) emitGlobalDecl(n *sem.Node) {
	data := n.Data.(sem.VarDecl)
	typ := c.syn.Idents.Type(data.ID)
	name := c.syn.Idents.Spelling(data.ID)

	if len(data.Dims) == 0 {
		c.emitGlobalScalar(data, typ, name)
		return
	}
	c.emitGlobalArray(n, data, typ, name)
}

func (c *Context) emitGlobalScalar(data sem.VarDecl, typ *sem.Type, name string) {
	init := "zeroinitializer"
	if data.Init != nil {
		init = globalConstText(data.Init, typ)
	}
	c.emit("@%s = global %s %s\n", name, c.typeString(typ), init)
}

func (c *Context) emitGlobalArray(n *sem.Node, data sem.VarDecl, typ *sem.Type, name string) {
	elem := typ.Elem
	if elem == nil {
		elem = typ
	}
	dims := make([]int64, 0, len(data.Dims))
	for _, d := range data.Dims {
		lit, ok := d.Data.(sem.IntLit)
		if !ok {
			c.diag.Report(diag.UnsupportedShape, n.Pos, "a global array's dimensions must be compile-time constants")
			return
		}
		dims = append(dims, lit.Value)
	}
	c.arrays.register(data.ID, elem, dims, false)
	c.diag.Logger().Printw("array registered", "id", int(data.ID), "dynamic", false, "dims", dims, "scope", "global")
	desc, _ := c.arrays.lookup(data.ID)
	shape := c.llvmShape(desc)

	init := "zeroinitializer"
	if data.Init != nil {
		if call, ok := data.Init.Data.(sem.CallExpr); ok {
			parts := make([]string, len(call.Args))
			for i, e := range call.Args {
				parts[i] = c.typeString(elem) + " " + globalConstText(e, elem)
			}
			init = "[" + joinArgs(parts) + "]"
		}
	}
	c.emit("@%s = global %s %s\n", name, shape, init)
}

// globalConstText renders a constant expression's LLVM literal text
// for a global initializer — no registers are legal in global scope,
// so unlike local initialization this never calls emitExpr.
func globalConstText(n *sem.Node, typ *sem.Type) string {
	switch data := n.Data.(type) {
	case sem.IntLit:
		if typ.IsFloating() {
			return ir.FloatConst{Value: float64(data.Value)}.String()
		}
		return ir.IntConst{Value: data.Value}.String()
	case sem.FloatLit:
		return ir.FloatConst{Value: data.Value}.String()
	case sem.NullLit:
		return "null"
	default:
		return "zeroinitializer"
	}
}

// emitFuncDecl lowers a function definition, grounded on
// emit_function_definition: every parameter gets its own alloca and
// an immediate store of the incoming SSA parameter value (so the body
// can treat parameters exactly like any other local), then the body
// walks as an ordinary compound statement. main gets its own implicit
// `ret i32 0` epilogue instead of whatever its own return statements
// printed (emitReturn already special-cases this); any other function
// whose body falls off the end gets a trailing `ret void`, or
// `ret <type> 0` when its return type is non-void.
func (c *Context) emitFuncDecl(n *sem.Node) {
	data := n.Data.(sem.FuncDecl)
	if data.Body == nil {
		return // extern declaration; nothing to emit here
	}
	typ := c.syn.Idents.Type(data.ID)
	name := c.syn.Idents.Spelling(data.ID)

	// The signature itself carries only types — no parameter names —
	// matching the original's type_to_io-only param loop; LLVM numbers
	// an unnamed argument positionally, so the body's store below
	// addresses it as %0, %1, ... by that same implicit numbering. An
	// array-typed parameter decays to a pointer to its element type
	// outside of an aggregate declaration (original spec §4.2), so the
	// signature, alloca, and store all use the decayed type rather than
	// the bare element type typeString would otherwise print for it.
	params := make([]string, len(data.Params))
	for i, p := range data.Params {
		ptyp := c.syn.Idents.Type(p).DecayToPointer(c.syn.Types)
		params[i] = c.typeString(ptyp)
	}

	c.isMain = data.ID == c.syn.Idents.Main()
	c.wasDynamic = false
	c.terminated = false
	c.retType = typ.Return

	c.emit("define %s @%s(%s) {\n", c.typeString(typ.Return), name, joinArgs(params))
	for i, p := range data.Params {
		slot := namedReg("var", int(p))
		ptyp := c.syn.Idents.Type(p).DecayToPointer(c.syn.Types)
		c.emit("  %s = alloca %s\n", slot, c.typeString(ptyp))
		c.emit("  store %s %s, %s* %s\n", c.typeString(ptyp), ir.Param{N: i}, c.typeString(ptyp), slot)
	}

	c.emitStmt(data.Body)

	if c.isMain {
		c.emitStackRestore()
		c.emit("  ret i32 0\n")
	} else if !c.terminated {
		c.emitStackRestore()
		if typ.Return.IsVoid() {
			c.emit("  ret void\n")
		} else {
			c.emit("  ret %s 0\n", c.typeString(typ.Return))
		}
	}
	c.emit("}\n\n")
}
