package codegen

import (
	"github.com/Mexanobar/RuC/pkg/config"
	"github.com/Mexanobar/RuC/pkg/diag"
	"github.com/Mexanobar/RuC/pkg/sem"
)

// Encode walks syn's translation unit and prints LLVM IR text to
// syn.Out, returning the number of system errors reported along the
// way — grounded on encode_to_llvm's init-then-walk-then-return-
// error-count shape in the original implementation. Emission never
// stops early on an error; the rest of the unit still prints so a
// caller inspecting the output alongside the diagnostics can see as
// much of the translation as succeeded.
func Encode(syn *sem.Syntax, ws *config.Workspace, sink *diag.Sink) int {
	c := NewContext(syn, ws, sink)

	c.emitArchitecture()
	c.emitStructsDeclaration()
	c.emitStringsDeclaration()

	for _, decl := range syn.Root.Decls {
		switch decl.Data.(type) {
		case sem.VarDecl:
			c.emitGlobalDecl(decl)
		case sem.FuncDecl:
			c.emitFuncDecl(decl)
		case sem.TypeDecl:
			// already accounted for by emitStructsDeclaration
		default:
			sink.Report(diag.UnknownAST, decl.Pos, "top-level declaration of unexpected kind %v", decl.Kind)
		}
	}

	c.emitRuntime()
	c.emitBuiltinFunctionsDeclaration()
	c.emitNeedsEpilogue()

	return sink.ErrorCount()
}

// emitArchitecture prints the module's datalayout and target triple,
// grounded on architecture() in the original implementation: one of
// exactly two supported target strings, selected by the Workspace the
// caller built from its "--x86_64"/"--mipsel" flag.
func (c *Context) emitArchitecture() {
	c.diag.Logger().Printw("backend selected", "triple", c.ws.TargetTriple, "datalayout", c.ws.DataLayout)
	c.emit("target datalayout = \"%s\"\n", c.ws.DataLayout)
	c.emit("target triple = \"%s\"\n\n", c.ws.TargetTriple)
}

// emitStructsDeclaration prints one `%struct_opt.N = type { ... }` per
// registered struct type, grounded on structs_declaration(): walked in
// registration order starting at BeginUserType, matching the indices
// typeString's structIndex hands out.
func (c *Context) emitStructsDeclaration() {
	structs := c.syn.Types.Structs()
	if len(structs) == 0 {
		return
	}
	for i, s := range structs {
		fields := make([]string, len(s.Fields))
		for j, f := range s.Fields {
			fields[j] = c.typeString(f.Type)
		}
		c.emit("%%struct_opt.%d = type { %s }\n", i+c.syn.Types.BeginUserType(), joinArgs(fields))
	}
	c.emit("\n")
}

// emitStringsDeclaration prints one `@.strN` constant per interned
// string, grounded on strings_declaration(): only `\n` is escaped to
// `\0A` (the original's one handled escape), every other byte prints
// literally since the front end guarantees printable source text.
func (c *Context) emitStringsDeclaration() {
	n := c.syn.Strings.Count()
	for i := 0; i < n; i++ {
		s := c.syn.Strings.Get(i)
		escaped := escapeStringLiteral(s)
		c.emit("@.str%d = private unnamed_addr constant [%d x i8] c\"%s\\00\", align 1\n", i, len(s)+1, escaped)
	}
	if n > 0 {
		c.emit("\n")
	}
}

func escapeStringLiteral(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out = append(out, '\\', '0', 'A')
			continue
		}
		out = append(out, s[i])
	}
	return string(out)
}

// emitRuntime prints the small set of hardcoded runtime function
// bodies, grounded on runtime(): @assert does a real comparison,
// branch, @printf call and @exit(1); @print/@printid/@getid are
// `ret void` stubs — the original never implemented real bodies for
// them, and nothing in this generator's scope gives them one either
// (SPEC_FULL §4.6 keeps them as stubs deliberately, rather than
// inventing behaviour the front end never specifies).
func (c *Context) emitRuntime() {
	c.raw(`define void @assert(i1 %cond, i8* %msg) {
  br i1 %cond, label %assert.ok, label %assert.fail
assert.fail:
  %1 = call i32 (i8*, ...) @printf(i8* %msg)
  call void @exit(i32 1)
  unreachable
assert.ok:
  ret void
}

`)

	for _, stub := range []string{"print", "printid", "getid"} {
		if c.stubUsed(stub) {
			switch stub {
			case "print":
				c.raw("define void @print(i8* %s) {\n  ret void\n}\n\n")
			case "printid":
				c.raw("define void @printid(i32 %id) {\n  ret void\n}\n\n")
			case "getid":
				c.raw("define i32 @getid() {\n  ret i32 0\n}\n\n")
			}
		}
	}
}

// stubUsed reports whether any call in the translation unit named
// name, matching it by spelling since the runtime stubs above are
// compiler-provided identifiers that never go through the ordinary
// identifier pool lookup a user call site would use.
func (c *Context) stubUsed(name string) bool {
	for id := range c.builtinsUsed {
		if c.syn.Idents.Spelling(id) == name {
			return true
		}
	}
	return false
}

// emitBuiltinFunctionsDeclaration prints a `declare` for each
// built-in function the front end predeclared that the translation
// unit actually calls, skipping main and the ones emitRuntime already
// gave a full body (assert/print/printid/getid), grounded on
// builin_functions_declaration()'s skip list.
func (c *Context) emitBuiltinFunctionsDeclaration() {
	boundary := c.syn.Idents.BeginUserFunc()
	for id := 1; id < boundary; id++ {
		ident := sem.Ident(id)
		name := c.syn.Idents.Spelling(ident)
		if name == "assert" || name == "print" || name == "printid" || name == "getid" || name == "main" {
			continue
		}
		if !c.builtinsUsed[ident] {
			continue
		}
		typ := c.syn.Idents.Type(ident)
		params := make([]string, len(typ.Params))
		for i, p := range typ.Params {
			params[i] = c.typeString(p)
		}
		if typ.Variadic {
			params = append(params, "...")
		}
		c.emit("declare %s @%s(%s)\n", c.typeString(typ.Return), name, joinArgs(params))
	}
	c.emit("\n")
}

// emitNeedsEpilogue prints the extern declarations gated by which
// runtime features the body actually used, grounded on
// emit_translation_unit's needs-gated epilogue: llvm.stacksave/
// llvm.stackrestore when any function allocated a dynamic array or
// contained a nested block (each nested block saves and restores),
// %struct._IO_FILE when FILE appeared, @abs/@llvm.fabs.f64 when the
// abs() builtin was used on an int/float operand respectively.
func (c *Context) emitNeedsEpilogue() {
	c.diag.Logger().Printw("epilogue gating", "stackSaveRestore", c.needs.stackSaveRestore,
		"ioFileStruct", c.needs.ioFileStruct, "abs", c.needs.abs, "fabs", c.needs.fabs)
	if c.needs.stackSaveRestore {
		c.emit("declare i8* @llvm.stacksave()\n")
		c.emit("declare void @llvm.stackrestore(i8*)\n")
	}
	if c.needs.ioFileStruct {
		c.raw("%struct._IO_marker = type { %struct._IO_marker*, %struct._IO_FILE*, i32 }\n")
		c.raw("%struct._IO_FILE = type { i32, i8*, i8*, i8*, i8*, i8*, i8*, i8*, i8*, i8*, i8*, i8*, %struct._IO_marker*, %struct._IO_FILE*, i32, i32, i64, i16, i8, [1 x i8], i8*, i64, i8*, i8*, i8*, i8*, i64, i32, [20 x i8] }\n")
	}
	if c.needs.abs {
		c.emit("declare i32 @abs(i32)\n")
	}
	if c.needs.fabs {
		c.emit("declare double @llvm.fabs.f64(double)\n")
	}
	// @assert is defined unconditionally by emitRuntime, which Encode
	// runs after the body's declarations rather than in the prologue, so
	// the two externs it calls have no Needs gate either, matching
	// the original's runtime()/declare void @exit(i32) pairing.
	c.emit("declare i32 @printf(i8*, ...)\n")
	c.emit("declare void @exit(i32)\n")
}
