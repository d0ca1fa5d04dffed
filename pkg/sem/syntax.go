package sem

import "io"

// TranslationUnit is the AST root: an ordered list of top-level
// declarations (KindVarDecl, KindFuncDecl, KindTypeDecl nodes).
type TranslationUnit struct {
	Decls []*Node
}

// Syntax is the read-only input contract named in the original spec's
// §6 (External Interfaces): a type pool, an identifier pool, a string
// pool, an AST root, and the io.Writer the generator prints to. The
// generator never mutates a Syntax; everything it needs to remember
// about its own progress lives in pkg/codegen.Context instead.
type Syntax struct {
	Types   *TypePool
	Idents  *IdentPool
	Strings *StringPool
	Root    *TranslationUnit
	Out     io.Writer
}

// NewSyntax builds an (initially empty) Syntax writing to w. Callers
// populate Types/Idents/Strings/Root via the pool APIs before handing
// the result to pkg/codegen.Encode.
func NewSyntax(w io.Writer) *Syntax {
	return &Syntax{
		Types:   NewTypePool(),
		Idents:  NewIdentPool(),
		Strings: NewStringPool(),
		Root:    &TranslationUnit{},
		Out:     w,
	}
}
