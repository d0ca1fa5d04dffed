package sem

// Ident is an identifier id: an index into the identifier pool. Zero
// is never a valid identifier (Declare hands out ids starting at 1),
// so a zero Ident can be used as a "no identifier" sentinel the way
// the original C's item_t does with -1/0 depending on context.
type Ident int

// identEntry is the identifier pool's per-identifier bookkeeping.
type identEntry struct {
	spelling string
	display  string
	typ      *Type
	isLocal  bool
}

// IdentPool is the identifier-pool accessor surface named in the
// original spec's §6 (External Interfaces): get_type, is_local,
// get_spelling, get_display.
type IdentPool struct {
	entries []identEntry // index 0 unused, ids start at 1
	main    Ident

	// beginUserFunc is the bound named in §6: ids below it are
	// built-in/library functions, at or above it are user functions.
	beginUserFunc int
}

// NewIdentPool constructs an empty identifier pool.
func NewIdentPool() *IdentPool {
	return &IdentPool{entries: make([]identEntry, 1)}
}

// Declare registers a new identifier and returns its id.
func (p *IdentPool) Declare(spelling string, typ *Type, isLocal bool) Ident {
	p.entries = append(p.entries, identEntry{spelling: spelling, display: spelling, typ: typ, isLocal: isLocal})
	return Ident(len(p.entries) - 1)
}

// DeclareDisplay is Declare but with a distinct display name (used for
// compiler-synthesized temporaries that should still print under their
// source spelling in diagnostics, e.g. shadowed parameters).
func (p *IdentPool) DeclareDisplay(spelling, display string, typ *Type, isLocal bool) Ident {
	id := p.Declare(spelling, typ, isLocal)
	p.entries[id].display = display
	return id
}

func (p *IdentPool) Type(id Ident) *Type        { return p.entries[id].typ }
func (p *IdentPool) IsLocal(id Ident) bool       { return p.entries[id].isLocal }
func (p *IdentPool) Spelling(id Ident) string    { return p.entries[id].spelling }
func (p *IdentPool) Display(id Ident) string     { return p.entries[id].display }

// SetMain records the identifier that names the program's entry point.
// ref_main in the original C.
func (p *IdentPool) SetMain(id Ident) { p.main = id }

// Main returns the entry-point identifier, or zero if none was set.
func (p *IdentPool) Main() Ident { return p.main }

// MarkUserFuncBoundary records BEGIN_USER_FUNC: every identifier
// declared from this point on is a user function rather than a
// built-in. Called once by the syntax builder right after the
// built-in function table has been populated.
func (p *IdentPool) MarkUserFuncBoundary() { p.beginUserFunc = len(p.entries) }

// BeginUserFunc is the §6 bound.
func (p *IdentPool) BeginUserFunc() int { return p.beginUserFunc }
