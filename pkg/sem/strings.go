package sem

// StringPool interns the program's string literals. The original
// spec's §6 accessor surface is amount/get/length; Go-side that's
// Count/Get/Length, matching the teacher's strings_amount/string_get/
// strings_length naming only in spirit, not in name (those identifiers
// belong to the original C, not to anything this module should quote).
type StringPool struct {
	values []string
	index  map[string]int
}

// NewStringPool constructs an empty string pool.
func NewStringPool() *StringPool {
	return &StringPool{index: make(map[string]int)}
}

// Intern returns the index of s in the pool, adding it if it isn't
// already present. Equal strings share one index, so two identical
// string literals in a translation unit emit one @.strN constant.
func (p *StringPool) Intern(s string) int {
	if i, ok := p.index[s]; ok {
		return i
	}
	i := len(p.values)
	p.values = append(p.values, s)
	p.index[s] = i
	return i
}

// Count is the number of distinct interned strings.
func (p *StringPool) Count() int { return len(p.values) }

// Get returns the string at index i.
func (p *StringPool) Get(i int) string { return p.values[i] }

// Length returns the byte length of the string at index i (not
// counting the NUL terminator the Module Emitter appends).
func (p *StringPool) Length(i int) int { return len(p.values[i]) }
