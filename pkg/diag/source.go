package diag

import "strings"

// MemorySource is a Source backed by in-memory file contents, grounded
// on the teacher's util.SourceFileRecord/SetSourceFiles. Tests and
// cmd/llvmgen both build one of these from the files they read.
type MemorySource struct {
	files map[string][]string // file name -> lines, 0-indexed
}

// NewMemorySource builds an empty MemorySource.
func NewMemorySource() *MemorySource {
	return &MemorySource{files: make(map[string][]string)}
}

// AddFile records a file's contents for later Line lookups.
func (m *MemorySource) AddFile(name, content string) {
	m.files[name] = strings.Split(content, "\n")
}

// Line implements Source.
func (m *MemorySource) Line(file string, n int) string {
	lines, ok := m.files[file]
	if !ok || n < 1 || n > len(lines) {
		return ""
	}
	return lines[n-1]
}
