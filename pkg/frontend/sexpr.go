// Package frontend is a small embedded S-expression reader and AST
// builder, used only to feed pkg/codegen from the command line and
// from golden-test fixtures. It is deliberately minimal — a bare
// syntax reader, not a language front end — per the original spec's
// own framing of `syntax` as read-only input this generator receives
// already built and type-checked (SPEC_FULL.md §0/§5): nothing here
// performs type checking, name resolution beyond a flat scope stack,
// or diagnostics richer than a bare error string.
package frontend

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/Mexanobar/RuC/pkg/sem"
)

// Form is the reader's only syntax tree shape: an atom (a bare token)
// or a list of sub-forms, each tagged with the source position of its
// opening character.
type Form struct {
	pos  sem.Pos
	atom string // set when list == nil
	list []Form // set when atom == ""
}

func (s Form) isAtom() bool { return s.list == nil }

// reader tokenizes and parses a whole file's worth of top-level forms.
type reader struct {
	file string
	src  []rune
	i    int
	line int
	col  int
}

// ReadAll parses file's contents (already read into src) into its
// top-level forms.
func ReadAll(file, src string) ([]Form, error) {
	r := &reader{file: file, src: []rune(src), line: 1, col: 1}
	var forms []Form
	for {
		r.skipTrivia()
		if _, ok := r.peek(); !ok {
			return forms, nil
		}
		f, err := r.readOne()
		if err != nil {
			return nil, err
		}
		forms = append(forms, f)
	}
}

func (r *reader) peek() (rune, bool) {
	if r.i >= len(r.src) {
		return 0, false
	}
	return r.src[r.i], true
}

func (r *reader) advance() (rune, bool) {
	c, ok := r.peek()
	if !ok {
		return 0, false
	}
	r.i++
	if c == '\n' {
		r.line++
		r.col = 1
	} else {
		r.col++
	}
	return c, true
}

func (r *reader) skipTrivia() {
	for {
		c, ok := r.peek()
		if !ok {
			return
		}
		if unicode.IsSpace(c) {
			r.advance()
			continue
		}
		if c == ';' {
			for {
				c, ok := r.advance()
				if !ok || c == '\n' {
					break
				}
			}
			continue
		}
		return
	}
}

func (r *reader) pos() sem.Pos {
	return sem.Pos{File: r.file, Line: r.line, Column: r.col, Len: 1}
}

func (r *reader) readOne() (Form, error) {
	r.skipTrivia()
	start := r.pos()
	c, ok := r.peek()
	if !ok {
		return Form{}, fmt.Errorf("%s: unexpected end of input", r.file)
	}
	if c == '(' {
		r.advance()
		var items []Form
		for {
			r.skipTrivia()
			c, ok := r.peek()
			if !ok {
				return Form{}, fmt.Errorf("%s:%d: unterminated list", r.file, start.Line)
			}
			if c == ')' {
				r.advance()
				return Form{pos: start, list: items}, nil
			}
			item, err := r.readOne()
			if err != nil {
				return Form{}, err
			}
			items = append(items, item)
		}
	}
	if c == '"' {
		return r.readString(start)
	}
	return r.readAtom(start)
}

func (r *reader) readString(start sem.Pos) (Form, error) {
	r.advance() // opening quote
	var sb strings.Builder
	sb.WriteByte('"')
	for {
		c, ok := r.advance()
		if !ok {
			return Form{}, fmt.Errorf("%s:%d: unterminated string literal", r.file, start.Line)
		}
		if c == '\\' {
			next, ok := r.advance()
			if !ok {
				return Form{}, fmt.Errorf("%s:%d: unterminated escape", r.file, start.Line)
			}
			switch next {
			case 'n':
				sb.WriteByte('\n')
			default:
				sb.WriteRune(next)
			}
			continue
		}
		if c == '"' {
			break
		}
		sb.WriteRune(c)
	}
	return Form{pos: start, atom: sb.String()}, nil
}

func isDelim(c rune) bool {
	return unicode.IsSpace(c) || c == '(' || c == ')' || c == ';'
}

func (r *reader) readAtom(start sem.Pos) (Form, error) {
	var sb strings.Builder
	for {
		c, ok := r.peek()
		if !ok || isDelim(c) {
			break
		}
		sb.WriteRune(c)
		r.advance()
	}
	if sb.Len() == 0 {
		return Form{}, fmt.Errorf("%s:%d: unexpected character", r.file, start.Line)
	}
	return Form{pos: start, atom: sb.String()}, nil
}

// --- small literal-classification helpers the builder shares with the reader ---

func atomIsInt(s string) (int64, bool) {
	v, err := strconv.ParseInt(s, 10, 64)
	return v, err == nil
}

func atomIsFloat(s string) (float64, bool) {
	if !strings.ContainsAny(s, ".eE") {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}

// atomIsString reports whether s is a string-literal atom produced by
// readString, and returns its content with the leading quote marker
// stripped. readString keeps exactly one leading '"' on the atom (and
// no trailing one) precisely so this check can't be confused with a
// bare identifier that happens to start with a quote character, which
// the reader's own delimiter rules never otherwise produce.
func atomIsString(s string) (string, bool) {
	if len(s) >= 1 && s[0] == '"' {
		return s[1:], true
	}
	return "", false
}
