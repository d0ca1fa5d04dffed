// Package diag is the generator's error/warning sink. Unlike the
// teacher's pkg/util (which calls os.Exit(1) on the first error), this
// sink never stops the process: per the original spec's §7 Error
// Handling Design, translation errors accumulate and are reported back
// to the caller as a count, and emission of the rest of the unit
// continues.
package diag

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
	"github.com/ncruces/go-strftime"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/Mexanobar/RuC/pkg/sem"
)

// Kind is one of the four error kinds named in the original spec's §7.
type Kind int

const (
	Configuration Kind = iota
	TranslationLimit
	UnsupportedShape
	UnknownAST
)

func (k Kind) String() string {
	switch k {
	case Configuration:
		return "configuration error"
	case TranslationLimit:
		return "translation limit exceeded"
	case UnsupportedShape:
		return "unsupported construct"
	case UnknownAST:
		return "internal error"
	default:
		return "error"
	}
}

// SystemError is a single accumulated diagnostic. It deliberately does
// not implement the `error` interface's expectation of terminating
// control flow: the sink stores these and keeps going.
type SystemError struct {
	Kind Kind
	Pos  sem.Pos
	Msg  string
	err  error // wrapped via tlog.app/go/errors, for Sink.Errors()
}

func (e *SystemError) Error() string { return e.err.Error() }

// Source is the line-lookup the sink needs to print a caret under the
// offending token, grounded on the teacher's SourceFileRecord /
// findFileAndLine / printErrorLine in pkg/util/util.go.
type Source interface {
	// Line returns the text of the given 1-based line number in the
	// named file, or "" if it can't be found.
	Line(file string, n int) string
}

// Sink accumulates diagnostics instead of exiting. One Sink is created
// per pkg/codegen.Encode call.
type Sink struct {
	w       io.Writer
	src     Source
	color   bool
	errors  []*SystemError
	warnCnt int
	logger  tlog.Span
}

// NewSink builds a Sink writing human-readable diagnostics to w using
// source for caret lookups. Color is auto-detected via go-isatty
// unless overridden afterwards with SetColor.
func NewSink(w io.Writer, src Source) *Sink {
	useColor := false
	if f, ok := w.(*os.File); ok {
		useColor = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Sink{w: w, src: src, color: useColor, logger: tlog.Root()}
}

// SetColor forces (or disables) colorized diagnostics, overriding the
// isatty auto-detection — tests want deterministic, colorless output.
func (s *Sink) SetColor(on bool) { s.color = on }

// Report records a system error. It never panics and never exits; the
// caller is expected to skip emitting the offending construct and
// continue with the rest of the translation unit (original spec §7).
func (s *Sink) Report(kind Kind, pos sem.Pos, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	wrapped := errors.Wrap(fmt.Errorf("%s", msg), kind.String())
	se := &SystemError{Kind: kind, Pos: pos, Msg: msg, err: wrapped}
	s.errors = append(s.errors, se)
	s.print("error", colorError, pos, msg)
}

// Warn records a warning. Warnings never affect the error count
// returned by Encode.
func (s *Sink) Warn(pos sem.Pos, format string, args ...any) {
	s.warnCnt++
	s.print("warning", colorWarn, pos, fmt.Sprintf(format, args...))
}

// ReportLimit is Report specialized for TranslationLimit diagnostics
// that cite a numeric bound, formatting it with go-humanize so large
// limits (e.g. a 128-argument cap) read as "128" rather than getting
// lost in a sentence — small, but it's the one place this sink departs
// from plain fmt.Sprintf, and it's exactly the "size diagnostic" the
// original's system_error(too_many_arguments) call site has no
// equivalent rendering for.
func (s *Sink) ReportLimit(pos sem.Pos, limit int, format string, args ...any) {
	msg := strings.Replace(format, "%LIMIT%", humanize.Comma(int64(limit)), 1)
	msg = fmt.Sprintf(msg, args...)
	s.Report(TranslationLimit, pos, "%s", msg)
}

// Errors returns every accumulated error, in report order.
func (s *Sink) Errors() []*SystemError { return s.errors }

// ErrorCount is what Encode returns: the accumulated error count.
func (s *Sink) ErrorCount() int { return len(s.errors) }

// WarningCount is how many warnings were reported.
func (s *Sink) WarningCount() int { return s.warnCnt }

// Logger exposes the structured logger so pkg/codegen can record
// progress/decisions (array-registry shape choices, backend selection,
// epilogue gating) as structured events rather than printing them
// directly to the diagnostic writer.
func (s *Sink) Logger() tlog.Span { return s.logger }

type severityColor int

const (
	colorError severityColor = iota
	colorWarn
)

func (s *Sink) print(label string, sc severityColor, pos sem.Pos, msg string) {
	ts := strftime.Format("%Y-%m-%d %H:%M:%S", time.Now())
	prefix := fmt.Sprintf("%s %s:%d:%d: ", ts, pos.File, pos.Line, pos.Column)
	tag := label + ": "
	if s.color {
		c := color.New(color.FgRed, color.Bold)
		if sc == colorWarn {
			c = color.New(color.FgYellow, color.Bold)
		}
		tag = c.Sprint(label+":") + " "
	}
	fmt.Fprintf(s.w, "%s%s%s\n", prefix, tag, msg)
	s.printCaret(pos)
}

func (s *Sink) printCaret(pos sem.Pos) {
	if s.src == nil || pos.Line == 0 {
		return
	}
	line := s.src.Line(pos.File, pos.Line)
	if line == "" {
		return
	}
	fmt.Fprintf(s.w, "  %s\n", line)

	// Caret column accounts for display width (runewidth), not byte
	// offset, so multi-byte characters earlier on the line don't shift
	// the caret off the offending token — the bug the teacher's
	// byte-column caret (pkg/util/util.go's printErrorLine) has.
	width := runewidth.StringWidth(line[:clampIndex(line, pos.Column-1)])
	caretLen := pos.Len
	if caretLen < 1 {
		caretLen = 1
	}
	indent := strings.Repeat(" ", width)
	caret := "^" + strings.Repeat("~", caretLen-1)
	if s.color {
		caret = color.New(color.FgGreen).Sprint(caret)
	}
	fmt.Fprintf(s.w, "  %s%s\n", indent, caret)
}

func clampIndex(s string, i int) int {
	if i < 0 {
		return 0
	}
	if i > len(s) {
		return len(s)
	}
	return i
}
