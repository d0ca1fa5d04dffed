package diag

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Mexanobar/RuC/pkg/sem"
)

type fakeSource struct{ lines map[string]string }

func (f fakeSource) Line(file string, n int) string { return f.lines[file] }

func TestSinkReportAccumulatesWithoutExiting(t *testing.T) {
	var buf bytes.Buffer
	sink := NewSink(&buf, nil)
	sink.SetColor(false)

	sink.Report(UnsupportedShape, sem.Pos{File: "a.sx", Line: 1, Column: 1}, "bad shape: %s", "foo")
	sink.Report(UnknownAST, sem.Pos{File: "a.sx", Line: 2, Column: 1}, "unhandled node")

	require.Equal(t, 2, sink.ErrorCount())
	require.Len(t, sink.Errors(), 2)
	require.Equal(t, UnsupportedShape, sink.Errors()[0].Kind)
	require.Contains(t, sink.Errors()[0].Error(), "bad shape: foo")
	require.Contains(t, buf.String(), "a.sx:1:1")
}

func TestSinkWarnDoesNotAffectErrorCount(t *testing.T) {
	var buf bytes.Buffer
	sink := NewSink(&buf, nil)
	sink.SetColor(false)

	sink.Warn(sem.Pos{File: "a.sx", Line: 3, Column: 1}, "heads up")

	require.Equal(t, 0, sink.ErrorCount())
	require.Equal(t, 1, sink.WarningCount())
	require.Contains(t, buf.String(), "warning")
}

func TestSinkReportLimitInterpolatesLimit(t *testing.T) {
	var buf bytes.Buffer
	sink := NewSink(&buf, nil)
	sink.SetColor(false)

	sink.ReportLimit(sem.Pos{File: "a.sx", Line: 4, Column: 1}, 128, "too many arguments (max %LIMIT%)")

	require.Equal(t, 1, sink.ErrorCount())
	require.Contains(t, sink.Errors()[0].Msg, "128")
}

func TestSinkPrintsCaretUnderOffendingToken(t *testing.T) {
	var buf bytes.Buffer
	src := fakeSource{lines: map[string]string{"a.sx": "(foo bar)"}}
	sink := NewSink(&buf, src)
	sink.SetColor(false)

	sink.Report(UnknownAST, sem.Pos{File: "a.sx", Line: 1, Column: 6, Len: 3}, "bad")

	out := buf.String()
	require.Contains(t, out, "(foo bar)")
	require.Contains(t, out, "^~~")
}

func TestKindString(t *testing.T) {
	require.Equal(t, "unsupported construct", UnsupportedShape.String())
	require.Equal(t, "internal error", UnknownAST.String())
}
