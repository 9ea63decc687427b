// Package reporting renders human-facing test run output: per-test status
// lines as results arrive, and a results table at the end of a run. The
// line stream is advisory, but its ordering and one-line-per-test shape
// are kept stable so runs remain scriptable.
package reporting

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
)

// StatusSink writes per-test status lines to a single output stream.
// Colors are scoped per write; no styling ever leaks across test
// boundaries. Not safe for concurrent use; tests run sequentially.
type StatusSink struct {
	w      io.Writer
	colors bool
}

// NewStatusSink creates a sink writing to w. With colors disabled the
// same lines are emitted unstyled. Colors are forced on even when the
// stream is not a terminal, so piped runs look the same.
func NewStatusSink(w io.Writer, colors bool) *StatusSink {
	if colors {
		text.EnableColors()
	}
	return &StatusSink{w: w, colors: colors}
}

func (s *StatusSink) paint(c text.Color, msg string) string {
	if !s.colors {
		return msg
	}
	return c.Sprint(msg)
}

// PackageHeader announces a package's test run and its discovered count.
func (s *StatusSink) PackageHeader(pkg string, count int) {
	fmt.Fprintf(s.w, "[%s] Running %d test functions\n", pkg, count)
}

// BeginTest writes the "testing ..." prefix without a newline and flushes
// it, so a hung test is visibly attributed before it completes.
func (s *StatusSink) BeginTest(pkg, name string) {
	fmt.Fprintf(s.w, "[%s] Testing %s... ", pkg, name)
	s.flush()
}

// TestPassed terminates the current status line with a green ok.
func (s *StatusSink) TestPassed() {
	fmt.Fprintln(s.w, s.paint(text.FgGreen, "ok"))
}

// TestFailed terminates the current status line with a red failure
// marker at the moment of detection, before aggregation completes.
func (s *StatusSink) TestFailed(marker string) {
	fmt.Fprintln(s.w, s.paint(text.FgRed, marker))
}

// TestOutput surfaces captured print output beneath the status line.
func (s *StatusSink) TestOutput(output string) {
	if output == "" {
		return
	}
	for _, line := range strings.Split(strings.TrimRight(output, "\n"), "\n") {
		fmt.Fprintf(s.w, "    %s\n", line)
	}
}

// AllTestsPassed writes the green package-level success summary.
func (s *StatusSink) AllTestsPassed(pkg string) {
	fmt.Fprintf(s.w, "[%s] %s\n", pkg, s.paint(text.FgGreen, "All tests passed"))
}

func (s *StatusSink) flush() {
	if f, ok := s.w.(interface{ Flush() error }); ok {
		_ = f.Flush()
	}
}
