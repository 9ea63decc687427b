// Package logging persists per-test results to disk so failures can be
// inspected after a run. Layout:
//
//	<baseDir>/testrun-<runID>/passed/<pkg>__<test>.log
//	<baseDir>/testrun-<runID>/failed/<pkg>__<test>.log
//	<baseDir>/testrun-<runID>/summary.log
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/acarl005/stripansi"

	"github.com/zirclang/zirc/types"
)

// FileLogger stores test results for a single run.
type FileLogger struct {
	baseDir string
	runID   string
	results []*types.TestResult
}

// NewFileLogger creates the run directory under baseDir.
func NewFileLogger(baseDir, runID string) (*FileLogger, error) {
	l := &FileLogger{baseDir: baseDir, runID: runID}
	for _, sub := range []string{"passed", "failed"} {
		if err := os.MkdirAll(filepath.Join(l.runDir(), sub), 0o755); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
	}
	return l, nil
}

// RunID returns the run identifier this logger writes under.
func (l *FileLogger) RunID() string {
	return l.runID
}

func (l *FileLogger) runDir() string {
	return filepath.Join(l.baseDir, "testrun-"+l.runID)
}

// LogResult writes one test's log file. Captured output is ANSI-stripped
// so log files stay grep-friendly.
func (l *FileLogger) LogResult(result *types.TestResult) error {
	l.results = append(l.results, result)

	sub := "passed"
	if result.Status.IsFailure() {
		sub = "failed"
	}
	name := fmt.Sprintf("%s__%s.log", sanitizeFilename(result.Package), sanitizeFilename(result.Name))
	path := filepath.Join(l.runDir(), sub, name)

	var b strings.Builder
	fmt.Fprintf(&b, "test:     %s\n", result.Name)
	fmt.Fprintf(&b, "package:  %s\n", result.Package)
	fmt.Fprintf(&b, "status:   %s\n", result.Status)
	fmt.Fprintf(&b, "duration: %s\n", result.Duration)
	if result.Error != nil {
		fmt.Fprintf(&b, "error:    %s\n", stripansi.Strip(result.Error.Error()))
	}
	if result.Output != "" {
		fmt.Fprintf(&b, "\n--- output ---\n%s\n", stripansi.Strip(result.Output))
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("writing test log %s: %w", path, err)
	}
	return nil
}

// Complete writes the run summary file.
func (l *FileLogger) Complete() error {
	var b strings.Builder
	fmt.Fprintf(&b, "run: %s\n\n", l.runID)
	failing := 0
	for _, r := range l.results {
		marker := "PASS"
		if r.Status.IsFailure() {
			marker = "FAIL"
			failing++
		}
		fmt.Fprintf(&b, "%s [%s] %s (%s)\n", marker, r.Package, r.Name, r.Duration)
	}
	fmt.Fprintf(&b, "\n%d tests, %d failing\n", len(l.results), failing)

	path := filepath.Join(l.runDir(), "summary.log")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("writing summary %s: %w", path, err)
	}
	return nil
}

func sanitizeFilename(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, s)
}
