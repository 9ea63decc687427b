package types

import (
	"fmt"
	"time"
)

// TestStatus represents the possible classifications of a test execution.
// Every discovered test ends in exactly one of these states.
type TestStatus string

const (
	TestStatusPass          TestStatus = "pass"
	TestStatusCompileFailed TestStatus = "compile-failed"
	TestStatusExecFailed    TestStatus = "exec-failed"
)

// IsFailure reports whether the status counts against the package's
// failing-test tally. Both compile and execution failures count as a
// single failing test; tooling faults never reach a TestResult.
func (s TestStatus) IsFailure() bool {
	return s == TestStatusCompileFailed || s == TestStatusExecFailed
}

// TestResult captures the outcome of a single test function run.
type TestResult struct {
	Name     string
	Package  string
	Status   TestStatus
	Error    error         // failure reason; nil on pass
	Output   string        // captured print output, when requested
	Duration time.Duration // wall-clock time for compile+optimize+execute
}

// PackageReport aggregates the results of one package's test run.
type PackageReport struct {
	Package  string
	Results  []*TestResult
	Failing  int
	Duration time.Duration
}

// Passed reports whether every test in the package passed.
func (r *PackageReport) Passed() bool {
	return r.Failing == 0
}

// FailureMessage renders the package-level failure summary, pluralized
// for the failing count ("1 test failed" vs "2 tests failed").
func (r *PackageReport) FailureMessage() string {
	plural := "s"
	if r.Failing == 1 {
		plural = ""
	}
	return fmt.Sprintf("[%s] %d test%s failed", r.Package, r.Failing, plural)
}
