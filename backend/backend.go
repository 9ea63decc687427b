// Package backend defines the pluggable constraint-solving capability the
// test runner drives. A backend optimizes circuits and evaluates them for
// satisfiability; proving and verification live behind the same handle in
// full toolchains but are outside this core.
package backend

import (
	"errors"
	"fmt"

	"github.com/zirclang/zirc/circuit"
)

// Backend is the capability set the runner is parametric over. A handle is
// shared read-only across all tests in a run; implementations must tolerate
// sequential reentrant calls but are never called concurrently.
type Backend interface {
	// Name identifies the backend in logs and metrics.
	Name() string
	// Optimize rewrites the circuit into the backend's executable form.
	// This includes expanding deferred intrinsic gates into constraints;
	// executing an unoptimized circuit would skip those constraints
	// entirely. Errors indicate a tooling defect, not a program defect.
	Optimize(c circuit.Circuit) (circuit.Circuit, error)
	// Execute solves the circuit's witness starting from the given partial
	// assignment and checks every constraint. Unsatisfiability is reported
	// as an UnsatisfiedError; any other error is a backend-internal fault.
	Execute(c circuit.Circuit, initial circuit.WitnessMap) (circuit.WitnessMap, error)
}

// UnsatisfiedError reports that a circuit's constraints do not hold under
// self-contained evaluation. This is the per-test failure signal.
type UnsatisfiedError struct {
	Gate   int // index of the offending gate, -1 if not gate-specific
	Reason string
}

func (e *UnsatisfiedError) Error() string {
	if e.Gate >= 0 {
		return fmt.Sprintf("constraint %d unsatisfied: %s", e.Gate, e.Reason)
	}
	return fmt.Sprintf("circuit unsatisfied: %s", e.Reason)
}

// IsUnsatisfied reports whether err is or wraps an UnsatisfiedError.
func IsUnsatisfied(err error) bool {
	var unsat *UnsatisfiedError
	return err != nil && errors.As(err, &unsat)
}

// OptimizeError reports an optimizer fault. It is fatal to the enclosing
// package's run rather than a test failure.
type OptimizeError struct {
	Reason string
}

func (e *OptimizeError) Error() string {
	return fmt.Sprintf("circuit optimization failed: %s", e.Reason)
}
