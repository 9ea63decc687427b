package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/zirclang/zirc/backend"
	"github.com/zirclang/zirc/circuit"
	"github.com/zirclang/zirc/frontend"
	"github.com/zirclang/zirc/types"
)

// Status line markers emitted at the moment a failure is detected.
const (
	markerFailed          = "failed"
	markerFailedToCompile = "failed to compile"
)

// runSingleTest compiles, optimizes and executes one test function and
// classifies the outcome. Compile and execution failures are recoverable:
// they come back as a TestResult and count as one failing test. An
// optimizer fault comes back as a hard error and aborts the package,
// since it indicates a tooling defect rather than a program defect.
func (r *runner) runSingleTest(ctx context.Context, pkg string, unit *frontend.ProgramUnit, test frontend.TestFunction) (*types.TestResult, error) {
	_, span := r.tracer.Start(ctx, fmt.Sprintf("test %s", test.Name))
	defer span.End()

	start := time.Now()
	result := &types.TestResult{Name: test.Name, Package: pkg}
	finish := func() *types.TestResult {
		result.Duration = time.Since(start)
		return result
	}

	prog, err := frontend.CompileTest(unit, test.ID, r.opts)
	if err != nil {
		var cerr *frontend.CompileError
		if !errors.As(err, &cerr) {
			return nil, fmt.Errorf("compiling test %q: %w", test.Name, err)
		}
		r.log.Debug("Test failed to compile", "test", test.Name, "error", err)
		r.sink.TestFailed(markerFailedToCompile)
		result.Status = types.TestStatusCompileFailed
		result.Error = err
		return finish(), nil
	}
	result.Output = strings.Join(prog.Diagnostics, "\n")

	// Run the optimizer even for tests: deferred intrinsic gates only
	// materialize their constraints here, and skipping this step would let
	// tests pass that should fail.
	optimized, err := r.backend.Optimize(prog.Circuit)
	if err != nil {
		return nil, fmt.Errorf("optimizing circuit for test %q: %w", test.Name, err)
	}

	// Tests take no external witnesses; every value must be derivable from
	// the program itself.
	_, err = r.backend.Execute(optimized, circuit.NewWitnessMap())
	if err != nil {
		if !backend.IsUnsatisfied(err) {
			return nil, fmt.Errorf("executing circuit for test %q: %w", test.Name, err)
		}
		r.log.Debug("Test execution failed", "test", test.Name, "error", err)
		r.sink.TestFailed(markerFailed)
		result.Status = types.TestStatusExecFailed
		result.Error = err
		return finish(), nil
	}

	result.Status = types.TestStatusPass
	return finish(), nil
}
