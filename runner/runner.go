package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/zirclang/zirc/backend"
	"github.com/zirclang/zirc/frontend"
	"github.com/zirclang/zirc/logging"
	"github.com/zirclang/zirc/metrics"
	"github.com/zirclang/zirc/reporting"
	"github.com/zirclang/zirc/types"
	"github.com/zirclang/zirc/workspace"
)

// TestRunner defines the interface for running a workspace's tests.
type TestRunner interface {
	RunAllPackages(ctx context.Context) ([]*types.PackageReport, error)
	RunPackageTests(ctx context.Context, pkg workspace.Package) (*types.PackageReport, error)
}

// RunError is the package-level failure returned when one or more tests
// in a package fail. It stops the multi-package driver.
type RunError struct {
	Package string
	Failing int
}

func (e *RunError) Error() string {
	plural := "s"
	if e.Failing == 1 {
		plural = ""
	}
	return fmt.Sprintf("[%s] %d test%s failed", e.Package, e.Failing, plural)
}

// runner struct implements TestRunner interface
type runner struct {
	backend    backend.Backend
	workspace  *workspace.Workspace
	filter     string // test name substring filter; empty matches all
	opts       frontend.CompileOptions
	sink       *reporting.StatusSink
	log        log.Logger
	runID      string
	fileLogger *logging.FileLogger
	tracer     trace.Tracer
}

// Config holds configuration for creating a new runner
type Config struct {
	Backend        backend.Backend
	Workspace      *workspace.Workspace
	Filter         string
	CompileOptions frontend.CompileOptions
	Sink           *reporting.StatusSink
	Log            log.Logger
	FileLogger     *logging.FileLogger // optional; per-test log files
	RunID          string              // generated when empty
}

// NewTestRunner creates a new test runner instance
func NewTestRunner(cfg Config) (TestRunner, error) {
	if cfg.Backend == nil {
		return nil, fmt.Errorf("backend is required")
	}
	if cfg.Workspace == nil {
		return nil, fmt.Errorf("workspace is required")
	}
	if cfg.Sink == nil {
		return nil, fmt.Errorf("status sink is required")
	}
	if cfg.Log == nil {
		cfg.Log = log.New()
		cfg.Log.Error("No logger provided, using default")
	}
	runID := cfg.RunID
	if runID == "" {
		runID = uuid.New().String()
	}

	cfg.Log.Debug("NewTestRunner()", "workspace", cfg.Workspace.Name, "filter", cfg.Filter,
		"backend", cfg.Backend.Name(), "runID", runID)

	return &runner{
		backend:    cfg.Backend,
		workspace:  cfg.Workspace,
		filter:     cfg.Filter,
		opts:       cfg.CompileOptions,
		sink:       cfg.Sink,
		log:        cfg.Log,
		runID:      runID,
		fileLogger: cfg.FileLogger,
		tracer:     otel.Tracer("test runner"),
	}, nil
}

// RunAllPackages runs every package in workspace order, sequentially. The
// first package whose run returns an error stops the drive; packages after
// it are not run. Reports collected so far are returned alongside the
// error so callers can still render them.
func (r *runner) RunAllPackages(ctx context.Context) ([]*types.PackageReport, error) {
	r.log.Debug("Running all packages", "run_id", r.runID, "packages", len(r.workspace.Packages))

	var reports []*types.PackageReport
	for _, pkg := range r.workspace.Packages {
		report, err := r.RunPackageTests(ctx, pkg)
		if report != nil {
			reports = append(reports, report)
		}
		if err != nil {
			return reports, err
		}
	}
	return reports, nil
}

// RunPackageTests resolves one package to a program unit, runs its static
// checks, then executes every discovered test sequentially in discovery
// order. Test failures are tallied, never bubbled; tooling faults abort
// the package immediately.
func (r *runner) RunPackageTests(ctx context.Context, pkg workspace.Package) (*types.PackageReport, error) {
	ctx, span := r.tracer.Start(ctx, fmt.Sprintf("package %s", pkg.Name))
	defer span.End()

	pkgStart := time.Now()

	unit, err := frontend.LoadUnit(pkg.UnitPath)
	if err != nil {
		return nil, fmt.Errorf("resolving package %s: %w", pkg.Name, err)
	}
	warnings, err := frontend.Check(unit, r.opts.DenyWarnings)
	if err != nil {
		return nil, fmt.Errorf("checking package %s: %w", pkg.Name, err)
	}
	for _, w := range warnings {
		r.log.Warn("Static check warning", "package", pkg.Name, "warning", w)
	}

	tests := unit.TestFunctions(r.filter)
	r.sink.PackageHeader(pkg.Name, len(tests))

	report := &types.PackageReport{Package: pkg.Name}
	for _, test := range tests {
		r.sink.BeginTest(pkg.Name, test.Name)

		result, err := r.runSingleTest(ctx, pkg.Name, unit, test)
		if err != nil {
			return nil, err
		}
		if result.Status == types.TestStatusPass {
			r.sink.TestPassed()
		}
		if r.opts.ShowOutput {
			r.sink.TestOutput(result.Output)
		}

		report.Results = append(report.Results, result)
		if result.Status.IsFailure() {
			report.Failing++
		}
		metrics.RecordTestResult(pkg.Name, r.runID, test.Name, result.Status)
		if r.fileLogger != nil {
			if err := r.fileLogger.LogResult(result); err != nil {
				return nil, err
			}
		}
	}
	report.Duration = time.Since(pkgStart)
	metrics.RecordPackageRun(pkg.Name, r.runID, len(report.Results), report.Failing, report.Duration)

	if report.Failing > 0 {
		return report, &RunError{Package: pkg.Name, Failing: report.Failing}
	}
	r.sink.AllTestsPassed(pkg.Name)
	return report, nil
}
