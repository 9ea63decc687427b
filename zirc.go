// Package zirc ties the test command together: workspace resolution, the
// test runner, and result rendering.
package zirc

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/zirclang/zirc/backend"
	"github.com/zirclang/zirc/logging"
	"github.com/zirclang/zirc/metrics"
	"github.com/zirclang/zirc/reporting"
	"github.com/zirclang/zirc/runner"
	"github.com/zirclang/zirc/workspace"
)

// Zirc drives one test run over a workspace.
type Zirc struct {
	config  *Config
	version string
	backend backend.Backend
}

// New creates the test driver.
func New(config *Config, version string, be backend.Backend) (*Zirc, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}
	if be == nil {
		return nil, errors.New("backend is required")
	}

	config.Log.Debug("Creating test driver",
		"manifest", config.ManifestPath,
		"package", config.PackageFilter,
		"filter", config.TestNameFilter,
		"backend", be.Name())

	return &Zirc{
		config:  config,
		version: version,
		backend: be,
	}, nil
}

// Run resolves the workspace and runs every selected package's tests
// sequentially. It returns a TestFailureError when tests fail and a
// RuntimeError for tooling faults, so the caller can map them to exit
// codes 1 and 2.
func (z *Zirc) Run(ctx context.Context) error {
	cfg := z.config
	start := time.Now()

	manifestPath := cfg.ManifestPath
	if manifestPath == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return NewRuntimeError(fmt.Errorf("resolving working directory: %w", err))
		}
		manifestPath, err = workspace.FindManifest(cwd)
		if err != nil {
			return NewRuntimeError(err)
		}
	}

	ws, err := workspace.Resolve(manifestPath, cfg.PackageFilter, z.version)
	if err != nil {
		metrics.RecordErrorDetails("workspace resolution failed", err)
		return NewRuntimeError(err)
	}
	cfg.Log.Info("Resolved workspace", "manifest", manifestPath, "packages", len(ws.Packages))

	runID := uuid.New().String()

	var fileLogger *logging.FileLogger
	if cfg.LogDir != "" {
		fileLogger, err = logging.NewFileLogger(cfg.LogDir, runID)
		if err != nil {
			return NewRuntimeError(err)
		}
	}

	sink := reporting.NewStatusSink(os.Stderr, cfg.Colors)
	testRunner, err := runner.NewTestRunner(runner.Config{
		Backend:        z.backend,
		Workspace:      ws,
		Filter:         cfg.TestNameFilter,
		CompileOptions: cfg.CompileOptions,
		Sink:           sink,
		Log:            cfg.Log,
		FileLogger:     fileLogger,
		RunID:          runID,
	})
	if err != nil {
		return NewRuntimeError(err)
	}

	reports, runErr := testRunner.RunAllPackages(ctx)

	if len(reports) > 0 {
		reporting.RenderResultsTable(os.Stdout, runID, reports, time.Since(start))
	}
	if fileLogger != nil {
		if err := fileLogger.Complete(); err != nil {
			cfg.Log.Error("Failed to write run summary", "error", err)
		}
	}

	if runErr != nil {
		var failure *runner.RunError
		if errors.As(runErr, &failure) {
			cfg.Log.Warn("Test run completed with failures", "run_id", runID, "package", failure.Package, "failing", failure.Failing)
			return NewTestFailureError(runErr.Error())
		}
		metrics.RecordErrorDetails("test run failed", runErr)
		cfg.Log.Error("Runtime error running tests", "run_id", runID, "error", runErr)
		return NewRuntimeError(runErr)
	}

	cfg.Log.Info("Test run completed", "run_id", runID, "duration", time.Since(start))
	return nil
}
