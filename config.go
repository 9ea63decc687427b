package zirc

import (
	"fmt"
	"path/filepath"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	"github.com/zirclang/zirc/flags"
	"github.com/zirclang/zirc/frontend"
)

// Config holds the test command configuration
type Config struct {
	ManifestPath   string // empty means discover from the working directory
	PackageFilter  string // restrict to one package; empty means all
	TestNameFilter string // substring match against test names; empty matches all
	LogDir         string // per-test log files; empty disables
	MetricsEnabled bool
	Colors         bool
	CompileOptions frontend.CompileOptions
	Log            log.Logger
}

// NewConfig creates a new Config from cli context. The first positional
// argument is the test name filter.
func NewConfig(ctx *cli.Context, logger log.Logger) (*Config, error) {
	if err := flags.CheckRequired(ctx); err != nil {
		return nil, fmt.Errorf("missing required flags: %w", err)
	}
	if ctx.NArg() > 1 {
		return nil, fmt.Errorf("expected at most one test name filter, got %d arguments", ctx.NArg())
	}

	manifestPath := ctx.String(flags.Manifest.Name)
	if manifestPath != "" {
		abs, err := filepath.Abs(manifestPath)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve absolute path for manifest '%s': %w", manifestPath, err)
		}
		manifestPath = abs
	}

	logDir := ctx.String(flags.LogDir.Name)
	if logDir != "" {
		abs, err := filepath.Abs(logDir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve absolute path for log directory '%s': %w", logDir, err)
		}
		logDir = abs
	}

	return &Config{
		ManifestPath:   manifestPath,
		PackageFilter:  ctx.String(flags.Package.Name),
		TestNameFilter: ctx.Args().First(),
		LogDir:         logDir,
		MetricsEnabled: ctx.Bool(flags.MetricsEnabled.Name),
		Colors:         !ctx.Bool(flags.NoColor.Name),
		CompileOptions: frontend.CompileOptions{
			DenyWarnings: ctx.Bool(flags.DenyWarnings.Name),
			ShowOutput:   ctx.Bool(flags.ShowOutput.Name),
		},
		Log: logger,
	}, nil
}
