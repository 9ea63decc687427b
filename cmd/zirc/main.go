package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/log"
	"github.com/honeycombio/otel-config-go/otelconfig"
	"github.com/urfave/cli/v2"

	zirc "github.com/zirclang/zirc"
	"github.com/zirclang/zirc/backend/fieldsolver"
	"github.com/zirclang/zirc/exitcodes"
	"github.com/zirclang/zirc/flags"
	"github.com/zirclang/zirc/service"
)

var (
	Version   = "v0.2.0"
	GitCommit = ""
	GitDate   = ""
)

func main() {
	app := cli.NewApp()
	app.Version = fmt.Sprintf("%s-%s-%s", Version, GitCommit, GitDate)
	app.Name = "zirc"
	app.Usage = "Zirc constraint-circuit language driver"
	app.Description = "zirc compiles Zirc programs to arithmetic circuits and checks them for satisfiability"
	app.Commands = []*cli.Command{
		{
			Name:      "test",
			Usage:     "Run the tests for this workspace",
			ArgsUsage: "[TEST_NAME_FILTER]",
			Flags:     flags.TestFlags,
			Action:    runTest,
		},
	}
	app.ExitErrHandler = func(c *cli.Context, err error) {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			cli.HandleExitCoder(exitErr)
		} else if err != nil {
			if zirc.IsRuntimeError(err) {
				cli.HandleExitCoder(cli.Exit(err.Error(), exitcodes.RuntimeErr))
			} else if zirc.IsTestFailureError(err) {
				cli.HandleExitCoder(cli.Exit(err.Error(), exitcodes.TestFailure))
			} else {
				cli.HandleExitCoder(cli.Exit(err.Error(), exitcodes.TestFailure))
			}
		}
	}

	// Start telemetry
	otelShutdown, err := otelconfig.ConfigureOpenTelemetry(
		otelconfig.WithServiceName(app.Name),
		otelconfig.WithServiceVersion(app.Version),
	)
	if err != nil {
		log.Warn("Failed to setup open telemetry", "message", err)
	} else {
		defer otelShutdown()
	}

	if err := app.Run(os.Args); err != nil {
		log.Crit("Application failed", "message", err)
	}
}

func runTest(ctx *cli.Context) error {
	logger, err := setupLogger(ctx.String(flags.LogLevel.Name))
	if err != nil {
		return zirc.NewRuntimeError(err)
	}

	cfg, err := zirc.NewConfig(ctx, logger)
	if err != nil {
		return zirc.NewRuntimeError(fmt.Errorf("failed to create config: %w", err))
	}

	if cfg.MetricsEnabled {
		svc := service.New()
		svc.Start(ctx.Context)
		defer svc.Shutdown()
	}

	driver, err := zirc.New(cfg, Version, fieldsolver.New())
	if err != nil {
		return zirc.NewRuntimeError(fmt.Errorf("failed to create driver: %w", err))
	}

	return driver.Run(ctx.Context)
}

func setupLogger(levelStr string) (log.Logger, error) {
	var level slog.Level
	switch strings.ToLower(levelStr) {
	case "debug":
		level = log.LevelDebug
	case "info":
		level = log.LevelInfo
	case "warn":
		level = log.LevelWarn
	case "error":
		level = log.LevelError
	default:
		return nil, fmt.Errorf("unknown log level %q", levelStr)
	}

	handler := log.NewTerminalHandlerWithLevel(os.Stderr, level, true)
	logger := log.NewLogger(handler)
	log.SetDefault(logger)
	return logger, nil
}
