package flags

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

const EnvVarPrefix = "ZIRC"

func prefixEnvVars(name string) []string {
	return []string{EnvVarPrefix + "_" + name}
}

var (
	Manifest = &cli.StringFlag{
		Name:    "manifest",
		Value:   "",
		EnvVars: prefixEnvVars("MANIFEST"),
		Usage:   "Path to the zirc.yaml workspace manifest. Discovered from the working directory upwards when unset.",
	}
	Package = &cli.StringFlag{
		Name:    "package",
		Value:   "",
		EnvVars: prefixEnvVars("PACKAGE"),
		Usage:   "Restrict the run to one named package (default: all packages in the workspace)",
	}
	ShowOutput = &cli.BoolFlag{
		Name:    "show-output",
		Value:   false,
		EnvVars: prefixEnvVars("SHOW_OUTPUT"),
		Usage:   "Display print output captured while compiling tests",
	}
	DenyWarnings = &cli.BoolFlag{
		Name:    "deny-warnings",
		Value:   false,
		EnvVars: prefixEnvVars("DENY_WARNINGS"),
		Usage:   "Treat static check warnings as errors and abort the package before running tests",
	}
	LogDir = &cli.StringFlag{
		Name:    "logdir",
		Value:   "",
		EnvVars: prefixEnvVars("LOGDIR"),
		Usage:   "Directory to store per-test log files (disabled when unset)",
	}
	LogLevel = &cli.StringFlag{
		Name:    "log.level",
		Value:   "info",
		EnvVars: prefixEnvVars("LOG_LEVEL"),
		Usage:   "Log level: debug, info, warn, error",
	}
	MetricsEnabled = &cli.BoolFlag{
		Name:    "metrics.enabled",
		Value:   false,
		EnvVars: prefixEnvVars("METRICS_ENABLED"),
		Usage:   "Serve prometheus metrics and healthz endpoints for the duration of the run",
	}
	NoColor = &cli.BoolFlag{
		Name:    "no-color",
		Value:   false,
		EnvVars: prefixEnvVars("NO_COLOR"),
		Usage:   "Disable colored status output",
	}
)

// TestFlags are the flags accepted by the test command.
var TestFlags = []cli.Flag{
	Manifest,
	Package,
	ShowOutput,
	DenyWarnings,
	LogDir,
	LogLevel,
	MetricsEnabled,
	NoColor,
}

// CheckRequired validates required flags. The test command currently has
// none; kept so new required flags get checked in one place.
func CheckRequired(ctx *cli.Context) error {
	for _, f := range requiredFlags {
		if !ctx.IsSet(f.Names()[0]) {
			return fmt.Errorf("flag %s is required", f.Names()[0])
		}
	}
	return nil
}

var requiredFlags = []cli.Flag{}
