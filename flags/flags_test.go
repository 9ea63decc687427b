package flags

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

// TestUniqueFlags asserts that all flag names are unique, to avoid accidental conflicts between the many flags.
func TestUniqueFlags(t *testing.T) {
	seenCLI := make(map[string]struct{})
	for _, flag := range TestFlags {
		name := flag.Names()[0]
		if _, ok := seenCLI[name]; ok {
			t.Errorf("duplicate flag %s", name)
			continue
		}
		seenCLI[name] = struct{}{}
	}
}

func TestHasEnvVar(t *testing.T) {
	for _, flag := range TestFlags {
		flagName := flag.Names()[0]

		t.Run(flagName, func(t *testing.T) {
			envFlagGetter, ok := flag.(interface {
				GetEnvVars() []string
			})
			require.True(t, ok, "must be able to cast the flag to an EnvVar interface")
			envFlags := envFlagGetter.GetEnvVars()
			require.Equal(t, 1, len(envFlags), "flags should have exactly one env var")
		})
	}
}

func TestEnvVarFormat(t *testing.T) {
	for _, flag := range TestFlags {
		flagName := flag.Names()[0]

		t.Run(flagName, func(t *testing.T) {
			envFlagGetter, ok := flag.(interface {
				GetEnvVars() []string
			})
			require.True(t, ok, "must be able to cast the flag to an EnvVar interface")
			envFlags := envFlagGetter.GetEnvVars()
			require.Equal(t, 1, len(envFlags), "flags should have exactly one env var")

			expected := EnvVarPrefix + "_" + strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(flagName))
			require.Equal(t, expected, envFlags[0])
		})
	}
}

func TestFlagDefaults(t *testing.T) {
	app := &cli.App{
		Flags: TestFlags,
		Action: func(ctx *cli.Context) error {
			assert.Equal(t, "", ctx.String(Manifest.Name))
			assert.Equal(t, "", ctx.String(Package.Name))
			assert.Equal(t, "info", ctx.String(LogLevel.Name))
			assert.False(t, ctx.Bool(ShowOutput.Name))
			assert.False(t, ctx.Bool(DenyWarnings.Name))
			assert.False(t, ctx.Bool(MetricsEnabled.Name))
			assert.False(t, ctx.Bool(NoColor.Name))
			return nil
		},
	}
	require.NoError(t, app.Run([]string{"zirc"}))
}
