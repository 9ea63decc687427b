package reporting

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/acarl005/stripansi"
	"github.com/stretchr/testify/assert"

	"github.com/zirclang/zirc/types"
)

func TestRenderResultsTable(t *testing.T) {
	reports := []*types.PackageReport{
		{
			Package: "adder",
			Results: []*types.TestResult{
				{Name: "test_add", Package: "adder", Status: types.TestStatusPass, Duration: 12 * time.Millisecond},
				{Name: "test_overflow", Package: "adder", Status: types.TestStatusExecFailed,
					Error: errors.New("constraint evaluates to nonzero value"), Duration: 3 * time.Millisecond},
			},
			Failing:  1,
			Duration: 15 * time.Millisecond,
		},
		{
			Package: "hasher",
			Results: []*types.TestResult{
				{Name: "test_digest", Package: "hasher", Status: types.TestStatusPass, Duration: 2 * time.Millisecond},
			},
			Duration: 2 * time.Millisecond,
		},
	}

	var buf bytes.Buffer
	RenderResultsTable(&buf, "run-123", reports, 17*time.Millisecond)
	out := stripansi.Strip(buf.String())

	assert.Contains(t, out, "Test Results (run-123)")
	assert.Contains(t, out, "adder")
	assert.Contains(t, out, "hasher")
	assert.Contains(t, out, "test_add")
	assert.Contains(t, out, "test_overflow")
	assert.Contains(t, out, "constraint evaluates to nonzero value")
	assert.Contains(t, out, "3 tests")
	assert.Contains(t, out, "✗ fail")
}

func TestRenderResultsTableAllPassing(t *testing.T) {
	reports := []*types.PackageReport{
		{
			Package: "adder",
			Results: []*types.TestResult{
				{Name: "test_add", Package: "adder", Status: types.TestStatusPass, Duration: time.Millisecond},
			},
			Duration: time.Millisecond,
		},
	}

	var buf bytes.Buffer
	RenderResultsTable(&buf, "run-456", reports, time.Millisecond)
	out := stripansi.Strip(buf.String())

	assert.Contains(t, out, "1 tests")
	assert.NotContains(t, out, "✗ fail")
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "250ms", formatDuration(250*time.Millisecond))
	assert.Equal(t, "1.5s", formatDuration(1500*time.Millisecond))
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "line one", firstLine("line one\nline two"))
	assert.Equal(t, "short", firstLine("short"))
}
