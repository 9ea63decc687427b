package reporting

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/zirclang/zirc/types"
)

// RenderResultsTable prints the end-of-run results table: one section per
// package, one row per test, and a TOTAL footer. The table style tracks
// the overall outcome.
func RenderResultsTable(w io.Writer, runID string, reports []*types.PackageReport, total time.Duration) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(fmt.Sprintf("Test Results (%s)", runID))

	t.AppendHeader(table.Row{"Type", "ID", "Duration", "Passed", "Failed", "Status", "Error"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "ID", WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Duration", Align: text.AlignRight},
		{Name: "Passed", Align: text.AlignRight},
		{Name: "Failed", Align: text.AlignRight},
		{Name: "Error", WidthMax: 80, WidthMaxEnforcer: text.WrapSoft},
	})

	totalTests, totalPassed, totalFailed := 0, 0, 0
	for _, report := range reports {
		t.AppendRow(table.Row{
			"Package",
			report.Package,
			formatDuration(report.Duration),
			len(report.Results) - report.Failing,
			report.Failing,
			statusString(report.Passed()),
			"",
		})
		for i, result := range report.Results {
			prefix := "├──"
			if i == len(report.Results)-1 {
				prefix = "└──"
			}
			errMsg := ""
			if result.Error != nil {
				errMsg = firstLine(result.Error.Error())
			}
			t.AppendRow(table.Row{
				"Test",
				fmt.Sprintf("%s %s", prefix, result.Name),
				formatDuration(result.Duration),
				boolToInt(result.Status == types.TestStatusPass),
				boolToInt(result.Status.IsFailure()),
				statusString(result.Status == types.TestStatusPass),
				errMsg,
			})
			totalTests++
			if result.Status == types.TestStatusPass {
				totalPassed++
			} else {
				totalFailed++
			}
		}
		t.AppendSeparator()
	}

	if totalFailed == 0 {
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	} else {
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	}

	t.AppendFooter(table.Row{
		"TOTAL", fmt.Sprintf("%d tests", totalTests), formatDuration(total),
		totalPassed, totalFailed, statusString(totalFailed == 0), "",
	})
	t.Render()
}

func statusString(pass bool) string {
	if pass {
		return "✓ pass"
	}
	return "✗ fail"
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.Truncate(time.Millisecond).String()
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	if len(s) > 80 {
		return s[:70] + "..."
	}
	return s
}
