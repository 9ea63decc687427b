package metrics

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/zirclang/zirc/types"
)

const (
	MetricsNamespace = "zirc"
)

var (
	Debug        bool = true
	validResults      = []types.TestStatus{
		types.TestStatusPass,
		types.TestStatusCompileFailed,
		types.TestStatusExecFailed,
	}
	nonAlphanumericRegex = regexp.MustCompile(`[^a-zA-Z ]+`)

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "errors_total",
		Help:      "Count of errors",
	}, []string{
		"error",
	})

	testResultsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "test_results_total",
		Help:      "Count of test results by classification",
	}, []string{
		"package",
		"run_id",
		"name",
		"result",
	})

	packageTestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "package_test_total",
		Help:      "Total number of tests run per package",
	}, []string{
		"package",
		"run_id",
	})

	packageTestFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "package_test_failed",
		Help:      "Number of failing tests per package",
	}, []string{
		"package",
		"run_id",
	})

	packageTestDuration = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "package_test_duration",
		Help:      "Duration of a package's test run in seconds",
	}, []string{
		"package",
		"run_id",
	})
)

// errToLabel tries to make the error string a more valid Prometheus label
func errToLabel(err error) string {
	if err == nil {
		return "nil"
	}
	errClean := nonAlphanumericRegex.ReplaceAllString(err.Error(), "")
	errClean = strings.ReplaceAll(errClean, " ", "_")
	errClean = strings.ReplaceAll(errClean, "__", "_")
	return errClean
}

func RecordError(error string) {
	if Debug {
		log.Debug("metric inc",
			"m", "errors_total",
			"error", error,
		)
	}
	errorsTotal.WithLabelValues(error).Inc()
}

// RecordErrorDetails concats the error message to the label
// and also tries to clean the label to be a valid Prometheus label
func RecordErrorDetails(label string, err error) {
	if err == nil {
		return
	}
	label = fmt.Sprintf("%s.%s", label, errToLabel(err))
	RecordError(label)
}

// RecordTestResult records the classification of a single test.
func RecordTestResult(pkg string, runID string, name string, result types.TestStatus) {
	if !isValidResult(result) {
		log.Error("RecordTestResult - invalid result", "result", result)
		return
	}
	if Debug {
		log.Debug("metric inc",
			"m", "test_results_total",
			"package", pkg,
			"run_id", runID,
			"test", name,
			"result", result)
	}
	testResultsTotal.WithLabelValues(pkg, runID, name, string(result)).Inc()
}

// RecordPackageRun records a package-level aggregate.
func RecordPackageRun(
	pkg string,
	runID string,
	total int,
	failed int,
	duration time.Duration,
) {
	packageTestTotal.WithLabelValues(pkg, runID).Add(float64(total))
	packageTestFailed.WithLabelValues(pkg, runID).Add(float64(failed))
	packageTestDuration.WithLabelValues(pkg, runID).Set(duration.Seconds())
}

func isValidResult(result types.TestStatus) bool {
	return slices.Contains(validResults, result)
}
