package reporting

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusSinkLineStream(t *testing.T) {
	var buf bytes.Buffer
	sink := NewStatusSink(&buf, false)

	sink.PackageHeader("demo", 2)
	sink.BeginTest("demo", "test_add")
	sink.TestPassed()
	sink.BeginTest("demo", "test_bad")
	sink.TestFailed("failed")
	sink.AllTestsPassed("demo")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "[demo] Running 2 test functions", lines[0])
	assert.Equal(t, "[demo] Testing test_add... ok", lines[1])
	assert.Equal(t, "[demo] Testing test_bad... failed", lines[2])
	assert.Equal(t, "[demo] All tests passed", lines[3])
}

func TestStatusSinkColors(t *testing.T) {
	var buf bytes.Buffer
	sink := NewStatusSink(&buf, true)

	sink.BeginTest("demo", "test_add")
	sink.TestPassed()

	out := buf.String()
	// color codes are scoped: the escape sequence must close before the newline
	assert.Contains(t, out, "\x1b[")
	assert.True(t, strings.HasSuffix(out, "\x1b[0m\n"))
}

func TestStatusSinkOutputIndented(t *testing.T) {
	var buf bytes.Buffer
	sink := NewStatusSink(&buf, false)

	sink.TestOutput("hello\nworld\n")
	assert.Equal(t, "    hello\n    world\n", buf.String())

	buf.Reset()
	sink.TestOutput("")
	assert.Empty(t, buf.String())
}

func TestStatusSinkFlushesBeginTest(t *testing.T) {
	w := &flushRecorder{}
	sink := NewStatusSink(w, false)

	sink.BeginTest("demo", "test_slow")
	assert.Equal(t, 1, w.flushes)
	assert.Equal(t, "[demo] Testing test_slow... ", w.buf.String())
}

type flushRecorder struct {
	buf     bytes.Buffer
	flushes int
}

func (f *flushRecorder) Write(p []byte) (int, error) {
	return f.buf.Write(p)
}

func (f *flushRecorder) Flush() error {
	f.flushes++
	return nil
}
