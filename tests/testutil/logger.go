package testutil

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/systmms/lpass-lookup/internal/logging"
)

// TestLogger is a logging.Logger whose output stays in memory so tests can
// check what was logged and, above all, what was not.
//
//	tl := testutil.NewTestLogger(t, true)
//	client, _ := lastpass.New(lastpass.WithLogger(tl.Logger), ...)
//	...
//	tl.AssertRedacted(t, "Personal/bank")
type TestLogger struct {
	*logging.Logger
	buf *syncBuffer
}

// NewTestLogger returns a colorless logger; debug enables Debug output.
func NewTestLogger(t *testing.T, debug bool) *TestLogger {
	t.Helper()

	buf := &syncBuffer{}
	return &TestLogger{Logger: logging.NewWithWriter(buf, debug, true), buf: buf}
}

// Output returns everything logged so far.
func (l *TestLogger) Output() string {
	return l.buf.String()
}

// Lines returns the non-empty logged lines.
func (l *TestLogger) Lines() []string {
	var lines []string
	for _, line := range strings.Split(l.Output(), "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// AssertContains asserts that the log output contains substr.
func (l *TestLogger) AssertContains(t *testing.T, substr string) {
	t.Helper()
	assert.Contains(t, l.Output(), substr)
}

// AssertRedacted asserts that value never reached the log while the
// redaction marker did.
func (l *TestLogger) AssertRedacted(t *testing.T, value string) {
	t.Helper()

	out := l.Output()
	assert.NotContains(t, out, value, "value %q should be redacted", value)
	assert.Contains(t, out, "[REDACTED]")
}

// syncBuffer lets parallel lookups share one TestLogger.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
