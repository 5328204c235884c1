// Package testlog provides a log handler for unit tests.
package testlog

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/log"
)

// Testing is the subset of testing.TB needed to log to a unit test.
// Go-like test frameworks other than the standard library implement it too.
type Testing interface {
	Logf(format string, args ...any)
	Helper()
	Name() string
}

// Logger returns a logger which logs to the unit test log of t.
func Logger(t Testing, level slog.Level) log.Logger {
	handler := log.NewTerminalHandlerWithLevel(&testWriter{t: t}, level, false)
	return log.NewLogger(handler)
}

// testWriter forwards whole log lines to the test log.
type testWriter struct {
	t  Testing
	mu sync.Mutex
}

func (w *testWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.t.Helper()
	w.t.Logf("%s", strings.TrimRight(string(p), "\n"))
	return len(p), nil
}
