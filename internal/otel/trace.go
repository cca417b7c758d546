package otel

import (
	"os"
	"sync/atomic"
)

// traceEnabled is read on the UI goroutine and written by tests.
var traceEnabled atomic.Bool

func init() {
	traceEnabled.Store(os.Getenv("SPORTUS_TRACE") != "")
}

// TraceEnabled reports whether SPORTUS_TRACE is set.
func TraceEnabled() bool {
	return traceEnabled.Load()
}

// SetTraceEnabled overrides SPORTUS_TRACE. Used by tests.
func SetTraceEnabled(v bool) {
	traceEnabled.Store(v)
}
