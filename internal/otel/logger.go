package otel

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// defaultBuffer is the queue depth between Emit and the writer goroutine.
const defaultBuffer = 4096

// queued pairs the encoded line with the event it came from. The ring gets
// the event so Dur survives without a decode.
type queued struct {
	line []byte
	ev   Event
}

// LoggerOption configures a Logger.
type LoggerOption func(*Logger)

// WithBuffer sets the queue depth. Values below 1 are ignored.
func WithBuffer(n int) LoggerOption {
	return func(l *Logger) {
		if n > 0 {
			l.queueSize = n
		}
	}
}

// WithRunID replaces the generated run id.
func WithRunID(id string) LoggerOption {
	return func(l *Logger) {
		if id != "" {
			l.runID = id
		}
	}
}

// WithDropReport sets where Close reports lost events. Nil silences it.
func WithDropReport(w io.Writer) LoggerOption {
	return func(l *Logger) { l.report = w }
}

// Logger writes events as JSONL from a single background goroutine and mirrors
// them into an optional RingBuffer. Emit never blocks; events that cannot be
// queued or written are counted in Dropped.
type Logger struct {
	runID     string
	queueSize int
	report    io.Writer
	out       io.Writer

	// gate serializes Close against in-progress sends on queue.
	gate   sync.RWMutex
	closed bool
	queue  chan queued
	done   chan struct{}

	ring    atomic.Pointer[RingBuffer]
	dropped atomic.Uint64
}

// NewLogger starts a Logger writing to out. Close flushes and stops it.
func NewLogger(out io.Writer, opts ...LoggerOption) *Logger {
	l := &Logger{
		runID:     newRunID(),
		queueSize: defaultBuffer,
		report:    os.Stderr,
		out:       out,
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.queue = make(chan queued, l.queueSize)
	go l.run()
	return l
}

// NewNullLogger returns a Logger that discards output and never reports.
func NewNullLogger() *Logger {
	return NewLogger(io.Discard, WithDropReport(nil))
}

// newRunID is 16 hex chars taken from a random UUID.
func newRunID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}

func (l *Logger) run() {
	defer close(l.done)
	for q := range l.queue {
		if _, err := l.out.Write(q.line); err != nil {
			l.dropped.Add(1)
		}
		if rb := l.ring.Load(); rb != nil {
			rb.Push(q.ev)
		}
	}
}

// RunID identifies this process in every event it writes.
func (l *Logger) RunID() string {
	return l.runID
}

// Emit stamps e with the run id (and the current time when unset) and queues
// it.
func (l *Logger) Emit(e Event) {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	e.RunID = l.runID

	line, err := json.Marshal(e)
	if err != nil {
		l.dropped.Add(1)
		return
	}
	line = append(line, '\n')

	l.gate.RLock()
	defer l.gate.RUnlock()
	if l.closed {
		l.dropped.Add(1)
		return
	}
	select {
	case l.queue <- queued{line: line, ev: e}:
	default:
		l.dropped.Add(1)
	}
}

// Debug emits a debug-level event.
func (l *Logger) Debug(kind EventKind, comp, msg string) {
	l.Emit(Event{Level: LevelDebug, Kind: kind, Comp: comp, Msg: msg})
}

// Info emits an info-level event.
func (l *Logger) Info(kind EventKind, comp, msg string) {
	l.Emit(Event{Level: LevelInfo, Kind: kind, Comp: comp, Msg: msg})
}

// Warn emits a warn-level event.
func (l *Logger) Warn(kind EventKind, comp, msg string) {
	l.Emit(Event{Level: LevelWarn, Kind: kind, Comp: comp, Msg: msg})
}

// Error emits an error-level event. A nil err leaves Err empty.
func (l *Logger) Error(kind EventKind, comp string, err error) {
	e := Event{Level: LevelError, Kind: kind, Comp: comp}
	if err != nil {
		e.Err = err.Error()
	}
	l.Emit(e)
}

// SetRingBuffer mirrors subsequent events into buf. Nil detaches.
func (l *Logger) SetRingBuffer(buf *RingBuffer) {
	l.ring.Store(buf)
}

// Dropped counts events lost to a full queue, an encode failure, a write
// error or an Emit after Close.
func (l *Logger) Dropped() uint64 {
	return l.dropped.Load()
}

// Close drains the queue and stops the writer. Later calls are no-ops and
// later Emits count as dropped.
func (l *Logger) Close() {
	l.gate.Lock()
	if l.closed {
		l.gate.Unlock()
		<-l.done
		return
	}
	l.closed = true
	close(l.queue)
	l.gate.Unlock()
	<-l.done

	if d := l.dropped.Load(); d > 0 && l.report != nil {
		fmt.Fprintf(l.report, "sportus: %d events dropped during run %s\n", d, l.runID)
	}
}
