package otel

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid JSON line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestEmitWritesJSONL(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf)

	l.Emit(Event{
		Level:     LevelInfo,
		Kind:      KindFetchStart,
		Comp:      "coord",
		RequestID: "6f1c",
		Feed:      3,
		Category:  "facilities",
		Page:      2,
	})
	l.Close()

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	got := lines[0]
	checks := map[string]any{
		"kind":     "fetch.start",
		"level":    "info",
		"comp":     "coord",
		"rid":      "6f1c",
		"feed":     float64(3),
		"category": "facilities",
		"page":     float64(2),
	}
	for k, want := range checks {
		if got[k] != want {
			t.Errorf("%s=%v, want %v", k, got[k], want)
		}
	}
}

func TestEmitStampsTimeAndRunID(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf)

	before := time.Now()
	l.Emit(Event{Kind: KindStartup})
	l.Emit(Event{Kind: KindShutdown})
	l.Close()
	after := time.Now()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	var first, second Event
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatal(err)
	}

	if first.Time.Before(before) || first.Time.After(after) {
		t.Errorf("time %v not in [%v, %v]", first.Time, before, after)
	}
	if len(first.RunID) != 16 {
		t.Errorf("run_id should be 16 hex chars, got %q", first.RunID)
	}
	if first.RunID != second.RunID || first.RunID != l.RunID() {
		t.Errorf("run ids differ: %q %q %q", first.RunID, second.RunID, l.RunID())
	}
}

func TestEmitKeepsExplicitTime(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf)
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	l.Emit(Event{Kind: KindStartup, Time: at})
	l.Close()

	var ev Event
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &ev); err != nil {
		t.Fatal(err)
	}
	if !ev.Time.Equal(at) {
		t.Errorf("time=%v, want %v", ev.Time, at)
	}
}

func TestDurSerializedAsMillis(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf)
	l.Emit(Event{Kind: KindFetchComplete, Dur: 1500 * time.Millisecond})
	l.Close()

	got := decodeLines(t, &buf)[0]
	if got["dur_ms"] != float64(1500) {
		t.Errorf("dur_ms=%v, want 1500", got["dur_ms"])
	}
}

func TestEmptyFieldsOmitted(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf)
	l.Emit(Event{Kind: KindStartup})
	l.Close()

	line := strings.TrimSpace(buf.String())
	for _, field := range []string{"dur_ms", "count", "rid", "feed", "category", "page", "err", "msg", "extra", "level"} {
		if strings.Contains(line, `"`+field+`"`) {
			t.Errorf("field %q should be omitted: %s", field, line)
		}
	}
}

func TestConcurrentEmit(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(page int) {
			defer wg.Done()
			l.Emit(Event{Kind: KindFetchStart, Page: page})
		}(i + 1)
	}
	wg.Wait()
	l.Close()

	if got := len(decodeLines(t, &buf)); got != 100 {
		t.Errorf("got %d lines, want 100", got)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf)
	l.Emit(Event{Kind: KindStartup})
	l.Close()
	l.Close()

	l.Emit(Event{Kind: KindShutdown})
	if got := len(decodeLines(t, &buf)); got != 1 {
		t.Errorf("got %d lines, want 1", got)
	}
	if l.Dropped() != 1 {
		t.Errorf("emit after close: Dropped()=%d, want 1", l.Dropped())
	}
}

type blockingWriter struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (w *blockingWriter) Write(p []byte) (int, error) {
	w.once.Do(func() {
		close(w.started)
		<-w.release
	})
	return len(p), nil
}

func TestDropsWhenChannelFull(t *testing.T) {
	bw := &blockingWriter{started: make(chan struct{}), release: make(chan struct{})}
	l := NewLogger(bw, WithBuffer(4), WithDropReport(nil))

	l.Emit(Event{Kind: KindFetchStart})
	<-bw.started

	for i := 0; i < 4+10; i++ {
		l.Emit(Event{Kind: KindFetchStart})
	}
	if got := l.Dropped(); got != 10 {
		t.Errorf("Dropped()=%d, want 10", got)
	}

	close(bw.release)
	l.Close()
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteErrorCountsAsDrop(t *testing.T) {
	l := NewLogger(failingWriter{}, WithDropReport(nil))
	l.Emit(Event{Kind: KindStartup})
	l.Emit(Event{Kind: KindShutdown})
	l.Close()

	if l.Dropped() != 2 {
		t.Errorf("Dropped()=%d, want 2", l.Dropped())
	}
}

func TestLevelHelpers(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf)

	l.Debug(KindFetchSkip, "ui", "exhausted")
	l.Info(KindStartup, "main", "starting")
	l.Warn(KindFetchSkip, "ui", "loading")
	l.Error(KindFetchError, "fetch", errors.New("status 502"))
	l.Error(KindError, "main", nil)
	l.Close()

	lines := decodeLines(t, &buf)
	tests := []struct {
		level, kind, comp string
	}{
		{"debug", "fetch.skip", "ui"},
		{"info", "sys.startup", "main"},
		{"warn", "fetch.skip", "ui"},
		{"error", "fetch.error", "fetch"},
		{"error", "sys.error", "main"},
	}
	if len(lines) != len(tests) {
		t.Fatalf("got %d lines, want %d", len(lines), len(tests))
	}
	for i, tt := range tests {
		if lines[i]["level"] != tt.level || lines[i]["kind"] != tt.kind || lines[i]["comp"] != tt.comp {
			t.Errorf("line %d = %v, want level=%s kind=%s comp=%s", i, lines[i], tt.level, tt.kind, tt.comp)
		}
	}
	if lines[3]["err"] != "status 502" {
		t.Errorf("err=%v, want status 502", lines[3]["err"])
	}
	if _, ok := lines[4]["err"]; ok {
		t.Errorf("nil error should omit err: %v", lines[4])
	}
}

func TestWithRunID(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, WithRunID("test-run"))
	l.Emit(Event{Kind: KindStartup})
	l.Close()

	if l.RunID() != "test-run" {
		t.Errorf("RunID()=%q, want test-run", l.RunID())
	}
	if got := decodeLines(t, &buf)[0]["run_id"]; got != "test-run" {
		t.Errorf("run_id=%v, want test-run", got)
	}
}

func TestDropReport(t *testing.T) {
	var report bytes.Buffer
	l := NewLogger(failingWriter{}, WithRunID("r1"), WithDropReport(&report))
	l.Emit(Event{Kind: KindStartup})
	l.Close()

	if got, want := report.String(), "sportus: 1 events dropped during run r1\n"; got != want {
		t.Errorf("report=%q, want %q", got, want)
	}
}

func TestNoDropReportWhenClean(t *testing.T) {
	var buf, report bytes.Buffer
	l := NewLogger(&buf, WithDropReport(&report))
	l.Emit(Event{Kind: KindStartup})
	l.Close()

	if report.Len() != 0 {
		t.Errorf("unexpected report %q", report.String())
	}
}

func TestEmitDuringCloseNeverPanics(t *testing.T) {
	l := NewLogger(io.Discard, WithDropReport(nil))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				l.Emit(Event{Kind: KindFetchStart})
			}
		}()
	}
	l.Close()
	wg.Wait()
}
