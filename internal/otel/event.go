// Package otel provides structured observability for sportus.
//
// Events are typed structs serialized as JSONL lines. The Logger writes
// events asynchronously through a buffered channel and a drain goroutine.
// An optional RingBuffer keeps recent events in memory for the debug overlay.
package otel

import (
	"time"

	"github.com/goccy/go-json"
)

// Level defines event severity for filtering.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// EventKind identifies the category of an event.
// Dot-delimited: "<subsystem>.<action>".
type EventKind string

const (
	// Location events
	KindLocationStart    EventKind = "location.start"
	KindLocationAcquired EventKind = "location.acquired"
	KindLocationError    EventKind = "location.error"

	// Fetch events
	KindFetchStart    EventKind = "fetch.start"
	KindFetchComplete EventKind = "fetch.complete"
	KindFetchError    EventKind = "fetch.error"
	KindFetchStale    EventKind = "fetch.stale"
	KindFetchSkip     EventKind = "fetch.skip"

	// Feed events
	KindFeedExhausted  EventKind = "feed.exhausted"
	KindFeedTrimmed    EventKind = "feed.trimmed"
	KindCategorySwitch EventKind = "category.switch"
	KindNearEnd        EventKind = "feed.near_end"

	// Navigation events
	KindNavSelect EventKind = "nav.select"

	// Store events
	KindStoreError EventKind = "store.error"

	// UI events, emitted only when SPORTUS_TRACE is set
	KindKeyPress EventKind = "ui.key"

	// System events
	KindStartup  EventKind = "sys.startup"
	KindShutdown EventKind = "sys.shutdown"
	KindError    EventKind = "sys.error"

	// Trace events, emitted only when SPORTUS_TRACE is set
	KindMsgReceived EventKind = "trace.msg_received"
)

// Event is the universal observability record. Every field except Kind and
// Time is optional.
type Event struct {
	Time      time.Time      `json:"t"`
	Level     Level          `json:"level,omitempty"`
	Kind      EventKind      `json:"kind"`
	Comp      string         `json:"comp,omitempty"`     // "ui", "coord", "fetch", "location", "main"
	RunID     string         `json:"run_id,omitempty"`   // random hex, same for the whole process
	RequestID string         `json:"rid,omitempty"`      // X-Request-ID of a fetch
	Feed      uint64         `json:"feed,omitempty"`     // feed session token
	Category  string         `json:"category,omitempty"` // "courses" or "facilities"
	Page      int            `json:"page,omitempty"`
	Count     int            `json:"count,omitempty"`
	Dur       time.Duration  `json:"-"`
	DurMs     float64        `json:"dur_ms,omitempty"` // computed from Dur at marshal time
	Err       string         `json:"err,omitempty"`
	Msg       string         `json:"msg,omitempty"`
	Extra     map[string]any `json:"extra,omitempty"`
}

// MarshalJSON converts Dur to DurMs.
func (e Event) MarshalJSON() ([]byte, error) {
	type alias Event
	a := alias(e)
	if e.Dur > 0 {
		a.DurMs = float64(e.Dur) / float64(time.Millisecond)
	}
	return json.Marshal(a)
}
