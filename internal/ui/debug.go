package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/jisooooooooooo/sportus/internal/feed"
	"github.com/jisooooooooooo/sportus/internal/otel"
)

// debugPanelChrome is the number of terminal lines consumed by DebugPanel's
// border (top + bottom = 2) and vertical padding (top + bottom = 2).
// Must be updated if DebugPanel style changes.
const debugPanelChrome = 4

// debugOverlay renders feed state, event counts and recent events.
// Returns empty string if ring is nil.
func debugOverlay(ring *otel.RingBuffer, st feed.State, width, height int) string {
	if ring == nil {
		return ""
	}

	stats := ring.Stats()
	recent := ring.Last(20)

	coord := "-"
	if st.Coordinate != nil {
		coord = st.Coordinate.String()
	}

	var lines []string
	lines = append(lines, DebugHeaderStyle.Render("Feed"))
	lines = append(lines, fmt.Sprintf("  Category:   %s  session %d  %s", st.Category, st.Session, st.Status))
	lines = append(lines, fmt.Sprintf("  Items:      %d in %d pages, %d trimmed, hasMore=%t", len(st.Items), st.Pages, st.Dropped, st.HasMore))
	lines = append(lines, fmt.Sprintf("  Location:   %s", coord))
	lines = append(lines, fmt.Sprintf("  Fetches:    %d started, %d complete, %d errors, %d stale",
		stats[otel.KindFetchStart], stats[otel.KindFetchComplete], stats[otel.KindFetchError], stats[otel.KindFetchStale]))
	lines = append(lines, fmt.Sprintf("  Signals:    %d near end, %d skipped", stats[otel.KindNearEnd], stats[otel.KindFetchSkip]))
	lines = append(lines, fmt.Sprintf("  Buffer:     %d / %d events (%d total)", ring.Len(), ring.Cap(), ring.Written()))
	lines = append(lines, "")

	lines = append(lines, DebugHeaderStyle.Render("Recent Events"))
	for _, e := range recent {
		line := fmt.Sprintf("  %6s  %-18s", formatAge(time.Since(e.Time)), string(e.Kind))
		if e.Page > 0 {
			line += fmt.Sprintf("  p%d", e.Page)
		}
		if e.Msg != "" {
			line += "  " + truncate(e.Msg, 36)
		}
		if e.Err != "" {
			line += "  ERR:" + truncate(e.Err, 30)
		}
		if e.RequestID != "" {
			rid := e.RequestID
			if len(rid) > 8 {
				rid = rid[:8]
			}
			line += "  rid:" + rid
		}
		lines = append(lines, line)
	}

	maxHeight := height - debugPanelChrome
	if maxHeight < 1 {
		maxHeight = 1
	}
	if len(lines) > maxHeight {
		lines = lines[:maxHeight]
	}

	panelWidth := 84
	if panelWidth > width-4 {
		panelWidth = width - 4
	}
	if panelWidth < 20 {
		panelWidth = 20
	}

	return DebugPanel.Width(panelWidth).Render(strings.Join(lines, "\n"))
}

// formatAge formats a duration as a compact human string.
// Negative durations from clock skew clamp to "0ms".
func formatAge(d time.Duration) string {
	if d < 0 {
		return "0ms"
	}
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
}
