// Package proximity detects when the user has scrolled near the end of a list.
package proximity

// Viewport is the visible window over a list of Total rows. The sentinel sits
// just past the last row, at index Total.
type Viewport struct {
	Offset int // first visible row
	Height int // number of visible rows
	Total  int // rows in the list
}

// Detector turns viewport observations into near-end signals.
type Detector interface {
	// Observe reports whether this observation should raise a near-end signal.
	Observe(v Viewport) bool
	// Reset re-arms the detector.
	Reset()
}

// Near reports whether the sentinel is visible or within margin rows of the
// bottom edge of the viewport.
func Near(v Viewport, margin int) bool {
	if v.Height <= 0 || v.Total < v.Offset {
		return false
	}
	if margin < 0 {
		margin = 0
	}
	return v.Total < v.Offset+v.Height+margin
}

// EdgeTrigger signals once per entry into the proximity zone. It stays quiet
// while the sentinel remains inside and re-arms when the sentinel leaves the
// zone or moves (the list grew or was cleared).
type EdgeTrigger struct {
	margin   int
	inside   bool
	sentinel int
}

// NewEdgeTrigger creates a trigger with the given margin in rows.
func NewEdgeTrigger(margin int) *EdgeTrigger {
	return &EdgeTrigger{margin: margin, sentinel: -1}
}

// Margin returns the configured proximity margin.
func (t *EdgeTrigger) Margin() int {
	return t.margin
}

// Observe implements Detector.
func (t *EdgeTrigger) Observe(v Viewport) bool {
	if v.Total != t.sentinel {
		t.sentinel = v.Total
		t.inside = false
	}
	near := Near(v, t.margin)
	fire := near && !t.inside
	t.inside = near
	return fire
}

// Reset implements Detector.
func (t *EdgeTrigger) Reset() {
	t.inside = false
	t.sentinel = -1
}
