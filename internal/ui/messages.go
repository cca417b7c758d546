// Package ui provides the Bubble Tea TUI for the recommendation feed.
package ui

import (
	"time"

	"github.com/jisooooooooooo/sportus/internal/feed"
)

// LocationAcquired is sent when the one-shot location step succeeds.
type LocationAcquired struct {
	Coordinate feed.Coordinate
}

// LocationFailed is sent when no coordinate could be obtained.
type LocationFailed struct {
	Err error
}

// PageFetched is sent when a page fetch finishes. Request is the request as
// issued; its session token decides whether the page still applies.
type PageFetched struct {
	Request   feed.Request
	Page      feed.Page
	RequestID string // X-Request-ID, for correlating events
	Dur       time.Duration
	Err       error
}

// Navigated is sent when the router has handled a selection.
type Navigated struct {
	PlaceID int64
	Route   string
	Err     error
}
