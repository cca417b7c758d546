// Package location acquires the device coordinate once per session.
package location

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/jisooooooooooo/sportus/internal/config"
	"github.com/jisooooooooooo/sportus/internal/feed"
)

// ErrUnavailable means no coordinate can be obtained. The feed stays blocked
// until the user retries.
var ErrUnavailable = errors.New("location unavailable")

// Provider acquires a coordinate. Acquire is one-shot; callers never retry
// on their own.
type Provider interface {
	Acquire(ctx context.Context) (feed.Coordinate, error)
}

// Static returns a fixed coordinate.
type Static struct {
	Coordinate feed.Coordinate
}

// Acquire returns the fixed coordinate, or ErrUnavailable when it is out of
// range.
func (s Static) Acquire(ctx context.Context) (feed.Coordinate, error) {
	if err := ctx.Err(); err != nil {
		return feed.Coordinate{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if !s.Coordinate.Valid() {
		return feed.Coordinate{}, fmt.Errorf("%w: coordinate %s out of range", ErrUnavailable, s.Coordinate)
	}
	return s.Coordinate, nil
}

// Unavailable always fails. Used when no source is configured.
type Unavailable struct {
	Reason string
}

func (u Unavailable) Acquire(context.Context) (feed.Coordinate, error) {
	reason := u.Reason
	if reason == "" {
		reason = "no location source configured"
	}
	return feed.Coordinate{}, fmt.Errorf("%w: %s", ErrUnavailable, reason)
}

// maxLookupBody bounds the geolocation response read.
const maxLookupBody = 64 << 10

// IPLookup resolves the coordinate from the public IP with one GET to an
// ip-api compatible endpoint.
type IPLookup struct {
	url    string
	client *http.Client
}

// NewIPLookup creates an IPLookup against url. timeout bounds the whole
// request.
func NewIPLookup(url string, timeout time.Duration) *IPLookup {
	return &IPLookup{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

type lookupResponse struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
}

// Acquire performs the lookup. Every failure maps to ErrUnavailable.
func (l *IPLookup) Acquire(ctx context.Context) (feed.Coordinate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return feed.Coordinate{}, fmt.Errorf("%w: build request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return feed.Coordinate{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return feed.Coordinate{}, fmt.Errorf("%w: lookup returned status %d", ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxLookupBody))
	if err != nil {
		return feed.Coordinate{}, fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}

	var lr lookupResponse
	if err := json.Unmarshal(body, &lr); err != nil {
		return feed.Coordinate{}, fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
	}
	if lr.Status != "success" {
		msg := lr.Message
		if msg == "" {
			msg = "status " + lr.Status
		}
		return feed.Coordinate{}, fmt.Errorf("%w: lookup failed: %s", ErrUnavailable, msg)
	}
	if lr.Lat == nil || lr.Lon == nil {
		return feed.Coordinate{}, fmt.Errorf("%w: lookup response missing coordinate", ErrUnavailable)
	}

	c := feed.Coordinate{Latitude: *lr.Lat, Longitude: *lr.Lon}
	if !c.Valid() {
		return feed.Coordinate{}, fmt.Errorf("%w: coordinate %s out of range", ErrUnavailable, c)
	}
	return c, nil
}

// FromConfig picks the provider: a fixed coordinate first, then the IP
// lookup, otherwise Unavailable.
func FromConfig(cfg config.LocationConfig) Provider {
	switch {
	case cfg.HasFixedCoordinate():
		return Static{Coordinate: feed.Coordinate{Latitude: *cfg.Latitude, Longitude: *cfg.Longitude}}
	case cfg.LookupEnabled && cfg.LookupURL != "":
		return NewIPLookup(cfg.LookupURL, cfg.Timeout)
	default:
		return Unavailable{}
	}
}
