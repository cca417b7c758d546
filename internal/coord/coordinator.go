// Package coord runs the feed's side effects off the Bubble Tea update loop.
//
// Each operation returns a tea.Cmd. The command performs the I/O in the
// goroutine Bubble Tea gives it and reports the outcome as a ui message; the
// coordinator never touches feed state.
package coord

import (
	"context"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jisooooooooooo/sportus/internal/feed"
	"github.com/jisooooooooooo/sportus/internal/fetch"
	"github.com/jisooooooooooo/sportus/internal/location"
	"github.com/jisooooooooooo/sportus/internal/nav"
	"github.com/jisooooooooooo/sportus/internal/otel"
	"github.com/jisooooooooooo/sportus/internal/ui"
)

// defaultFetchTimeout bounds one page fetch. The backend can take minutes to
// rank results.
const defaultFetchTimeout = 3 * time.Minute

// defaultLocateTimeout bounds the location step.
const defaultLocateTimeout = 15 * time.Second

// navigateTimeout bounds a router call.
const navigateTimeout = 5 * time.Second

// fetcher interface for dependency injection (testing).
type fetcher interface {
	Fetch(ctx context.Context, req feed.Request) (feed.Page, error)
}

// Options tunes a Coordinator. Zero values fall back to defaults.
type Options struct {
	FetchTimeout  time.Duration
	LocateTimeout time.Duration
}

// Coordinator builds the commands the App asks for.
// Canceling the context passed to New is the only stop mechanism.
type Coordinator struct {
	ctx      context.Context
	locator  location.Provider
	fetcher  fetcher
	router   nav.Router
	logger   *otel.Logger
	fetchTO  time.Duration
	locateTO time.Duration

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// New creates a Coordinator. ctx scopes every command it builds. router may
// be nil, in which case selections only produce the detail route.
func New(ctx context.Context, locator location.Provider, f fetcher, router nav.Router, logger *otel.Logger, opts Options) *Coordinator {
	if logger == nil {
		logger = otel.NewNullLogger()
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = defaultFetchTimeout
	}
	if opts.LocateTimeout <= 0 {
		opts.LocateTimeout = defaultLocateTimeout
	}
	return &Coordinator{
		ctx:      ctx,
		locator:  locator,
		fetcher:  f,
		router:   router,
		logger:   logger,
		fetchTO:  opts.FetchTimeout,
		locateTO: opts.LocateTimeout,
	}
}

// Wait blocks until every command that has started has returned. Commands
// that start after Wait has been called return nil without doing any work.
// Call after canceling the context passed to New.
func (c *Coordinator) Wait() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.wg.Wait()
}

// begin registers a running command. It reports false once Wait has been
// called.
func (c *Coordinator) begin() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	c.wg.Add(1)
	return true
}

// Locate returns the one-shot location command.
func (c *Coordinator) Locate() tea.Cmd {
	return func() tea.Msg {
		if !c.begin() {
			return nil
		}
		defer c.wg.Done()

		ctx, cancel := context.WithTimeout(c.ctx, c.locateTO)
		defer cancel()

		c.logger.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindLocationStart, Comp: "coord"})
		start := time.Now()
		coord, err := c.locator.Acquire(ctx)
		dur := time.Since(start)
		if err != nil {
			c.logger.Emit(otel.Event{
				Level: otel.LevelError,
				Kind:  otel.KindLocationError,
				Comp:  "coord",
				Dur:   dur,
				Err:   err.Error(),
			})
			return ui.LocationFailed{Err: err}
		}
		c.logger.Emit(otel.Event{
			Level: otel.LevelInfo,
			Kind:  otel.KindLocationAcquired,
			Comp:  "coord",
			Dur:   dur,
			Msg:   coord.String(),
		})
		return ui.LocationAcquired{Coordinate: coord}
	}
}

// Fetch returns the command that performs req. The reply carries req
// unchanged so the controller can match it against the current session.
func (c *Coordinator) Fetch(req feed.Request) tea.Cmd {
	return func() tea.Msg {
		if !c.begin() {
			return nil
		}
		defer c.wg.Done()

		rid := fetch.NewRequestID()
		ctx, cancel := context.WithTimeout(fetch.WithRequestID(c.ctx, rid), c.fetchTO)
		defer cancel()

		base := otel.Event{
			Comp:      "coord",
			RequestID: rid,
			Feed:      req.Session,
			Category:  req.Category.String(),
			Page:      req.Page,
		}
		ev := base
		ev.Level = otel.LevelInfo
		ev.Kind = otel.KindFetchStart
		ev.Msg = req.Coordinate.String()
		c.logger.Emit(ev)

		start := time.Now()
		page, err := c.fetcher.Fetch(ctx, req)
		dur := time.Since(start)

		ev = base
		ev.Dur = dur
		if err != nil {
			ev.Level = otel.LevelError
			ev.Kind = otel.KindFetchError
			ev.Err = err.Error()
			c.logger.Emit(ev)
			return ui.PageFetched{Request: req, RequestID: rid, Dur: dur, Err: err}
		}
		ev.Level = otel.LevelInfo
		ev.Kind = otel.KindFetchComplete
		ev.Count = len(page.Items)
		ev.Extra = map[string]any{"has_next": page.HasMore}
		c.logger.Emit(ev)
		return ui.PageFetched{Request: req, Page: page, RequestID: rid, Dur: dur}
	}
}

// Navigate returns the command that hands in to the router.
func (c *Coordinator) Navigate(in nav.Intent) tea.Cmd {
	return func() tea.Msg {
		if !c.begin() {
			return nil
		}
		defer c.wg.Done()

		id := in.Item.PlaceID
		if c.router == nil {
			return ui.Navigated{PlaceID: id, Route: nav.DetailRoute(id)}
		}

		ctx, cancel := context.WithTimeout(c.ctx, navigateTimeout)
		defer cancel()

		route, err := c.router.Navigate(ctx, in)
		if err != nil {
			return ui.Navigated{PlaceID: id, Err: fmt.Errorf("coord: %w", err)}
		}
		return ui.Navigated{PlaceID: id, Route: route}
	}
}
