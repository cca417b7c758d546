package feed

import "fmt"

// Status is the controller's position in the paging state machine.
type Status int

const (
	StatusLocating  Status = iota // no coordinate yet
	StatusReady                   // coordinate known, nothing in flight, more pages available
	StatusLoading                 // one fetch outstanding
	StatusExhausted               // backend reported no further pages for this session
	StatusBlocked                 // location unavailable; the feed never starts
)

func (s Status) String() string {
	switch s {
	case StatusLocating:
		return "locating"
	case StatusReady:
		return "ready"
	case StatusLoading:
		return "loading"
	case StatusExhausted:
		return "exhausted"
	case StatusBlocked:
		return "blocked"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Skip explains why RequestNextPage did not issue a fetch.
type Skip int

const (
	SkipNone         Skip = iota // a request was issued
	SkipLoading                  // a fetch is already in flight
	SkipExhausted                // hasMore is false for this session
	SkipNoCoordinate             // location not acquired
)

func (s Skip) String() string {
	switch s {
	case SkipNone:
		return "none"
	case SkipLoading:
		return "loading"
	case SkipExhausted:
		return "exhausted"
	case SkipNoCoordinate:
		return "no coordinate"
	default:
		return fmt.Sprintf("skip(%d)", int(s))
	}
}

// Request describes one fetch the caller must perform. Session is the
// controller session token captured at issue time; a completion carrying an
// older token is discarded.
type Request struct {
	ID         uint64
	Session    uint64
	Page       int // 1-based page number within the session
	Category   Category
	Coordinate Coordinate
}

// Result reports what a completion did to the feed.
type Result struct {
	Stale   bool     // completion belonged to an earlier session and was dropped
	Next    *Request // first page owed to the current session, freed by this completion
	Dropped int      // items trimmed from the head by the MaxItems window
}

// State is a read-only snapshot of the feed. Items is a copy.
type State struct {
	Category   Category
	Items      []Item
	HasMore    bool
	IsLoading  bool
	Coordinate *Coordinate
	Status     Status
	Session    uint64
	Pages      int
	Dropped    int
	Err        error
}

// Option configures a Controller.
type Option func(*Controller)

// WithMaxItems bounds the retained items to the most recent n. Zero keeps
// everything.
func WithMaxItems(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.maxItems = n
		}
	}
}

// Controller is the feed state machine. Not safe for concurrent use.
type Controller struct {
	category Category
	items    []Item
	hasMore  bool
	coord    *Coordinate
	session  uint64
	nextID   uint64
	inflight *Request
	pending  bool // a reset happened while a fetch was in flight; page 1 is owed
	blocked  bool
	lastErr  error
	pages    int
	dropped  int
	maxItems int
}

// New creates a Controller for the given category in the Locating state.
func New(category Category, opts ...Option) *Controller {
	c := &Controller{
		category: category,
		hasMore:  true,
		session:  1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Category returns the active category.
func (c *Controller) Category() Category {
	return c.category
}

// Coordinate returns the acquired coordinate, or nil.
func (c *Controller) Coordinate() *Coordinate {
	if c.coord == nil {
		return nil
	}
	cp := *c.coord
	return &cp
}

// Session returns the current session token.
func (c *Controller) Session() uint64 {
	return c.session
}

// Len returns the number of retained items.
func (c *Controller) Len() int {
	return len(c.items)
}

// InFlight reports whether a fetch is outstanding, whether or not it belongs
// to the current session.
func (c *Controller) InFlight() bool {
	return c.inflight != nil
}

// Status derives the current state machine position.
func (c *Controller) Status() Status {
	switch {
	case c.blocked:
		return StatusBlocked
	case c.inflight != nil:
		return StatusLoading
	case c.coord == nil:
		return StatusLocating
	case !c.hasMore:
		return StatusExhausted
	default:
		return StatusReady
	}
}

// IsLoading is true while locating and while a fetch is outstanding.
func (c *Controller) IsLoading() bool {
	s := c.Status()
	return s == StatusLocating || s == StatusLoading
}

// State returns a snapshot safe to hand to the presentation layer.
func (c *Controller) State() State {
	items := make([]Item, len(c.items))
	copy(items, c.items)
	return State{
		Category:   c.category,
		Items:      items,
		HasMore:    c.hasMore,
		IsLoading:  c.IsLoading(),
		Coordinate: c.Coordinate(),
		Status:     c.Status(),
		Session:    c.session,
		Pages:      c.pages,
		Dropped:    c.dropped,
		Err:        c.lastErr,
	}
}

// SetCoordinate records the coordinate and, when nothing is in flight,
// issues the first page. A coordinate is immutable once acquired; later calls
// are ignored.
func (c *Controller) SetCoordinate(coord Coordinate) (Request, bool) {
	if c.coord != nil {
		return Request{}, false
	}
	c.coord = &coord
	c.blocked = false
	c.lastErr = nil
	req, skip := c.RequestNextPage()
	return req, skip == SkipNone
}

// Block moves the feed to the Blocked state after the location step failed.
// It has no effect once a coordinate is known.
func (c *Controller) Block(err error) {
	if c.coord != nil {
		return
	}
	c.blocked = true
	c.lastErr = err
}

// Unblock returns a Blocked feed to Locating so a user-initiated location
// retry can run.
func (c *Controller) Unblock() bool {
	if !c.blocked {
		return false
	}
	c.blocked = false
	c.lastErr = nil
	return true
}

// RequestNextPage issues the next page fetch unless a guard holds. Guards are
// checked in order: in-flight fetch, exhausted session, missing coordinate.
func (c *Controller) RequestNextPage() (Request, Skip) {
	if c.inflight != nil {
		return Request{}, SkipLoading
	}
	if !c.hasMore {
		return Request{}, SkipExhausted
	}
	if c.coord == nil {
		return Request{}, SkipNoCoordinate
	}

	c.nextID++
	req := Request{
		ID:         c.nextID,
		Session:    c.session,
		Page:       c.pages + 1,
		Category:   c.category,
		Coordinate: *c.coord,
	}
	c.inflight = &req
	return req, SkipNone
}

// OnFetchSucceeded applies a page to the feed. Items are appended in the
// order received without dedup. Completions from an earlier session are
// dropped.
func (c *Controller) OnFetchSucceeded(req Request, page Page) Result {
	current, res := c.settle(req)
	if !current {
		return res
	}

	c.items = append(c.items, page.Items...)
	c.hasMore = page.HasMore
	c.pages++
	c.lastErr = nil

	if c.maxItems > 0 && len(c.items) > c.maxItems {
		n := len(c.items) - c.maxItems
		kept := make([]Item, c.maxItems)
		copy(kept, c.items[n:])
		c.items = kept
		c.dropped += n
		res.Dropped = n
	}
	return res
}

// OnFetchFailed clears the loading state and records err. Items and hasMore
// are left untouched and nothing is retried.
func (c *Controller) OnFetchFailed(req Request, err error) Result {
	current, res := c.settle(req)
	if current {
		c.lastErr = err
	}
	return res
}

// ResetForCategory starts a new session for category: items are cleared and
// hasMore is reset. An outstanding fetch keeps the loading slot until it
// completes; its result will be discarded.
func (c *Controller) ResetForCategory(category Category) {
	c.category = category
	c.items = nil
	c.hasMore = true
	c.session++
	c.pages = 0
	c.dropped = 0
	c.lastErr = nil
	if c.inflight != nil {
		c.pending = true
	}
}

// settle releases the in-flight slot held by req and reports whether req
// belongs to the current session. For stale completions it also issues the
// first page owed to the current session, if any.
func (c *Controller) settle(req Request) (bool, Result) {
	matched := c.inflight != nil && c.inflight.ID == req.ID
	if matched {
		c.inflight = nil
	}
	if matched && req.Session == c.session {
		return true, Result{}
	}

	res := Result{Stale: true}
	if c.inflight == nil && c.pending {
		c.pending = false
		if next, skip := c.RequestNextPage(); skip == SkipNone {
			res.Next = &next
		}
	}
	return false, res
}
