// Package fetch calls the recommendation backend for one feed page.
//
// The backend keeps the page cursor server-side per (category, coordinate,
// token); a Request's Page number is never sent, only used for logging.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/jisooooooooooo/sportus/internal/feed"
)

var (
	// ErrFetchFailed covers transport errors, non-200 statuses, a missing
	// token and isSuccess=false.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrMalformedResponse is an undecodable body or one missing required
	// fields. It wraps ErrFetchFailed.
	ErrMalformedResponse = fmt.Errorf("%w: malformed response", ErrFetchFailed)
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// maxBodyBytes bounds the response read.
const maxBodyBytes = 4 << 20

// Endpoint paths per category.
const (
	CoursesPath    = "/recommend/search/lectures"
	FacilitiesPath = "/recommend/search/facilities"
)

// TokenSource supplies the bearer token. Read-only from the fetch path.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// Options tunes a Client. Zero values fall back to defaults.
type Options struct {
	Timeout       time.Duration // per request, default 3m
	RatePerSecond float64       // default 1
	Burst         int           // default 2
	UserAgent     string
}

// Client fetches recommendation pages. Safe for concurrent use.
type Client struct {
	baseURL   string
	tokens    TokenSource
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
}

// NewClient creates a Client for the backend at baseURL.
func NewClient(baseURL string, tokens TokenSource, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 3 * time.Minute
	}
	if opts.RatePerSecond <= 0 {
		opts.RatePerSecond = 1
	}
	if opts.Burst <= 0 {
		opts.Burst = 2
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "sportus/0.1"
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		tokens:    tokens,
		client:    &http.Client{Timeout: opts.Timeout},
		limiter:   rate.NewLimiter(rate.Limit(opts.RatePerSecond), opts.Burst),
		userAgent: opts.UserAgent,
	}
}

type ctxKey struct{}

// WithRequestID attaches the correlation id Fetch sends as X-Request-ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// RequestID returns the id attached by WithRequestID, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// NewRequestID returns a fresh correlation id.
func NewRequestID() string {
	return uuid.NewString()
}

// EndpointPath returns the endpoint for category.
func EndpointPath(c feed.Category) string {
	if c == feed.Facilities {
		return FacilitiesPath
	}
	return CoursesPath
}

type envelope struct {
	IsSuccess *bool    `json:"isSuccess" validate:"required"`
	Message   string   `json:"message"`
	Results   *results `json:"results" validate:"required"`
}

type results struct {
	PlaceList []place `json:"placeList" validate:"required,dive"`
	HasNext   *bool   `json:"hasNext" validate:"required"`
}

type place struct {
	PlaceID     int64   `json:"placeId" validate:"required"`
	Name        string  `json:"name" validate:"required"`
	Category    string  `json:"category"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"reviewCount" validate:"min=0"`
	Distance    float64 `json:"distance" validate:"min=0"`
	Address     string  `json:"address"`
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Fetch performs one GET for req and decodes the page. Every error wraps
// ErrFetchFailed; nothing is retried.
func (c *Client) Fetch(ctx context.Context, req feed.Request) (feed.Page, error) {
	if ctx.Err() != nil {
		return feed.Page{}, fmt.Errorf("%w: %w", ErrFetchFailed, ctx.Err())
	}

	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return feed.Page{}, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return feed.Page{}, fmt.Errorf("%w: rate limit wait: %w", ErrFetchFailed, err)
	}

	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(req.Coordinate.Latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(req.Coordinate.Longitude, 'f', -1, 64))
	endpoint := c.baseURL + EndpointPath(req.Category) + "?" + q.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return feed.Page{}, fmt.Errorf("%w: build request: %w", ErrFetchFailed, err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	rid := RequestID(ctx)
	if rid == "" {
		rid = NewRequestID()
	}
	httpReq.Header.Set(RequestIDHeader, rid)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return feed.Page{}, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return feed.Page{}, fmt.Errorf("%w: read body: %w", ErrFetchFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		return feed.Page{}, fmt.Errorf("%w: HTTP %d%s", ErrFetchFailed, resp.StatusCode, backendMessage(body))
	}

	return decodePage(body)
}

// backendMessage extracts the envelope message from an error body, if any.
func backendMessage(body []byte) string {
	var env envelope
	if json.Unmarshal(body, &env) != nil || env.Message == "" {
		return ""
	}
	return ": " + env.Message
}

func decodePage(body []byte) (feed.Page, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return feed.Page{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if env.IsSuccess == nil {
		return feed.Page{}, fmt.Errorf("%w: missing isSuccess", ErrMalformedResponse)
	}
	if !*env.IsSuccess {
		msg := env.Message
		if msg == "" {
			msg = "isSuccess=false"
		}
		return feed.Page{}, fmt.Errorf("%w: %s", ErrFetchFailed, msg)
	}
	if err := getValidator().Struct(env); err != nil {
		return feed.Page{}, fmt.Errorf("%w: %s", ErrMalformedResponse, describe(err))
	}

	items := make([]feed.Item, 0, len(env.Results.PlaceList))
	for _, p := range env.Results.PlaceList {
		items = append(items, feed.Item{
			PlaceID:     p.PlaceID,
			Name:        p.Name,
			Category:    feed.PlaceCategory(p.Category),
			Rating:      p.Rating,
			ReviewCount: p.ReviewCount,
			Distance:    p.Distance,
			Address:     p.Address,
		})
	}
	return feed.Page{Items: items, HasMore: *env.Results.HasNext}, nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fe.Namespace()+" "+fe.Tag())
	}
	return strings.Join(parts, ", ")
}
