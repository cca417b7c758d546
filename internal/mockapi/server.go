// Package mockapi is a stand-in recommendation backend for local development
// and end-to-end tests.
//
// It serves both recommendation endpoints with deterministic places around
// the query coordinate. Like the real backend it keeps the page cursor on
// the server, keyed by (category, coordinate, token): every call returns the
// next page, the last page reports hasNext=false and the cursor then rewinds.
package mockapi

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/jisooooooooooo/sportus/internal/feed"
	"github.com/jisooooooooooo/sportus/internal/fetch"
)

// Options configures a Server. Zero values fall back to defaults.
type Options struct {
	PageSize int           // places per page, default 10
	Pages    int           // pages per session before hasNext=false, default 3
	Token    string        // required bearer token; empty accepts any token
	Delay    time.Duration // artificial latency per request
	Logger   zerolog.Logger
}

type cursorKey struct {
	category feed.Category
	lat, lon float64
	token    string
}

// Server is the mock backend. Safe for concurrent use.
type Server struct {
	opts Options

	mu      sync.Mutex
	cursors map[cursorKey]int
}

// New creates a Server.
func New(opts Options) *Server {
	if opts.PageSize <= 0 {
		opts.PageSize = 10
	}
	if opts.Pages <= 0 {
		opts.Pages = 3
	}
	return &Server{opts: opts, cursors: make(map[cursorKey]int)}
}

// Handler returns the chi router serving both endpoints.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(s.requestLog)

	r.Get(fetch.CoursesPath, s.recommend(feed.Courses))
	r.Get(fetch.FacilitiesPath, s.recommend(feed.Facilities))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return r
}

// Reset rewinds every cursor.
func (s *Server) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.cursors)
}

// requestLog echoes X-Request-ID and logs one line per request.
func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get(fetch.RequestIDHeader)
		if rid != "" {
			w.Header().Set(fetch.RequestIDHeader, rid)
		}
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.opts.Logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("rid", rid).
			Int("status", ww.Status()).
			Dur("dur", time.Since(start)).
			Msg("request")
	})
}

type envelope struct {
	IsSuccess bool     `json:"isSuccess"`
	Message   string   `json:"message"`
	Results   *results `json:"results,omitempty"`
}

type results struct {
	PlaceList []place `json:"placeList"`
	HasNext   bool    `json:"hasNext"`
}

type place struct {
	PlaceID     int64   `json:"placeId"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"reviewCount"`
	Distance    float64 `json:"distance"`
	Address     string  `json:"address"`
}

func (s *Server) recommend(category feed.Category) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearer(r)
		if !ok || (s.opts.Token != "" && token != s.opts.Token) {
			writeJSON(w, http.StatusUnauthorized, envelope{Message: "유효하지 않은 토큰입니다."})
			return
		}
		lat, errLat := strconv.ParseFloat(r.URL.Query().Get("latitude"), 64)
		lon, errLon := strconv.ParseFloat(r.URL.Query().Get("longitude"), 64)
		coord := feed.Coordinate{Latitude: lat, Longitude: lon}
		if errLat != nil || errLon != nil || !coord.Valid() {
			writeJSON(w, http.StatusBadRequest, envelope{Message: "위치 정보가 올바르지 않습니다."})
			return
		}

		if s.opts.Delay > 0 {
			select {
			case <-time.After(s.opts.Delay):
			case <-r.Context().Done():
				return
			}
		}

		page, hasNext := s.advance(cursorKey{category: category, lat: lat, lon: lon, token: token})
		s.opts.Logger.Debug().
			Str("category", category.String()).
			Str("coord", coord.String()).
			Int("page", page+1).
			Bool("has_next", hasNext).
			Msg("page served")

		writeJSON(w, http.StatusOK, envelope{
			IsSuccess: true,
			Message:   "요청에 성공하였습니다.",
			Results: &results{
				PlaceList: s.places(category, coord, page),
				HasNext:   hasNext,
			},
		})
	}
}

// advance returns the page to serve for key and moves its cursor, rewinding
// after the last page.
func (s *Server) advance(key cursorKey) (page int, hasNext bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	page = s.cursors[key]
	hasNext = page < s.opts.Pages-1
	if hasNext {
		s.cursors[key] = page + 1
	} else {
		delete(s.cursors, key)
	}
	return page, hasNext
}

var (
	coursePrefixes   = []string{"새벽", "주말", "저녁", "키즈", "시니어"}
	facilitySuffixes = []string{"체육센터", "스포츠클럽", "생활체육관", "문화센터"}
)

// places builds page n for category. The same inputs always produce the same
// places; ids are unique per category.
func (s *Server) places(category feed.Category, coord feed.Coordinate, n int) []place {
	cats := feed.PlaceCategories()
	out := make([]place, s.opts.PageSize)
	for i := range out {
		idx := n*s.opts.PageSize + i
		id := int64(idx + 1)
		if category == feed.Facilities {
			id += 100000
		}
		pc := cats[(idx*7+int(math.Abs(coord.Latitude*100)))%len(cats)]

		var name string
		if category == feed.Facilities {
			name = fmt.Sprintf("%s %s %d", pc.Label(), facilitySuffixes[idx%len(facilitySuffixes)], idx+1)
		} else {
			name = fmt.Sprintf("%s %s 강좌 %d", coursePrefixes[idx%len(coursePrefixes)], pc.Label(), idx+1)
		}

		out[i] = place{
			PlaceID:     id,
			Name:        name,
			Category:    string(pc),
			Rating:      math.Round((3+float64(idx%21)/10)*10) / 10,
			ReviewCount: (idx*37 + 11) % 500,
			Distance:    float64(150 * (idx + 1)),
			Address:     fmt.Sprintf("서울특별시 (%.4f, %.4f) 인근", coord.Latitude, coord.Longitude),
		}
	}
	return out
}

func bearer(r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(auth, "Bearer ")
	token = strings.TrimSpace(token)
	return token, ok && token != ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
