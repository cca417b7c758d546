// Package feed owns the recommendation feed state and the rules for paging it.
//
// Nothing in this package performs I/O. Operations return a Request describing
// the fetch the caller must run; the caller reports the outcome back with
// OnFetchSucceeded or OnFetchFailed. All methods must be called from a single
// goroutine (the Bubble Tea update loop in production).
package feed

import "fmt"

// Coordinate is a WGS84 position.
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// Valid reports whether the coordinate is within WGS84 bounds.
func (c Coordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.5f,%.5f", c.Latitude, c.Longitude)
}

// Category selects which recommendation endpoint backs the feed.
type Category int

const (
	Courses Category = iota
	Facilities
)

func (c Category) String() string {
	switch c {
	case Courses:
		return "courses"
	case Facilities:
		return "facilities"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// Label is the tab title shown to the user.
func (c Category) Label() string {
	if c == Facilities {
		return "시설 추천"
	}
	return "강좌 추천"
}

// ParseCategory maps a config value to a Category.
func ParseCategory(s string) (Category, error) {
	switch s {
	case "courses", "lectures":
		return Courses, nil
	case "facilities":
		return Facilities, nil
	default:
		return Courses, fmt.Errorf("unknown category %q", s)
	}
}

// Item is one recommended place. Identified by PlaceID within a feed.
type Item struct {
	PlaceID     int64
	Name        string
	Category    PlaceCategory
	Rating      float64
	ReviewCount int
	Distance    float64 // meters from the query coordinate
	Address     string
}

// Page is the result of one fetch.
type Page struct {
	Items   []Item
	HasMore bool
}
