// Package nav carries navigation intents out of the feed.
package nav

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jisooooooooooo/sportus/internal/feed"
	"github.com/jisooooooooooo/sportus/internal/store"
)

// Intent is the user's request to open one place.
type Intent struct {
	Item     feed.Item
	Category feed.Category
}

// Router receives navigation intents and returns the route it opened.
type Router interface {
	Navigate(ctx context.Context, in Intent) (string, error)
}

// DetailRoute is the detail page for placeID.
func DetailRoute(placeID int64) string {
	return "/home/" + strconv.FormatInt(placeID, 10)
}

// Recorder is a Router that records each intent in the store. It has no
// place detail view of its own; the route is returned for display.
type Recorder struct {
	store *store.Store
}

// NewRecorder creates a Recorder backed by st.
func NewRecorder(st *store.Store) *Recorder {
	return &Recorder{store: st}
}

// Navigate records the intent and returns its detail route.
func (r *Recorder) Navigate(ctx context.Context, in Intent) (string, error) {
	_, err := r.store.RecordSelection(ctx, store.Selection{
		PlaceID:  in.Item.PlaceID,
		Name:     in.Item.Name,
		Category: string(in.Item.Category),
		Feed:     in.Category.String(),
	})
	if err != nil {
		return "", fmt.Errorf("navigate to place %d: %w", in.Item.PlaceID, err)
	}
	return DetailRoute(in.Item.PlaceID), nil
}
