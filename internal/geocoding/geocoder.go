// Package geocoding turns free-text addresses into coordinates
package geocoding

import (
	"context"
	"errors"

	"github.com/paulmach/orb"
)

// ErrNoResults is returned when the geocoder found nothing for a query
var ErrNoResults = errors.New("no results")

// Result is one geocoder match
type Result struct {
	Point       orb.Point
	DisplayName string
	Importance  float64
}

// Geocoder looks up an address and returns matches ranked best first.
// An empty answer is reported as ErrNoResults.
type Geocoder interface {
	Search(ctx context.Context, query string) ([]Result, error)
}

// First returns the best match for query
func First(ctx context.Context, g Geocoder, query string) (Result, error) {
	results, err := g.Search(ctx, query)
	if err != nil {
		return Result{}, err
	}
	if len(results) == 0 {
		return Result{}, ErrNoResults
	}
	return results[0], nil
}
