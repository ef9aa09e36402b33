// Package resolver answers "which district of each layer contains this point"
package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/paulmach/orb"

	"github.com/ngmaloney/la-districts/internal/districts"
)

// Status is the outcome of resolving a point against one layer
type Status int

const (
	StatusNotFound    Status = iota // Layer ready, no district contains the point
	StatusFound                     // Exactly one district reported
	StatusLoading                   // Layer data not yet available
	StatusUnavailable               // Layer failed to load
)

func (s Status) String() string {
	switch s {
	case StatusNotFound:
		return "not found"
	case StatusFound:
		return "found"
	case StatusLoading:
		return "loading"
	case StatusUnavailable:
		return "unavailable"
	}
	return "unknown"
}

// Match is the answer for one layer
type Match struct {
	Kind    districts.Kind
	Status  Status
	Feature *districts.Feature // Set only when Status is StatusFound
	Err     error              // Load error when StatusUnavailable
}

// Result holds one Match per layer, in districts.Kinds order
type Result struct {
	Point   orb.Point
	Matches []Match
}

// Get returns the match for kind
func (r Result) Get(kind districts.Kind) Match {
	for _, m := range r.Matches {
		if m.Kind == kind {
			return m
		}
	}
	return Match{Kind: kind, Status: StatusNotFound}
}

// Found counts the layers with a containing district
func (r Result) Found() int {
	n := 0
	for _, m := range r.Matches {
		if m.Status == StatusFound {
			n++
		}
	}
	return n
}

// Resolver runs point-in-polygon queries against a store. It never mutates
// the store.
type Resolver struct {
	store *districts.Store
}

// New creates a resolver over store
func New(store *districts.Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve locates pt in every layer independently
func (r *Resolver) Resolve(ctx context.Context, pt orb.Point) Result {
	res := Result{Point: pt, Matches: make([]Match, 0, len(districts.Kinds))}
	for _, k := range districts.Kinds {
		res.Matches = append(res.Matches, r.Locate(ctx, pt, k))
	}
	slog.Debug("resolved point", "lon", pt.Lon(), "lat", pt.Lat(), "found", res.Found())
	return res
}

// Locate finds the first district of one layer, in load order, that
// contains pt.
func (r *Resolver) Locate(ctx context.Context, pt orb.Point, kind districts.Kind) Match {
	m := Match{Kind: kind, Status: StatusNotFound}

	state, err := r.store.State(kind)
	switch state {
	case districts.StateLoading:
		m.Status = StatusLoading
		return m
	case districts.StateFailed:
		m.Status = StatusUnavailable
		m.Err = err
		return m
	}

	if !validPoint(pt) {
		return m
	}

	candidates, state, err := r.store.Candidates(ctx, kind, pt)
	if err != nil {
		// A layer that cannot be searched is unavailable, never empty
		slog.Warn("candidate lookup failed", "layer", kind.String(), "state", state.String(), "err", err)
		m.Status = StatusUnavailable
		m.Err = fmt.Errorf("locating in %s: %w", kind, err)
		return m
	}
	// The layer may have been reloaded between the two store calls
	switch state {
	case districts.StateLoading:
		m.Status = StatusLoading
		return m
	case districts.StateFailed:
		m.Status = StatusUnavailable
		m.Err = fmt.Errorf("%s layer unavailable", kind)
		return m
	}

	for _, f := range candidates {
		if f.Contains(pt) {
			m.Status = StatusFound
			m.Feature = f
			return m
		}
	}
	return m
}

func validPoint(pt orb.Point) bool {
	lon, lat := pt.Lon(), pt.Lat()
	if math.IsNaN(lon) || math.IsNaN(lat) || math.IsInf(lon, 0) || math.IsInf(lat, 0) {
		return false
	}
	return lon >= -180 && lon <= 180 && lat >= -90 && lat <= 90
}
