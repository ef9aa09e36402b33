package ui

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ngmaloney/la-districts/internal/districts"
	"github.com/ngmaloney/la-districts/internal/geocoding"
)

// LoadFunc fetches the boundaries of one layer
type LoadFunc func(ctx context.Context, kind districts.Kind) ([]*districts.Feature, error)

// Message types for async operations

// layerLoadedMsg is sent when a layer fetch finishes, successfully or not.
// gen is the load generation the fetch was started for.
type layerLoadedMsg struct {
	kind     districts.Kind
	gen      int
	features []*districts.Feature
	err      error
}

// geocodeMsg is sent when an address search completes
type geocodeMsg struct {
	query  string
	result geocoding.Result
	err    error
}

// loadLayer fetches one layer in the background
func loadLayer(load LoadFunc, kind districts.Kind, gen int, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		start := time.Now()
		slog.Info("loading layer", "layer", kind.String(), "gen", gen)
		features, err := load(ctx, kind)
		if err != nil {
			slog.Error("layer load failed", "layer", kind.String(), "err", err)
			return layerLoadedMsg{kind: kind, gen: gen, err: err}
		}
		slog.Info("layer loaded", "layer", kind.String(), "features", len(features), "elapsed", time.Since(start))
		return layerLoadedMsg{kind: kind, gen: gen, features: features}
	}
}

// geocodeAddress geocodes a search query in the background
func geocodeAddress(g geocoding.Geocoder, query string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		result, err := geocoding.First(ctx, g, query)
		return geocodeMsg{query: query, result: result, err: err}
	}
}
