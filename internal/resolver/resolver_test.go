package resolver

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/paulmach/orb"

	"github.com/ngmaloney/la-districts/internal/districts"
	"github.com/ngmaloney/la-districts/internal/districts/districtstest"
	"github.com/ngmaloney/la-districts/internal/spatialindex"
)

func TestResolveCityHall(t *testing.T) {
	ix, err := spatialindex.Open(":memory:")
	if err != nil {
		t.Fatalf("Failed to open index: %v", err)
	}
	defer ix.Close()

	stores := map[string]*districts.Store{
		"linear scan":  districtstest.Store(nil),
		"sqlite index": districtstest.Store(ix),
	}

	want := map[districts.Kind]string{
		districts.NeighborhoodCouncil: "DOWNTOWN LOS ANGELES",
		districts.CityCouncil:         "Council District 14",
		districts.CountySupervisor:    "Hilda L. Solis",
		districts.Assembly:            "Assembly District 54",
		districts.Senate:              "State Senate District 24",
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			res := New(store).Resolve(context.Background(), districtstest.CityHall)
			if len(res.Matches) != len(districts.Kinds) {
				t.Fatalf("got %d matches, want %d", len(res.Matches), len(districts.Kinds))
			}
			for i, k := range districts.Kinds {
				m := res.Matches[i]
				if m.Kind != k {
					t.Errorf("match %d kind = %v, want %v", i, m.Kind, k)
				}
				if m.Status != StatusFound {
					t.Errorf("%v status = %v, want found", k, m.Status)
					continue
				}
				if m.Feature.Kind != k {
					t.Errorf("%v feature kind = %v", k, m.Feature.Kind)
				}
				if got := m.Feature.Title(); got != want[k] {
					t.Errorf("%v title = %q, want %q", k, got, want[k])
				}
			}
		})
	}
}

func TestResolveOutsideEveryLayer(t *testing.T) {
	r := New(districtstest.Store(nil))

	points := map[string]orb.Point{
		"mid atlantic": districtstest.MidAtlantic,
		"nan":          {math.NaN(), 34},
		"infinite":     {math.Inf(1), 34},
		"out of range": {-200, 95},
		"null island":  {0, 0},
	}

	for name, pt := range points {
		t.Run(name, func(t *testing.T) {
			res := r.Resolve(context.Background(), pt)
			for _, m := range res.Matches {
				if m.Status != StatusNotFound || m.Feature != nil {
					t.Errorf("%v = %v (%v), want not found", m.Kind, m.Status, m.Feature)
				}
			}
			if res.Found() != 0 {
				t.Errorf("Found() = %d, want 0", res.Found())
			}
		})
	}
}

func TestLocateSkipsHole(t *testing.T) {
	r := New(districtstest.Store(nil))

	// City Hall falls in the hole of the first NC, so the second one wins
	m := r.Locate(context.Background(), districtstest.CityHall, districts.NeighborhoodCouncil)
	if m.Status != StatusFound || m.Feature.Seq != 1 {
		t.Errorf("Locate(city hall) = %v seq %v, want found seq 1", m.Status, m.Feature)
	}

	m = r.Locate(context.Background(), districtstest.RingBand, districts.NeighborhoodCouncil)
	if m.Status != StatusFound || m.Feature.Title() != "RING NC" {
		t.Errorf("Locate(ring band) = %v, want RING NC", m.Status)
	}
}

func TestResolveLayerStates(t *testing.T) {
	ctx := context.Background()
	store := districts.NewStore(nil)
	loadErr := errors.New("fetch timed out")

	store.SetReady(ctx, districts.NeighborhoodCouncil, districtstest.Features(districts.NeighborhoodCouncil))
	store.SetReady(ctx, districts.CityCouncil, districtstest.Features(districts.CityCouncil))
	store.SetFailed(districts.Senate, loadErr)

	res := New(store).Resolve(ctx, districtstest.CityHall)

	tests := []struct {
		kind districts.Kind
		want Status
	}{
		{districts.NeighborhoodCouncil, StatusFound},
		{districts.CityCouncil, StatusFound},
		{districts.CountySupervisor, StatusLoading},
		{districts.Assembly, StatusLoading},
		{districts.Senate, StatusUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			m := res.Get(tt.kind)
			if m.Status != tt.want {
				t.Errorf("status = %v, want %v", m.Status, tt.want)
			}
		})
	}

	if err := res.Get(districts.Senate).Err; !errors.Is(err, loadErr) {
		t.Errorf("senate error = %v, want load error", err)
	}

	// A failed layer is distinct from a ready layer that misses the point
	ocean := New(store).Locate(ctx, districtstest.MidAtlantic, districts.Senate)
	if ocean.Status != StatusUnavailable {
		t.Errorf("failed layer at sea = %v, want unavailable", ocean.Status)
	}
}

func TestLocateIndexFailure(t *testing.T) {
	ix, err := spatialindex.Open(":memory:")
	if err != nil {
		t.Fatalf("Failed to open index: %v", err)
	}
	store := districtstest.Store(ix)
	ix.Close()

	m := New(store).Locate(context.Background(), districtstest.CityHall, districts.CityCouncil)
	if m.Status != StatusUnavailable {
		t.Errorf("status = %v, want unavailable", m.Status)
	}
	if m.Err == nil {
		t.Error("unavailable match carries no error")
	}
	if m.Feature != nil {
		t.Errorf("feature = %v, want none", m.Feature)
	}

	// Far from every district is still unavailable, not "no district here"
	if m := New(store).Locate(context.Background(), districtstest.MidAtlantic, districts.Senate); m.Status != StatusUnavailable {
		t.Errorf("status at sea = %v, want unavailable", m.Status)
	}
}

func TestResolveAtMostOneFoundPerLayer(t *testing.T) {
	r := New(districtstest.Store(nil))

	for lon := -118.6; lon <= -117.9; lon += 0.0125 {
		for lat := 33.3; lat <= 34.3; lat += 0.0125 {
			res := r.Resolve(context.Background(), orb.Point{lon, lat})
			seen := make(map[districts.Kind]bool)
			for _, m := range res.Matches {
				if seen[m.Kind] {
					t.Fatalf("layer %v reported twice at %v,%v", m.Kind, lon, lat)
				}
				seen[m.Kind] = true
				if m.Status == StatusFound && (m.Feature == nil || !m.Feature.Contains(res.Point)) {
					t.Fatalf("layer %v found a non-containing feature at %v,%v", m.Kind, lon, lat)
				}
			}
		}
	}
}
