package spatialindex

import (
	"context"
	"testing"

	"github.com/paulmach/orb"

	"github.com/ngmaloney/la-districts/internal/districts"
	"github.com/ngmaloney/la-districts/internal/districts/districtstest"
)

func openTestIndex(t *testing.T) *Index {
	t.Helper()
	ix, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Failed to open in-memory index: %v", err)
	}
	t.Cleanup(func() { ix.Close() })
	return ix
}

func TestCandidates(t *testing.T) {
	ctx := context.Background()
	ix := openTestIndex(t)

	for _, k := range districts.Kinds {
		if err := ix.Insert(ctx, k, districtstest.Features(k)); err != nil {
			t.Fatalf("Insert(%v) error = %v", k, err)
		}
	}

	tests := []struct {
		name string
		kind districts.Kind
		pt   orb.Point
		want []int
	}{
		{"nc ring and downtown", districts.NeighborhoodCouncil, districtstest.CityHall, []int{0, 1}},
		{"cc 14", districts.CityCouncil, districtstest.CityHall, []int{0}},
		{"senate multipolygon", districts.Senate, districtstest.CityHall, []int{0}},
		{"ocean", districts.Assembly, districtstest.MidAtlantic, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ix.Candidates(ctx, tt.kind, tt.pt)
			if err != nil {
				t.Fatalf("Candidates() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Candidates() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Candidates() = %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestInsertReplacesLayer(t *testing.T) {
	ctx := context.Background()
	ix := openTestIndex(t)

	features := districtstest.Features(districts.Assembly)
	if err := ix.Insert(ctx, districts.Assembly, features); err != nil {
		t.Fatal(err)
	}
	if err := ix.Insert(ctx, districts.Assembly, features[:1]); err != nil {
		t.Fatal(err)
	}
	if got, _ := ix.Candidates(ctx, districts.Assembly, districtstest.CityHall); len(got) != 1 || got[0] != 0 {
		t.Errorf("Candidates() after reinsert = %v, want [0]", got)
	}

	if err := ix.Insert(ctx, districts.Senate, districtstest.Features(districts.Senate)); err != nil {
		t.Fatal(err)
	}
	if err := ix.Remove(ctx, districts.Assembly); err != nil {
		t.Fatal(err)
	}
	if got, _ := ix.Candidates(ctx, districts.Assembly, districtstest.CityHall); len(got) != 0 {
		t.Errorf("Candidates() after remove = %v, want none", got)
	}
	if got, _ := ix.Candidates(ctx, districts.Senate, districtstest.CityHall); len(got) != 1 {
		t.Errorf("Candidates(senate) = %v, want one", got)
	}
}

func TestStoreUsesIndex(t *testing.T) {
	ix := openTestIndex(t)
	s := districtstest.Store(ix)

	candidates, state, err := s.Candidates(context.Background(), districts.Assembly, districtstest.CityHall)
	if err != nil || state != districts.StateReady {
		t.Fatalf("Candidates() = %v, %v", state, err)
	}
	if len(candidates) != 1 || candidates[0].Title() != "Assembly District 54" {
		t.Errorf("unexpected candidates %v", candidates)
	}
}
