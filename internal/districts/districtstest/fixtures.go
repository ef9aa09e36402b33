// Package districtstest provides small synthetic boundary layers around Los
// Angeles City Hall for tests.
package districtstest

import (
	"context"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/ngmaloney/la-districts/internal/districts"
)

var (
	// CityHall is 200 N Spring St, inside exactly one district per layer
	CityHall = orb.Point{-118.2427, 34.0537}
	// MidAtlantic is open ocean, outside every layer
	MidAtlantic = orb.Point{-40, 30}
	// RingBand is inside the ring-shaped NC, west of its hole
	RingBand = orb.Point{-118.275, 34.05}
)

// Rect returns a closed counter-clockwise ring
func Rect(minLon, minLat, maxLon, maxLat float64) orb.Ring {
	return orb.Ring{
		{minLon, minLat},
		{maxLon, minLat},
		{maxLon, maxLat},
		{minLon, maxLat},
		{minLon, minLat},
	}
}

type fixture struct {
	geom  orb.Geometry
	props geojson.Properties
}

var fixtures = map[districts.Kind][]fixture{
	districts.NeighborhoodCouncil: {
		{
			// Outer ring around City Hall with a hole cut out of its centre
			geom: orb.Polygon{
				Rect(-118.28, 34.02, -118.20, 34.08),
				Rect(-118.27, 34.035, -118.21, 34.065),
			},
			props: geojson.Properties{
				"NAME":      "RING NC",
				"NC_ID":     float64(99),
				"WADDRESS":  "https://ring.example.org",
				"CERTIFIED": "2002-01-01",
			},
		},
		{
			geom: orb.Polygon{Rect(-118.26, 34.04, -118.23, 34.06)},
			props: geojson.Properties{
				"NAME":      "DOWNTOWN LOS ANGELES",
				"NC_ID":     float64(52),
				"WADDRESS":  "https://www.dlanc.com",
				"CERTIFIED": "2002-08-13",
			},
		},
		{
			geom: orb.Polygon{Rect(-118.23, 34.04, -118.215, 34.06)},
			props: geojson.Properties{
				"NAME":     "HISTORIC CULTURAL",
				"NC_ID":    "53",
				"WADDRESS": "https://www.historicculturalnc.org",
			},
		},
	},
	districts.CityCouncil: {
		{
			geom: orb.Polygon{Rect(-118.30, 34.00, -118.20, 34.10)},
			props: geojson.Properties{
				"dist_name":  "Council District 14",
				"district_i": float64(14),
				"website":    "https://cd14.lacity.gov",
				"contact":    "ContactCD14@lacity.org",
			},
		},
		{
			geom: orb.Polygon{Rect(-118.50, 34.10, -118.30, 34.30)},
			props: geojson.Properties{
				"dist_name":  "Council District 4",
				"district_i": float64(4),
				"website":    "https://cd4.lacity.gov",
			},
		},
	},
	districts.CountySupervisor: {
		{
			geom: orb.Polygon{Rect(-118.40, 33.90, -118.00, 34.20)},
			props: geojson.Properties{
				"supervisor": "Hilda L. Solis",
				"SUP_DIST_N": float64(1),
				"website":    "https://hildalsolis.org",
			},
		},
	},
	districts.Assembly: {
		{
			geom: orb.Polygon{Rect(-118.35, 33.95, -118.10, 34.15)},
			props: geojson.Properties{
				"NAMELSAD": "Assembly District 54",
				"SLDLST":   "054",
				"LSAD":     "L3",
				"member":   "Miguel Santiago",
				"website":  "https://a54.asmdc.org",
			},
		},
		{
			geom: orb.Polygon{Rect(-118.10, 33.95, -117.90, 34.15)},
			props: geojson.Properties{
				"NAMELSAD": "Assembly District 53",
				"SLDLST":   "053",
				"LSAD":     "L3",
				"member":   "Wendy Carrillo",
				"website":  "https://a53.asmdc.org",
			},
		},
	},
	districts.Senate: {
		{
			geom: orb.MultiPolygon{
				{Rect(-118.60, 33.30, -118.40, 33.45)},
				{Rect(-118.30, 34.00, -118.15, 34.12)},
			},
			props: geojson.Properties{
				"NAMELSAD": "State Senate District 24",
				"SLDUST":   "024",
				"LSAD":     "LU",
				"Senator":  "Maria Elena Durazo",
				"website":  "https://sd24.senate.ca.gov",
			},
		},
		{
			geom: orb.Polygon{Rect(-118.15, 34.00, -117.95, 34.12)},
			props: geojson.Properties{
				"NAMELSAD": "State Senate District 22",
				"SLDUST":   "022",
				"LSAD":     "LU",
				"Senator":  "Susan Rubio",
				"website":  "https://sd22.senate.ca.gov",
			},
		},
	},
}

// FeatureCollection returns the fixture layer as GeoJSON, with one trailing
// point feature that loaders must skip.
func FeatureCollection(kind districts.Kind) []byte {
	fc := geojson.NewFeatureCollection()
	for _, fx := range fixtures[kind] {
		f := geojson.NewFeature(fx.geom)
		for k, v := range fx.props {
			f.Properties[k] = v
		}
		fc.Append(f)
	}
	stray := geojson.NewFeature(orb.Point{-118.25, 34.05})
	stray.Properties["NAME"] = "not a district"
	fc.Append(stray)

	data, err := fc.MarshalJSON()
	if err != nil {
		panic(fmt.Sprintf("marshalling %s fixture: %v", kind, err))
	}
	return data
}

// Features returns the decoded fixture layer
func Features(kind districts.Kind) []*districts.Feature {
	features, err := districts.DecodeGeoJSON(kind, FeatureCollection(kind))
	if err != nil {
		panic(fmt.Sprintf("decoding %s fixture: %v", kind, err))
	}
	return features
}

// Store returns a store with every fixture layer ready. index may be nil.
func Store(index districts.CandidateIndex) *districts.Store {
	s := districts.NewStore(index)
	for _, k := range districts.Kinds {
		if err := s.SetReady(context.Background(), k, Features(k)); err != nil {
			panic(fmt.Sprintf("publishing %s fixture: %v", k, err))
		}
	}
	return s
}
