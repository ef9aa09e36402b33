// Package districts models the five Greater Los Angeles jurisdiction layers,
// their features and the per-layer load state.
package districts

import "strings"

// Kind identifies one jurisdiction layer. The set is closed.
type Kind int

const (
	NeighborhoodCouncil Kind = iota
	CityCouncil
	CountySupervisor
	Assembly
	Senate
)

// NumKinds is the number of layers
const NumKinds = int(Senate) + 1

// Kinds lists every layer in display order
var Kinds = []Kind{NeighborhoodCouncil, CityCouncil, CountySupervisor, Assembly, Senate}

// Layer describes a jurisdiction layer and where its boundaries come from
type Layer struct {
	Kind   Kind
	Label  string // Display name
	Short  string // Short name used by flags and env vars
	Source string // Default source file, relative to the data directory
	Origin string // Upstream dataset
}

var layers = [...]Layer{
	NeighborhoodCouncil: {
		Kind:   NeighborhoodCouncil,
		Label:  "Neighborhood Councils",
		Short:  "nc",
		Source: "la_neighborhood_council_districts.geojson",
		Origin: "https://data.lacity.org/A-Well-Run-City/Neighborhood-Councils-Certified-/fu65-dz2f",
	},
	CityCouncil: {
		Kind:   CityCouncil,
		Label:  "LA City Councils",
		Short:  "cc",
		Source: "la_city_council_districts.geojson",
		Origin: "https://data.lacity.org/A-Well-Run-City/Council-Districts/5v3h-vptv",
	},
	CountySupervisor: {
		Kind:   CountySupervisor,
		Label:  "LA County Supervisor Districts",
		Short:  "sup",
		Source: "la_county_supervisorial_districs.geojson",
		Origin: "https://egis3.lacounty.gov/dataportal/2011/12/06/supervisorial-districts/",
	},
	Assembly: {
		Kind:   Assembly,
		Label:  "California House of Representatives",
		Short:  "assembly",
		Source: "ca_house_boundaries.geojson",
		Origin: "https://catalog.data.gov/dataset/tiger-line-shapefile-2018-state-california-current-state-legislative-district-sld-lower-chambe",
	},
	Senate: {
		Kind:   Senate,
		Label:  "California Senate",
		Short:  "senate",
		Source: "ca_senate_boundaries.geojson",
		Origin: "https://catalog.data.gov/dataset/tiger-line-shapefile-2018-state-california-current-state-legislative-district-sld-upper-chamber",
	},
}

// Valid reports whether k is one of the five known layers
func (k Kind) Valid() bool {
	return k >= NeighborhoodCouncil && k <= Senate
}

// Layer returns the layer definition. Invalid kinds return the zero Layer.
func (k Kind) Layer() Layer {
	if !k.Valid() {
		return Layer{Kind: k}
	}
	return layers[k]
}

// Label returns the display name of the layer
func (k Kind) Label() string {
	return k.Layer().Label
}

func (k Kind) String() string {
	if !k.Valid() {
		return "unknown"
	}
	return layers[k].Short
}

// ParseKind resolves a layer from its label or short name, case-insensitively
func ParseKind(s string) (Kind, bool) {
	s = strings.TrimSpace(s)
	for _, l := range layers {
		if strings.EqualFold(s, l.Label) || strings.EqualFold(s, l.Short) {
			return l.Kind, true
		}
	}
	return -1, false
}
