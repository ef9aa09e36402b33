package districts

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Attributes is the typed attribute record of a feature. The concrete type
// is the layer discriminant; only the types in this file implement it.
type Attributes interface {
	Kind() Kind
	// Title is the headline shown for the district (council or member name)
	Title() string
	// Website is the representative's official site, possibly empty
	Website() string
	isAttributes()
}

// NeighborhoodCouncilAttrs holds NAME, NC_ID, WADDRESS and CERTIFIED
type NeighborhoodCouncilAttrs struct {
	Name      string
	ID        string
	URL       string
	Certified string
}

// CityCouncilAttrs holds dist_name, district_i, website and contact
type CityCouncilAttrs struct {
	DistrictName string
	District     string
	URL          string
	Contact      string
}

// SupervisorAttrs holds supervisor, SUP_DIST_N and website
type SupervisorAttrs struct {
	Supervisor string
	District   string
	URL        string
}

// AssemblyAttrs holds NAMELSAD, SLDLST, member and website
type AssemblyAttrs struct {
	Name     string
	District string
	Member   string
	URL      string
}

// SenateAttrs holds NAMELSAD, SLDUST, Senator and website
type SenateAttrs struct {
	Name     string
	District string
	Senator  string
	URL      string
}

func (NeighborhoodCouncilAttrs) Kind() Kind { return NeighborhoodCouncil }
func (CityCouncilAttrs) Kind() Kind         { return CityCouncil }
func (SupervisorAttrs) Kind() Kind          { return CountySupervisor }
func (AssemblyAttrs) Kind() Kind            { return Assembly }
func (SenateAttrs) Kind() Kind              { return Senate }

func (a NeighborhoodCouncilAttrs) Title() string { return a.Name }
func (a CityCouncilAttrs) Title() string         { return a.DistrictName }
func (a SupervisorAttrs) Title() string          { return a.Supervisor }
func (a AssemblyAttrs) Title() string            { return a.Name }
func (a SenateAttrs) Title() string              { return a.Name }

func (a NeighborhoodCouncilAttrs) Website() string { return a.URL }
func (a CityCouncilAttrs) Website() string         { return a.URL }
func (a SupervisorAttrs) Website() string          { return a.URL }
func (a AssemblyAttrs) Website() string            { return a.URL }
func (a SenateAttrs) Website() string              { return a.URL }

func (NeighborhoodCouncilAttrs) isAttributes() {}
func (CityCouncilAttrs) isAttributes()         {}
func (SupervisorAttrs) isAttributes()          {}
func (AssemblyAttrs) isAttributes()            {}
func (SenateAttrs) isAttributes()              {}

// Feature is one district polygon within a layer
type Feature struct {
	Kind     Kind
	Seq      int          // Position within the layer, in source order
	Geometry orb.Geometry // orb.Polygon or orb.MultiPolygon
	Bound    orb.Bound
	Attrs    Attributes
}

// NewFeature builds a feature tagged with the kind of its attribute record.
// Only polygonal geometries are accepted.
func NewFeature(seq int, geom orb.Geometry, attrs Attributes) (*Feature, error) {
	if attrs == nil {
		return nil, fmt.Errorf("feature %d: missing attributes", seq)
	}
	switch geom.(type) {
	case orb.Polygon, orb.MultiPolygon:
	default:
		return nil, fmt.Errorf("feature %d: unsupported geometry %T", seq, geom)
	}
	return &Feature{
		Kind:     attrs.Kind(),
		Seq:      seq,
		Geometry: geom,
		Bound:    geom.Bound(),
		Attrs:    attrs,
	}, nil
}

// Contains reports whether pt lies inside the feature, holes excluded
func (f *Feature) Contains(pt orb.Point) bool {
	if !f.Bound.Contains(pt) {
		return false
	}
	switch g := f.Geometry.(type) {
	case orb.Polygon:
		return planar.PolygonContains(g, pt)
	case orb.MultiPolygon:
		return planar.MultiPolygonContains(g, pt)
	}
	return false
}

// Title is shorthand for f.Attrs.Title()
func (f *Feature) Title() string {
	return f.Attrs.Title()
}

// attributesFor builds the attribute record for kind from a flat property map.
// Missing keys become empty strings.
func attributesFor(kind Kind, props map[string]interface{}) (Attributes, error) {
	switch kind {
	case NeighborhoodCouncil:
		return NeighborhoodCouncilAttrs{
			Name:      propString(props, "NAME"),
			ID:        propString(props, "NC_ID"),
			URL:       propString(props, "WADDRESS"),
			Certified: propString(props, "CERTIFIED"),
		}, nil
	case CityCouncil:
		return CityCouncilAttrs{
			DistrictName: propString(props, "dist_name"),
			District:     propString(props, "district_i"),
			URL:          propString(props, "website"),
			Contact:      propString(props, "contact"),
		}, nil
	case CountySupervisor:
		return SupervisorAttrs{
			Supervisor: propString(props, "supervisor"),
			District:   propString(props, "SUP_DIST_N"),
			URL:        propString(props, "website"),
		}, nil
	case Assembly:
		return AssemblyAttrs{
			Name:     propString(props, "NAMELSAD"),
			District: propString(props, "SLDLST"),
			Member:   propString(props, "member"),
			URL:      propString(props, "website"),
		}, nil
	case Senate:
		return SenateAttrs{
			Name:     propString(props, "NAMELSAD"),
			District: propString(props, "SLDUST"),
			Senator:  propString(props, "Senator"),
			URL:      propString(props, "website"),
		}, nil
	}
	return nil, fmt.Errorf("unknown layer kind %d", int(kind))
}

// propString reads a property as text. The source files mix strings and
// numbers for district identifiers.
func propString(props map[string]interface{}, key string) string {
	v, ok := props[key]
	if !ok || v == nil {
		return ""
	}
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
