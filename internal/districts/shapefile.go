package districts

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
)

// loadShapefile reads polygon features and their DBF attributes from an ESRI
// Shapefile. Coordinates must already be geographic (lon/lat).
func loadShapefile(ctx context.Context, kind Kind, path string) ([]*Feature, error) {
	shape, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening shapefile: %w", err)
	}
	defer shape.Close()

	// go-shp reads attributes from the sibling .dbf and reports a missing
	// table only as an empty field list
	dbf := path[:len(path)-len(filepath.Ext(path))] + ".dbf"
	if _, err := os.Stat(dbf); err != nil {
		return nil, fmt.Errorf("opening attribute table: %w", err)
	}
	fields := shape.Fields()
	if len(fields) == 0 {
		return nil, fmt.Errorf("attribute table %s has no fields", dbf)
	}
	var features []*Feature
	skipped := 0
	for shape.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, p := shape.Shape()

		polygon, ok := p.(*shp.Polygon)
		if !ok {
			skipped++
			continue
		}

		props := make(map[string]interface{}, len(fields))
		for i, field := range fields {
			props[field.String()] = dbfValue(shape.ReadAttribute(n, i))
		}

		f, err := newFromProperties(kind, len(features), shapePolygon(polygon), props)
		if err != nil {
			slog.Warn("skipping shape", "layer", kind.String(), "index", n, "err", err)
			skipped++
			continue
		}
		features = append(features, f)
	}
	if err := shape.Err(); err != nil {
		return nil, fmt.Errorf("reading shapefile: %w", err)
	}

	slog.Debug("read shapefile", "layer", kind.String(), "path", path, "features", len(features), "skipped", skipped)
	return features, nil
}

// dbfValue strips the NUL and space padding of a fixed-width DBF field
func dbfValue(v string) string {
	return strings.TrimSpace(strings.TrimRight(v, "\x00 "))
}

// shapePolygon converts a shapefile polygon into orb geometry. Shapefile
// outer rings are clockwise and holes counter-clockwise; each hole is
// attached to the outer ring that precedes it.
func shapePolygon(polygon *shp.Polygon) orb.Geometry {
	var mp orb.MultiPolygon
	for partIdx := 0; partIdx < len(polygon.Parts); partIdx++ {
		startIdx := int(polygon.Parts[partIdx])
		endIdx := len(polygon.Points)
		if partIdx+1 < len(polygon.Parts) {
			endIdx = int(polygon.Parts[partIdx+1])
		}
		if endIdx-startIdx < 4 {
			continue
		}

		ring := make(orb.Ring, 0, endIdx-startIdx)
		for i := startIdx; i < endIdx; i++ {
			point := polygon.Points[i]
			ring = append(ring, orb.Point{point.X, point.Y})
		}

		if ring.Orientation() == orb.CW || len(mp) == 0 {
			mp = append(mp, orb.Polygon{ring})
			continue
		}
		last := len(mp) - 1
		mp[last] = append(mp[last], ring)
	}

	switch len(mp) {
	case 0:
		return nil
	case 1:
		return mp[0]
	}
	return mp
}
