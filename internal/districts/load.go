package districts

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

const userAgent = "LADistricts/1.0"

// legislativeLSAD is the TIGER/Line legal/statistical area code per chamber
var legislativeLSAD = map[Kind]string{
	Assembly: "L3",
	Senate:   "LU",
}

// Load reads the boundaries of one layer from src. src may be a local
// GeoJSON file, an ESRI Shapefile (.shp) or an http(s) URL serving GeoJSON.
func Load(ctx context.Context, kind Kind, src string) ([]*Feature, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown layer kind %d", int(kind))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch {
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		data, err := fetch(ctx, src)
		if err != nil {
			return nil, fmt.Errorf("fetching %s: %w", src, err)
		}
		return DecodeGeoJSON(kind, data)

	case strings.EqualFold(filepath.Ext(src), ".shp"):
		return loadShapefile(ctx, kind, src)

	default:
		data, err := os.ReadFile(src)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", src, err)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return DecodeGeoJSON(kind, data)
	}
}

// fetch downloads a remote GeoJSON document
func fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/geo+json, application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// DecodeGeoJSON parses a FeatureCollection into features of the given kind.
// Non-polygonal features are skipped.
func DecodeGeoJSON(kind Kind, data []byte) ([]*Feature, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parsing geojson: %w", err)
	}

	features := make([]*Feature, 0, len(fc.Features))
	for i, gf := range fc.Features {
		f, err := newFromProperties(kind, len(features), gf.Geometry, gf.Properties)
		if err != nil {
			slog.Warn("skipping feature", "layer", kind.String(), "index", i, "err", err)
			continue
		}
		features = append(features, f)
	}

	slog.Debug("decoded layer", "layer", kind.String(), "features", len(features), "skipped", len(fc.Features)-len(features))
	return features, nil
}

func newFromProperties(kind Kind, seq int, geom orb.Geometry, props map[string]interface{}) (*Feature, error) {
	attrs, err := attributesFor(kind, props)
	if err != nil {
		return nil, err
	}
	if want, ok := legislativeLSAD[kind]; ok {
		if got := propString(props, "LSAD"); got != "" && got != want {
			slog.Warn("unexpected LSAD code", "layer", kind.String(), "lsad", got, "want", want)
		}
	}
	return NewFeature(seq, geom, attrs)
}
