package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ngmaloney/la-districts/internal/districts"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"LA_DISTRICTS_DATA_DIR", "LOAD_TIMEOUT", "SEARCH_TIMEOUT", "LOG_FILE", "LA_DISTRICTS_NC_SOURCE", "LA_DISTRICTS_EXPORT_DIR"} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv() error = %v", err)
	}
	if cfg.DataDir != DefaultDataDir || cfg.LoadTimeout != DefaultLoadTimeout || cfg.SearchTimeout != DefaultSearchTimeout {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.Layer != districts.NeighborhoodCouncil {
		t.Errorf("default layer = %v", cfg.Layer)
	}
	want := filepath.Join("data", "la_neighborhood_council_districts.geojson")
	if got := cfg.SourcePath(districts.NeighborhoodCouncil); got != want {
		t.Errorf("SourcePath(nc) = %q, want %q", got, want)
	}
	if got := cfg.LogPath(); got != filepath.Join("data", DefaultLogFile) {
		t.Errorf("LogPath() = %q", got)
	}
	if cfg.ExportDir != DefaultExportDir {
		t.Errorf("ExportDir = %q", cfg.ExportDir)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("LA_DISTRICTS_DATA_DIR", "/srv/boundaries")
	t.Setenv("LA_DISTRICTS_SENATE_SOURCE", "https://example.org/senate.geojson")
	t.Setenv("LOAD_TIMEOUT", "5s")
	t.Setenv("LOG_FILE", "/tmp/districts.log")
	t.Setenv("LA_DISTRICTS_EXPORT_DIR", "/tmp/exports")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv() error = %v", err)
	}
	if cfg.LoadTimeout != 5*time.Second {
		t.Errorf("LoadTimeout = %v", cfg.LoadTimeout)
	}
	if got := cfg.SourcePath(districts.Senate); got != "https://example.org/senate.geojson" {
		t.Errorf("SourcePath(senate) = %q", got)
	}
	if got := cfg.SourcePath(districts.Assembly); got != filepath.Join("/srv/boundaries", "ca_house_boundaries.geojson") {
		t.Errorf("SourcePath(assembly) = %q", got)
	}
	if cfg.LogPath() != "/tmp/districts.log" {
		t.Errorf("LogPath() = %q", cfg.LogPath())
	}
	if cfg.ExportDir != "/tmp/exports" {
		t.Errorf("ExportDir = %q", cfg.ExportDir)
	}
}

func TestFromEnvBadDuration(t *testing.T) {
	t.Setenv("SEARCH_TIMEOUT", "soon")
	if _, err := FromEnv(); err == nil {
		t.Error("FromEnv() expected error for bad SEARCH_TIMEOUT, got nil")
	}
}

func TestLoadDotEnv(t *testing.T) {
	t.Setenv("NOMINATIM_USER_AGENT", "")
	os.Unsetenv("NOMINATIM_USER_AGENT")

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("NOMINATIM_USER_AGENT=districts-test/1.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path, filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.NominatimUserAgent != "districts-test/1.0" {
		t.Errorf("NominatimUserAgent = %q", cfg.NominatimUserAgent)
	}
}

func TestSetLayer(t *testing.T) {
	cfg := &Config{}
	if err := cfg.SetLayer("senate"); err != nil || cfg.Layer != districts.Senate {
		t.Errorf("SetLayer(senate) = %v, layer %v", err, cfg.Layer)
	}
	if err := cfg.SetLayer("congress"); err == nil {
		t.Error("SetLayer(congress) expected error, got nil")
	}
}
