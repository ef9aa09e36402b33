// Package config collects runtime settings from a .env file and the
// environment
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/ngmaloney/la-districts/internal/districts"
)

const (
	DefaultDataDir       = "data"
	DefaultLoadTimeout   = 30 * time.Second
	DefaultSearchTimeout = 10 * time.Second
	DefaultLogFile       = "la-districts.log"
	DefaultExportDir     = "."
)

// Config holds every runtime setting
type Config struct {
	DataDir string
	// Sources overrides the boundary source of a layer; a path, .shp file
	// or http(s) URL
	Sources map[districts.Kind]string

	NominatimURL       string
	NominatimUserAgent string

	LoadTimeout   time.Duration
	SearchTimeout time.Duration

	LogLevel  string
	LogFormat string
	LogFile   string

	// ExportDir receives the HTML pages written by the export key
	ExportDir string

	// Set from flags only
	Layer   districts.Kind
	Address string
}

// Load reads .env (a missing file is fine) and then the environment
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading %s: %w", f, err)
		}
	}
	return FromEnv()
}

// FromEnv builds a config from environment variables and defaults
func FromEnv() (*Config, error) {
	cfg := &Config{
		DataDir:            getEnv("LA_DISTRICTS_DATA_DIR", DefaultDataDir),
		Sources:            make(map[districts.Kind]string),
		NominatimURL:       os.Getenv("NOMINATIM_URL"),
		NominatimUserAgent: os.Getenv("NOMINATIM_USER_AGENT"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "text"),
		LogFile:            os.Getenv("LOG_FILE"),
		ExportDir:          getEnv("LA_DISTRICTS_EXPORT_DIR", DefaultExportDir),
		Layer:              districts.NeighborhoodCouncil,
	}

	for _, k := range districts.Kinds {
		if src := os.Getenv(sourceEnv(k)); src != "" {
			cfg.Sources[k] = src
		}
	}

	var err error
	if cfg.LoadTimeout, err = getDuration("LOAD_TIMEOUT", DefaultLoadTimeout); err != nil {
		return nil, err
	}
	if cfg.SearchTimeout, err = getDuration("SEARCH_TIMEOUT", DefaultSearchTimeout); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SourcePath returns where a layer's boundaries are read from
func (c *Config) SourcePath(kind districts.Kind) string {
	if src, ok := c.Sources[kind]; ok && src != "" {
		return src
	}
	return filepath.Join(c.DataDir, kind.Layer().Source)
}

// LogPath returns the log file location
func (c *Config) LogPath() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return filepath.Join(c.DataDir, DefaultLogFile)
}

// SetLayer selects the initial layer by label or short name
func (c *Config) SetLayer(name string) error {
	k, ok := districts.ParseKind(name)
	if !ok {
		return fmt.Errorf("unknown layer %q", name)
	}
	c.Layer = k
	return nil
}

func sourceEnv(k districts.Kind) string {
	return "LA_DISTRICTS_" + strings.ToUpper(k.String()) + "_SOURCE"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: want a positive duration like 30s", key, v)
	}
	return d, nil
}
