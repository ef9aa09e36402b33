package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ngmaloney/la-districts/internal/config"
	"github.com/ngmaloney/la-districts/internal/districts"
	"github.com/ngmaloney/la-districts/internal/geocoding"
	"github.com/ngmaloney/la-districts/internal/logger"
	"github.com/ngmaloney/la-districts/internal/spatialindex"
	"github.com/ngmaloney/la-districts/internal/ui"
)

func main() {
	dataDir := flag.String("data", "", "Directory holding the district boundary files (default $LA_DISTRICTS_DATA_DIR or ./data)")
	layer := flag.String("layer", "", "Layer shown at startup: nc, cc, sup, assembly, senate or its full label")
	address := flag.String("address", "", "Address to search once the map is up (e.g. \"200 N Spring St, Los Angeles\")")
	envFile := flag.String("env", ".env", "Optional .env file with settings")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Printf("Error reading configuration: %v\n", err)
		os.Exit(1)
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *layer != "" {
		if err := cfg.SetLayer(*layer); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	}
	cfg.Address = *address

	if err := run(cfg); err != nil {
		fmt.Printf("Error running application: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	_, logFile, err := logger.Setup(cfg.LogPath(), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer logFile.Close()
	slog.Info("starting", "data_dir", cfg.DataDir, "layer", cfg.Layer.String())

	index, err := spatialindex.Open(":memory:")
	if err != nil {
		return err
	}
	defer index.Close()

	geocoder := geocoding.NewNominatim(geocoding.Options{
		BaseURL:   cfg.NominatimURL,
		UserAgent: cfg.NominatimUserAgent,
		Timeout:   cfg.SearchTimeout,
	})

	load := func(ctx context.Context, kind districts.Kind) ([]*districts.Feature, error) {
		return districts.Load(ctx, kind, cfg.SourcePath(kind))
	}

	m := ui.NewModel(ui.Options{
		Store:         districts.NewStore(index),
		Load:          load,
		Geocoder:      geocoder,
		LoadTimeout:   cfg.LoadTimeout,
		SearchTimeout: cfg.SearchTimeout,
		Layer:         cfg.Layer,
		Address:       cfg.Address,
		ExportDir:     cfg.ExportDir,
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := p.Run(); err != nil {
		return err
	}
	slog.Info("exiting")
	return nil
}
