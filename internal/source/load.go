package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/compmap/eventmap/internal/geo"
	"github.com/compmap/eventmap/internal/parser"
)

// Dataset is everything the map needs from its sources.
type Dataset struct {
	Regions []geo.Region
	Rows    []parser.Row
}

// ReadBoundaries loads the GeoJSON boundary file.
func ReadBoundaries(path string) ([]geo.Region, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open boundaries file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return geo.ReadRegions(f)
}

// Load reads the boundaries and the event rows concurrently and returns
// once both are done. The first failure cancels the other load.
func Load(ctx context.Context, logger *slog.Logger, boundaries string, events EventSource) (Dataset, error) {
	var ds Dataset

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		regions, err := ReadBoundaries(boundaries)
		if err != nil {
			return err
		}
		ds.Regions = regions
		logger.Debug("Loaded boundaries", "path", boundaries, "regions", len(regions))
		return nil
	})

	g.Go(func() error {
		rows, err := events.Rows(ctx)
		if err != nil {
			return err
		}
		ds.Rows = rows
		logger.Debug("Loaded event rows", "rows", len(rows))
		return nil
	})

	if err := g.Wait(); err != nil {
		return Dataset{}, fmt.Errorf("failed to load data: %w", err)
	}
	return ds, nil
}
