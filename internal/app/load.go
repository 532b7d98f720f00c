package app

import (
	"context"
	"log/slog"

	"github.com/compmap/eventmap/internal/config"
	"github.com/compmap/eventmap/internal/parser"
	"github.com/compmap/eventmap/internal/source"
	"github.com/compmap/eventmap/pkg/core"
)

// Prepare turns raw rows into records, dropping non-European rows first
// when europeOnly is set.
func Prepare(logger *slog.Logger, rows []parser.Row, seed int64, europeOnly bool) []core.EventRecord {
	if europeOnly {
		kept := parser.FilterEuropean(rows)
		logger.Info("Filtered to European events", "rows", len(rows), "kept", len(kept))
		rows = kept
	}
	return parser.NewParser(logger, parser.NewSeededRNG(seed)).Preprocess(rows)
}

// Start loads both sources and initialises the app. A load failure puts
// the app in its error state and is returned.
func (a *App) Start(ctx context.Context, data config.DataConfig, events source.EventSource) (core.Delta, error) {
	ds, err := source.Load(ctx, a.logger, data.Boundaries, events)
	if err != nil {
		a.Fail(err)
		return core.Delta{}, err
	}
	records := Prepare(a.logger, ds.Rows, data.JitterSeed, data.EuropeOnly)
	return a.Init(ds.Regions, records)
}
