package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/compmap/eventmap/internal/app"
	"github.com/compmap/eventmap/internal/config"
	"github.com/compmap/eventmap/internal/database"
	"github.com/compmap/eventmap/internal/source"
	"github.com/compmap/eventmap/pkg/core"
)

func contextWithTimeout(d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), d)
}

// buildApp creates the map session and loads its data. On a load failure
// the returned app is in its error state and the error is returned too.
func buildApp(ctx context.Context, onDelta func(core.Delta)) (*app.App, error) {
	dataCfg := config.GetDataConfig()

	a := app.New(app.Options{
		Map:         config.GetMapConfig(),
		CountryMode: core.CountryMode(config.GetCountryMode()),
		Logger:      env.logger,
		OnDelta:     onDelta,
	})

	events, err := source.NewEventSource(dataCfg.Events, config.GetDBConfig(), database.NewManager(env.zlog))
	if err != nil {
		a.Fail(err)
		return a, err
	}
	defer func() { _ = events.Close() }()

	if _, err := a.Start(ctx, dataCfg, events); err != nil {
		return a, err
	}
	return a, nil
}

// filterFlags are the selections shared by render and export.
type filterFlags struct {
	years     []int
	countries []string
}

func (f *filterFlags) apply(a *app.App) error {
	for _, y := range f.years {
		if _, err := a.ToggleYear(y); err != nil {
			return err
		}
	}
	if len(f.countries) > 0 {
		if _, err := a.SelectCountries(f.countries); err != nil {
			return err
		}
	}
	a.Settle()
	return nil
}

// createOutput opens path for writing; "-" is stdout.
func createOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
