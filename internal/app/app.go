// Package app holds the map's state and turns UI events into changes on
// the scene. All methods are safe for concurrent use; events are handled
// one at a time.
package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/compmap/eventmap/internal/config"
	"github.com/compmap/eventmap/internal/filter"
	"github.com/compmap/eventmap/internal/geo"
	"github.com/compmap/eventmap/internal/legend"
	"github.com/compmap/eventmap/internal/palette"
	"github.com/compmap/eventmap/internal/parser"
	"github.com/compmap/eventmap/internal/reconcile"
	"github.com/compmap/eventmap/internal/scene"
	"github.com/compmap/eventmap/internal/view"
	"github.com/compmap/eventmap/pkg/core"
)

var (
	// ErrUnavailable is returned for events received before a successful
	// load or after a failed one.
	ErrUnavailable = errors.New("map data unavailable")
	// ErrInvalidArgs wraps malformed command arguments.
	ErrInvalidArgs = errors.New("invalid arguments")
)

// Base map style.
const (
	CountryFill        = "#ccc"
	CountryStroke      = "#333"
	CountryStrokeWidth = 0.5
)

// Options configures an App.
type Options struct {
	Map         config.MapConfig
	CountryMode core.CountryMode
	Logger      *slog.Logger
	// OnDelta, when set, receives every delta produced by an event. It is
	// called with the app lock held and must not call back into the App.
	OnDelta func(core.Delta)
}

// App is one map session.
type App struct {
	mu sync.Mutex

	cfg     config.MapConfig
	mode    core.CountryMode
	logger  *slog.Logger
	onDelta func(core.Delta)

	scene      *scene.Scene
	projection *geo.Projection

	records    []core.EventRecord
	stats      parser.Stats
	state      core.FilterState
	colors     *palette.Scale
	legend     *legend.Legend
	reconciler *reconcile.Reconciler
	view       *view.Controller

	ready   bool
	loadErr error

	// last delta produced by a legend click handler
	clicked *core.Delta
}

// New creates an empty map surface. Call Init with the loaded data or Fail
// with the load error before sending events.
func New(opts Options) *App {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.CountryMode == "" {
		opts.CountryMode = core.CountryMulti
	}
	cfg := opts.Map

	s := scene.New(cfg.Width, cfg.Height)
	for _, layer := range []string{scene.LayerBaseMap, scene.LayerMarkers, scene.LayerOverlay, scene.LayerLegend, scene.LayerTooltip} {
		s.Layer(layer)
	}

	return &App{
		cfg:     cfg,
		mode:    opts.CountryMode,
		logger:  opts.Logger,
		onDelta: opts.OnDelta,
		scene:   s,
		projection: geo.NewViewportMercator(
			core.Position2D{Longitude: cfg.Center[0], Latitude: cfg.Center[1]},
			cfg.Scale, cfg.Width, cfg.Height,
		),
		state: core.NewFilterState(opts.CountryMode),
	}
}

// Init draws the base map, the legend and the initial markers for the full
// dataset. It can only succeed once.
func (a *App) Init(regions []geo.Region, records []core.EventRecord) (core.Delta, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.ready {
		return core.Delta{}, errors.New("map already initialised")
	}
	if a.loadErr != nil {
		return core.Delta{}, fmt.Errorf("%w: %v", ErrUnavailable, a.loadErr)
	}

	a.records = records
	a.stats = parser.ComputeStats(records)
	a.drawBaseMap(regions)

	a.colors = palette.NewScale(filter.Years(records))
	a.legend = legend.New(legend.Options{
		Scene:       a.scene,
		Colors:      a.colors,
		Countries:   filter.Countries(records, a.mode),
		Mode:        a.mode,
		Missing:     a.stats.Missing,
		ShowMissing: a.cfg.ShowMissing,
	})
	a.legend.OnToggle(func(year int) {
		d := a.applyFilter(filter.ToggleYear(a.state, year))
		a.clicked = &d
	})

	var err error
	a.reconciler, err = reconcile.New(reconcile.Options{
		Scene:      a.scene,
		Projection: a.projection,
		Colors:     a.colors,
		Tooltip:    reconcile.NewTooltip(a.scene, a.cfg.TooltipFadeIn, a.cfg.TooltipFadeOut),
		CountLabel: a.legend.CountLabel(),
		Logger:     a.logger,
	})
	if err != nil {
		return core.Delta{}, err
	}
	a.view = view.New(a.scene, a.reconciler)
	a.ready = true

	a.logger.Info("Map initialised",
		"regions", len(regions),
		"records", a.stats.Total,
		"plottable", a.stats.Plottable,
		"missing", a.stats.Missing)

	return a.reconcileLocked(), nil
}

// Fail puts the app into the error state and shows err on the surface.
func (a *App) Fail(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.loadErr = err
	a.ready = false
	a.logger.Error("Failed to load map data", "error", err)

	a.scene.Layer(scene.LayerOverlay).Append(scene.KindText, "load-error").
		SetFloat("x", 50).
		SetFloat("y", 50).
		SetAttr("fill", "#b00").
		SetAttr("font-size", "16px").
		SetText(fmt.Sprintf("Failed to load data: %v", err))
}

// Err returns the load error, if any.
func (a *App) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loadErr
}

// Ready reports whether Init succeeded and events are accepted.
func (a *App) Ready() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ready
}

func (a *App) drawBaseMap(regions []geo.Region) {
	base := a.scene.Layer(scene.LayerBaseMap)
	for _, r := range regions {
		base.Append(scene.KindPath, "country").
			SetAttr("data-name", r.Name).
			SetAttr("d", a.projection.PathData(r)).
			SetAttr("fill", CountryFill).
			SetAttr("stroke", CountryStroke).
			SetFloat("stroke-width", CountryStrokeWidth)
	}
}

func (a *App) checkReady() error {
	if a.ready {
		return nil
	}
	if a.loadErr != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, a.loadErr)
	}
	return ErrUnavailable
}

// applyFilter swaps in the new state and brings everything that depends on
// it up to date.
func (a *App) applyFilter(next core.FilterState) core.Delta {
	a.state = next
	a.legend.Highlight(a.state)
	if a.cfg.ResetViewOnFilter {
		a.view.Reset(a.cfg.ResetViewDuration)
	}
	return a.reconcileLocked()
}

func (a *App) reconcileLocked() core.Delta {
	delta := a.reconciler.Reconcile(filter.DeriveActiveSubset(a.records, a.state))
	delta.Transform = a.view.Transform()
	return delta
}

func (a *App) viewDelta() core.Delta {
	return core.Delta{
		Entered:   []string{},
		Exited:    []string{},
		Kept:      a.reconciler.Count(),
		Count:     a.reconciler.Count(),
		Transform: a.view.Transform(),
	}
}

func (a *App) emit(d core.Delta) core.Delta {
	if a.onDelta != nil {
		a.onDelta(d)
	}
	return d
}

// Advance steps running animations by dt. A delta is emitted while the
// view is moving.
func (a *App) Advance(dt time.Duration) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.ready {
		return false
	}
	a.scene.Advance(dt)
	if !a.view.Animating() {
		return false
	}
	running := a.view.Advance(dt)
	a.emit(a.viewDelta())
	return running
}

// Settle finishes every running animation at once.
func (a *App) Settle() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.scene.Settle()
	if a.ready && a.view.Animating() {
		a.view.ResetNow()
	}
}

// WriteSVG serialises the current surface.
func (a *App) WriteSVG(w io.Writer) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.scene.WriteSVG(w)
}

// Active returns the records currently displayed, in load order.
func (a *App) Active() []core.EventRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.ready {
		return nil
	}
	return filter.DeriveActiveSubset(a.records, a.state)
}
