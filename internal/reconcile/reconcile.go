// Package reconcile keeps the marker layer in step with the active subset.
//
// Markers are keyed by EventRecord.Key. A reconciliation pass creates
// markers for records that entered the subset, removes those that left, and
// leaves every other marker untouched: the same element, with the same
// handlers and any running transition. Running it twice with the same
// subset changes nothing.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/compmap/eventmap/internal/geo"
	"github.com/compmap/eventmap/internal/palette"
	"github.com/compmap/eventmap/internal/scene"
	"github.com/compmap/eventmap/pkg/core"
)

const instrumentationName = "github.com/compmap/eventmap/internal/reconcile"

// Nominal marker size at scale 1.
const (
	MarkerRadius      = 5.0
	MarkerStrokeWidth = 1.5
	MarkerStroke      = "#fff"
	MarkerClass       = "competition"
)

// CountLabel formats the displayed-count text.
func CountLabel(n int) string {
	return fmt.Sprintf("Displayed Competitions: %d", n)
}

// Reconciler owns the marker layer.
type Reconciler struct {
	scene      *scene.Scene
	projection *geo.Projection
	colors     *palette.Scale
	tooltip    *Tooltip
	count      *scene.Element
	logger     *slog.Logger

	index   *MarkerIndex
	records map[string]core.EventRecord
	k       float64

	entered metric.Int64Counter
	exited  metric.Int64Counter
}

// Options configures a Reconciler.
type Options struct {
	Scene      *scene.Scene
	Projection *geo.Projection
	Colors     *palette.Scale
	Tooltip    *Tooltip
	// CountLabel is the text element updated after every pass. Optional.
	CountLabel *scene.Element
	Logger     *slog.Logger
	// MeterProvider records the marker counters. Defaults to the global
	// provider.
	MeterProvider metric.MeterProvider
}

// New creates a Reconciler.
func New(opts Options) (*Reconciler, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	r := &Reconciler{
		scene:      opts.Scene,
		projection: opts.Projection,
		colors:     opts.Colors,
		tooltip:    opts.Tooltip,
		count:      opts.CountLabel,
		logger:     opts.Logger,
		index:      NewMarkerIndex(),
		records:    make(map[string]core.EventRecord),
		k:          1,
	}

	mp := opts.MeterProvider
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	m := mp.Meter(instrumentationName)

	var err error
	r.entered, err = m.Int64Counter(
		"reconcile.markers.entered",
		metric.WithDescription("Markers created by reconciliation"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating entered counter: %w", err)
	}
	r.exited, err = m.Int64Counter(
		"reconcile.markers.exited",
		metric.WithDescription("Markers removed by reconciliation"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating exited counter: %w", err)
	}

	return r, nil
}

// Reconcile brings the marker layer in line with active. Records that are
// not plottable are skipped.
func (r *Reconciler) Reconcile(active []core.EventRecord) core.Delta {
	wanted := make(map[string]core.EventRecord, len(active))
	order := make([]string, 0, len(active))
	for _, rec := range active {
		if !rec.Plottable() {
			continue
		}
		if _, dup := wanted[rec.Key]; dup {
			continue
		}
		wanted[rec.Key] = rec
		order = append(order, rec.Key)
	}

	delta := core.Delta{Entered: []string{}, Exited: []string{}}

	// exit
	for _, key := range r.index.Keys() {
		if _, ok := wanted[key]; ok {
			continue
		}
		el, _ := r.index.Get(key)
		r.exit(key, el)
		delta.Exited = append(delta.Exited, key)
	}

	// enter / keep, in subset order
	for _, key := range order {
		if _, ok := r.index.Get(key); ok {
			delta.Kept++
			continue
		}
		r.enter(wanted[key])
		delta.Entered = append(delta.Entered, key)
	}

	delta.Count = r.index.Len()
	if r.count != nil {
		r.count.SetText(CountLabel(delta.Count))
	}

	ctx := context.Background()
	if n := len(delta.Entered); n > 0 {
		r.entered.Add(ctx, int64(n))
	}
	if n := len(delta.Exited); n > 0 {
		r.exited.Add(ctx, int64(n))
	}

	r.logger.Debug("Reconciled markers",
		"entered", len(delta.Entered), "exited", len(delta.Exited),
		"kept", delta.Kept, "count", delta.Count)

	return delta
}

func (r *Reconciler) enter(rec core.EventRecord) {
	pt := r.projection.Project(rec.Jittered)

	el := r.scene.Layer(scene.LayerMarkers).Append(scene.KindCircle, MarkerClass)
	el.SetAttr("data-key", rec.Key).
		SetFloat("cx", pt.X).
		SetFloat("cy", pt.Y).
		SetFloat("r", MarkerRadius/r.k).
		SetAttr("fill", r.colors.Color(rec.Year)).
		SetAttr("stroke", MarkerStroke).
		SetFloat("stroke-width", MarkerStrokeWidth/r.k)

	if r.tooltip != nil {
		el.On(scene.EventMouseOver, func(_ *scene.Element, ev scene.PointerEvent) {
			r.tooltip.Show(rec, ev)
		})
		el.On(scene.EventMouseOut, func(_ *scene.Element, _ scene.PointerEvent) {
			r.tooltip.Hide()
		})
	}

	r.index.Set(rec.Key, el)
	r.records[rec.Key] = rec
}

func (r *Reconciler) exit(key string, el *scene.Element) {
	if el != nil {
		r.scene.Interrupt(el)
		el.Remove()
	}
	if r.tooltip != nil {
		r.tooltip.Cancel(key)
	}
	r.index.Delete(key)
	delete(r.records, key)
}

// Rescale counter-scales every marker for zoom factor k so markers keep
// their nominal on-screen size.
func (r *Reconciler) Rescale(k float64) {
	if k <= 0 {
		k = 1
	}
	r.k = k
	r.index.Each(func(_ string, el *scene.Element) {
		el.SetFloat("r", MarkerRadius/k).
			SetFloat("stroke-width", MarkerStrokeWidth/k)
	})
}

// Marker returns the element drawn for key.
func (r *Reconciler) Marker(key string) (*scene.Element, bool) {
	return r.index.Get(key)
}

// Record returns the record displayed under key.
func (r *Reconciler) Record(key string) (core.EventRecord, bool) {
	rec, ok := r.records[key]
	return rec, ok
}

// Pointer delivers a pointer event to the marker for key.
func (r *Reconciler) Pointer(key string, ev scene.PointerEvent) (bool, error) {
	el, ok := r.index.Get(key)
	if !ok {
		return false, fmt.Errorf("%w: marker %s", scene.ErrElementNotFound, key)
	}
	return el.Dispatch(ev), nil
}

// Keys returns the displayed keys, sorted.
func (r *Reconciler) Keys() []string {
	return r.index.Keys()
}

// Count returns the number of displayed markers.
func (r *Reconciler) Count() int {
	return r.index.Len()
}

// Tooltip returns the shared tooltip, possibly nil.
func (r *Reconciler) Tooltip() *Tooltip {
	return r.tooltip
}
