package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/compmap/eventmap/internal/dispatcher"
	"github.com/compmap/eventmap/internal/filter"
	"github.com/compmap/eventmap/internal/scene"
	"github.com/compmap/eventmap/pkg/core"
)

// UI commands understood by the app.
const (
	CmdToggleYear    = ":FILTER:YEAR:TOGGLE:"
	CmdSelectYear    = ":FILTER:YEAR:SELECT:"
	CmdSelectCountry = ":FILTER:COUNTRY:SELECT:"
	CmdResetFilter   = ":FILTER:RESET:"
	CmdZoom          = ":VIEW:ZOOM:"
	CmdZoomAt        = ":VIEW:ZOOMAT:"
	CmdPan           = ":VIEW:PAN:"
	CmdResetView     = ":VIEW:RESET:"
	CmdPointerOver   = ":POINTER:OVER:"
	CmdPointerOut    = ":POINTER:OUT:"
	CmdLegendClick   = ":LEGEND:CLICK:"
)

// Register installs a handler for every UI command on d. Each handler
// returns the resulting core.Delta.
func (a *App) Register(d *dispatcher.Dispatcher) {
	handlers := map[string]func(args []string) (core.Delta, error){
		CmdToggleYear: func(args []string) (core.Delta, error) {
			year, err := intArg(args, 0)
			if err != nil {
				return core.Delta{}, err
			}
			return a.ToggleYear(year)
		},
		CmdSelectYear: func(args []string) (core.Delta, error) {
			if len(args) == 0 || args[0] == "" {
				return a.SelectYear(0)
			}
			year, err := intArg(args, 0)
			if err != nil {
				return core.Delta{}, err
			}
			return a.SelectYear(year)
		},
		CmdSelectCountry: func(args []string) (core.Delta, error) {
			return a.SelectCountries(args)
		},
		CmdResetFilter: func([]string) (core.Delta, error) {
			return a.ResetFilters()
		},
		CmdZoom: func(args []string) (core.Delta, error) {
			k, err := floatArgs(args, 1)
			if err != nil {
				return core.Delta{}, err
			}
			return a.ZoomTo(k[0])
		},
		CmdZoomAt: func(args []string) (core.Delta, error) {
			v, err := floatArgs(args, 3)
			if err != nil {
				return core.Delta{}, err
			}
			return a.ZoomAt(v[0], v[1], v[2])
		},
		CmdPan: func(args []string) (core.Delta, error) {
			v, err := floatArgs(args, 2)
			if err != nil {
				return core.Delta{}, err
			}
			return a.Pan(v[0], v[1])
		},
		CmdResetView: func([]string) (core.Delta, error) {
			return a.ResetView()
		},
		CmdPointerOver: func(args []string) (core.Delta, error) {
			if len(args) != 3 {
				return core.Delta{}, fmt.Errorf("%w: want key, x, y", ErrInvalidArgs)
			}
			v, err := floatArgs(args[1:], 2)
			if err != nil {
				return core.Delta{}, err
			}
			return a.PointerOver(args[0], v[0], v[1])
		},
		CmdPointerOut: func(args []string) (core.Delta, error) {
			if len(args) != 1 {
				return core.Delta{}, fmt.Errorf("%w: want key", ErrInvalidArgs)
			}
			return a.PointerOut(args[0])
		},
		CmdLegendClick: func(args []string) (core.Delta, error) {
			year, err := intArg(args, 0)
			if err != nil {
				return core.Delta{}, err
			}
			return a.LegendClick(year)
		},
	}

	for cmd, h := range handlers {
		d.Register(cmd, func(e dispatcher.Event) (any, error) {
			return h(e.Args)
		}, dispatcher.Logged())
	}
}

func intArg(args []string, i int) (int, error) {
	if i >= len(args) {
		return 0, fmt.Errorf("%w: missing argument %d", ErrInvalidArgs, i)
	}
	n, err := strconv.Atoi(strings.TrimSpace(args[i]))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrInvalidArgs, args[i])
	}
	return n, nil
}

func floatArgs(args []string, n int) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%w: want %d numbers, got %d arguments", ErrInvalidArgs, n, len(args))
	}
	out := make([]float64, n)
	for i, s := range args {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", ErrInvalidArgs, s)
		}
		out[i] = v
	}
	return out, nil
}

// filterEvent applies reduce to the current filter state.
func (a *App) filterEvent(reduce func(core.FilterState) core.FilterState) (core.Delta, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.checkReady(); err != nil {
		return core.Delta{}, err
	}
	return a.emit(a.applyFilter(reduce(a.state))), nil
}

// ToggleYear adds or removes year from the selection.
func (a *App) ToggleYear(year int) (core.Delta, error) {
	return a.filterEvent(func(s core.FilterState) core.FilterState {
		return filter.ToggleYear(s, year)
	})
}

// SelectYear replaces the selection with year; 0 clears it.
func (a *App) SelectYear(year int) (core.Delta, error) {
	return a.filterEvent(func(s core.FilterState) core.FilterState {
		return filter.SelectYear(s, year)
	})
}

// SelectCountries replaces the country selection. In single mode only the
// first country is used and an empty list clears the selection.
func (a *App) SelectCountries(countries []string) (core.Delta, error) {
	return a.filterEvent(func(s core.FilterState) core.FilterState {
		if s.CountryMode == core.CountrySingle {
			if len(countries) == 0 {
				return filter.SelectCountry(s, "")
			}
			return filter.SelectCountry(s, countries[0])
		}
		return filter.SelectCountries(s, countries)
	})
}

// ResetFilters clears both selections.
func (a *App) ResetFilters() (core.Delta, error) {
	return a.filterEvent(filter.Reset)
}

// LegendClick clicks the swatch for year, toggling it.
func (a *App) LegendClick(year int) (core.Delta, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.checkReady(); err != nil {
		return core.Delta{}, err
	}
	a.clicked = nil
	if !a.legend.Click(year) || a.clicked == nil {
		return core.Delta{}, fmt.Errorf("%w: no legend entry for year %d", ErrInvalidArgs, year)
	}
	return a.emit(*a.clicked), nil
}

// viewEvent runs fn against the view controller.
func (a *App) viewEvent(fn func()) (core.Delta, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.checkReady(); err != nil {
		return core.Delta{}, err
	}
	fn()
	return a.emit(a.viewDelta()), nil
}

// ZoomTo sets the zoom factor around the surface centre.
func (a *App) ZoomTo(k float64) (core.Delta, error) {
	return a.viewEvent(func() { a.view.ZoomTo(k) })
}

// ZoomAt scales by factor keeping the surface point (px, py) fixed.
func (a *App) ZoomAt(px, py, factor float64) (core.Delta, error) {
	if factor <= 0 {
		return core.Delta{}, fmt.Errorf("%w: zoom factor must be positive", ErrInvalidArgs)
	}
	return a.viewEvent(func() { a.view.ZoomAt(px, py, factor) })
}

// Pan moves the view by (dx, dy) pixels.
func (a *App) Pan(dx, dy float64) (core.Delta, error) {
	return a.viewEvent(func() { a.view.Pan(dx, dy) })
}

// ResetView animates back to the identity transform.
func (a *App) ResetView() (core.Delta, error) {
	return a.viewEvent(func() { a.view.Reset(a.cfg.ResetViewDuration) })
}

// PointerOver hovers the marker for key at surface point (x, y).
func (a *App) PointerOver(key string, x, y float64) (core.Delta, error) {
	return a.pointer(key, scene.PointerEvent{Type: scene.EventMouseOver, X: x, Y: y})
}

// PointerOut leaves the marker for key.
func (a *App) PointerOut(key string) (core.Delta, error) {
	return a.pointer(key, scene.PointerEvent{Type: scene.EventMouseOut})
}

func (a *App) pointer(key string, ev scene.PointerEvent) (core.Delta, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.checkReady(); err != nil {
		return core.Delta{}, err
	}
	if _, err := a.reconciler.Pointer(key, ev); err != nil {
		return core.Delta{}, fmt.Errorf("%w: %w", ErrInvalidArgs, err)
	}
	return a.viewDelta(), nil
}
