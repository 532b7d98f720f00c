package app

import (
	"github.com/compmap/eventmap/internal/legend"
	"github.com/compmap/eventmap/internal/parser"
	"github.com/compmap/eventmap/pkg/core"
)

// FilterSnapshot is the JSON form of the filter state.
type FilterSnapshot struct {
	Years       []int            `json:"years"`
	Countries   []string         `json:"countries"`
	CountryMode core.CountryMode `json:"countryMode"`
}

// State is a read-only snapshot of the session.
type State struct {
	Ready       bool               `json:"ready"`
	Error       string             `json:"error,omitempty"`
	Filter      FilterSnapshot     `json:"filter"`
	Transform   core.ViewTransform `json:"transform"`
	Count       int                `json:"count"`
	Highlighted []int              `json:"highlighted"`
	Controls    legend.Controls    `json:"controls"`
	Stats       parser.Stats       `json:"stats"`
}

// Snapshot returns the current state.
func (a *App) Snapshot() State {
	a.mu.Lock()
	defer a.mu.Unlock()

	st := State{
		Ready: a.ready,
		Filter: FilterSnapshot{
			Years:       a.state.Years(),
			Countries:   a.state.Countries(),
			CountryMode: a.state.CountryMode,
		},
		Transform:   core.Identity,
		Highlighted: []int{},
		Stats:       a.stats,
	}
	if a.loadErr != nil {
		st.Error = a.loadErr.Error()
	}
	if !a.ready {
		return st
	}

	st.Transform = a.view.Transform()
	st.Count = a.reconciler.Count()
	st.Highlighted = a.legend.Highlighted()
	st.Controls = a.legend.Controls()
	return st
}
