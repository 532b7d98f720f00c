// Package filter derives the active subset of events from the current
// year and country selections. Every function here is pure: reducers return
// a new state and never modify their input.
package filter

import (
	"sort"

	"github.com/compmap/eventmap/internal/util"
	"github.com/compmap/eventmap/pkg/core"
)

// DeriveActiveSubset returns the plottable records that satisfy both the
// year and the country constraint, in load order.
func DeriveActiveSubset(all []core.EventRecord, state core.FilterState) []core.EventRecord {
	out := make([]core.EventRecord, 0, len(all))
	for _, r := range all {
		if Matches(r, state) {
			out = append(out, r)
		}
	}
	return out
}

// Matches reports whether a single record belongs to the active subset.
func Matches(r core.EventRecord, state core.FilterState) bool {
	if !r.Plottable() {
		return false
	}
	if len(state.SelectedYears) > 0 {
		if _, ok := state.SelectedYears[r.Year]; !ok {
			return false
		}
	}
	if len(state.SelectedCountries) > 0 {
		if _, ok := state.SelectedCountries[CountryOption(r.Country, state.CountryMode)]; !ok {
			return false
		}
	}
	return true
}

// CountryOption is the value a record's country is matched and listed by.
// Multi mode uses the first comma token; single mode the full string.
func CountryOption(country string, mode core.CountryMode) string {
	if mode == core.CountrySingle {
		return country
	}
	return util.FirstToken(country)
}

// ToggleYear adds year to the selection, or removes it if already selected.
func ToggleYear(state core.FilterState, year int) core.FilterState {
	next := state.Clone()
	if _, ok := next.SelectedYears[year]; ok {
		delete(next.SelectedYears, year)
	} else {
		next.SelectedYears[year] = struct{}{}
	}
	return next
}

// SelectYear replaces the selection with a single year. Zero clears it.
func SelectYear(state core.FilterState, year int) core.FilterState {
	next := state.Clone()
	next.SelectedYears = make(map[int]struct{}, 1)
	if year != 0 {
		next.SelectedYears[year] = struct{}{}
	}
	return next
}

// SelectCountries replaces the country selection. Empty values are ignored.
func SelectCountries(state core.FilterState, countries []string) core.FilterState {
	next := state.Clone()
	next.SelectedCountries = make(map[string]struct{}, len(countries))
	for _, c := range countries {
		if c != "" {
			next.SelectedCountries[c] = struct{}{}
		}
	}
	return next
}

// SelectCountry replaces the selection with a single country. "" clears it.
func SelectCountry(state core.FilterState, country string) core.FilterState {
	if country == "" {
		return SelectCountries(state, nil)
	}
	return SelectCountries(state, []string{country})
}

// Reset clears both dimensions, keeping the country mode.
func Reset(state core.FilterState) core.FilterState {
	return core.NewFilterState(state.CountryMode)
}

// Years returns the distinct years of the plottable records, ascending.
func Years(records []core.EventRecord) []int {
	seen := make(map[int]struct{})
	out := make([]int, 0)
	for _, r := range records {
		if !r.Plottable() {
			continue
		}
		if _, ok := seen[r.Year]; ok {
			continue
		}
		seen[r.Year] = struct{}{}
		out = append(out, r.Year)
	}
	sort.Ints(out)
	return out
}

// Countries returns the distinct country options of the plottable records,
// sorted, using the same normalisation as matching.
func Countries(records []core.EventRecord, mode core.CountryMode) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, r := range records {
		if !r.Plottable() {
			continue
		}
		c := CountryOption(r.Country, mode)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
