package core

import "sort"

// CountryMode controls how country selections are matched.
type CountryMode string

const (
	// CountrySingle matches the full country string against a single selection.
	CountrySingle CountryMode = "single"
	// CountryMulti matches the first comma-separated token against any selection.
	CountryMulti CountryMode = "multi"
)

// FilterState holds the current year and country selections.
// An empty set means the dimension is unconstrained.
type FilterState struct {
	SelectedYears     map[int]struct{}    `json:"-"`
	SelectedCountries map[string]struct{} `json:"-"`
	CountryMode       CountryMode         `json:"countryMode"`
}

// NewFilterState returns an unconstrained filter state.
func NewFilterState(mode CountryMode) FilterState {
	if mode == "" {
		mode = CountryMulti
	}
	return FilterState{
		SelectedYears:     make(map[int]struct{}),
		SelectedCountries: make(map[string]struct{}),
		CountryMode:       mode,
	}
}

// Clone returns a deep copy so reducers never alias the previous state.
func (s FilterState) Clone() FilterState {
	c := FilterState{
		SelectedYears:     make(map[int]struct{}, len(s.SelectedYears)),
		SelectedCountries: make(map[string]struct{}, len(s.SelectedCountries)),
		CountryMode:       s.CountryMode,
	}
	for y := range s.SelectedYears {
		c.SelectedYears[y] = struct{}{}
	}
	for cn := range s.SelectedCountries {
		c.SelectedCountries[cn] = struct{}{}
	}
	return c
}

// HasYear reports whether year is selected.
func (s FilterState) HasYear(year int) bool {
	_, ok := s.SelectedYears[year]
	return ok
}

// Years returns the selected years in ascending order.
func (s FilterState) Years() []int {
	out := make([]int, 0, len(s.SelectedYears))
	for y := range s.SelectedYears {
		out = append(out, y)
	}
	sort.Ints(out)
	return out
}

// Countries returns the selected countries in ascending order.
func (s FilterState) Countries() []string {
	out := make([]string, 0, len(s.SelectedCountries))
	for c := range s.SelectedCountries {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Empty reports whether neither dimension is constrained.
func (s FilterState) Empty() bool {
	return len(s.SelectedYears) == 0 && len(s.SelectedCountries) == 0
}
