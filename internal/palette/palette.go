// Package palette maps event years to fill colours.
package palette

import "sort"

// Distinct is the 20-colour qualitative range used for year fills.
var Distinct = []string{
	"#e6194B", "#3cb44b", "#ffe119", "#4363d8", "#f58231",
	"#911eb4", "#42d4f4", "#f032e6", "#bfef45", "#fabed4",
	"#469990", "#dcbeff", "#9A6324", "#fffac8", "#800000",
	"#aaffc3", "#808000", "#ffd8b1", "#000075", "#a9a9a9",
}

// Fallback is returned for years outside the scale's domain.
const Fallback = "#a9a9a9"

// Scale is an ordinal colour scale over a fixed, sorted set of years.
// The i-th year gets Distinct[i % len(Distinct)], so the same dataset
// always produces the same colours.
type Scale struct {
	years  []int
	colors map[int]string
}

// NewScale builds a scale over years. Duplicates are ignored.
func NewScale(years []int) *Scale {
	sorted := append([]int(nil), years...)
	sort.Ints(sorted)

	s := &Scale{colors: make(map[int]string, len(sorted))}
	for _, y := range sorted {
		if _, ok := s.colors[y]; ok {
			continue
		}
		s.colors[y] = Distinct[len(s.years)%len(Distinct)]
		s.years = append(s.years, y)
	}
	return s
}

// Color returns the fill colour for year.
func (s *Scale) Color(year int) string {
	if c, ok := s.colors[year]; ok {
		return c
	}
	return Fallback
}

// Years returns the scale's domain in ascending order.
func (s *Scale) Years() []int {
	return append([]int(nil), s.years...)
}
