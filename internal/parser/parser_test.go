package parser

import (
	"bytes"
	"fmt"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestParser(seed int64) *Parser {
	return NewParser(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), NewSeededRNG(seed))
}

func row(name, country, date, lon, lat string) Row {
	return Row{
		ColName:      name,
		ColCountry:   country,
		ColCity:      "",
		ColVenue:     "Hall " + name,
		ColDate:      date,
		ColLongitude: lon,
		ColLatitude:  lat,
	}
}

func TestParseYear(t *testing.T) {
	tests := []struct {
		date      string
		wantYear  int
		wantValid bool
	}{
		{"March 3-5, 2021", 2021, true},
		{"Sat 12 June, 2019", 2019, true},
		{"2020", 2020, true},
		{"12, 2018 (cancelled)", 2018, true},
		{"June 2020", 0, false},
		{"TBD", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			year, ok := ParseYear(tt.date)
			assert.Equal(t, tt.wantValid, ok)
			assert.Equal(t, tt.wantYear, year)
		})
	}
}

func TestParseRecord_Fields(t *testing.T) {
	p := newTestParser(1)

	rec := p.ParseRecord(Row{
		ColName:      " Paris Open ",
		ColCountry:   "France",
		ColCity:      "Paris",
		ColVenue:     `"Halle ""A"""`,
		ColDate:      "May 1-2, 2022",
		ColLongitude: "2.35",
		ColLatitude:  "48.85",
	})

	assert.Equal(t, "Paris Open", rec.Name)
	assert.Equal(t, "France", rec.Country)
	assert.Equal(t, "Paris", rec.City)
	assert.Equal(t, `Halle "A"`, rec.Venue)
	assert.Equal(t, 2022, rec.Year)
	assert.True(t, rec.YearValid)
	assert.True(t, rec.HasPosition)
	assert.Equal(t, 2.35, rec.Position.Longitude)
	assert.Equal(t, 48.85, rec.Position.Latitude)
	assert.True(t, rec.Plottable())
	assert.Equal(t, "Paris, France", rec.Location())
	assert.Empty(t, rec.Key)
}

func TestParseRecord_MissingCoordinates(t *testing.T) {
	p := newTestParser(1)

	tests := []struct {
		name string
		lon  string
		lat  string
	}{
		{"both empty", "", ""},
		{"longitude empty", "", "48.85"},
		{"latitude empty", "2.35", ""},
		{"not numeric", "east", "48.85"},
		{"nan longitude", "NaN", "48.85"},
		{"inf longitude", "Inf", "48.85"},
		{"negative infinity latitude", "2.35", "-Infinity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := p.ParseRecord(row("x", "France", "2020", tt.lon, tt.lat))
			assert.False(t, rec.HasPosition)
			assert.False(t, rec.Plottable())
		})
	}
}

func TestParseRecord_BadDateNotPlottable(t *testing.T) {
	p := newTestParser(1)

	rec := p.ParseRecord(row("x", "France", "someday", "2.35", "48.85"))

	assert.True(t, rec.HasPosition)
	assert.False(t, rec.YearValid)
	assert.False(t, rec.Plottable())
}

func TestPreprocess_JitterWithinRange(t *testing.T) {
	rows := make([]Row, 0, 500)
	for i := 0; i < 500; i++ {
		rows = append(rows, row(fmt.Sprintf("event-%d", i), "Spain", "2021", "-3.70", "40.41"))
	}

	records := newTestParser(7).Preprocess(rows)
	require.Len(t, records, 500)

	half := JitterRange / 2
	for _, r := range records {
		require.True(t, r.HasPosition)
		assert.LessOrEqual(t, math.Abs(r.Jittered.Longitude-r.Position.Longitude), half)
		assert.LessOrEqual(t, math.Abs(r.Jittered.Latitude-r.Position.Latitude), half)
	}
}

func TestPreprocess_DeterministicWithSeed(t *testing.T) {
	rows := []Row{
		row("a", "France", "2020", "2.35", "48.85"),
		row("b", "Germany", "2021", "13.40", "52.52"),
	}

	first := Preprocess(rows, NewSeededRNG(42))
	second := Preprocess(rows, NewSeededRNG(42))
	other := Preprocess(rows, NewSeededRNG(43))

	assert.Equal(t, first, second)
	assert.NotEqual(t, first[0].Jittered, other[0].Jittered)
}

func TestPreprocess_JitterNotDrawnForMissingCoordinates(t *testing.T) {
	withGap := []Row{
		row("a", "France", "2020", "", ""),
		row("b", "Germany", "2021", "13.40", "52.52"),
	}
	without := []Row{
		row("b", "Germany", "2021", "13.40", "52.52"),
	}

	got := Preprocess(withGap, NewSeededRNG(5))
	want := Preprocess(without, NewSeededRNG(5))

	assert.Equal(t, want[0].Jittered, got[1].Jittered)
}

func TestPreprocess_KeepsOrder(t *testing.T) {
	rows := []Row{
		row("c", "France", "2020", "1", "45"),
		row("a", "France", "2020", "1", "45"),
		row("b", "France", "2020", "1", "45"),
	}

	records := newTestParser(1).Preprocess(rows)

	require.Len(t, records, 3)
	assert.Equal(t, "c", records[0].Key)
	assert.Equal(t, "a", records[1].Key)
	assert.Equal(t, "b", records[2].Key)
}

func TestPreprocess_CompositeKeysForDuplicateNames(t *testing.T) {
	var logs bytes.Buffer
	p := NewParser(slog.New(slog.NewTextHandler(&logs, nil)), NewSeededRNG(1))

	rows := []Row{
		row("Open", "France", "Jan 1, 2020", "1", "45"),
		row("Open", "France", "Jan 1, 2021", "1", "45"),
		row("Open", "France", "Jan 1, 2021", "1", "45"),
		row("Cup", "Spain", "2020", "1", "45"),
	}

	records := p.Preprocess(rows)

	keys := []string{records[0].Key, records[1].Key, records[2].Key, records[3].Key}
	assert.Equal(t, []string{"Open", "Open|Jan 1, 2021", "Open|Jan 1, 2021#3", "Cup"}, keys)
	assert.Equal(t, "Open", records[1].Name, "name is not rewritten")
	assert.Contains(t, logs.String(), "Duplicate event name")

	seen := map[string]bool{}
	for _, k := range keys {
		assert.False(t, seen[k], "key %q repeated", k)
		seen[k] = true
	}
}

func TestComputeStats(t *testing.T) {
	rows := []Row{
		row("a", "France", "2020", "2.35", "48.85"),
		row("b", "France", "2020", "", ""),
		row("c", "France", "unknown", "2.35", "48.85"),
		row("d", "Germany", "2021", "13.40", "52.52"),
	}

	stats := ComputeStats(newTestParser(1).Preprocess(rows))

	assert.Equal(t, Stats{Total: 4, Plottable: 2, Missing: 2}, stats)
}
