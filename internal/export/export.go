// Package export writes event records as GeoJSON.
package export

import (
	"fmt"
	"io"

	geojson "github.com/paulmach/go.geojson"

	"github.com/compmap/eventmap/pkg/core"
)

// FeatureCollection builds one Point feature per plottable record at its
// displayed (jittered) position. The original position is kept in the
// properties.
func FeatureCollection(records []core.EventRecord) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, r := range records {
		if !r.Plottable() {
			continue
		}
		f := geojson.NewPointFeature([]float64{r.Jittered.Longitude, r.Jittered.Latitude})
		f.ID = r.Key
		f.SetProperty("name", r.Name)
		f.SetProperty("country", r.Country)
		if r.City != "" {
			f.SetProperty("city", r.City)
		}
		f.SetProperty("venue", r.Venue)
		f.SetProperty("date", r.Date)
		f.SetProperty("year", r.Year)
		f.SetProperty("longitude", r.Position.Longitude)
		f.SetProperty("latitude", r.Position.Latitude)
		fc.AddFeature(f)
	}
	return fc
}

// Write encodes the records as a FeatureCollection.
func Write(w io.Writer, records []core.EventRecord) error {
	data, err := FeatureCollection(records).MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to encode GeoJSON: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write GeoJSON: %w", err)
	}
	return nil
}
