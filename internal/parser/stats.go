package parser

import "github.com/compmap/eventmap/pkg/core"

// Stats summarises a preprocessed dataset.
type Stats struct {
	Total     int `json:"total"`
	Plottable int `json:"plottable"`
	// Missing counts records that cannot be drawn, either for lack of
	// coordinates or because the date has no year.
	Missing int `json:"missing"`
}

// ComputeStats counts plottable and missing records.
func ComputeStats(records []core.EventRecord) Stats {
	s := Stats{Total: len(records)}
	for _, r := range records {
		if r.Plottable() {
			s.Plottable++
		}
	}
	s.Missing = s.Total - s.Plottable
	return s
}
