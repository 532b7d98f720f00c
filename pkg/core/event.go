package core

// EventRecord is one competition event loaded from the data source.
// Records are built once at load time and not modified afterwards.
type EventRecord struct {
	Key     string `json:"key"` // identity used by the marker reconciler
	Name    string `json:"name"`
	Country string `json:"country"`
	City    string `json:"city,omitempty"`
	Venue   string `json:"venue"`
	Date    string `json:"date"`

	Year      int  `json:"year"`
	YearValid bool `json:"yearValid"`

	Position    Position2D `json:"position"`
	HasPosition bool       `json:"hasPosition"`

	// Jittered is only meaningful when HasPosition is true.
	Jittered Position2D `json:"jittered"`
}

// Plottable reports whether the record can be drawn on the map.
func (r EventRecord) Plottable() bool {
	return r.HasPosition && r.YearValid
}

// Location formats the tooltip location line ("city, country" or "country").
func (r EventRecord) Location() string {
	if r.City != "" {
		return r.City + ", " + r.Country
	}
	return r.Country
}
