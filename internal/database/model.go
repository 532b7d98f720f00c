package database

import (
	"gorm.io/datatypes"
)

// EventRow is one competition row as stored in the events table.
// Coordinates are kept as text so the SQL and CSV sources feed the
// preprocessor identical values.
type EventRow struct {
	ID        uint   `gorm:"primarykey"`
	Name      string `json:"name" gorm:"size:255;index:idx_events_name"`
	Country   string `json:"country" gorm:"size:127;index:idx_events_country"`
	City      string `json:"city" gorm:"size:127"`
	Venue     string `json:"venue" gorm:"size:255"`
	Date      string `json:"date" gorm:"size:127"`
	Longitude string `json:"longitude" gorm:"size:32"`
	Latitude  string `json:"latitude" gorm:"size:32"`

	// Extra holds any source columns beyond the fixed ones.
	Extra datatypes.JSONMap `json:"extra"`
}

func (*EventRow) TableName() string {
	return "events"
}

// DatabaseModels lists the tables managed by Setup
var DatabaseModels = []interface{}{
	&EventRow{},
}
