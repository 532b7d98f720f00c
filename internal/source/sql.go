package source

import (
	"context"

	"gorm.io/datatypes"

	"github.com/compmap/eventmap/internal/database"
	"github.com/compmap/eventmap/internal/parser"
)

// SQLSource reads events from the events table.
type SQLSource struct {
	db *database.Manager
}

// NewSQLSource wraps a connected database manager.
func NewSQLSource(db *database.Manager) *SQLSource {
	return &SQLSource{db: db}
}

// Rows reads every event row in insertion order.
func (s *SQLSource) Rows(ctx context.Context) ([]parser.Row, error) {
	events, err := s.db.Events(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]parser.Row, 0, len(events))
	for _, e := range events {
		rows = append(rows, RowFromEvent(e))
	}
	return rows, nil
}

// Close closes the underlying connection.
func (s *SQLSource) Close() error {
	return s.db.Close()
}

// RowFromEvent converts a stored event to a raw row.
func RowFromEvent(e database.EventRow) parser.Row {
	row := parser.Row{
		parser.ColName:      e.Name,
		parser.ColCountry:   e.Country,
		parser.ColCity:      e.City,
		parser.ColVenue:     e.Venue,
		parser.ColDate:      e.Date,
		parser.ColLongitude: e.Longitude,
		parser.ColLatitude:  e.Latitude,
	}
	for k, v := range e.Extra {
		if _, fixed := row[k]; fixed {
			continue
		}
		if s, ok := v.(string); ok {
			row[k] = s
		}
	}
	return row
}

// EventFromRow converts a raw row for storage. Non-standard columns go to
// the Extra JSON column.
func EventFromRow(row parser.Row) database.EventRow {
	e := database.EventRow{
		Name:      row[parser.ColName],
		Country:   row[parser.ColCountry],
		City:      row[parser.ColCity],
		Venue:     row[parser.ColVenue],
		Date:      row[parser.ColDate],
		Longitude: row[parser.ColLongitude],
		Latitude:  row[parser.ColLatitude],
	}

	fixed := make(map[string]struct{}, len(parser.Columns))
	for _, c := range parser.Columns {
		fixed[c] = struct{}{}
	}
	for k, v := range row {
		if _, ok := fixed[k]; ok || v == "" {
			continue
		}
		if e.Extra == nil {
			e.Extra = datatypes.JSONMap{}
		}
		e.Extra[k] = v
	}
	return e
}

// Import stores rows in the events table.
func Import(ctx context.Context, db *database.Manager, rows []parser.Row) error {
	events := make([]database.EventRow, 0, len(rows))
	for _, r := range rows {
		events = append(events, EventFromRow(r))
	}
	return db.InsertEvents(ctx, events)
}
