// Package source loads the two inputs of the map: the event rows and the
// country boundaries.
package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/compmap/eventmap/internal/config"
	"github.com/compmap/eventmap/internal/database"
	"github.com/compmap/eventmap/internal/parser"
)

// ErrUnknownSource is returned for an unsupported data.events.type.
var ErrUnknownSource = errors.New("unknown event source type")

// Source types accepted in data.events.type.
const (
	TypeCSV      = "csv"
	TypeSQLite   = database.KindSQLite
	TypePostgres = database.KindPostgres
)

// EventSource yields raw event rows.
type EventSource interface {
	Rows(ctx context.Context) ([]parser.Row, error)
	Close() error
}

// NewEventSource creates an event source based on configuration. SQL
// sources connect through db, which must not be nil for them.
func NewEventSource(cfg config.EventsConfig, dbCfg config.DBConfig, db *database.Manager) (EventSource, error) {
	switch cfg.Type {
	case TypeCSV, "":
		return NewCSVSource(cfg.Path), nil
	case TypeSQLite, TypePostgres:
		if db == nil {
			return nil, fmt.Errorf("%s source needs a database manager", cfg.Type)
		}
		if err := db.Connect(cfg.Type, cfg.Path, dbCfg); err != nil {
			return nil, err
		}
		if err := db.Setup(); err != nil {
			_ = db.Close()
			return nil, err
		}
		return NewSQLSource(db), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownSource, cfg.Type)
	}
}
