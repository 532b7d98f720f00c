package parser

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/compmap/eventmap/internal/geo"
	"github.com/compmap/eventmap/internal/util"
	"github.com/compmap/eventmap/pkg/core"
)

// JitterRange is the full width, in degrees, of the uniform offset added to
// each coordinate axis. Offsets fall in [-JitterRange/2, +JitterRange/2).
const JitterRange = 0.05

// Row is one raw tabular record keyed by column name.
type Row map[string]string

// Column names read from a Row.
const (
	ColName      = "name"
	ColCountry   = "country"
	ColCity      = "city"
	ColVenue     = "venue"
	ColDate      = "date"
	ColLongitude = "longitude"
	ColLatitude  = "latitude"
)

// Columns lists the columns every event source must provide.
var Columns = []string{ColName, ColCountry, ColCity, ColVenue, ColDate, ColLongitude, ColLatitude}

// NewSeededRNG creates the random source used for jitter.
// A zero seed uses the current time.
func NewSeededRNG(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Parser turns raw rows into event records.
type Parser struct {
	logger *slog.Logger
	rng    *rand.Rand
}

// NewParser creates a parser drawing jitter from rng.
func NewParser(logger *slog.Logger, rng *rand.Rand) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger, rng: rng}
}

// Preprocess parses rows with the default logger. See Parser.Preprocess.
func Preprocess(rows []Row, rng *rand.Rand) []core.EventRecord {
	return NewParser(nil, rng).Preprocess(rows)
}

// Preprocess parses every row once, in order, and assigns unique keys.
// Rows with an unparseable date or coordinates are kept but are not plottable.
func (p *Parser) Preprocess(rows []Row) []core.EventRecord {
	records := make([]core.EventRecord, 0, len(rows))
	keys := newKeyAssigner()

	for i, row := range rows {
		rec := p.ParseRecord(row)

		key, collided := keys.assign(rec.Name, rec.Date)
		if collided {
			p.logger.Warn("Duplicate event name, using composite key",
				"row", i, "name", rec.Name, "key", key)
		}
		rec.Key = key

		if !rec.YearValid {
			p.logger.Debug("Unparseable event date", "row", i, "name", rec.Name, "date", rec.Date)
		}
		records = append(records, rec)
	}

	return records
}

// ParseRecord converts a single row. Key is left empty.
func (p *Parser) ParseRecord(row Row) core.EventRecord {
	rec := core.EventRecord{
		Name:    util.CleanField(row[ColName]),
		Country: util.CleanField(row[ColCountry]),
		City:    util.CleanField(row[ColCity]),
		Venue:   util.CleanField(row[ColVenue]),
		Date:    util.CleanField(row[ColDate]),
	}

	rec.Year, rec.YearValid = ParseYear(rec.Date)

	pos, err := geo.Position2DFromStrings(row[ColLongitude], row[ColLatitude])
	if err == nil {
		rec.Position = pos
		rec.HasPosition = true
		rec.Jittered = p.jitter(pos)
	}

	return rec
}

func (p *Parser) jitter(pos core.Position2D) core.Position2D {
	return core.Position2D{
		Longitude: pos.Longitude + (p.rng.Float64()-0.5)*JitterRange,
		Latitude:  pos.Latitude + (p.rng.Float64()-0.5)*JitterRange,
	}
}

// ParseYear derives the event year from a free-text date: the last
// comma-separated segment, trimmed, read as a leading integer.
func ParseYear(date string) (int, bool) {
	return util.LeadingInt(util.LastSegment(date, ","))
}

// keyAssigner hands out unique record keys. The first occurrence of a name
// keeps it; later ones get "name|date" and then "name|date#n".
type keyAssigner struct {
	used  map[string]struct{}
	names map[string]int
}

func newKeyAssigner() *keyAssigner {
	return &keyAssigner{
		used:  make(map[string]struct{}),
		names: make(map[string]int),
	}
}

func (k *keyAssigner) assign(name, date string) (string, bool) {
	k.names[name]++
	n := k.names[name]

	if _, taken := k.used[name]; !taken {
		k.used[name] = struct{}{}
		return name, false
	}

	key := name + "|" + date
	if _, taken := k.used[key]; taken {
		key = fmt.Sprintf("%s#%d", key, n)
		for {
			if _, taken := k.used[key]; !taken {
				break
			}
			n++
			key = fmt.Sprintf("%s|%s#%d", name, date, n)
		}
	}
	k.used[key] = struct{}{}
	return key, true
}
