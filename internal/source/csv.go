package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/compmap/eventmap/internal/parser"
)

// ErrMissingColumn is returned when the CSV header lacks a required column.
var ErrMissingColumn = errors.New("missing column")

// CSVSource reads events from a CSV file with a header row.
type CSVSource struct {
	Path string
}

// NewCSVSource creates a CSV event source.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{Path: path}
}

// Rows reads the whole file.
func (s *CSVSource) Rows(ctx context.Context) ([]parser.Row, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open events file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ReadCSV(ctx, f)
}

// Close is a no-op.
func (s *CSVSource) Close() error { return nil }

// ReadCSV parses CSV rows keyed by the lower-cased header names. Columns
// besides the required ones are kept in the row. The optional city column
// may be absent.
func ReadCSV(ctx context.Context, r io.Reader) ([]parser.Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i, h := range header {
		header[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	var rows []parser.Row
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV line %d: %w", line, err)
		}

		row := make(parser.Row, len(header))
		for i, h := range header {
			if i < len(rec) {
				row[h] = rec[i]
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func checkHeader(header []string) error {
	have := make(map[string]struct{}, len(header))
	for _, h := range header {
		have[h] = struct{}{}
	}
	for _, col := range parser.Columns {
		if col == parser.ColCity {
			continue
		}
		if _, ok := have[col]; !ok {
			return fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}
	return nil
}
