package geo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCoordinate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantErr bool
	}{
		{name: "decimal", input: "2.3522", want: 2.3522},
		{name: "negative", input: "-3.7038", want: -3.7038},
		{name: "surrounding spaces", input: "  48.85 ", want: 48.85},
		{name: "integer", input: "10", want: 10},
		{name: "scientific", input: "1e1", want: 10},
		{name: "empty", input: "", wantErr: true},
		{name: "blank", input: "   ", wantErr: true},
		{name: "text", input: "n/a", wantErr: true},
		{name: "nan", input: "NaN", wantErr: true},
		{name: "inf", input: "Inf", wantErr: true},
		{name: "negative infinity", input: "-Infinity", wantErr: true},
		{name: "overflow", input: "1e400", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCoordinate(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidCoordinates))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPosition2DFromStrings(t *testing.T) {
	pos, err := Position2DFromStrings("2.35", "48.85")
	require.NoError(t, err)
	assert.Equal(t, 2.35, pos.Longitude)
	assert.Equal(t, 48.85, pos.Latitude)

	_, err = Position2DFromStrings("2.35", "")
	assert.ErrorIs(t, err, ErrInvalidCoordinates)

	_, err = Position2DFromStrings("abc", "48.85")
	assert.ErrorIs(t, err, ErrInvalidCoordinates)
}

func TestCoords3857From4326_ValidCoordinates(t *testing.T) {
	// Test converting WGS84 (EPSG:4326) to Web Mercator (EPSG:3857)
	// Approximate coordinates for a point
	point, err := Coords3857From4326(0, 0)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	coords, ok := point.Coordinates()
	if !ok {
		t.Fatal("expected valid coordinates")
	}
	// At (0, 0) in 4326, the 3857 coordinates should also be (0, 0)
	if coords.X != 0 {
		t.Errorf("expected X=0 at origin, got %f", coords.X)
	}
	if coords.Y != 0 {
		t.Errorf("expected Y=0 at origin, got %f", coords.Y)
	}
}

func TestCoords3857From4326_NonZeroCoordinates(t *testing.T) {
	// Test a point at 10 degrees longitude, 10 degrees latitude
	point, err := Coords3857From4326(10, 10)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	coords, ok := point.Coordinates()
	if !ok {
		t.Fatal("expected valid coordinates")
	}
	// In Web Mercator, these should be non-zero positive values
	if coords.X <= 0 {
		t.Errorf("expected positive X, got %f", coords.X)
	}
	if coords.Y <= 0 {
		t.Errorf("expected positive Y, got %f", coords.Y)
	}
}

func TestCoords3857From4326_NegativeCoordinates(t *testing.T) {
	// Test a point in the Southern/Western hemisphere
	point, err := Coords3857From4326(-45, -30)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	coords, ok := point.Coordinates()
	if !ok {
		t.Fatal("expected valid coordinates")
	}
	if coords.X >= 0 {
		t.Errorf("expected negative X for western hemisphere, got %f", coords.X)
	}
	if coords.Y >= 0 {
		t.Errorf("expected negative Y for southern hemisphere, got %f", coords.Y)
	}
}
