package geo

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/compmap/eventmap/pkg/core"
	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/wroge/wgs84"
)

// ErrInvalidCoordinates is returned when the coordinates are invalid
var ErrInvalidCoordinates = errors.New("invalid coordinates provided")

// ParseCoordinate parses a longitude or latitude field. Surrounding
// whitespace is ignored; empty, non-numeric and non-finite values (NaN,
// Inf) are rejected.
func ParseCoordinate(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidCoordinates
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrInvalidCoordinates
	}
	return v, nil
}

// Position2DFromStrings parses a longitude/latitude pair.
func Position2DFromStrings(longitude, latitude string) (core.Position2D, error) {
	long, err := ParseCoordinate(longitude)
	if err != nil {
		return core.Position2D{}, err
	}
	lat, err := ParseCoordinate(latitude)
	if err != nil {
		return core.Position2D{}, err
	}
	return core.Position2D{Longitude: long, Latitude: lat}, nil
}

// Coords3857From4326 creates a Web Mercator point from a longitude and latitude
func Coords3857From4326(
	longitude float64,
	latitude float64,
) (
	point geom.Point,
	err error,
) {
	epsg := wgs84.EPSG()
	f := epsg.Transform(4326, 3857)
	x, y, _ := f(longitude, latitude, 0)
	point = geom.NewPoint(
		geom.Coordinates{
			XY: geom.XY{X: x, Y: y},
			Z:  0,
		},
	)
	return point, nil
}
