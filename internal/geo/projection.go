package geo

import (
	"github.com/compmap/eventmap/pkg/core"
)

// earthRadius is the sphere radius used by EPSG:3857.
const earthRadius = 6378137.0

// Projection maps geographic coordinates onto the drawing surface with a
// spherical Mercator projection. Scale is expressed in pixels per radian, so
// a scale of 500 matches the usual web-map convention.
type Projection struct {
	center    core.Position2D
	scale     float64
	translate core.Point

	// web mercator metres of the centre, cached
	cx, cy float64
}

// NewMercator returns a projection centred on center, drawn at translate.
func NewMercator(center core.Position2D, scale float64, translate core.Point) *Projection {
	p := &Projection{
		center:    center,
		scale:     scale,
		translate: translate,
	}
	p.cx, p.cy = mercatorMetres(center)
	return p
}

// NewViewportMercator centres the projection in a width x height viewport.
func NewViewportMercator(center core.Position2D, scale, width, height float64) *Projection {
	return NewMercator(center, scale, core.Point{X: width / 2, Y: height / 2})
}

// Project maps a longitude/latitude to surface pixels.
func (p *Projection) Project(pos core.Position2D) core.Point {
	x, y := mercatorMetres(pos)
	k := p.scale / earthRadius
	return core.Point{
		X: p.translate.X + k*(x-p.cx),
		Y: p.translate.Y - k*(y-p.cy),
	}
}

// Center returns the geographic centre of the projection.
func (p *Projection) Center() core.Position2D {
	return p.center
}

// Scale returns the projection scale.
func (p *Projection) Scale() float64 {
	return p.scale
}

func mercatorMetres(pos core.Position2D) (float64, float64) {
	point, _ := Coords3857From4326(pos.Longitude, pos.Latitude)
	coords, ok := point.Coordinates()
	if !ok {
		return 0, 0
	}
	return coords.X, coords.Y
}
