package core

// ViewTransform is the pan/zoom transform applied to map layers.
// A point p is drawn at (p.X*K + X, p.Y*K + Y).
type ViewTransform struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	K float64 `json:"k"`
}

// Identity is the initial, unzoomed transform.
var Identity = ViewTransform{K: 1}

// Apply maps a layer point to screen space.
func (t ViewTransform) Apply(p Point) Point {
	return Point{X: p.X*t.K + t.X, Y: p.Y*t.K + t.Y}
}

// Invert maps a screen point back into layer space.
func (t ViewTransform) Invert(p Point) Point {
	return Point{X: (p.X - t.X) / t.K, Y: (p.Y - t.Y) / t.K}
}

// IsIdentity reports whether t leaves points unchanged.
func (t ViewTransform) IsIdentity() bool {
	return t.X == 0 && t.Y == 0 && t.K == 1
}
