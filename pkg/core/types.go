package core

// Position2D is a longitude/latitude pair in degrees (EPSG:4326).
type Position2D struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// Point is a projected surface coordinate in pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}
