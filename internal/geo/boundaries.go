package geo

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/compmap/eventmap/pkg/core"
	geojson "github.com/paulmach/go.geojson"
	geom "github.com/peterstace/simplefeatures/geom"
)

// Region is one boundary feature (a country) with its polygon rings.
// Each polygon is a list of rings; the first ring is the outer boundary.
type Region struct {
	Name     string
	Polygons [][]geom.LineString
}

// ReadRegions decodes a GeoJSON FeatureCollection of Polygon and
// MultiPolygon features. Other geometry types are skipped.
func ReadRegions(r io.Reader) ([]Region, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read boundaries: %w", err)
	}
	return ParseRegions(data)
}

// ParseRegions decodes GeoJSON bytes into regions.
func ParseRegions(data []byte) ([]Region, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse boundaries GeoJSON: %w", err)
	}

	regions := make([]Region, 0, len(fc.Features))
	for i, f := range fc.Features {
		if f.Geometry == nil {
			continue
		}
		region := Region{Name: featureName(f)}

		switch {
		case f.Geometry.IsPolygon():
			poly, err := ringsToLineStrings(f.Geometry.Polygon)
			if err != nil {
				return nil, fmt.Errorf("feature %d: %w", i, err)
			}
			region.Polygons = append(region.Polygons, poly)
		case f.Geometry.IsMultiPolygon():
			for _, p := range f.Geometry.MultiPolygon {
				poly, err := ringsToLineStrings(p)
				if err != nil {
					return nil, fmt.Errorf("feature %d: %w", i, err)
				}
				region.Polygons = append(region.Polygons, poly)
			}
		default:
			continue
		}
		regions = append(regions, region)
	}
	return regions, nil
}

func featureName(f *geojson.Feature) string {
	for _, key := range []string{"name", "NAME", "admin", "ADMIN"} {
		if name, err := f.PropertyString(key); err == nil && name != "" {
			return name
		}
	}
	return ""
}

func ringsToLineStrings(rings [][][]float64) ([]geom.LineString, error) {
	out := make([]geom.LineString, 0, len(rings))
	for j, ring := range rings {
		flat := make([]float64, 0, len(ring)*2)
		for k, c := range ring {
			if len(c) < 2 {
				return nil, fmt.Errorf("ring %d coordinate %d has insufficient values", j, k)
			}
			flat = append(flat, c[0], c[1])
		}
		seq := geom.NewSequence(flat, geom.DimXY)
		out = append(out, geom.NewLineString(seq))
	}
	return out, nil
}

// PathData projects a region into SVG path data. Each ring becomes a
// closed subpath.
func (p *Projection) PathData(region Region) string {
	var b strings.Builder
	for _, poly := range region.Polygons {
		for _, ring := range poly {
			seq := ring.Coordinates()
			n := seq.Length()
			if n == 0 {
				continue
			}
			for i := 0; i < n; i++ {
				c := seq.Get(i)
				pt := p.Project(core.Position2D{Longitude: c.X, Latitude: c.Y})
				if i == 0 {
					b.WriteByte('M')
				} else {
					b.WriteByte('L')
				}
				b.WriteString(formatFloat(pt.X))
				b.WriteByte(',')
				b.WriteString(formatFloat(pt.Y))
			}
			b.WriteByte('Z')
		}
	}
	return b.String()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
