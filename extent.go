package routenet

import "github.com/twpayne/go-geom"

// Extent is an axis-aligned rectangle in SRID 25832 map units.
type Extent struct {
	MinX, MinY, MaxX, MaxY float64
}

// DenmarkExtent covers mainland Denmark and its islands in EPSG:25832.
var DenmarkExtent = Extent{MinX: 380000, MinY: 6009000, MaxX: 900000, MaxY: 6420000}

// WithinExtent reports whether the bounding box of g lies inside e.
// Empty geometries are never within an extent.
func WithinExtent(g geom.T, e Extent) bool {
	if g == nil {
		return false
	}
	b := g.Bounds()
	if b.IsEmpty() {
		return false
	}
	return b.Min(0) >= e.MinX && b.Max(0) <= e.MaxX &&
		b.Min(1) >= e.MinY && b.Max(1) <= e.MaxY
}
