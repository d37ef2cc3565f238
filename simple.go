package routenet

import (
	sf "github.com/peterstace/simplefeatures/geom"
	"github.com/twpayne/go-geom"
)

// planar builds the simplefeatures form of pts, used for the OGC
// well-formedness and simplicity predicates.
func planar(pts []geom.Coord) sf.LineString {
	flat := make([]float64, 0, 2*len(pts))
	for _, c := range pts {
		flat = append(flat, c[0], c[1])
	}
	return sf.NewLineString(sf.NewSequence(flat, sf.DimXY))
}

// wellFormed reports whether pts has finite ordinates and at least two
// distinct points.
func wellFormed(pts []geom.Coord) bool {
	return len(pts) > 1 && planar(pts).Validate() == nil
}

// isSimple reports whether the line through pts only touches itself where
// adjacent segments share a vertex or, for a closed line, at the closing
// vertex. Repeated vertices are ignored.
func isSimple(pts []geom.Coord) bool {
	return planar(pts).IsSimple()
}
