package routenet

import (
	"math"
	"sort"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
)

// SnapToSelf snaps line to its own vertices within tolerance and returns the
// result as a new XY linestring tagged with the input's SRID.
//
// Vertices are first moved onto other vertices closer than tolerance, then
// vertices closer than tolerance to a segment are inserted into that
// segment. A line that nothing snaps comes back with identical coordinates.
func SnapToSelf(line *geom.LineString, tolerance float64) *geom.LineString {
	pts, ok := planarCoords(line)
	if !ok {
		return line
	}
	snapped := snapToSelf(pts, tolerance)
	flat := make([]float64, 0, 2*len(snapped))
	for _, c := range snapped {
		flat = append(flat, c[0], c[1])
	}
	return geom.NewLineStringFlat(geom.XY, flat).SetSRID(line.SRID())
}

func snapToSelf(src []geom.Coord, tolerance float64) []geom.Coord {
	targets := snapTargets(src)
	pts := make([]geom.Coord, len(src))
	for i, c := range src {
		pts[i] = geom.Coord{c[0], c[1]}
	}
	closed := len(pts) > 1 && equal2D(pts[0], pts[len(pts)-1])

	pts = snapVertices(pts, targets, tolerance, closed)
	return snapSegments(pts, targets, tolerance)
}

// snapTargets returns the distinct vertices of pts ordered by X then Y.
func snapTargets(pts []geom.Coord) []geom.Coord {
	targets := make([]geom.Coord, 0, len(pts))
	for _, p := range pts {
		targets = append(targets, geom.Coord{p[0], p[1]})
	}
	sort.Slice(targets, func(i, j int) bool {
		if targets[i][0] != targets[j][0] {
			return targets[i][0] < targets[j][0]
		}
		return targets[i][1] < targets[j][1]
	})
	out := targets[:0]
	for _, t := range targets {
		if len(out) > 0 && equal2D(out[len(out)-1], t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func snapVertices(pts, targets []geom.Coord, tolerance float64, closed bool) []geom.Coord {
	end := len(pts)
	if closed {
		end--
	}
	for i := 0; i < end; i++ {
		snap, ok := vertexSnap(pts[i], targets, tolerance)
		if !ok {
			continue
		}
		pts[i] = snap
		if i == 0 && closed {
			pts[len(pts)-1] = snap
		}
	}
	return pts
}

// vertexSnap scans targets in order; a vertex that meets itself first stays put.
func vertexSnap(p geom.Coord, targets []geom.Coord, tolerance float64) (geom.Coord, bool) {
	for _, t := range targets {
		if equal2D(p, t) {
			return nil, false
		}
		if distance2D(p, t) < tolerance {
			return geom.Coord{t[0], t[1]}, true
		}
	}
	return nil, false
}

func snapSegments(pts, targets []geom.Coord, tolerance float64) []geom.Coord {
	for _, t := range targets {
		i := segmentToSnap(t, pts, tolerance)
		if i < 0 {
			continue
		}
		pts = insertCoord(pts, i+1, geom.Coord{t[0], t[1]})
	}
	return pts
}

// segmentToSnap returns the index of the segment nearest to p within
// tolerance, skipping segments that already have p as an endpoint, or -1.
func segmentToSnap(p geom.Coord, pts []geom.Coord, tolerance float64) int {
	minDist := math.MaxFloat64
	index := -1
	for i := 0; i < len(pts)-1; i++ {
		p0, p1 := pts[i], pts[i+1]
		if equal2D(p0, p) || equal2D(p1, p) {
			continue
		}
		d := xy.DistanceFromPointToLine(p, p0, p1)
		if d < tolerance && d < minDist {
			minDist = d
			index = i
		}
	}
	return index
}

// insertCoord inserts c at position i unless it would repeat a neighbour.
func insertCoord(pts []geom.Coord, i int, c geom.Coord) []geom.Coord {
	if i > 0 && equal2D(pts[i-1], c) {
		return pts
	}
	if i < len(pts) && equal2D(pts[i], c) {
		return pts
	}
	pts = append(pts, nil)
	copy(pts[i+1:], pts[i:])
	pts[i] = c
	return pts
}
