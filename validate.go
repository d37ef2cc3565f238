package routenet

import (
	"fmt"
	"math"

	"github.com/twpayne/go-geom"
)

// Reason is the outcome of ValidateSegment. The zero value is Valid.
type Reason int

const (
	Valid Reason = iota
	InvalidGeometry
	NotSimple
	Closed
	EndpointsTooClose
	EndpointNearEdge
)

var reasonNames = [...]string{
	Valid:             "valid",
	InvalidGeometry:   "invalid_geometry",
	NotSimple:         "not_simple",
	Closed:            "closed",
	EndpointsTooClose: "endpoints_too_close",
	EndpointNearEdge:  "endpoint_near_edge",
}

func (r Reason) String() string {
	if r < 0 || int(r) >= len(reasonNames) {
		return fmt.Sprintf("reason(%d)", int(r))
	}
	return reasonNames[r]
}

// Result is the reason-coded verdict on a candidate route segment.
type Result struct {
	Reason Reason `json:"reason"`
}

// OK reports whether the line was accepted.
func (r Result) OK() bool { return r.Reason == Valid }

// Err returns nil for an accepted line and a *ValidationError otherwise.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	return &ValidationError{Reason: r.Reason}
}

// ValidationError carries the reason a line was rejected. It matches ErrValidation.
type ValidationError struct {
	Reason Reason
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("routenet: geometry rejected: %s", e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// ValidateSegmentDefault validates line with DefaultTolerance.
func ValidateSegmentDefault(line *geom.LineString) Result {
	return ValidateSegment(line, DefaultTolerance)
}

// ValidateSegment decides whether a user-drawn line is acceptable as a route
// segment. Checks run in order and the first failure wins:
//
//  1. well-formed (finite ordinates, at least two distinct points)
//  2. simple (no self-intersection)
//  3. not closed
//  4. endpoints at least tolerance apart
//  5. unchanged by snapping to itself with tolerance
//
// Only X and Y are considered. ValidateSegment has no side effects and is safe
// for concurrent use.
func ValidateSegment(line *geom.LineString, tolerance float64) Result {
	if math.IsNaN(tolerance) || tolerance < 0 {
		tolerance = 0
	}

	pts, ok := planarCoords(line)
	if !ok {
		return Result{Reason: InvalidGeometry}
	}
	if !isSimple(pts) {
		return Result{Reason: NotSimple}
	}

	first, last := pts[0], pts[len(pts)-1]
	if equal2D(first, last) {
		return Result{Reason: Closed}
	}
	if distance2D(first, last) < tolerance {
		return Result{Reason: EndpointsTooClose}
	}
	if !sameCoords(snapToSelf(pts, tolerance), pts) {
		return Result{Reason: EndpointNearEdge}
	}
	return Result{Reason: Valid}
}

// planarCoords returns the XY coordinates of line, or false if the line is
// not a well-formed linestring.
func planarCoords(line *geom.LineString) ([]geom.Coord, bool) {
	if line == nil || line.Empty() || line.Layout().Stride() < 2 {
		return nil, false
	}
	n := line.NumCoords()
	pts := make([]geom.Coord, n)
	for i := 0; i < n; i++ {
		c := line.Coord(i)
		pts[i] = geom.Coord{c[0], c[1]}
	}
	if !wellFormed(pts) {
		return nil, false
	}
	return pts, true
}

func equal2D(a, b geom.Coord) bool {
	return a[0] == b[0] && a[1] == b[1]
}

func sameCoords(a, b []geom.Coord) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !equal2D(a[i], b[i]) {
			return false
		}
	}
	return true
}

func distance2D(a, b geom.Coord) float64 {
	return math.Hypot(b[0]-a[0], b[1]-a[1])
}
