package routenet

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkt"
)

// Lines drawn by users around Endelave, EPSG:25832.
const (
	wktSimple          = "LINESTRING(578223.64355838 6179284.23759438, 578238.4182511 6179279.78494725)"
	wktEndsSnapped     = "LINESTRING(578241.656539916 6179263.6946997,578230.221332537 6179263.2899136,578229.715349909 6179272.70119047,578241.352950339 6179273.40956615,578241.656539916 6179263.6946997)"
	wktSelfIntersects  = "LINESTRING(578246.766964452 6179292.47246163,578228.753982917 6179292.77605121,578229.867144697 6179305.830403,578241.909531229 6179304.81843774,578239.076028516 6179286.70425968)"
	wktEndOnEdge       = "LINESTRING(578268.32182438 6179249.86872441,578252.029183777 6179249.76752788,578252.332773354 6179266.56615111,578263.261998106 6179266.56615111,578263.667592312 6179249.83981613)"
	wktEndsAtTolerance = "LINESTRING(578257.898582255 6179230.84377762,578248.38610886 6179230.74258109,578248.487305386 6179238.43351703,578257.79738573 6179238.3323205,578257.898582255 6179230.85514246)"
	wktEndsTooClose    = "LINESTRING(578257.898582255 6179230.84377762,578248.38610886 6179230.74258109,578248.487305386 6179238.43351703,578257.79738573 6179238.3323205,578257.898186956 6179230.84901533)"
	wktEdgeFar         = "LINESTRING(578257.898582255 6179230.84377762,578248.38610886 6179230.74258109,578248.487305386 6179238.43351703,578257.79738573 6179238.3323205,578256.8130914 6179230.85534011)"
	wktEdgeNear        = "LINESTRING(578257.898582255 6179230.84377762,578248.38610886 6179230.74258109,578248.487305386 6179238.43351703,578257.79738573 6179238.3323205,578256.811707854 6179230.83918227)"
)

func mustLine(t *testing.T, s string) *geom.LineString {
	t.Helper()
	g, err := wkt.Unmarshal(s)
	require.NoError(t, err)
	line, ok := g.(*geom.LineString)
	require.True(t, ok, "expected LINESTRING, got %T", g)
	return line
}

func xyLine(coords ...float64) *geom.LineString {
	return geom.NewLineStringFlat(geom.XY, coords)
}

func TestValidateSegment_DrawnLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		wkt  string
		want Reason
	}{
		{"simple line", wktSimple, Valid},
		{"ends snapped together", wktEndsSnapped, Closed},
		{"self intersection", wktSelfIntersects, NotSimple},
		{"ends distance at tolerance", wktEndsAtTolerance, Valid},
		{"ends distance less than tolerance", wktEndsTooClose, EndpointsTooClose},
		{"end 0.023 from edge", wktEdgeFar, Valid},
		{"end 0.007 from edge", wktEdgeNear, EndpointNearEdge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ValidateSegmentDefault(mustLine(t, tt.wkt))
			assert.Equal(t, tt.want, got.Reason, "got %s", got.Reason)
		})
	}
}

func TestValidateSegment_EndSnappedToEdge(t *testing.T) {
	t.Parallel()

	// The end lands on the first segment to within float precision; either
	// the simplicity or the snap check must reject it.
	got := ValidateSegmentDefault(mustLine(t, wktEndOnEdge))
	assert.False(t, got.OK())
	assert.Contains(t, []Reason{NotSimple, EndpointNearEdge}, got.Reason)
}

func TestValidateSegment_EdgeDistanceFixtures(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		wkt  string
		want float64
	}{
		{wktEdgeFar, 0.023},
		{wktEdgeNear, 0.007},
	} {
		line := mustLine(t, tc.wkt)
		n := line.NumCoords()
		end := line.Coord(n - 1)
		d := math.MaxFloat64
		for i := 0; i < n-2; i++ {
			d = math.Min(d, distancePointSegment(end, line.Coord(i), line.Coord(i+1)))
		}
		assert.InDelta(t, tc.want, d, 0.0005)
	}
}

func distancePointSegment(p, a, b geom.Coord) float64 {
	dx, dy := b[0]-a[0], b[1]-a[1]
	r := ((p[0]-a[0])*dx + (p[1]-a[1])*dy) / (dx*dx + dy*dy)
	r = math.Max(0, math.Min(1, r))
	return math.Hypot(p[0]-(a[0]+r*dx), p[1]-(a[1]+r*dy))
}

func TestValidateSegment_InvalidGeometry(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		line *geom.LineString
	}{
		{"nil", nil},
		{"empty", geom.NewLineString(geom.XY)},
		{"single repeated point", xyLine(1, 1, 1, 1)},
		{"NaN ordinate", xyLine(0, 0, math.NaN(), 1)},
		{"infinite ordinate", xyLine(0, 0, math.Inf(1), 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateSegmentDefault(tt.line)
			assert.Equal(t, InvalidGeometry, got.Reason)
		})
	}
}

func TestValidateSegment_NotSimple(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		line *geom.LineString
	}{
		{"crossing", xyLine(0, 0, 10, 0, 5, -5, 5, 5)},
		{"fold back", xyLine(0, 0, 10, 0, 5, 0)},
		{"end touches interior", xyLine(0, 0, 10, 0, 10, 10, 5, 0)},
		{"passes vertex twice", xyLine(0, 0, 10, 0, 10, 10, 0, 10, 10, 0, 20, 0)},
		{"collinear overlap", xyLine(0, 0, 10, 0, 10, 5, 5, 5, 5, 0, 15, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateSegmentDefault(tt.line)
			assert.Equal(t, NotSimple, got.Reason)
		})
	}
}

func TestValidateSegment_Closed(t *testing.T) {
	t.Parallel()

	for _, line := range []*geom.LineString{
		xyLine(0, 0, 10, 0, 10, 10, 0, 0),
		xyLine(0, 0, 10, 0, 10, 10, 0, 10, 0, 0),
		mustLine(t, wktEndsSnapped),
	} {
		assert.Equal(t, Closed, ValidateSegmentDefault(line).Reason)
	}
}

func TestValidateSegment_EndpointDistanceBoundary(t *testing.T) {
	t.Parallel()

	// Endpoints (0,0) and (0,0.5) are exactly 0.5 apart.
	line := xyLine(0, 0, 10, 0, 10, 10, 0, 10, 0, 0.5)

	assert.Equal(t, Valid, ValidateSegment(line, 0.5).Reason, "distance equal to tolerance is accepted")
	assert.Equal(t, EndpointsTooClose, ValidateSegment(line, 0.5000001).Reason)
	assert.Equal(t, Valid, ValidateSegment(line, 0.25).Reason)
}

func TestValidateSegment_EndpointDistanceAtDefaultTolerance(t *testing.T) {
	t.Parallel()

	// Endpoints (0,0) and (0,0.01) are exactly DefaultTolerance apart.
	atTolerance := xyLine(0, 0, 10, 0, 10, 10, 0, 10, 0, 0.01)
	justInside := xyLine(0, 0, 10, 0, 10, 10, 0, 10, 0, 0.009)

	assert.Equal(t, Valid, ValidateSegment(atTolerance, 0.01).Reason)
	assert.Equal(t, Valid, ValidateSegmentDefault(atTolerance).Reason)
	assert.Equal(t, EndpointsTooClose, ValidateSegment(justInside, 0.01).Reason)
}

func TestValidateSegment_EndpointsTooClose(t *testing.T) {
	t.Parallel()

	for _, gap := range []float64{0.001, 0.005, 0.0099} {
		line := xyLine(0, 0, 10, 0, 10, 10, 0, 10, 0, gap)
		assert.Equal(t, EndpointsTooClose, ValidateSegmentDefault(line).Reason, "gap %v", gap)
	}
}

func TestValidateSegment_EndpointNearEdge(t *testing.T) {
	t.Parallel()

	near := xyLine(0, 0, 10, 0, 10, 5, 3, 5, 3, 0.007)
	far := xyLine(0, 0, 10, 0, 10, 5, 3, 5, 3, 0.023)

	assert.Equal(t, EndpointNearEdge, ValidateSegmentDefault(near).Reason)
	assert.Equal(t, Valid, ValidateSegmentDefault(far).Reason)
}

func TestValidateSegment_RepeatedVerticesAccepted(t *testing.T) {
	t.Parallel()

	line := xyLine(0, 0, 5, 0, 5, 0, 10, 5)
	assert.Equal(t, Valid, ValidateSegmentDefault(line).Reason)
}

func TestValidateSegment_NegativeToleranceClamped(t *testing.T) {
	t.Parallel()

	line := xyLine(0, 0, 10, 0, 10, 5, 3, 5, 3, 0.007)
	assert.Equal(t, Valid, ValidateSegment(line, -1).Reason)
	assert.Equal(t, Valid, ValidateSegment(line, math.NaN()).Reason)
}

func TestValidateSegment_IgnoresZ(t *testing.T) {
	t.Parallel()

	line := geom.NewLineStringFlat(geom.XYZ, []float64{0, 0, 1, 10, 0, 2, 10, 5, 3})
	assert.Equal(t, Valid, ValidateSegmentDefault(line).Reason)
}

func TestValidateSegment_ConcurrentCallsAgree(t *testing.T) {
	t.Parallel()

	lines := []*geom.LineString{
		mustLine(t, wktSimple),
		mustLine(t, wktSelfIntersects),
		mustLine(t, wktEdgeNear),
		mustLine(t, wktEndsTooClose),
	}
	want := make([]Reason, len(lines))
	for i, l := range lines {
		want[i] = ValidateSegmentDefault(l).Reason
	}

	var wg sync.WaitGroup
	got := make([][]Reason, 8)
	for w := range got {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for _, l := range lines {
				got[w] = append(got[w], ValidateSegmentDefault(l).Reason)
			}
		}(w)
	}
	wg.Wait()

	for _, g := range got {
		assert.Equal(t, want, g)
	}
}

func TestResult_Err(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Result{Reason: Valid}.Err())

	err := Result{Reason: EndpointNearEdge}.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, EndpointNearEdge, verr.Reason)
	assert.Contains(t, err.Error(), "endpoint_near_edge")
}

func TestReason_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "valid", Valid.String())
	assert.Equal(t, "not_simple", NotSimple.String())
	assert.Equal(t, "closed", Closed.String())
	assert.Equal(t, "reason(42)", Reason(42).String())
}
