package routenet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

func TestSnapToSelf_InsertsNearVertexIntoSegment(t *testing.T) {
	t.Parallel()

	line := xyLine(0, 0, 10, 0, 10, 5, 3, 5, 3, 0.007).SetSRID(SRID)
	snapped := SnapToSelf(line, DefaultTolerance)

	require.Equal(t, 6, snapped.NumCoords())
	assert.Equal(t, geom.Coord{3, 0.007}, snapped.Coord(1))
	assert.Equal(t, SRID, snapped.SRID())
}

func TestSnapToSelf_MovesVertexOntoNearVertex(t *testing.T) {
	t.Parallel()

	// (10,0.005) is within tolerance of (10,0) and sorts after it.
	line := xyLine(0, 0, 10, 0, 10, 0.005, 20, 5)
	snapped := SnapToSelf(line, DefaultTolerance)

	assert.Equal(t, geom.Coord{10, 0}, snapped.Coord(2))
}

func TestSnapToSelf_LeavesCleanLineUnchanged(t *testing.T) {
	t.Parallel()

	line := mustLine(t, wktEdgeFar)
	snapped := SnapToSelf(line, DefaultTolerance)

	assert.Equal(t, line.FlatCoords(), snapped.FlatCoords())
}

func TestSnapToSelf_InvalidLineReturnedAsIs(t *testing.T) {
	t.Parallel()

	line := xyLine(1, 1, 1, 1)
	assert.Same(t, line, SnapToSelf(line, DefaultTolerance))
}

func TestSnapTargets_SortedAndDistinct(t *testing.T) {
	t.Parallel()

	got := snapTargets([]geom.Coord{{5, 1}, {0, 0}, {5, 0}, {0, 0}})
	assert.Equal(t, []geom.Coord{{0, 0}, {5, 0}, {5, 1}}, got)
}

func TestInsertCoord_SkipsRepeats(t *testing.T) {
	t.Parallel()

	pts := []geom.Coord{{0, 0}, {10, 0}}
	assert.Len(t, insertCoord(pts, 1, geom.Coord{0, 0}), 2)
	assert.Len(t, insertCoord(pts, 1, geom.Coord{10, 0}), 2)

	got := insertCoord([]geom.Coord{{0, 0}, {10, 0}}, 1, geom.Coord{5, 0})
	assert.Equal(t, []geom.Coord{{0, 0}, {5, 0}, {10, 0}}, got)
}
