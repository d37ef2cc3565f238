package postgres

import (
	"encoding/binary"
	"fmt"

	"github.com/meikuraledutech/routenet"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkb"
)

// encodeWKB returns the little-endian 2D WKB of g. A zero SRID is taken to
// mean routenet.SRID; any other SRID is rejected since nothing is
// reprojected. Z and M ordinates are dropped to match the XY columns.
func encodeWKB(g geom.T) ([]byte, error) {
	if srid := g.SRID(); srid != 0 && srid != routenet.SRID {
		return nil, fmt.Errorf("%w: got %d", routenet.ErrSRIDMismatch, srid)
	}
	g, err := forceXY(g)
	if err != nil {
		return nil, err
	}
	return wkb.Marshal(g, binary.LittleEndian)
}

func forceXY(g geom.T) (geom.T, error) {
	if g.Empty() {
		return nil, &routenet.ValidationError{Reason: routenet.InvalidGeometry}
	}
	if g.Layout() == geom.XY {
		return g, nil
	}
	switch g := g.(type) {
	case *geom.Point:
		return geom.NewPointFlat(geom.XY, []float64{g.X(), g.Y()}).SetSRID(g.SRID()), nil
	case *geom.LineString:
		flat := make([]float64, 0, 2*g.NumCoords())
		for _, c := range g.Coords() {
			flat = append(flat, c[0], c[1])
		}
		return geom.NewLineStringFlat(geom.XY, flat).SetSRID(g.SRID()), nil
	}
	return nil, fmt.Errorf("%w: unsupported geometry %T", routenet.ErrValidation, g)
}

func decodePoint(b []byte) (*geom.Point, error) {
	g, err := wkb.Unmarshal(b)
	if err != nil {
		return nil, err
	}
	p, ok := g.(*geom.Point)
	if !ok {
		return nil, fmt.Errorf("unexpected geometry type %T", g)
	}
	return p.SetSRID(routenet.SRID), nil
}

func decodeLineString(b []byte) (*geom.LineString, error) {
	g, err := wkb.Unmarshal(b)
	if err != nil {
		return nil, err
	}
	ls, ok := g.(*geom.LineString)
	if !ok {
		return nil, fmt.Errorf("unexpected geometry type %T", g)
	}
	return ls.SetSRID(routenet.SRID), nil
}

// deref returns the value of a nullable text column, or "".
func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
