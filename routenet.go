package routenet

import (
	"strings"

	"github.com/google/uuid"
	"github.com/twpayne/go-geom"
)

// SRID is the coordinate reference system of every stored geometry
// (ETRS89 / UTM zone 32N). Geometry is never reprojected.
const SRID = 25832

// DefaultTolerance is the snap and endpoint tolerance, in map units, used by
// ValidateSegmentDefault.
const DefaultTolerance = 0.01

// defaultActor is written to user_name / application_name when the caller
// leaves them blank.
const defaultActor = "test"

// RouteNode is a physical node of the route network.
// A zero MRID or WorkTaskMRID is filled with a fresh UUID on insert.
type RouteNode struct {
	MRID            uuid.UUID   `json:"mrid"`
	Coord           *geom.Point `json:"-"`
	WorkTaskMRID    uuid.UUID   `json:"work_task_mrid"`
	UserName        string      `json:"user_name"`
	ApplicationName string      `json:"application_name"`
}

// RouteSegment is a cable, duct or similar span between nodes.
// Its Coord is expected to have passed ValidateSegment; the store does not check.
type RouteSegment struct {
	MRID            uuid.UUID        `json:"mrid"`
	Coord           *geom.LineString `json:"-"`
	WorkTaskMRID    uuid.UUID        `json:"work_task_mrid"`
	UserName        string           `json:"user_name"`
	ApplicationName string           `json:"application_name"`
}

// NormalizeSchema lower-cases and trims a schema name so that "Test" and
// "test" address the same namespace. Blank names yield ErrInvalidSchema.
func NormalizeSchema(name string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(name))
	if s == "" {
		return "", ErrInvalidSchema
	}
	return s, nil
}

// Actor returns name, or the default actor name when name is blank.
func Actor(name string) string {
	if strings.TrimSpace(name) == "" {
		return defaultActor
	}
	return name
}
