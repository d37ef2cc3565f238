package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/meikuraledutech/routenet"
	"github.com/sirupsen/logrus"
)

// InsertSegment inserts a single segment into the schema's route_segment table.
// Zero MRID and WorkTaskMRID are generated independently and written back
// into seg before the insert runs; they stay set if the insert fails.
// The line is stored as given (Z and M dropped); run routenet.ValidateSegment
// first if it came from a user.
func (s *PGStore) InsertSegment(ctx context.Context, schema string, seg *routenet.RouteSegment) (uuid.UUID, error) {
	schema, err := routenet.NormalizeSchema(schema)
	if err != nil {
		return uuid.Nil, err
	}
	if seg == nil || seg.Coord == nil {
		return uuid.Nil, fmt.Errorf("routenet: insert segment: %w", &routenet.ValidationError{Reason: routenet.InvalidGeometry})
	}

	coord, err := encodeWKB(seg.Coord)
	if err != nil {
		return uuid.Nil, fmt.Errorf("routenet: insert segment: %w", err)
	}
	if seg.MRID == uuid.Nil {
		seg.MRID = uuid.New()
	}
	if seg.WorkTaskMRID == uuid.Nil {
		seg.WorkTaskMRID = uuid.New()
	}

	err = s.exec(ctx,
		fmt.Sprintf(insertSQL, table(schema, segmentTable), routenet.SRID),
		seg.MRID, coord, seg.WorkTaskMRID, routenet.Actor(seg.UserName), routenet.Actor(seg.ApplicationName),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("routenet: insert segment %s: %w", seg.MRID, err)
	}

	s.log.WithFields(logrus.Fields{"schema": schema, "table": segmentTable, "mrid": seg.MRID}).Debug("route segment inserted")
	return seg.MRID, nil
}

// GetSegment fetches a single segment by its MRID.
// Returns nil, nil if not found.
func (s *PGStore) GetSegment(ctx context.Context, schema string, id uuid.UUID) (*routenet.RouteSegment, error) {
	schema, err := routenet.NormalizeSchema(schema)
	if err != nil {
		return nil, err
	}

	conn, err := s.acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("routenet: get segment: %w", err)
	}
	defer conn.Release()

	var (
		seg       routenet.RouteSegment
		coord     []byte
		user, app *string
	)
	err = conn.QueryRow(ctx, fmt.Sprintf(selectSQL, table(schema, segmentTable)), id).
		Scan(&seg.MRID, &coord, &seg.WorkTaskMRID, &user, &app)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("routenet: get segment: %w", classify(err))
	}

	if seg.Coord, err = decodeLineString(coord); err != nil {
		return nil, fmt.Errorf("routenet: get segment %s: decode coord: %w", id, err)
	}
	seg.UserName, seg.ApplicationName = deref(user), deref(app)
	return &seg, nil
}

// CountSegments returns the number of rows in the schema's route_segment table.
func (s *PGStore) CountSegments(ctx context.Context, schema string) (int64, error) {
	return s.count(ctx, schema, segmentTable)
}
