package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/meikuraledutech/routenet"
	"github.com/sirupsen/logrus"
)

const insertSQL = `INSERT INTO %s (mrid, coord, work_task_mrid, user_name, application_name)
VALUES ($1, ST_GeomFromWKB($2, %d), $3, $4, $5)`

const selectSQL = `SELECT mrid, ST_AsBinary(coord), work_task_mrid, user_name, application_name
FROM %s WHERE mrid = $1`

// InsertNode inserts a single node into the schema's route_node table.
// If node.MRID or node.WorkTaskMRID is zero, a UUID is auto-generated for it
// and written back into node before the insert runs, so a failed insert still
// leaves the generated ids in place. Returns the node MRID (generated or provided).
func (s *PGStore) InsertNode(ctx context.Context, schema string, node *routenet.RouteNode) (uuid.UUID, error) {
	schema, err := routenet.NormalizeSchema(schema)
	if err != nil {
		return uuid.Nil, err
	}
	if node == nil || node.Coord == nil {
		return uuid.Nil, fmt.Errorf("routenet: insert node: %w", &routenet.ValidationError{Reason: routenet.InvalidGeometry})
	}

	coord, err := encodeWKB(node.Coord)
	if err != nil {
		return uuid.Nil, fmt.Errorf("routenet: insert node: %w", err)
	}
	if node.MRID == uuid.Nil {
		node.MRID = uuid.New()
	}
	if node.WorkTaskMRID == uuid.Nil {
		node.WorkTaskMRID = uuid.New()
	}

	err = s.exec(ctx,
		fmt.Sprintf(insertSQL, table(schema, nodeTable), routenet.SRID),
		node.MRID, coord, node.WorkTaskMRID, routenet.Actor(node.UserName), routenet.Actor(node.ApplicationName),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("routenet: insert node %s: %w", node.MRID, err)
	}

	s.log.WithFields(logrus.Fields{"schema": schema, "table": nodeTable, "mrid": node.MRID}).Debug("route node inserted")
	return node.MRID, nil
}

// GetNode fetches a single node by its MRID.
// Returns nil, nil if not found.
func (s *PGStore) GetNode(ctx context.Context, schema string, id uuid.UUID) (*routenet.RouteNode, error) {
	schema, err := routenet.NormalizeSchema(schema)
	if err != nil {
		return nil, err
	}

	conn, err := s.acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("routenet: get node: %w", err)
	}
	defer conn.Release()

	var (
		n         routenet.RouteNode
		coord     []byte
		user, app *string
	)
	err = conn.QueryRow(ctx, fmt.Sprintf(selectSQL, table(schema, nodeTable)), id).
		Scan(&n.MRID, &coord, &n.WorkTaskMRID, &user, &app)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("routenet: get node: %w", classify(err))
	}

	if n.Coord, err = decodePoint(coord); err != nil {
		return nil, fmt.Errorf("routenet: get node %s: decode coord: %w", id, err)
	}
	n.UserName, n.ApplicationName = deref(user), deref(app)
	return &n, nil
}

// CountNodes returns the number of rows in the schema's route_node table.
func (s *PGStore) CountNodes(ctx context.Context, schema string) (int64, error) {
	return s.count(ctx, schema, nodeTable)
}

func (s *PGStore) count(ctx context.Context, schema, name string) (int64, error) {
	schema, err := routenet.NormalizeSchema(schema)
	if err != nil {
		return 0, err
	}

	conn, err := s.acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("routenet: count %s: %w", name, err)
	}
	defer conn.Release()

	var n int64
	if err := conn.QueryRow(ctx, `SELECT count(*) FROM `+table(schema, name)).Scan(&n); err != nil {
		return 0, fmt.Errorf("routenet: count %s: %w", name, classify(err))
	}
	return n, nil
}
