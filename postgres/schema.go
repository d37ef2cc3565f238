package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/meikuraledutech/routenet"
	"github.com/sirupsen/logrus"
)

const (
	nodeTable    = "route_node"
	segmentTable = "route_segment"
)

const routeNodeSQL = `
CREATE TABLE %s (
    mrid             UUID PRIMARY KEY,
    coord            GEOMETRY(Point, %d),
    work_task_mrid   UUID,
    user_name        VARCHAR(255),
    application_name VARCHAR(255)
)`

const routeSegmentSQL = `
CREATE TABLE %s (
    mrid             UUID PRIMARY KEY,
    coord            GEOMETRY(Linestring, %d),
    work_task_mrid   UUID,
    user_name        VARCHAR(255),
    application_name VARCHAR(255)
)`

type ddlStep struct {
	name string
	sql  string
}

// createSteps lists the DDL for a fresh route network schema, in order.
func createSteps(schema string) []ddlStep {
	return []ddlStep{
		{"enable postgis", `CREATE EXTENSION IF NOT EXISTS postgis`},
		{"create schema", `CREATE SCHEMA IF NOT EXISTS ` + pgx.Identifier{schema}.Sanitize()},
		{"create route_node", fmt.Sprintf(routeNodeSQL, table(schema, nodeTable), routenet.SRID)},
		{"index route_node", fmt.Sprintf(`CREATE INDEX route_node_coord_idx ON %s USING gist (coord)`, table(schema, nodeTable))},
		{"create route_segment", fmt.Sprintf(routeSegmentSQL, table(schema, segmentTable), routenet.SRID)},
		{"index route_segment", fmt.Sprintf(`CREATE INDEX route_segment_coord_idx ON %s USING gist (coord)`, table(schema, segmentTable))},
	}
}

// CreateSchema drops any existing schema of the same name, then creates it
// with the route_node and route_segment tables and their spatial indexes.
// A failing step leaves the steps before it in place.
func (s *PGStore) CreateSchema(ctx context.Context, schema string) error {
	schema, err := routenet.NormalizeSchema(schema)
	if err != nil {
		return err
	}
	if err := s.DropSchema(ctx, schema); err != nil {
		return err
	}

	conn, err := s.acquire(ctx)
	if err != nil {
		return fmt.Errorf("routenet: create schema %s: %w", schema, err)
	}
	defer conn.Release()

	for _, step := range createSteps(schema) {
		if _, err := conn.Exec(ctx, step.sql); err != nil {
			return fmt.Errorf("routenet: create schema %s: %s: %w", schema, step.name, classify(err))
		}
		s.log.WithFields(logrus.Fields{"schema": schema, "step": step.name}).Debug("schema step applied")
	}

	s.log.WithField("schema", schema).Info("route network schema created")
	return nil
}

// DropSchema removes the schema and everything in it.
// No error if the schema doesn't exist.
func (s *PGStore) DropSchema(ctx context.Context, schema string) error {
	schema, err := routenet.NormalizeSchema(schema)
	if err != nil {
		return err
	}

	err = s.exec(ctx, `DROP SCHEMA IF EXISTS `+pgx.Identifier{schema}.Sanitize()+` CASCADE`)
	if err != nil {
		return fmt.Errorf("routenet: drop schema %s: %w", schema, err)
	}

	s.log.WithField("schema", schema).Debug("route network schema dropped")
	return nil
}

// SchemaExists reports whether the namespace is present.
func (s *PGStore) SchemaExists(ctx context.Context, schema string) (bool, error) {
	schema, err := routenet.NormalizeSchema(schema)
	if err != nil {
		return false, err
	}

	conn, err := s.acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("routenet: schema exists: %w", err)
	}
	defer conn.Release()

	var exists bool
	err = conn.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM information_schema.schemata WHERE schema_name = $1)`, schema,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("routenet: schema exists: %w", classify(err))
	}
	return exists, nil
}
