package routenet

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrValidation          = errors.New("routenet: geometry rejected")
	ErrConnection          = errors.New("routenet: store connection failure")
	ErrConstraintViolation = errors.New("routenet: constraint violation")
	ErrSchemaState         = errors.New("routenet: missing or incompatible schema")
	ErrInvalidSchema       = fmt.Errorf("%w: schema name is empty", ErrSchemaState)
	ErrSRIDMismatch        = fmt.Errorf("%w: geometry srid is not 25832", ErrValidation)
)

// Store defines the contract for managing route network schemas and
// persisting nodes and segments. Every call names its schema explicitly.
type Store interface {
	// Schema
	CreateSchema(ctx context.Context, schema string) error
	DropSchema(ctx context.Context, schema string) error
	SchemaExists(ctx context.Context, schema string) (bool, error)

	// Nodes
	InsertNode(ctx context.Context, schema string, node *RouteNode) (uuid.UUID, error)
	GetNode(ctx context.Context, schema string, id uuid.UUID) (*RouteNode, error)
	CountNodes(ctx context.Context, schema string) (int64, error)

	// Segments
	InsertSegment(ctx context.Context, schema string, seg *RouteSegment) (uuid.UUID, error)
	GetSegment(ctx context.Context, schema string, id uuid.UUID) (*RouteSegment, error)
	CountSegments(ctx context.Context, schema string) (int64, error)
}
