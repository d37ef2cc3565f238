package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/meikuraledutech/routenet"
	"github.com/sirupsen/logrus"
)

// PGStore implements routenet.Store on PostgreSQL/PostGIS via pgx.
// Every operation acquires its own pool connection and releases it before
// returning.
type PGStore struct {
	db  *pgxpool.Pool
	log logrus.FieldLogger
}

// Option configures a PGStore.
type Option func(*PGStore)

// WithLogger sets the logger used for DDL and insert tracing.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *PGStore) {
		if l != nil {
			s.log = l
		}
	}
}

// New creates a new PGStore backed by the given pgx connection pool.
func New(db *pgxpool.Pool, opts ...Option) *PGStore {
	s := &PGStore{db: db, log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ routenet.Store = (*PGStore)(nil)

// acquire checks out a dedicated connection. Callers must Release it.
func (s *PGStore) acquire(ctx context.Context) (*pgxpool.Conn, error) {
	conn, err := s.db.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", routenet.ErrConnection, err)
	}
	return conn, nil
}

// exec runs a single statement on its own connection.
func (s *PGStore) exec(ctx context.Context, sql string, args ...any) error {
	conn, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, sql, args...)
	return classify(err)
}

// table returns the quoted, schema-qualified name of a route network table.
func table(schema, name string) string {
	return pgx.Identifier{schema, name}.Sanitize()
}
