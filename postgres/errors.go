package postgres

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/meikuraledutech/routenet"
)

// SQLSTATE codes mapped onto routenet sentinels.
const (
	codeUniqueViolation   = "23505"
	codeInvalidParameter  = "22023" // PostGIS geometry type or dimension mismatch
	codeInvalidSchemaName = "3F000"
	codeUndefinedTable    = "42P01"
	classConnection       = "08"
)

// classify tags err with the matching routenet sentinel, keeping the
// driver error reachable through errors.As. Unknown errors pass unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, routenet.ErrConnection) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == codeUniqueViolation:
			return fmt.Errorf("%w: %w", routenet.ErrConstraintViolation, err)
		case pgErr.Code == codeInvalidParameter:
			return fmt.Errorf("%w: %w", routenet.ErrValidation, err)
		case pgErr.Code == codeInvalidSchemaName, pgErr.Code == codeUndefinedTable:
			return fmt.Errorf("%w: %w", routenet.ErrSchemaState, err)
		case strings.HasPrefix(pgErr.Code, classConnection):
			return fmt.Errorf("%w: %w", routenet.ErrConnection, err)
		}
		return err
	}

	var connectErr *pgconn.ConnectError
	var netErr net.Error
	if errors.As(err, &connectErr) || errors.As(err, &netErr) || pgconn.Timeout(err) {
		return fmt.Errorf("%w: %w", routenet.ErrConnection, err)
	}
	return err
}

// isNoRows checks if the error is a "no rows" error from pgx.
func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
