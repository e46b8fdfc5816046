package db

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/escoteiros/scout-inventory/internal/core/domain"
)

const backendName = "relational"

// classify maps a pgx error onto the domain error taxonomy. Only failures to
// reach the server become ConnectionError; anything else the server or the
// driver rejects is a validation or internal error.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		// Class 23: integrity constraint violations.
		case strings.HasPrefix(pgErr.Code, "23"):
			field := pgErr.ColumnName
			if field == "" {
				field = pgErr.ConstraintName
			}
			return domain.NewValidationError(field, pgErr.Message)
		// Class 22: data exceptions such as numeric overflow.
		case strings.HasPrefix(pgErr.Code, "22"):
			field := pgErr.ColumnName
			if field == "" {
				field = "value"
			}
			return domain.NewValidationError(field, pgErr.Message)
		// Class 08 and 57P: connection exceptions and server shutdown.
		case strings.HasPrefix(pgErr.Code, "08"), strings.HasPrefix(pgErr.Code, "57P"):
			return domain.NewConnectionError(backendName, op, err)
		}
		return fmt.Errorf("failed to %s: %w", op, err)
	}

	if unreachable(err) {
		return domain.NewConnectionError(backendName, op, err)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

func unreachable(err error) bool {
	var (
		connectErr *pgconn.ConnectError
		netErr     net.Error
	)
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return true
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return true
	case errors.As(err, &connectErr), errors.As(err, &netErr):
		return true
	}
	return pgconn.SafeToRetry(err) || pgconn.Timeout(err)
}

// parseID rejects identifiers that cannot be a row key. Such ids cannot
// exist, so they surface as NotFoundError rather than a type error.
func parseID(resource, id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, domain.NewNotFoundError(resource, id)
	}
	return parsed, nil
}
