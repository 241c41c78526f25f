package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/storefront-api/internal/domain"
)

// Códigos PostgreSQL que el coordinador de reintentos puede recuperar.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// markIfTransient etiqueta como reintentables los fallos de serialización y
// deadlocks; el resto de errores pasa sin tocar. Así el coordinador de
// reintentos decide por tipo, nunca por substring del mensaje.
func markIfTransient(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFailure, pgDeadlockDetected:
			return domain.MarkRetryable(err)
		}
	}
	return err
}
