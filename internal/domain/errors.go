package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrProductNotFound     = errors.New("producto no encontrado")
	ErrVariantNotFound     = errors.New("variante no encontrada")
	ErrReservationNotFound = errors.New("reserva no encontrada")
	ErrInvalidInput        = errors.New("entrada inválida")
	// ErrConflict señala una escritura condicional perdida frente a otro escritor.
	// El adaptador de almacenamiento lo marca como reintentable.
	ErrConflict = errors.New("conflicto de concurrencia")
	// ErrInventoryLockFailed se devuelve cuando se agotan los reintentos de una
	// escritura condicional.
	ErrInventoryLockFailed = errors.New("no se pudo actualizar el inventario tras varios intentos")
)

// retryableError etiqueta un error como transitorio para el coordinador de
// reintentos, sin depender de comparar substrings del mensaje.
type retryableError struct {
	err error
}

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

// MarkRetryable envuelve err marcándolo como transitorio (conflicto de versión,
// write-conflict, error transitorio de transacción).
func MarkRetryable(err error) error {
	if err == nil {
		return nil
	}
	return &retryableError{err: err}
}

// IsRetryable indica si err (o alguno de sus envueltos) fue marcado como transitorio.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrConflict) {
		return true
	}
	var re *retryableError
	return errors.As(err, &re)
}
