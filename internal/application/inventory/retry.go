package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/storefront-api/internal/domain"
)

// RetryConfig acota el presupuesto de reintentos de una escritura condicional.
type RetryConfig struct {
	MaxRetries int           // reintentos adicionales tras el primer intento
	BaseDelay  time.Duration // backoff exponencial: BaseDelay * 2^intento
}

// DefaultRetryConfig valores por defecto del coordinador.
var DefaultRetryConfig = RetryConfig{MaxRetries: 3, BaseDelay: 100 * time.Millisecond}

// WithRetry ejecuta op y reintenta solo los errores marcados como transitorios
// (conflicto de versión, write-conflict, fallo de serialización). Los errores
// terminales propagan de inmediato sin consumir reintento. Tras agotar el
// presupuesto devuelve el último error envuelto en ErrInventoryLockFailed;
// el caller decide cómo traducirlo al usuario.
func WithRetry(ctx context.Context, cfg RetryConfig, op func(ctx context.Context) error) error {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = DefaultRetryConfig.BaseDelay
	}
	var lastErr error
	for attempt := 0; ; attempt++ {
		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if !domain.IsRetryable(lastErr) {
			return lastErr
		}
		if attempt >= cfg.MaxRetries {
			break
		}
		// Suspende solo esta tarea, no el proceso.
		delay := cfg.BaseDelay << uint(attempt)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return fmt.Errorf("%w: %w", domain.ErrInventoryLockFailed, lastErr)
}
