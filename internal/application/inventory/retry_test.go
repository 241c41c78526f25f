package inventory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/storefront-api/internal/domain"
)

func TestWithRetry_ExitoInmediato(t *testing.T) {
	llamadas := 0
	err := WithRetry(context.Background(), RetryConfig{MaxRetries: 3, BaseDelay: time.Millisecond}, func(ctx context.Context) error {
		llamadas++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, llamadas)
}

// Dos fallos transitorios y luego éxito: el backoff acumulado debe ser al menos
// base + 2*base (exponencial), y la operación se intenta tres veces.
func TestWithRetry_BackoffExponencial(t *testing.T) {
	const base = 10 * time.Millisecond
	llamadas := 0
	inicio := time.Now()
	err := WithRetry(context.Background(), RetryConfig{MaxRetries: 3, BaseDelay: base}, func(ctx context.Context) error {
		llamadas++
		if llamadas <= 2 {
			return domain.MarkRetryable(errors.New("write conflict"))
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, llamadas)
	assert.GreaterOrEqual(t, time.Since(inicio), base+2*base)
}

// Un error terminal propaga de inmediato sin consumir reintentos.
func TestWithRetry_ErrorTerminalNoReintenta(t *testing.T) {
	terminal := errors.New("violación de constraint")
	llamadas := 0
	err := WithRetry(context.Background(), RetryConfig{MaxRetries: 5, BaseDelay: time.Millisecond}, func(ctx context.Context) error {
		llamadas++
		return terminal
	})
	require.ErrorIs(t, err, terminal)
	assert.NotErrorIs(t, err, domain.ErrInventoryLockFailed)
	assert.Equal(t, 1, llamadas)
}

// Agotado el presupuesto, el último error se envuelve en ErrInventoryLockFailed
// y el error original sigue siendo inspeccionable.
func TestWithRetry_AgotadoEnvuelveLockFailed(t *testing.T) {
	causa := errors.New("fallo de serialización")
	llamadas := 0
	err := WithRetry(context.Background(), RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond}, func(ctx context.Context) error {
		llamadas++
		return domain.MarkRetryable(causa)
	})
	require.ErrorIs(t, err, domain.ErrInventoryLockFailed)
	assert.ErrorIs(t, err, causa)
	assert.Equal(t, 3, llamadas) // intento inicial + 2 reintentos
}

// ErrConflict es reintentable sin marcado explícito.
func TestWithRetry_ErrConflictEsReintentable(t *testing.T) {
	llamadas := 0
	err := WithRetry(context.Background(), RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond}, func(ctx context.Context) error {
		llamadas++
		if llamadas == 1 {
			return domain.ErrConflict
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, llamadas)
}

// Cancelar el contexto durante el backoff corta la espera.
func TestWithRetry_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()
	err := WithRetry(ctx, RetryConfig{MaxRetries: 5, BaseDelay: time.Second}, func(ctx context.Context) error {
		return domain.MarkRetryable(errors.New("conflicto"))
	})
	require.ErrorIs(t, err, context.Canceled)
}
