package repository

import "context"

// AdjustResult es el resultado de una escritura condicional sobre el inventario.
// Success=false no es un error: significa que la condición no se cumplió
// (stock insuficiente o perdió frente a otro escritor; el caller no puede
// distinguirlos sin releer, y eso es intencional).
type AdjustResult struct {
	Success          bool
	PreviousQuantity int
	NewQuantity      int
}

// StockRepository define el puerto de mutación atómica del inventario.
// Adjust es la única vía sancionada de mutación: un solo UPDATE condicional
// (compare-and-swap en el motor de almacenamiento), nunca read-then-write.
type StockRepository interface {
	// Adjust aplica delta al inventario de la variante solo si
	// inventario_actual + delta >= minResulting.
	Adjust(ctx context.Context, variantID string, delta, minResulting int) (AdjustResult, error)
	// GetQuantity lee el inventario actual (solo para display/validación, nunca
	// como base de una escritura).
	GetQuantity(ctx context.Context, variantID string) (int, error)
}
