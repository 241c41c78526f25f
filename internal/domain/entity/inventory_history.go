package entity

import (
	"encoding/json"
	"time"
)

// Motivos de ajuste de inventario.
const (
	AdjustmentReasonRestock    = "restock"
	AdjustmentReasonSale       = "sale"
	AdjustmentReasonReturn     = "return"
	AdjustmentReasonCorrection = "correction"
	AdjustmentReasonReserve    = "reservation"
)

// InventoryHistory es el registro append-only de un ajuste de stock.
// Se escribe en la misma transacción que el ajuste; nunca se actualiza ni borra.
type InventoryHistory struct {
	ID               string
	ProductID        string
	VariantID        string
	PreviousQuantity int
	NewQuantity      int
	Adjustment       int // delta con signo
	Reason           string
	UserID           string
	Metadata         json.RawMessage
	CreatedAt        time.Time
}
