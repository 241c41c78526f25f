package dto

import "encoding/json"

// ValidateItem línea de un lote de validación o checkout.
type ValidateItem struct {
	ProductID  string          `json:"product_id"`
	VariantID  string          `json:"variant_id,omitempty"`
	Quantity   int             `json:"quantity"`
	Label      string          `json:"label,omitempty"`
	Size       string          `json:"size,omitempty"`
	Attributes json.RawMessage `json:"attributes,omitempty"`
}

// ValidateRequest body para POST /api/inventory/validate y /adjustments/check.
type ValidateRequest struct {
	Items []ValidateItem `json:"items"`
}

// AdjustRequest body para POST /api/inventory/adjust (admin).
type AdjustRequest struct {
	ProductID  string          `json:"product_id"`
	VariantID  string          `json:"variant_id,omitempty"`
	Adjustment int             `json:"adjustment"`
	Reason     string          `json:"reason"`
	Metadata   json.RawMessage `json:"metadata,omitempty"`
}

// BulkAdjustRequest body para POST /api/inventory/adjust/bulk (admin).
// Cada update triunfa o falla por su cuenta.
type BulkAdjustRequest struct {
	Updates []AdjustRequest `json:"updates"`
}

// AdjustResponse resultado de un ajuste admin.
type AdjustResponse struct {
	Success          bool           `json:"success"`
	ProductID        string         `json:"product_id"`
	VariantID        string         `json:"variant_id"`
	PreviousQuantity int            `json:"previous_quantity"`
	NewQuantity      int            `json:"new_quantity"`
	AvailableStock   int            `json:"available_stock"`
	HistoryRecord    *HistoryRecord `json:"history_record,omitempty"`
	Error            *ErrorResponse `json:"error,omitempty"`
}

// HistoryRecord registro de historial serializado para la API.
type HistoryRecord struct {
	ID               string          `json:"id"`
	ProductID        string          `json:"product_id"`
	VariantID        string          `json:"variant_id,omitempty"`
	PreviousQuantity int             `json:"previous_quantity"`
	NewQuantity      int             `json:"new_quantity"`
	Adjustment       int             `json:"adjustment"`
	Reason           string          `json:"reason"`
	UserID           string          `json:"user_id,omitempty"`
	Metadata         json.RawMessage `json:"metadata,omitempty"`
	CreatedAt        string          `json:"created_at"`
}

// ReserveRequest body para POST /api/inventory/reservations.
type ReserveRequest struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id,omitempty"`
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id,omitempty"`
	Quantity  int    `json:"quantity"`
	Type      string `json:"type"` // cart | checkout
}

// ReleaseRequest body para DELETE /api/inventory/reservations.
// O bien reservation_id, o bien session_id + product_id (+ variant_id).
type ReleaseRequest struct {
	ReservationID string `json:"reservation_id,omitempty"`
	SessionID     string `json:"session_id,omitempty"`
	ProductID     string `json:"product_id,omitempty"`
	VariantID     string `json:"variant_id,omitempty"`
}

// CheckAvailabilityResponse respuesta de GET /api/inventory/availability.
type CheckAvailabilityResponse struct {
	IsAvailable       bool `json:"is_available"`
	AvailableStock    int  `json:"available_stock"`
	RequestedQuantity int  `json:"requested_quantity"`
}

// ProductSummary vista de catálogo para el listado admin.
type ProductSummary struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Price    string           `json:"price"`
	Variants []VariantSummary `json:"variants"`
}

// VariantSummary resumen de una variante en el listado.
type VariantSummary struct {
	ID                string `json:"id"`
	Label             string `json:"label,omitempty"`
	Size              string `json:"size,omitempty"`
	Inventory         int    `json:"inventory"`
	LowStockThreshold int    `json:"low_stock_threshold"`
	AllowBackorder    bool   `json:"allow_backorder"`
}

// MetricsResponse respuesta de GET /api/inventory/metrics.
type MetricsResponse struct {
	TotalProducts   int    `json:"total_products"`
	TotalValue      string `json:"total_value"`
	OutOfStockCount int    `json:"out_of_stock_count"`
	LowStockCount   int    `json:"low_stock_count"`
	TotalReserved   int    `json:"total_reserved"`
}
