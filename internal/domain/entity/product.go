package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto vendible de la tienda con sus variantes.
// El stock vive en las variantes; el producto solo agrega datos de catálogo.
type Product struct {
	ID        string
	Name      string
	Price     decimal.Decimal // precio base de venta
	Variants  []ProductVariant
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProductVariant representa una configuración comprable (talla/color) con su propio stock.
// Inventory es el conteo físico; el stock reservado se calcula consultando las
// reservas no expiradas, nunca desde un contador desnormalizado.
type ProductVariant struct {
	ID                string
	ProductID         string
	Label             string
	Size              string
	Attributes        json.RawMessage
	Position          int // orden; la menor posición es la variante por defecto
	Price             decimal.Decimal
	Inventory         int
	LowStockThreshold int
	AllowBackorder    bool
	RestockDate       *time.Time
	UpdatedAt         time.Time
}

// Estados de stock derivados para display y eventos.
const (
	StockStatusOut = "out_of_stock"
	StockStatusLow = "low_stock"
	StockStatusIn  = "in_stock"
)

// StockStatus deriva el estado a partir del stock disponible (inventario - reservado).
func (v ProductVariant) StockStatus(available int) string {
	switch {
	case available <= 0 && !v.AllowBackorder:
		return StockStatusOut
	case available <= v.LowStockThreshold:
		return StockStatusLow
	default:
		return StockStatusIn
	}
}

// DefaultVariant devuelve la variante por defecto (menor posición).
// Cuando una petición no indica variante, toda la API opera sobre esta.
func (p Product) DefaultVariant() (*ProductVariant, bool) {
	if len(p.Variants) == 0 {
		return nil, false
	}
	def := &p.Variants[0]
	for i := range p.Variants {
		if p.Variants[i].Position < def.Position {
			def = &p.Variants[i]
		}
	}
	return def, true
}
