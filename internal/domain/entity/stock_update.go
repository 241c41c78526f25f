package entity

// StockUpdate es el evento que se difunde tras cada mutación de stock o cambio
// de reservas. Entrega best-effort: un evento perdido se corrige en el siguiente
// refetch del cliente.
type StockUpdate struct {
	ProductID      string `json:"product_id"`
	VariantID      string `json:"variant_id,omitempty"`
	AvailableStock int    `json:"available_stock"`
	TotalStock     int    `json:"total_stock"`
	ReservedStock  int    `json:"reserved_stock"`
	StockStatus    string `json:"stock_status"`
}
