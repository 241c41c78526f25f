package dto

// ErrorResponse respuesta de error uniforme de la API.
// Items lleva el detalle por línea cuando el código es INSUFFICIENT_INVENTORY.
type ErrorResponse struct {
	Code    string             `json:"code"`
	Message string             `json:"message"`
	Items   []InsufficientItem `json:"items,omitempty"`
}

// InsufficientItem detalle de una línea sin stock suficiente, para display del cliente.
type InsufficientItem struct {
	ProductID      string `json:"product_id"`
	VariantID      string `json:"variant_id,omitempty"`
	ProductName    string `json:"product_name,omitempty"`
	RequestedQty   int    `json:"requested_quantity"`
	AvailableStock int    `json:"available_stock"`
}

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=1,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}
