package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/storefront-api/internal/domain/entity"
)

// La variante por defecto es la de menor posición, no la primera del slice.
func TestDefaultVariant_MenorPosicion(t *testing.T) {
	p := entity.Product{
		ID: "p1",
		Variants: []entity.ProductVariant{
			{ID: "v2", Position: 1},
			{ID: "v1", Position: 0},
			{ID: "v3", Position: 2},
		},
	}

	v, ok := p.DefaultVariant()
	require.True(t, ok)
	assert.Equal(t, "v1", v.ID)
}

func TestDefaultVariant_SinVariantes(t *testing.T) {
	p := entity.Product{ID: "p1"}

	v, ok := p.DefaultVariant()
	assert.False(t, ok)
	assert.Nil(t, v)
}

func TestStockStatus_Derivacion(t *testing.T) {
	v := entity.ProductVariant{LowStockThreshold: 5}

	assert.Equal(t, entity.StockStatusOut, v.StockStatus(0))
	assert.Equal(t, entity.StockStatusOut, v.StockStatus(-2))
	assert.Equal(t, entity.StockStatusLow, v.StockStatus(1))
	assert.Equal(t, entity.StockStatusLow, v.StockStatus(5))
	assert.Equal(t, entity.StockStatusIn, v.StockStatus(6))
}

// Una variante con backorder sigue siendo comprable sin disponible:
// reporta low_stock en vez de out_of_stock.
func TestStockStatus_BackorderNuncaAgotado(t *testing.T) {
	v := entity.ProductVariant{LowStockThreshold: 5, AllowBackorder: true}

	assert.Equal(t, entity.StockStatusLow, v.StockStatus(0))
	assert.Equal(t, entity.StockStatusLow, v.StockStatus(-3))
}
