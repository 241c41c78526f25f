package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

// Las métricas del catálogo se completan con el total reservado vigente.
func TestMetrics_IncluyeReservadoVigente(t *testing.T) {
	products := newMemProductRepo(productoCamiseta(10))
	products.metrics = &repository.InventoryMetrics{
		TotalProducts:   1,
		TotalValue:      decimal.NewFromInt(150),
		OutOfStockCount: 0,
		LowStockCount:   1,
	}
	reservations := &memReservationRepo{}
	require.NoError(t, reservations.Upsert(context.Background(), reservaVigente("s1", "p1", "v1", 4)))
	vencida := reservaVigente("s2", "p1", "v1", 9)
	vencida.ExpiresAt = time.Now().Add(-time.Minute)
	require.NoError(t, reservations.Upsert(context.Background(), vencida))

	uc := NewMetricsUseCase(products, reservations, &memHistoryRepo{})
	m, err := uc.Metrics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, m.TotalProducts)
	assert.Equal(t, 4, m.TotalReserved, "solo cuentan las reservas vigentes")
}

func TestTurnover_RangoInvalido(t *testing.T) {
	uc := NewMetricsUseCase(newMemProductRepo(), &memReservationRepo{}, &memHistoryRepo{})
	ahora := time.Now()
	_, err := uc.Turnover(context.Background(), ahora, ahora.Add(-time.Hour))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTurnover_AgregaPorMotivo(t *testing.T) {
	history := &memHistoryRepo{}
	ahora := time.Now()
	for _, rec := range []*entity.InventoryHistory{
		{ProductID: "p1", VariantID: "v1", Adjustment: -2, Reason: entity.AdjustmentReasonSale, CreatedAt: ahora},
		{ProductID: "p1", VariantID: "v1", Adjustment: -3, Reason: entity.AdjustmentReasonSale, CreatedAt: ahora},
		{ProductID: "p1", VariantID: "v1", Adjustment: 10, Reason: entity.AdjustmentReasonRestock, CreatedAt: ahora},
	} {
		require.NoError(t, history.Append(context.Background(), rec))
	}

	uc := NewMetricsUseCase(newMemProductRepo(), &memReservationRepo{}, history)
	rows, err := uc.Turnover(context.Background(), ahora.Add(-time.Hour), ahora.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byReason := make(map[string]repository.TurnoverRow, len(rows))
	for _, r := range rows {
		byReason[r.Reason] = r
	}
	assert.Equal(t, 2, byReason[entity.AdjustmentReasonSale].Movements)
	assert.Equal(t, -5, byReason[entity.AdjustmentReasonSale].TotalDelta)
	assert.Equal(t, 10, byReason[entity.AdjustmentReasonRestock].TotalDelta)
}

func TestHistory_ProductoRequerido(t *testing.T) {
	uc := NewMetricsUseCase(newMemProductRepo(), &memReservationRepo{}, &memHistoryRepo{})
	_, err := uc.History(context.Background(), "", "", nil, nil, 0, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
