package inventory

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	domaininv "github.com/jhoicas/storefront-api/internal/domain/inventory"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
	"github.com/jhoicas/storefront-api/pkg/logger"
)

// AdjustStockUseCase aplica ajustes atómicos al libro de stock: una sola escritura
// condicional por variante, historial en la misma transacción, y evento de
// difusión tras el commit. Es la única vía de mutación de inventario.
type AdjustStockUseCase struct {
	txRunner        TxRunner
	productRepo     repository.ProductRepository
	reservationRepo repository.ReservationRepository
	publisher       StockPublisher
	retry           RetryConfig
	log             *logger.Logger
	now             func() time.Time
}

// NewAdjustStockUseCase construye el caso de uso.
func NewAdjustStockUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	reservationRepo repository.ReservationRepository,
	publisher StockPublisher,
	retry RetryConfig,
	log *logger.Logger,
) *AdjustStockUseCase {
	return &AdjustStockUseCase{
		txRunner:        txRunner,
		productRepo:     productRepo,
		reservationRepo: reservationRepo,
		publisher:       publisher,
		retry:           retry,
		log:             log,
		now:             time.Now,
	}
}

// AdjustInput entrada para un ajuste de inventario.
// VariantID vacío => variante por defecto del producto.
type AdjustInput struct {
	ProductID    string
	VariantID    string
	Adjustment   int // delta con signo
	MinResulting int // por defecto 0: la escritura se rechaza si dejaría stock negativo
	Reason       string
	UserID       string
	Metadata     json.RawMessage
}

// AdjustOutput resultado estructurado de un ajuste.
// Success=false con error nil significa "stock insuficiente o perdió la carrera":
// no es una excepción, es un resultado que el caller decide cómo reportar.
type AdjustOutput struct {
	Success          bool
	ProductID        string
	VariantID        string
	PreviousQuantity int
	NewQuantity      int
	AvailableStock   int
	HistoryRecord    *entity.InventoryHistory
}

// Adjust resuelve la variante, ejecuta la escritura condicional bajo el
// coordinador de reintentos y publica el evento de stock resultante.
func (uc *AdjustStockUseCase) Adjust(ctx context.Context, in AdjustInput) (*AdjustOutput, error) {
	if in.ProductID == "" || in.Adjustment == 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.Reason == "" {
		in.Reason = entity.AdjustmentReasonCorrection
	}

	product, err := uc.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	variant, ok := domaininv.ResolveVariant(product, domaininv.VariantQuery{VariantID: in.VariantID})
	if !ok {
		return nil, domain.ErrVariantNotFound
	}

	out := &AdjustOutput{ProductID: product.ID, VariantID: variant.ID}
	err = WithRetry(ctx, uc.retry, func(ctx context.Context) error {
		return uc.txRunner.Run(ctx, func(
			stockRepo repository.StockRepository,
			historyRepo repository.InventoryHistoryRepository,
		) error {
			res, err := stockRepo.Adjust(ctx, variant.ID, in.Adjustment, in.MinResulting)
			if err != nil {
				return err
			}
			out.Success = res.Success
			if !res.Success {
				// Condición no cumplida: no hay nada que registrar ni publicar.
				return nil
			}
			out.PreviousQuantity = res.PreviousQuantity
			out.NewQuantity = res.NewQuantity
			record := &entity.InventoryHistory{
				ProductID:        product.ID,
				VariantID:        variant.ID,
				PreviousQuantity: res.PreviousQuantity,
				NewQuantity:      res.NewQuantity,
				Adjustment:       in.Adjustment,
				Reason:           in.Reason,
				UserID:           in.UserID,
				Metadata:         in.Metadata,
				CreatedAt:        uc.now(),
			}
			if err := historyRepo.Append(ctx, record); err != nil {
				return err
			}
			out.HistoryRecord = record
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	reserved, rerr := uc.reservationRepo.SumActive(ctx, product.ID, variant.ID, uc.now())
	if rerr != nil {
		// El conteo reservado aquí es solo para display del evento; no revierte el ajuste.
		uc.log.Warn().Err(rerr).Str("variant_id", variant.ID).Msg("no se pudo leer reservado tras ajuste")
	}
	if out.Success {
		available := out.NewQuantity - reserved
		out.AvailableStock = available
		uc.publisher.Publish(entity.StockUpdate{
			ProductID:      product.ID,
			VariantID:      variant.ID,
			AvailableStock: available,
			TotalStock:     out.NewQuantity,
			ReservedStock:  reserved,
			StockStatus:    variant.StockStatus(available),
		})
		uc.log.Info().
			Str("product_id", product.ID).
			Str("variant_id", variant.ID).
			Int("adjustment", in.Adjustment).
			Int("new_quantity", out.NewQuantity).
			Str("reason", in.Reason).
			Msg("inventario ajustado")
	} else {
		current, gerr := uc.currentQuantity(ctx, variant.ID)
		if gerr == nil {
			out.PreviousQuantity = current
			out.NewQuantity = current
			out.AvailableStock = current - reserved
		}
	}
	return out, nil
}

// BulkAdjust aplica varios ajustes; cada ítem triunfa o falla por su cuenta.
func (uc *AdjustStockUseCase) BulkAdjust(ctx context.Context, inputs []AdjustInput) []BulkAdjustResult {
	results := make([]BulkAdjustResult, 0, len(inputs))
	for _, in := range inputs {
		out, err := uc.Adjust(ctx, in)
		results = append(results, BulkAdjustResult{Input: in, Output: out, Err: err})
	}
	return results
}

// BulkAdjustResult resultado independiente de un ítem del bulk.
type BulkAdjustResult struct {
	Input  AdjustInput
	Output *AdjustOutput
	Err    error
}

func (uc *AdjustStockUseCase) currentQuantity(ctx context.Context, variantID string) (int, error) {
	var qty int
	err := uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		_ repository.InventoryHistoryRepository,
	) error {
		q, err := stockRepo.GetQuantity(ctx, variantID)
		if err != nil {
			return err
		}
		qty = q
		return nil
	})
	return qty, err
}
