package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	domaininv "github.com/jhoicas/storefront-api/internal/domain/inventory"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
	"github.com/jhoicas/storefront-api/pkg/logger"
)

// ReservationUseCase administra las retenciones temporales de stock de carritos
// y checkouts. La expiración la impone el TTL: ningún cancel explícito es
// necesario para la corrección, solo para la prontitud.
type ReservationUseCase struct {
	reservationRepo repository.ReservationRepository
	productRepo     repository.ProductRepository
	publisher       StockPublisher
	cartTTL         time.Duration
	checkoutTTL     time.Duration
	log             *logger.Logger
	now             func() time.Time
}

// NewReservationUseCase construye el caso de uso con los TTL configurados.
func NewReservationUseCase(
	reservationRepo repository.ReservationRepository,
	productRepo repository.ProductRepository,
	publisher StockPublisher,
	cartTTL, checkoutTTL time.Duration,
	log *logger.Logger,
) *ReservationUseCase {
	return &ReservationUseCase{
		reservationRepo: reservationRepo,
		productRepo:     productRepo,
		publisher:       publisher,
		cartTTL:         cartTTL,
		checkoutTTL:     checkoutTTL,
		log:             log,
		now:             time.Now,
	}
}

// ReserveInput entrada para crear o renovar una reserva.
type ReserveInput struct {
	SessionID string
	UserID    string
	ProductID string
	VariantID string
	Quantity  int
	Type      string // cart | checkout
}

// Reserve crea o reemplaza la retención de (sesión, producto, variante).
// Idempotente: re-reservar sustituye cantidad y expiración, nunca acumula.
func (uc *ReservationUseCase) Reserve(ctx context.Context, in ReserveInput) (*entity.Reservation, error) {
	if in.SessionID == "" || in.ProductID == "" || in.Quantity < 1 {
		return nil, domain.ErrInvalidInput
	}
	var ttl time.Duration
	switch in.Type {
	case entity.ReservationTypeCart:
		ttl = uc.cartTTL
	case entity.ReservationTypeCheckout:
		ttl = uc.checkoutTTL
	default:
		return nil, domain.ErrInvalidInput
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

	res := &entity.Reservation{
		SessionID: in.SessionID,
		UserID:    in.UserID,
		ProductID: product.ID,
		VariantID: variant.ID,
		Quantity:  in.Quantity,
		Type:      in.Type,
		ExpiresAt: uc.now().Add(ttl),
	}
	if err := uc.reservationRepo.Upsert(ctx, res); err != nil {
		return nil, err
	}
	uc.publishFor(ctx, product, variant)
	return res, nil
}

// Release libera una reserva por ID, o por (sesión, producto, variante) si no hay ID.
func (uc *ReservationUseCase) Release(ctx context.Context, reservationID, sessionID, productID, variantID string) error {
	switch {
	case reservationID != "":
		res, err := uc.reservationRepo.GetByID(ctx, reservationID)
		if err != nil {
			return err
		}
		if res == nil {
			return domain.ErrReservationNotFound
		}
		if err := uc.reservationRepo.DeleteByID(ctx, reservationID); err != nil {
			return err
		}
		productID, variantID = res.ProductID, res.VariantID
	case sessionID != "" && productID != "":
		product, err := uc.productRepo.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrProductNotFound
		}
		variant, ok := domaininv.ResolveVariant(product, domaininv.VariantQuery{VariantID: variantID})
		if !ok {
			return domain.ErrVariantNotFound
		}
		variantID = variant.ID
		if err := uc.reservationRepo.DeleteBySessionProduct(ctx, sessionID, productID, variantID); err != nil {
			return err
		}
	default:
		return domain.ErrInvalidInput
	}

	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil || product == nil {
		return nil // la reserva ya se liberó; el evento de display es best-effort
	}
	if variant, ok := domaininv.ResolveVariant(product, domaininv.VariantQuery{VariantID: variantID}); ok {
		uc.publishFor(ctx, product, variant)
	}
	return nil
}

// CurrentlyReserved expone la suma vigente para una variante (o la variante por
// defecto si no se indica).
func (uc *ReservationUseCase) CurrentlyReserved(ctx context.Context, productID, variantID string) (int, error) {
	if variantID == "" {
		product, err := uc.productRepo.GetByID(ctx, productID)
		if err != nil {
			return 0, err
		}
		if product == nil {
			return 0, domain.ErrProductNotFound
		}
		variant, ok := domaininv.ResolveVariant(product, domaininv.VariantQuery{})
		if !ok {
			return 0, domain.ErrVariantNotFound
		}
		variantID = variant.ID
	}
	return uc.reservationRepo.SumActive(ctx, productID, variantID, uc.now())
}

// publishFor emite el evento de stock tras un cambio de reservas.
func (uc *ReservationUseCase) publishFor(ctx context.Context, product *entity.Product, variant *entity.ProductVariant) {
	reserved, err := uc.reservationRepo.SumActive(ctx, product.ID, variant.ID, uc.now())
	if err != nil {
		uc.log.Warn().Err(err).Str("variant_id", variant.ID).Msg("no se pudo leer reservado tras cambio de reserva")
		return
	}
	available := variant.Inventory - reserved
	uc.publisher.Publish(entity.StockUpdate{
		ProductID:      product.ID,
		VariantID:      variant.ID,
		AvailableStock: available,
		TotalStock:     variant.Inventory,
		ReservedStock:  reserved,
		StockStatus:    variant.StockStatus(available),
	})
}
