package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/storefront-api/internal/domain/repository"
	"github.com/jhoicas/storefront-api/pkg/logger"
)

// ReservationSweeper purga periódicamente las reservas vencidas. Es solo
// higiene de almacenamiento: toda lectura de "reservado" ya filtra por
// expires_at, así que la corrección nunca depende de este barrido.
type ReservationSweeper struct {
	repo     repository.ReservationRepository
	interval time.Duration
	log      *logger.Logger
}

// NewReservationSweeper construye el sweeper.
func NewReservationSweeper(repo repository.ReservationRepository, interval time.Duration, log *logger.Logger) *ReservationSweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &ReservationSweeper{repo: repo, interval: interval, log: log}
}

// Start corre el barrido en bucle hasta que el contexto se cancele.
// Pensado para lanzarse como goroutine desde main.
func (s *ReservationSweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *ReservationSweeper) sweep(ctx context.Context) {
	purged, err := s.repo.DeleteExpired(ctx, time.Now())
	if err != nil {
		s.log.Warn().Err(err).Msg("barrido de reservas falló")
		return
	}
	if purged > 0 {
		s.log.Debug().Int64("purged", purged).Msg("reservas vencidas purgadas")
	}
}
