package sweeper

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"marketcore/internal/domain"
)

type orderCanceller interface {
	ListExpired(ctx context.Context, cutoff time.Time) ([]domain.Order, error)
	CancelExpired(ctx context.Context, o *domain.Order) (*domain.Order, error)
}

// Sweeper periodically cancels orders that sat unpaid past the abandonment
// threshold, returning their reserved stock. Overlapping runs are harmless:
// the cancel transition only ever succeeds once per order.
type Sweeper struct {
	orders    orderCanceller
	interval  time.Duration
	threshold time.Duration
	logger    *zap.Logger
}

func New(orders orderCanceller, interval, threshold time.Duration, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		orders:    orders,
		interval:  interval,
		threshold: threshold,
		logger:    logger,
	}
}

// Run sweeps on a fixed interval until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("expiry sweeper started",
		zap.Duration("interval", s.interval),
		zap.Duration("threshold", s.threshold),
	)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("expiry sweeper stopped")
			return
		case <-ticker.C:
			if _, err := s.SweepOnce(ctx); err != nil {
				s.logger.Error("sweep failed", zap.Error(err))
			}
		}
	}
}

// SweepOnce cancels every abandoned PENDING order it finds and returns how
// many it cancelled. Per-order failures are logged and skipped; a concurrent
// confirmation winning the race is expected, not an error worth aborting for.
func (s *Sweeper) SweepOnce(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-s.threshold)
	expired, err := s.orders.ListExpired(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	cancelled := 0
	for i := range expired {
		o := &expired[i]
		if _, err := s.orders.CancelExpired(ctx, o); err != nil {
			if errors.Is(err, domain.ErrInvalidTransition) {
				s.logger.Info("order no longer pending, skipping",
					zap.String("orderId", o.ID))
				continue
			}
			s.logger.Error("cancel expired order failed",
				zap.String("orderId", o.ID), zap.Error(err))
			continue
		}
		s.logger.Info("cancelled abandoned order",
			zap.String("orderId", o.ID),
			zap.Time("createdAt", o.CreatedAt),
		)
		cancelled++
	}
	return cancelled, nil
}
