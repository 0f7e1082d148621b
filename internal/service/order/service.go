package order

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"marketcore/internal/cache"
	"marketcore/internal/db"
	"marketcore/internal/domain"
	"marketcore/internal/metrics"
	orderrepo "marketcore/internal/repository/order"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type orderRepo interface {
	Create(ctx context.Context, q db.Querier, in orderrepo.CreateOrderInput) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Order, error)
	Transition(ctx context.Context, q db.Querier, orderID string, from, to domain.OrderStatus, paymentStatus *domain.PaymentStatus) (bool, error)
	ListExpiredPending(ctx context.Context, cutoff time.Time) ([]domain.Order, error)
}

type cartRepo interface {
	GetOrCreateByUser(ctx context.Context, userID string) (*domain.Cart, error)
	ClearLines(ctx context.Context, q db.Querier, cartID string) error
}

type addressRepo interface {
	GetForUser(ctx context.Context, addressID, userID string) (*domain.Address, error)
}

type stockLedger interface {
	Reserve(ctx context.Context, q db.Querier, productID string, quantity int) error
	Release(ctx context.Context, q db.Querier, productID string, quantity int) error
}

// Service drives the order state machine. Placement, cancellation and the
// sweeper's timeout-cancel all run as single transactions pairing the status
// write with its inventory side effects; the conditional transition in the
// repository is what keeps Confirm and Cancel mutually exclusive.
type Service struct {
	tx        db.TxRunner
	orders    orderRepo
	carts     cartRepo
	addresses addressRepo
	ledger    stockLedger
	store     cache.Store
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

func New(tx db.TxRunner, orders orderRepo, carts cartRepo, addresses addressRepo, ledger stockLedger, store cache.Store, m *metrics.Metrics, logger *zap.Logger) *Service {
	return &Service{
		tx:        tx,
		orders:    orders,
		carts:     carts,
		addresses: addresses,
		ledger:    ledger,
		store:     store,
		metrics:   m,
		logger:    logger,
	}
}

// Place converts the user's cart into a PENDING order: it reserves stock for
// every line, snapshots prices and the shipping address, and clears the cart,
// all in one transaction. A failed reservation rolls everything back.
func (s *Service) Place(ctx context.Context, userID, addressID string) (*domain.Order, error) {
	cart, err := s.carts.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Lines) == 0 {
		return nil, domain.ErrEmptyCart
	}

	addr, err := s.addresses.GetForUser(ctx, addressID, userID)
	if err != nil {
		return nil, err
	}

	in := orderrepo.CreateOrderInput{
		UserID: userID,
		ShippingAddress: domain.ShippingAddress{
			Street:   addr.Street,
			City:     addr.City,
			State:    addr.State,
			Pincode:  addr.Pincode,
			Landmark: addr.Landmark,
		},
	}
	for _, line := range cart.Lines {
		in.TotalCents += line.UnitPriceCents * int64(line.Quantity)
		in.Lines = append(in.Lines, orderrepo.CreateOrderLine{
			ProductID:      line.ProductID,
			ProductName:    line.ProductName,
			UnitPriceCents: line.UnitPriceCents,
			Quantity:       line.Quantity,
		})
	}

	var placed *domain.Order
	err = s.tx.WithTx(ctx, func(q db.Querier) error {
		for _, line := range cart.Lines {
			if err := s.ledger.Reserve(ctx, q, line.ProductID, line.Quantity); err != nil {
				if oos, ok := domain.AsOutOfStock(err); ok {
					oos.ProductName = line.ProductName
				}
				return err
			}
		}
		var err error
		placed, err = s.orders.Create(ctx, q, in)
		if err != nil {
			return err
		}
		return s.carts.ClearLines(ctx, q, cart.ID)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.OrdersPlaced.Inc()
	if err := s.store.Delete(ctx, cache.CartKey(userID), cache.OrderListKey(userID)); err != nil {
		s.logger.Warn("evict caches after placement failed", zap.String("orderId", placed.ID), zap.Error(err))
	}
	s.cacheOrder(ctx, placed)
	return placed, nil
}

// Cancel is the owner-initiated PENDING -> CANCELLED transition. Payment
// status is left untouched; there is nothing to fail before a payment exists.
func (s *Service) Cancel(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, domain.ErrAccessDenied
	}
	cancelled, err := s.cancel(ctx, o, nil)
	if err != nil {
		return nil, err
	}
	s.metrics.OrdersCancelled.Inc()
	return cancelled, nil
}

// CancelExpired is the sweeper's timeout variant: the same guarded transition
// with paymentStatus forced to FAILED.
func (s *Service) CancelExpired(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	failed := domain.PaymentFailed
	cancelled, err := s.cancel(ctx, o, &failed)
	if err != nil {
		return nil, err
	}
	s.metrics.SweeperCancelled.Inc()
	return cancelled, nil
}

func (s *Service) cancel(ctx context.Context, o *domain.Order, paymentStatus *domain.PaymentStatus) (*domain.Order, error) {
	err := s.tx.WithTx(ctx, func(q db.Querier) error {
		ok, err := s.orders.Transition(ctx, q, o.ID, domain.OrderPending, domain.OrderCancelled, paymentStatus)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: order %s is not pending", domain.ErrInvalidTransition, o.ID)
		}
		// Inventory is released in the same transaction as the status flip,
		// and only by the transition winner, so units come back exactly once.
		for _, line := range o.Lines {
			if err := s.ledger.Release(ctx, q, line.ProductID, line.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	cancelled, err := s.orders.GetByID(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	s.cacheOrder(ctx, cancelled)
	s.evictList(ctx, cancelled.UserID)
	return cancelled, nil
}

// Confirm is the reconciliation-driven PENDING -> CONFIRMED transition. It is
// exposed for the payment service, which pairs it with the payment row insert
// inside one transaction.
func (s *Service) Confirm(ctx context.Context, q db.Querier, orderID string) error {
	completed := domain.PaymentCompleted
	ok, err := s.orders.Transition(ctx, q, orderID, domain.OrderPending, domain.OrderConfirmed, &completed)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: order %s is not pending", domain.ErrInvalidTransition, orderID)
	}
	return nil
}

// RefreshAfterConfirm republishes the cached view of a just-confirmed order.
func (s *Service) RefreshAfterConfirm(ctx context.Context, orderID string) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		s.logger.Warn("reload confirmed order failed", zap.String("orderId", orderID), zap.Error(err))
		return
	}
	s.metrics.OrdersConfirmed.Inc()
	s.cacheOrder(ctx, o)
	s.evictList(ctx, o.UserID)
}

func (s *Service) Get(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	return cache.ReadThrough(ctx, s.store, s.logger, cache.OrderKey(userID, orderID), func(ctx context.Context) (*domain.Order, error) {
		o, err := s.orders.GetByID(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if o.UserID != userID {
			return nil, domain.ErrAccessDenied
		}
		return o, nil
	})
}

func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	// Only the default first page is cached; deep pages change too rarely to
	// be worth the key churn.
	if limit == defaultPageSize && offset == 0 {
		return cache.ReadThrough(ctx, s.store, s.logger, cache.OrderListKey(userID), func(ctx context.Context) ([]domain.Order, error) {
			return s.orders.ListByUser(ctx, userID, limit, offset)
		})
	}
	return s.orders.ListByUser(ctx, userID, limit, offset)
}

// UpdateStatus applies administrative fulfillment states. It has no inventory
// side effects and is never reachable from CANCELLED (or any other state the
// guard rejects).
func (s *Service) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !o.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, o.Status, status)
	}

	err = s.tx.WithTx(ctx, func(q db.Querier) error {
		ok, err := s.orders.Transition(ctx, q, orderID, o.Status, status, nil)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: order %s moved concurrently", domain.ErrInvalidTransition, orderID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	s.cacheOrder(ctx, updated)
	s.evictList(ctx, updated.UserID)
	return updated, nil
}

// ListExpired returns PENDING orders older than the cutoff for the sweeper.
func (s *Service) ListExpired(ctx context.Context, cutoff time.Time) ([]domain.Order, error) {
	return s.orders.ListExpiredPending(ctx, cutoff)
}

func (s *Service) cacheOrder(ctx context.Context, o *domain.Order) {
	if err := cache.WriteThrough(ctx, s.store, cache.OrderKey(o.UserID, o.ID), o); err != nil {
		s.logger.Warn("refresh order cache failed", zap.String("orderId", o.ID), zap.Error(err))
	}
}

func (s *Service) evictList(ctx context.Context, userID string) {
	if err := s.store.Delete(ctx, cache.OrderListKey(userID)); err != nil {
		s.logger.Warn("evict order list cache failed", zap.String("userId", userID), zap.Error(err))
	}
}
