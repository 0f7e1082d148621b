package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"marketcore/internal/db"
	"marketcore/internal/domain"
	"marketcore/internal/metrics"
	gateway "marketcore/internal/payment"
	paymentrepo "marketcore/internal/repository/payment"
)

// Intent creation precedes any order mutation, so the provider currency is a
// fixed constant here; multi-currency pricing is out of scope.
const intentCurrency = "INR"

type orderRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Order, error)
}

type paymentRepo interface {
	Create(ctx context.Context, q db.Querier, in paymentrepo.CreatePaymentInput) (*domain.Payment, error)
	GetByOrderID(ctx context.Context, orderID string) (*domain.Payment, error)
}

type orderConfirmer interface {
	Confirm(ctx context.Context, q db.Querier, orderID string) error
	RefreshAfterConfirm(ctx context.Context, orderID string)
}

// Intent is the caller-facing result of CreateIntent.
type Intent struct {
	ProviderRef string `json:"providerRef"`
	AmountCents int64  `json:"amountCents"`
	Currency    string `json:"currency"`
}

// Service reconciles the external payment provider with the order state
// machine. The callback path is idempotent and race-safe against the expiry
// sweeper: the payment insert and the order confirm share one transaction,
// and the confirm only applies while the order is still PENDING.
type Service struct {
	tx       db.TxRunner
	orders   orderRepo
	payments paymentRepo
	confirm  orderConfirmer
	provider gateway.Provider
	verifier *gateway.Verifier
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

func New(tx db.TxRunner, orders orderRepo, payments paymentRepo, confirm orderConfirmer, provider gateway.Provider, verifier *gateway.Verifier, m *metrics.Metrics, logger *zap.Logger) *Service {
	return &Service{
		tx:       tx,
		orders:   orders,
		payments: payments,
		confirm:  confirm,
		provider: provider,
		verifier: verifier,
		metrics:  m,
		logger:   logger,
	}
}

// CreateIntent asks the provider for a payment intent covering the order
// total. Provider failures are retryable; no order state is touched.
func (s *Service) CreateIntent(ctx context.Context, orderID string) (*Intent, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.PaymentStatus == domain.PaymentCompleted {
		return nil, domain.ErrAlreadyPaid
	}

	providerOrder, err := s.provider.CreateOrder(ctx, gateway.CreateOrderParams{
		AmountCents:     o.TotalCents,
		Currency:        intentCurrency,
		Receipt:         "rcpt_" + uuid.NewString(),
		InternalOrderID: o.ID,
	})
	if err != nil {
		return nil, err
	}

	return &Intent{
		ProviderRef: providerOrder.ID,
		AmountCents: o.TotalCents,
		Currency:    intentCurrency,
	}, nil
}

// ReconcileCallback verifies and applies an asynchronous payment confirmation
// exactly once. It returns the internal order id on success, including the
// replayed-callback case.
func (s *Service) ReconcileCallback(ctx context.Context, providerOrderRef, providerPaymentRef, signature string) (string, error) {
	if !s.verifier.Verify(providerOrderRef, providerPaymentRef, signature) {
		s.metrics.PaymentCallbacks.WithLabelValues("verification_failed").Inc()
		return "", domain.ErrVerificationFailed
	}

	providerOrder, err := s.provider.FetchOrder(ctx, providerOrderRef)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.metrics.PaymentCallbacks.WithLabelValues("mapping_missing").Inc()
			return "", domain.ErrOrderMappingMissing
		}
		return "", err
	}
	orderID, ok := providerOrder.InternalOrderID()
	if !ok {
		s.metrics.PaymentCallbacks.WithLabelValues("mapping_missing").Inc()
		return "", domain.ErrOrderMappingMissing
	}

	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.metrics.PaymentCallbacks.WithLabelValues("mapping_missing").Inc()
			return "", domain.ErrOrderMappingMissing
		}
		return "", err
	}

	// Replay: the provider retries callbacks, and we may see the same
	// confirmation twice. A completed payment is a success, not an error.
	if o.PaymentStatus == domain.PaymentCompleted {
		s.metrics.PaymentCallbacks.WithLabelValues("replay").Inc()
		return o.ID, nil
	}

	err = s.tx.WithTx(ctx, func(q db.Querier) error {
		if _, err := s.payments.Create(ctx, q, paymentrepo.CreatePaymentInput{
			OrderID:       o.ID,
			AmountCents:   o.TotalCents,
			Mode:          domain.PaymentModeOnline,
			Status:        domain.PaymentCompleted,
			ProviderTxnID: providerPaymentRef,
		}); err != nil {
			return err
		}
		// If the sweeper cancelled this order a moment ago, the guard fails
		// here and the transaction rolls the payment row back with it.
		return s.confirm.Confirm(ctx, q, o.ID)
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			// A concurrent callback inserted the row first; report its result.
			if cur, lookupErr := s.orders.GetByID(ctx, o.ID); lookupErr == nil && cur.PaymentStatus == domain.PaymentCompleted {
				s.metrics.PaymentCallbacks.WithLabelValues("replay").Inc()
				return cur.ID, nil
			}
		}
		if errors.Is(err, domain.ErrInvalidTransition) {
			s.metrics.PaymentCallbacks.WithLabelValues("order_cancelled").Inc()
			return "", fmt.Errorf("%w: order was already cancelled", domain.ErrInvalidTransition)
		}
		return "", err
	}

	s.metrics.PaymentCallbacks.WithLabelValues("confirmed").Inc()
	s.confirm.RefreshAfterConfirm(ctx, o.ID)
	return o.ID, nil
}
