package cart

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"marketcore/internal/cache"
	"marketcore/internal/domain"
)

type cartRepo interface {
	GetOrCreateByUser(ctx context.Context, userID string) (*domain.Cart, error)
	AddLine(ctx context.Context, cartID, productID string, quantity int) error
	RemoveLine(ctx context.Context, cartID, lineID string) error
	Clear(ctx context.Context, cartID string) error
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

// Service owns the mutable pre-order cart. Every mutation rewrites or evicts
// the user's cache entry before returning, so concurrent readers never observe
// a stale hit past the operation.
type Service struct {
	repo        cartRepo
	productRepo productRepo
	store       cache.Store
	logger      *zap.Logger
}

func New(repo cartRepo, productRepo productRepo, store cache.Store, logger *zap.Logger) *Service {
	return &Service{
		repo:        repo,
		productRepo: productRepo,
		store:       store,
		logger:      logger,
	}
}

func (s *Service) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	return cache.ReadThrough(ctx, s.store, s.logger, cache.CartKey(userID), func(ctx context.Context) (*domain.Cart, error) {
		return s.repo.GetOrCreateByUser(ctx, userID)
	})
}

// AddItem upserts a cart line. The stock check here is advisory feedback only;
// the binding reservation happens at order placement.
func (s *Service) AddItem(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	if quantity < 1 {
		return nil, errors.New("quantity must be positive")
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.AvailableQuantity < quantity {
		return nil, &domain.OutOfStockError{ProductID: product.ID, ProductName: product.Name}
	}

	cart, err := s.repo.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.AddLine(ctx, cart.ID, productID, quantity); err != nil {
		return nil, err
	}
	return s.reloadAndCache(ctx, userID)
}

func (s *Service) RemoveItem(ctx context.Context, userID, lineID string) (*domain.Cart, error) {
	cart, err := s.repo.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.RemoveLine(ctx, cart.ID, lineID); err != nil {
		return nil, err
	}
	return s.reloadAndCache(ctx, userID)
}

func (s *Service) Clear(ctx context.Context, userID string) error {
	cart, err := s.repo.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.repo.Clear(ctx, cart.ID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, cache.CartKey(userID)); err != nil {
		s.logger.Warn("evict cart cache failed", zap.String("userId", userID), zap.Error(err))
	}
	return nil
}

func (s *Service) reloadAndCache(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.repo.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := cache.WriteThrough(ctx, s.store, cache.CartKey(userID), cart); err != nil {
		s.logger.Warn("refresh cart cache failed", zap.String("userId", userID), zap.Error(err))
	}
	return cart, nil
}
