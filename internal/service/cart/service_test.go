package cart

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"marketcore/internal/cache"
	"marketcore/internal/domain"
)

type stubRepo struct {
	cart          *domain.Cart
	cartErr       error
	lastAddCart   string
	lastAddProd   string
	lastAddQty    int
	addErr        error
	lastRemoveLn  string
	clearedCartID string
}

func (s *stubRepo) GetOrCreateByUser(_ context.Context, _ string) (*domain.Cart, error) {
	return s.cart, s.cartErr
}

func (s *stubRepo) AddLine(_ context.Context, cartID, productID string, quantity int) error {
	s.lastAddCart = cartID
	s.lastAddProd = productID
	s.lastAddQty = quantity
	return s.addErr
}

func (s *stubRepo) RemoveLine(_ context.Context, _, lineID string) error {
	s.lastRemoveLn = lineID
	return nil
}

func (s *stubRepo) Clear(_ context.Context, cartID string) error {
	s.clearedCartID = cartID
	return nil
}

type stubProductRepo struct {
	product *domain.Product
	err     error
}

func (s *stubProductRepo) GetByID(_ context.Context, _ string) (*domain.Product, error) {
	return s.product, s.err
}

type memStore struct {
	data    map[string][]byte
	deleted []string
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}}
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	data, ok := m.data[key]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return data, nil
}

func (m *memStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.data[key] = value
	return nil
}

func (m *memStore) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
		m.deleted = append(m.deleted, k)
	}
	return nil
}

func TestGetCachesResult(t *testing.T) {
	repo := &stubRepo{cart: &domain.Cart{ID: "c1", UserID: "u1"}}
	store := newMemStore()
	svc := New(repo, &stubProductRepo{}, store, zap.NewNop())

	cart, err := svc.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cart.ID != "c1" {
		t.Fatalf("unexpected cart: %+v", cart)
	}
	if _, ok := store.data[cache.CartKey("u1")]; !ok {
		t.Fatal("expected cart to be cached")
	}
}

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	svc := New(&stubRepo{}, &stubProductRepo{}, newMemStore(), zap.NewNop())
	if _, err := svc.AddItem(context.Background(), "u1", "p1", 0); err == nil {
		t.Fatal("expected error for zero quantity")
	}
}

func TestAddItemAdvisoryStockCheck(t *testing.T) {
	products := &stubProductRepo{product: &domain.Product{ID: "p1", Name: "Cotton T-Shirt", AvailableQuantity: 1}}
	svc := New(&stubRepo{}, products, newMemStore(), zap.NewNop())

	_, err := svc.AddItem(context.Background(), "u1", "p1", 3)
	oos, ok := domain.AsOutOfStock(err)
	if !ok {
		t.Fatalf("expected OutOfStockError, got %v", err)
	}
	if oos.ProductName != "Cotton T-Shirt" {
		t.Fatalf("expected product name, got %q", oos.ProductName)
	}
}

func TestAddItemUpsertsAndRefreshesCache(t *testing.T) {
	repo := &stubRepo{cart: &domain.Cart{ID: "c1", UserID: "u1"}}
	products := &stubProductRepo{product: &domain.Product{ID: "p1", AvailableQuantity: 10}}
	store := newMemStore()
	svc := New(repo, products, store, zap.NewNop())

	if _, err := svc.AddItem(context.Background(), "u1", "p1", 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastAddCart != "c1" || repo.lastAddProd != "p1" || repo.lastAddQty != 2 {
		t.Fatalf("unexpected AddLine call: %s %s %d", repo.lastAddCart, repo.lastAddProd, repo.lastAddQty)
	}
	if _, ok := store.data[cache.CartKey("u1")]; !ok {
		t.Fatal("expected cache refresh after mutation")
	}
}

func TestClearEvictsCache(t *testing.T) {
	repo := &stubRepo{cart: &domain.Cart{ID: "c1", UserID: "u1"}}
	store := newMemStore()
	store.data[cache.CartKey("u1")] = []byte("{}")
	svc := New(repo, &stubProductRepo{}, store, zap.NewNop())

	if err := svc.Clear(context.Background(), "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.clearedCartID != "c1" {
		t.Fatalf("expected cart c1 cleared, got %q", repo.clearedCartID)
	}
	if _, ok := store.data[cache.CartKey("u1")]; ok {
		t.Fatal("expected cart cache entry to be evicted")
	}
}
