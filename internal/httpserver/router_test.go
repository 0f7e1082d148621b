package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"marketcore/internal/domain"
	paymentsvc "marketcore/internal/service/payment"
)

type stubCartSvc struct {
	cart    *domain.Cart
	err     error
	cleared bool
}

func (s *stubCartSvc) Get(_ context.Context, _ string) (*domain.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartSvc) AddItem(_ context.Context, _, _ string, _ int) (*domain.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartSvc) RemoveItem(_ context.Context, _, _ string) (*domain.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartSvc) Clear(_ context.Context, _ string) error {
	s.cleared = true
	return s.err
}

type stubOrderSvc struct {
	order      *domain.Order
	orders     []domain.Order
	err        error
	lastUserID string
	lastStatus domain.OrderStatus
}

func (s *stubOrderSvc) Place(_ context.Context, userID, _ string) (*domain.Order, error) {
	s.lastUserID = userID
	return s.order, s.err
}

func (s *stubOrderSvc) Cancel(_ context.Context, userID, _ string) (*domain.Order, error) {
	s.lastUserID = userID
	return s.order, s.err
}

func (s *stubOrderSvc) Get(_ context.Context, userID, _ string) (*domain.Order, error) {
	s.lastUserID = userID
	return s.order, s.err
}

func (s *stubOrderSvc) List(_ context.Context, userID string, _, _ int) ([]domain.Order, error) {
	s.lastUserID = userID
	return s.orders, s.err
}

func (s *stubOrderSvc) UpdateStatus(_ context.Context, _ string, status domain.OrderStatus) (*domain.Order, error) {
	s.lastStatus = status
	return s.order, s.err
}

type stubPaymentSvc struct {
	intent       *paymentsvc.Intent
	callbackID   string
	err          error
	callbackSeen bool
}

func (s *stubPaymentSvc) CreateIntent(_ context.Context, _ string) (*paymentsvc.Intent, error) {
	return s.intent, s.err
}

func (s *stubPaymentSvc) ReconcileCallback(_ context.Context, _, _, _ string) (string, error) {
	s.callbackSeen = true
	return s.callbackID, s.err
}

type stubUsers struct {
	user *domain.User
	err  error
}

func (s *stubUsers) GetByID(_ context.Context, _ string) (*domain.User, error) {
	return s.user, s.err
}

type stubTokens struct {
	users map[string]string
}

func (s *stubTokens) Validate(_ context.Context, token string) (string, bool) {
	userID, ok := s.users[token]
	return userID, ok
}

func defaultDeps() Deps {
	return Deps{
		CartSvc:    &stubCartSvc{cart: &domain.Cart{ID: "c1"}},
		OrderSvc:   &stubOrderSvc{},
		PaymentSvc: &stubPaymentSvc{},
		Tokens:     &stubTokens{users: map[string]string{"tok-alice": "u1"}},
		Users:      &stubUsers{user: &domain.User{ID: "u1", Email: "alice@example.com"}},
	}
}

func newTestRouter(t *testing.T, deps Deps) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router, err := buildRouter(zap.NewNop(), nil, deps)
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	return router
}

func doJSON(router *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAuthRequired(t *testing.T) {
	router := newTestRouter(t, defaultDeps())

	rec := doJSON(router, http.MethodGet, "/cart", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	rec = doJSON(router, http.MethodGet, "/cart", "tok-unknown", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad token, got %d", rec.Code)
	}
}

func TestGetCart(t *testing.T) {
	router := newTestRouter(t, defaultDeps())

	rec := doJSON(router, http.MethodGet, "/cart", "tok-alice", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"id":"c1"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestAddCartItemValidation(t *testing.T) {
	router := newTestRouter(t, defaultDeps())

	rec := doJSON(router, http.MethodPost, "/cart/items", "tok-alice", `{"productId":"p1"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing quantity, got %d", rec.Code)
	}

	rec = doJSON(router, http.MethodPost, "/cart/items", "tok-alice", `{"productId":"p1","quantity":0}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for zero quantity, got %d", rec.Code)
	}
}

func TestPlaceOrderCreated(t *testing.T) {
	deps := defaultDeps()
	orderSvc := &stubOrderSvc{order: &domain.Order{ID: "o1", UserID: "u1", Status: domain.OrderPending, TotalCents: 2500}}
	deps.OrderSvc = orderSvc
	router := newTestRouter(t, deps)

	rec := doJSON(router, http.MethodPost, "/orders", "tok-alice", `{"addressId":"a1"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	if orderSvc.lastUserID != "u1" {
		t.Fatalf("expected user id from token, got %q", orderSvc.lastUserID)
	}
	if !strings.Contains(rec.Body.String(), `"status":"PENDING"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestPlaceOrderErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"empty cart", domain.ErrEmptyCart, http.StatusBadRequest},
		{"foreign address", domain.ErrAccessDenied, http.StatusForbidden},
		{"out of stock", &domain.OutOfStockError{ProductID: "p1", ProductName: "Ceramic Mug"}, http.StatusConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			deps := defaultDeps()
			deps.OrderSvc = &stubOrderSvc{err: tc.err}
			router := newTestRouter(t, deps)

			rec := doJSON(router, http.MethodPost, "/orders", "tok-alice", `{"addressId":"a1"}`)
			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d body=%s", tc.code, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestOutOfStockResponseNamesProduct(t *testing.T) {
	deps := defaultDeps()
	deps.OrderSvc = &stubOrderSvc{err: &domain.OutOfStockError{ProductID: "p1", ProductName: "Ceramic Mug"}}
	router := newTestRouter(t, deps)

	rec := doJSON(router, http.MethodPost, "/orders", "tok-alice", `{"addressId":"a1"}`)
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["productName"] != "Ceramic Mug" {
		t.Fatalf("expected product name in response, got %v", body)
	}
}

func TestGetOrderStatuses(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"not found", domain.ErrNotFound, http.StatusNotFound},
		{"foreign order", domain.ErrAccessDenied, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			deps := defaultDeps()
			deps.OrderSvc = &stubOrderSvc{err: tc.err}
			router := newTestRouter(t, deps)

			rec := doJSON(router, http.MethodGet, "/orders/o1", "tok-alice", "")
			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
		})
	}
}

func TestCancelOrderConflict(t *testing.T) {
	deps := defaultDeps()
	deps.OrderSvc = &stubOrderSvc{err: domain.ErrInvalidTransition}
	router := newTestRouter(t, deps)

	rec := doJSON(router, http.MethodPost, "/orders/o1/cancel", "tok-alice", "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestCreateIntentStatuses(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"already paid", domain.ErrAlreadyPaid, http.StatusConflict},
		{"provider down", domain.ErrProviderUnavailable, http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			deps := defaultDeps()
			deps.PaymentSvc = &stubPaymentSvc{err: tc.err}
			router := newTestRouter(t, deps)

			rec := doJSON(router, http.MethodPost, "/orders/o1/payment-intent", "tok-alice", "")
			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
		})
	}
}

func TestPaymentCallbackNeedsNoBearer(t *testing.T) {
	deps := defaultDeps()
	paySvc := &stubPaymentSvc{callbackID: "o1"}
	deps.PaymentSvc = paySvc
	router := newTestRouter(t, deps)

	body := `{"providerOrderRef":"order_prov_1","providerPaymentRef":"pay_1","signature":"sig"}`
	rec := doJSON(router, http.MethodPost, "/payments/callback", "", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !paySvc.callbackSeen {
		t.Fatal("expected callback to reach the service")
	}
	if !strings.Contains(rec.Body.String(), `"orderId":"o1"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestPaymentCallbackRejections(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"bad signature", domain.ErrVerificationFailed, http.StatusBadRequest},
		{"mapping missing", domain.ErrOrderMappingMissing, http.StatusBadRequest},
		{"sweeper won", domain.ErrInvalidTransition, http.StatusConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			deps := defaultDeps()
			deps.PaymentSvc = &stubPaymentSvc{err: tc.err}
			router := newTestRouter(t, deps)

			body := `{"providerOrderRef":"order_prov_1","providerPaymentRef":"pay_1","signature":"sig"}`
			rec := doJSON(router, http.MethodPost, "/payments/callback", "", body)
			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
		})
	}
}

func TestAdminStatusUpdate(t *testing.T) {
	deps := defaultDeps()
	deps.AdminAPIKey = "admin-key"
	orderSvc := &stubOrderSvc{order: &domain.Order{ID: "o1", Status: domain.OrderShipped}}
	deps.OrderSvc = orderSvc
	router := newTestRouter(t, deps)

	req := httptest.NewRequest(http.MethodPatch, "/admin/orders/o1/status", strings.NewReader(`{"status":"SHIPPED"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Admin-Key", "admin-key")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if orderSvc.lastStatus != domain.OrderShipped {
		t.Fatalf("expected SHIPPED, got %s", orderSvc.lastStatus)
	}
}

func TestAdminRejectsBadKey(t *testing.T) {
	deps := defaultDeps()
	deps.AdminAPIKey = "admin-key"
	router := newTestRouter(t, deps)

	req := httptest.NewRequest(http.MethodPatch, "/admin/orders/o1/status", strings.NewReader(`{"status":"SHIPPED"}`))
	req.Header.Set("X-Admin-Key", "wrong")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestAdminDisabledWithoutKey(t *testing.T) {
	router := newTestRouter(t, defaultDeps())

	req := httptest.NewRequest(http.MethodPatch, "/admin/orders/o1/status", strings.NewReader(`{"status":"SHIPPED"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestMe(t *testing.T) {
	router := newTestRouter(t, defaultDeps())

	rec := doJSON(router, http.MethodGet, "/me", "tok-alice", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"email":"alice@example.com"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t, defaultDeps())

	rec := doJSON(router, http.MethodGet, "/healthz", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
