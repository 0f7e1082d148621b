package payment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"marketcore/internal/domain"
)

func TestHTTPProviderCreateOrder(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if user, pass, ok := r.BasicAuth(); !ok || user != "key" || pass != "secret" {
			t.Errorf("unexpected basic auth %q %q", user, pass)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		json.NewEncoder(w).Encode(ProviderOrder{
			ID:          "order_prov_1",
			AmountCents: 2500,
			Currency:    "INR",
			Status:      "created",
			Notes:       map[string]string{"internal_order_id": "o1"},
		})
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, "key", "secret", zap.NewNop())
	out, err := p.CreateOrder(context.Background(), CreateOrderParams{
		AmountCents:     2500,
		Currency:        "INR",
		Receipt:         "rcpt_1",
		InternalOrderID: "o1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/orders" {
		t.Fatalf("expected POST /orders, got %s", gotPath)
	}
	if gotBody["receipt"] != "rcpt_1" {
		t.Fatalf("expected receipt in payload, got %v", gotBody)
	}
	notes, _ := gotBody["notes"].(map[string]any)
	if notes["internal_order_id"] != "o1" {
		t.Fatalf("expected internal order id note, got %v", gotBody["notes"])
	}
	if out.ID != "order_prov_1" {
		t.Fatalf("unexpected provider order: %+v", out)
	}
	if id, ok := out.InternalOrderID(); !ok || id != "o1" {
		t.Fatalf("expected internal order id o1, got %q", id)
	}
}

func TestHTTPProviderFetchOrderNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, "key", "secret", zap.NewNop())
	_, err := p.FetchOrder(context.Background(), "order_unknown")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestHTTPProviderServerErrorIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, "key", "secret", zap.NewNop())
	_, err := p.FetchOrder(context.Background(), "order_1")
	if !errors.Is(err, domain.ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestHTTPProviderBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, "key", "secret", zap.NewNop())
	for i := 0; i < 5; i++ {
		if _, err := p.FetchOrder(context.Background(), "order_1"); !errors.Is(err, domain.ErrProviderUnavailable) {
			t.Fatalf("call %d: expected ErrProviderUnavailable, got %v", i, err)
		}
	}

	srv.Close()
	// The breaker is open now; the failed backend is no longer consulted.
	_, err := p.FetchOrder(context.Background(), "order_1")
	if !errors.Is(err, domain.ErrProviderUnavailable) {
		t.Fatalf("expected circuit-open error, got %v", err)
	}
}
