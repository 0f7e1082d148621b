package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"marketcore/internal/domain"
)

// HTTPProvider is a REST client for the payment provider. All calls run
// through a circuit breaker so a dead provider fails fast instead of tying up
// request workers; an open breaker surfaces as domain.ErrProviderUnavailable,
// which callers treat as retryable.
type HTTPProvider struct {
	baseURL   string
	keyID     string
	keySecret string
	client    *http.Client
	breaker   *gobreaker.CircuitBreaker[*ProviderOrder]
	logger    *zap.Logger
}

func NewHTTPProvider(baseURL, keyID, keySecret string, logger *zap.Logger) *HTTPProvider {
	breaker := gobreaker.NewCircuitBreaker[*ProviderOrder](gobreaker.Settings{
		Name:    "payment-provider",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("payment provider breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &HTTPProvider{
		baseURL:   baseURL,
		keyID:     keyID,
		keySecret: keySecret,
		client:    &http.Client{Timeout: 10 * time.Second},
		breaker:   breaker,
		logger:    logger,
	}
}

func (p *HTTPProvider) CreateOrder(ctx context.Context, params CreateOrderParams) (*ProviderOrder, error) {
	payload := map[string]any{
		"amount":   params.AmountCents,
		"currency": params.Currency,
		"receipt":  params.Receipt,
		"notes": map[string]string{
			orderIDNoteKey: params.InternalOrderID,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal provider order: %w", err)
	}
	return p.execute(ctx, http.MethodPost, p.baseURL+"/orders", body)
}

func (p *HTTPProvider) FetchOrder(ctx context.Context, providerOrderID string) (*ProviderOrder, error) {
	return p.execute(ctx, http.MethodGet, p.baseURL+"/orders/"+providerOrderID, nil)
}

func (p *HTTPProvider) execute(ctx context.Context, method, url string, body []byte) (*ProviderOrder, error) {
	out, err := p.breaker.Execute(func() (*ProviderOrder, error) {
		return p.do(ctx, method, url, body)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: circuit open", domain.ErrProviderUnavailable)
		}
		return nil, err
	}
	return out, nil
}

func (p *HTTPProvider) do(ctx context.Context, method, url string, body []byte) (*ProviderOrder, error) {
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("build provider request: %w", err)
	}
	req.SetBasicAuth(p.keyID, p.keySecret)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: provider returned %d", domain.ErrProviderUnavailable, resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		return nil, domain.ErrNotFound
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("provider rejected request: status %d", resp.StatusCode)
	}

	var out ProviderOrder
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode provider response: %w", err)
	}
	return &out, nil
}
