package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"lv-exgate/internal/ai"
	"lv-exgate/internal/balances"
	"lv-exgate/internal/exchange"
	"lv-exgate/internal/market"
	"lv-exgate/internal/orders"
)

type stubAdapter struct {
	name string
}

func (s *stubAdapter) Name() string { return s.name }

func (s *stubAdapter) TestConnection(context.Context) error { return nil }

func (s *stubAdapter) GetBalance(context.Context, exchange.Credentials) (json.RawMessage, error) {
	return json.RawMessage(`{"totalUsdtAmount":"100"}`), nil
}

func (s *stubAdapter) GetPortfolio(context.Context, exchange.Credentials) ([]exchange.Asset, error) {
	return []exchange.Asset{{Currency: "USDT", Available: 100, Total: 100}}, nil
}

func (s *stubAdapter) PlaceOrder(context.Context, exchange.Credentials, exchange.OrderRequest) (json.RawMessage, error) {
	return json.RawMessage(`{"orderId":"1"}`), nil
}

func (s *stubAdapter) CancelOrder(context.Context, exchange.Credentials, string, string) (json.RawMessage, error) {
	return json.RawMessage(`{"cancelled":true}`), nil
}

func (s *stubAdapter) GetOrderHistory(context.Context, exchange.Credentials, string, int) (json.RawMessage, error) {
	return json.RawMessage(`[]`), nil
}

func (s *stubAdapter) GetTicker(context.Context, string) (json.RawMessage, error) {
	return json.RawMessage(`{"price":"50000"}`), nil
}

func (s *stubAdapter) GetSymbols(context.Context) (json.RawMessage, error) {
	return json.RawMessage(`[]`), nil
}

func (s *stubAdapter) GetDepth(context.Context, string, int) (json.RawMessage, error) {
	return json.RawMessage(`{"bids":[],"asks":[]}`), nil
}

func testRouter(secret, issuer string) http.Handler {
	registry := exchange.NewRegistry(&stubAdapter{name: "xt"})
	return NewRouter(RouterDeps{
		BalanceHandler: balances.NewHandler(balances.NewService(registry)),
		OrderHandler:   orders.NewHandler(orders.NewService(registry)),
		MarketHandler:  market.NewHandler(market.NewService(registry)),
		ChatHandler:    ai.NewHandler(ai.NewService(ai.NewGeminiClient("", ""), ai.NewChainGPTClient("", ""))),
		JWTSecret:      secret,
		JWTIssuer:      issuer,
	})
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter("", "").ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestBuyCreated(t *testing.T) {
	body := `{"exchange":"xt","symbol":"btc_usdt","quantity":0.01,"price":50000}`
	req := httptest.NewRequest("POST", "/v1/buy", strings.NewReader(body))
	req.Header.Set("x-api-key", "ak")
	req.Header.Set("x-secret-key", "sk")
	rec := httptest.NewRecorder()
	testRouter("", "").ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			OrderID string `json:"orderId"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.Data.OrderID != "1" {
		t.Fatalf("unexpected response: %s", rec.Body.String())
	}
}

func TestBuyMissingCredentials(t *testing.T) {
	body := `{"exchange":"xt","symbol":"btc_usdt","quantity":0.01,"price":50000}`
	req := httptest.NewRequest("POST", "/v1/buy", strings.NewReader(body))
	rec := httptest.NewRecorder()
	testRouter("", "").ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestBuyValidationFailure(t *testing.T) {
	body := `{"exchange":"xt","symbol":"btc_usdt","quantity":0.01,"type":"LIMIT"}`
	req := httptest.NewRequest("POST", "/v1/buy", strings.NewReader(body))
	req.Header.Set("x-api-key", "ak")
	req.Header.Set("x-secret-key", "sk")
	rec := httptest.NewRecorder()
	testRouter("", "").ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Violations []string `json:"violations"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Violations) != 1 || resp.Violations[0] != "Price is required for LIMIT orders" {
		t.Fatalf("unexpected violations: %s", rec.Body.String())
	}
}

func TestCombinedWithoutCredentialsListsRequiredHeaders(t *testing.T) {
	req := httptest.NewRequest("GET", "/v1/portfolio/combined", nil)
	rec := httptest.NewRecorder()
	testRouter("", "").ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		RequiredHeaders []string `json:"requiredHeaders"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.RequiredHeaders) == 0 {
		t.Fatalf("expected header hint, got %s", rec.Body.String())
	}
}

func TestCombinedAggregates(t *testing.T) {
	req := httptest.NewRequest("GET", "/v1/portfolio/combined", nil)
	req.Header.Set("x-xt-api-key", "ak")
	req.Header.Set("x-xt-secret-key", "sk")
	rec := httptest.NewRecorder()
	testRouter("", "").ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Data struct {
			TotalAssets int      `json:"totalAssets"`
			Exchanges   []string `json:"exchanges"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.TotalAssets != 1 || len(resp.Data.Exchanges) != 1 {
		t.Fatalf("unexpected combined payload: %s", rec.Body.String())
	}
}

func TestUnknownExchange(t *testing.T) {
	req := httptest.NewRequest("GET", "/v1/portfolio?exchange=mtgox", nil)
	req.Header.Set("x-api-key", "ak")
	req.Header.Set("x-secret-key", "sk")
	rec := httptest.NewRecorder()
	testRouter("", "").ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestPreflightAllowsCredentialHeaders(t *testing.T) {
	req := httptest.NewRequest("OPTIONS", "/v1/buy", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()
	testRouter("", "").ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	allowed := rec.Header().Get("Access-Control-Allow-Headers")
	if !strings.Contains(allowed, "x-api-key") || !strings.Contains(allowed, "x-xt-secret-key") {
		t.Fatalf("credential headers missing from preflight: %s", allowed)
	}
}

func TestAuthRequiredWhenConfigured(t *testing.T) {
	router := testRouter("topsecret", "exgate")

	req := httptest.NewRequest("GET", "/v1/symbols?exchange=xt", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    "exgate",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte("topsecret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	req = httptest.NewRequest("GET", "/v1/symbols?exchange=xt", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d: %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest("GET", "/v1/symbols?exchange=xt", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with bad token, got %d", rec.Code)
	}
}

func TestRateLimiterKicksIn(t *testing.T) {
	registry := exchange.NewRegistry(&stubAdapter{name: "xt"})
	router := NewRouter(RouterDeps{
		BalanceHandler: balances.NewHandler(balances.NewService(registry)),
		OrderHandler:   orders.NewHandler(orders.NewService(registry)),
		MarketHandler:  market.NewHandler(market.NewService(registry)),
		ChatHandler:    ai.NewHandler(ai.NewService(ai.NewGeminiClient("", ""), ai.NewChainGPTClient("", ""))),
		RateLimiter:    NewRateLimiter(1, 1),
	})

	req := httptest.NewRequest("GET", "/health", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request must pass, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request must be limited, got %d", rec.Code)
	}

	// A different client keeps its own bucket.
	other := httptest.NewRequest("GET", "/health", nil)
	other.RemoteAddr = "10.0.0.2:1234"
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, other)
	if rec.Code != http.StatusOK {
		t.Fatalf("other client must not be limited, got %d", rec.Code)
	}
}
