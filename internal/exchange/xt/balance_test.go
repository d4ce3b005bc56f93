package xt

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"lv-exgate/internal/exchange"
	"lv-exgate/internal/types"
)

func TestSplitSymbol(t *testing.T) {
	base, quote, err := splitSymbol("btc_usdt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if base != "btc" || quote != "usdt" {
		t.Fatalf("got %s/%s, want btc/usdt", base, quote)
	}
	for _, bad := range []string{"btcusdt", "_usdt", "btc_", ""} {
		if _, _, err := splitSymbol(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestReserveFor(t *testing.T) {
	one := decimal.NewFromInt(1)
	if !reserveFor("usdt").Equal(one) {
		t.Fatal("expected 1 unit reserve for usdt quote")
	}
	if !reserveFor("USDT").Equal(one) {
		t.Fatal("reserve check must be case-insensitive")
	}
	if !reserveFor("btc").IsZero() {
		t.Fatal("expected zero reserve for non-usdt quote")
	}
}

func balancesServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v4/balances" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("validate-signature") == "" {
			t.Error("expected signed request")
		}
		w.Write([]byte(body))
	}))
}

func TestCheckBalanceCoversLimitBuyWithReserve(t *testing.T) {
	srv := balancesServer(t, `{"rc":0,"mc":"SUCCESS","result":{"assets":[
		{"currency":"usdt","availableAmount":"501","frozenAmount":"0","totalAmount":"501"}
	]}}`)
	defer srv.Close()

	c := New(WithBaseURL(srv.URL))
	creds := exchange.Credentials{APIKey: "ak", SecretKey: "sk"}
	req := exchange.OrderRequest{
		Symbol:   "btc_usdt",
		Side:     types.OrderSideBuy,
		Type:     types.OrderTypeLimit,
		Quantity: 0.01,
		Price:    ptr(50000),
	}
	// 0.01 * 50000 = 500, plus the 1 USDT reserve = 501 exactly.
	if err := c.checkBalance(context.Background(), creds, req); err != nil {
		t.Fatalf("expected sufficient balance, got %v", err)
	}
}

func TestCheckBalanceInsufficient(t *testing.T) {
	srv := balancesServer(t, `{"rc":0,"mc":"SUCCESS","result":{"assets":[
		{"currency":"usdt","availableAmount":"100","frozenAmount":"0","totalAmount":"100"}
	]}}`)
	defer srv.Close()

	c := New(WithBaseURL(srv.URL))
	creds := exchange.Credentials{APIKey: "ak", SecretKey: "sk"}
	req := exchange.OrderRequest{
		Symbol:   "btc_usdt",
		Side:     types.OrderSideBuy,
		Type:     types.OrderTypeLimit,
		Quantity: 0.01,
		Price:    ptr(50000),
	}
	err := c.checkBalance(context.Background(), creds, req)
	var berr *exchange.InsufficientBalanceError
	if !errors.As(err, &berr) {
		t.Fatalf("expected InsufficientBalanceError, got %v", err)
	}
	if berr.Currency != "USDT" {
		t.Fatalf("expected USDT, got %s", berr.Currency)
	}
	if berr.Required != 501 || berr.Available != 100 {
		t.Fatalf("got required=%v available=%v, want 501/100", berr.Required, berr.Available)
	}
}

func TestCheckBalanceSellUsesBaseCurrency(t *testing.T) {
	srv := balancesServer(t, `{"rc":0,"mc":"SUCCESS","result":{"assets":[
		{"currency":"btc","availableAmount":"0.005","frozenAmount":"0","totalAmount":"0.005"}
	]}}`)
	defer srv.Close()

	c := New(WithBaseURL(srv.URL))
	creds := exchange.Credentials{APIKey: "ak", SecretKey: "sk"}
	req := exchange.OrderRequest{
		Symbol:   "btc_usdt",
		Side:     types.OrderSideSell,
		Type:     types.OrderTypeMarket,
		Quantity: 0.01,
	}
	err := c.checkBalance(context.Background(), creds, req)
	var berr *exchange.InsufficientBalanceError
	if !errors.As(err, &berr) {
		t.Fatalf("expected InsufficientBalanceError, got %v", err)
	}
	if berr.Currency != "BTC" {
		t.Fatalf("expected BTC, got %s", berr.Currency)
	}
}

func TestGetPortfolioNormalization(t *testing.T) {
	srv := balancesServer(t, `{"rc":0,"mc":"SUCCESS","result":{"assets":[
		{"currency":"usdt","availableAmount":"80","frozenAmount":"20","convertUsdtAmount":"100"},
		{"currency":"dust","availableAmount":"0","frozenAmount":"0","totalAmount":"0"}
	]}}`)
	defer srv.Close()

	c := New(WithBaseURL(srv.URL))
	assets, err := c.GetPortfolio(context.Background(), exchange.Credentials{APIKey: "ak", SecretKey: "sk"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(assets) != 1 {
		t.Fatalf("zero-total assets must be dropped, got %v", assets)
	}
	a := assets[0]
	// totalAmount was absent, so total falls back to available+frozen.
	if a.Available != 80 || a.Frozen != 20 || a.Total != 100 || a.USDValue != 100 {
		t.Fatalf("unexpected normalization: %+v", a)
	}
}

func TestRejectedResponseMapsErrorTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rc":1,"mc":"AUTH_001"}`))
	}))
	defer srv.Close()

	c := New(WithBaseURL(srv.URL))
	_, err := c.GetBalance(context.Background(), exchange.Credentials{APIKey: "ak", SecretKey: "sk"})
	var rej *exchange.RejectionError
	if !errors.As(err, &rej) {
		t.Fatalf("expected RejectionError, got %v", err)
	}
	if rej.Exchange != "xt" || rej.Code != "AUTH_001" || rej.Kind != exchange.KindAuthFailed {
		t.Fatalf("unexpected rejection: %+v", rej)
	}
}
