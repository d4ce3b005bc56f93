package xt

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"lv-exgate/internal/exchange"
	"lv-exgate/internal/types"
)

func btcMeta() SymbolMetadata {
	return SymbolMetadata{
		Symbol:         "btc_usdt",
		MinQty:         0.0001,
		MinNotional:    5,
		BasePrecision:  6,
		PricePrecision: 2,
	}
}

func ptr(f float64) *float64 { return &f }

func TestValidateOrderLimitOK(t *testing.T) {
	req := exchange.OrderRequest{
		Symbol:   "btc_usdt",
		Side:     types.OrderSideBuy,
		Type:     types.OrderTypeLimit,
		Quantity: 0.01,
		Price:    ptr(50000),
	}
	if err := validateOrder(btcMeta(), req); err != nil {
		t.Fatalf("expected valid order, got %v", err)
	}
}

func TestValidateOrderLimitBelowMinimums(t *testing.T) {
	req := exchange.OrderRequest{
		Symbol:   "btc_usdt",
		Side:     types.OrderSideBuy,
		Type:     types.OrderTypeLimit,
		Quantity: 0.00001,
		Price:    ptr(50000),
	}
	err := validateOrder(btcMeta(), req)
	var verr *exchange.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	// 0.00001 is below minQty and 0.00001*50000=0.5 is below minNotional:
	// both rules must be reported together.
	if len(verr.Violations) != 2 {
		t.Fatalf("expected 2 violations, got %v", verr.Violations)
	}
	if !strings.Contains(verr.Violations[0], "below the minimum") {
		t.Fatalf("unexpected violation %q", verr.Violations[0])
	}
	if !strings.Contains(verr.Violations[1], "minimum notional") {
		t.Fatalf("unexpected violation %q", verr.Violations[1])
	}
}

func TestValidateOrderLimitMissingPrice(t *testing.T) {
	req := exchange.OrderRequest{
		Symbol:   "btc_usdt",
		Side:     types.OrderSideBuy,
		Type:     types.OrderTypeLimit,
		Quantity: 0.01,
	}
	err := validateOrder(btcMeta(), req)
	var verr *exchange.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Violations) != 1 || !strings.Contains(verr.Violations[0], "positive") {
		t.Fatalf("unexpected violations %v", verr.Violations)
	}
}

func TestValidateOrderPrecision(t *testing.T) {
	req := exchange.OrderRequest{
		Symbol:   "btc_usdt",
		Side:     types.OrderSideBuy,
		Type:     types.OrderTypeLimit,
		Quantity: 0.1234567, // 7 decimal places, base precision is 6
		Price:    ptr(50000.123),
	}
	err := validateOrder(btcMeta(), req)
	var verr *exchange.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Violations) != 2 {
		t.Fatalf("expected quantity and price precision violations, got %v", verr.Violations)
	}
}

func TestValidateOrderMarketNotional(t *testing.T) {
	// MARKET quantity denotes quote spend, so it is checked against the
	// quote-side minimum directly.
	req := exchange.OrderRequest{
		Symbol:   "btc_usdt",
		Side:     types.OrderSideBuy,
		Type:     types.OrderTypeMarket,
		Quantity: 2,
	}
	err := validateOrder(btcMeta(), req)
	var verr *exchange.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	req.Quantity = 10
	if err := validateOrder(btcMeta(), req); err != nil {
		t.Fatalf("expected valid market order, got %v", err)
	}
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", s, err)
	}
	return d
}

func TestDecimalPlaces(t *testing.T) {
	cases := []struct {
		in   string
		want int32
	}{
		{"1", 0},
		{"0.1", 1},
		{"0.000001", 6},
		{"100", 0},
	}
	for _, c := range cases {
		d := mustDecimal(t, c.in)
		if got := decimalPlaces(d); got != c.want {
			t.Fatalf("decimalPlaces(%s) = %d, want %d", c.in, got, c.want)
		}
	}
}
