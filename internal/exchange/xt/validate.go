package xt

import (
	"fmt"

	"github.com/shopspring/decimal"

	"lv-exgate/internal/exchange"
	"lv-exgate/internal/types"
)

// SymbolMetadata holds the trading rules an order is validated against.
type SymbolMetadata struct {
	Symbol         string
	MinQty         float64
	MinNotional    float64
	BasePrecision  int32
	PricePrecision int32
}

// validateOrder checks an order against the symbol's trading rules before it
// is submitted. Every failing rule is reported, not just the first.
func validateOrder(meta SymbolMetadata, req exchange.OrderRequest) error {
	var violations []string
	qty := decimal.NewFromFloat(req.Quantity)
	minQty := decimal.NewFromFloat(meta.MinQty)
	minNotional := decimal.NewFromFloat(meta.MinNotional)

	switch req.Type {
	case types.OrderTypeLimit:
		if req.Price == nil || *req.Price <= 0 {
			violations = append(violations, "price must be a positive number")
			break
		}
		price := decimal.NewFromFloat(*req.Price)
		total := qty.Mul(price)
		if qty.LessThan(minQty) {
			violations = append(violations, fmt.Sprintf("quantity %s is below the minimum %s", qty, minQty))
		}
		if total.LessThan(minNotional) {
			violations = append(violations, fmt.Sprintf("order total %s is below the minimum notional %s", total, minNotional))
		}
		if decimalPlaces(qty) > meta.BasePrecision {
			violations = append(violations, fmt.Sprintf("quantity exceeds %d decimal places", meta.BasePrecision))
		}
		if decimalPlaces(price) > meta.PricePrecision {
			violations = append(violations, fmt.Sprintf("price exceeds %d decimal places", meta.PricePrecision))
		}
	case types.OrderTypeMarket:
		// MARKET quantity is notional spend on XT, so it is held to the
		// quote-side minimum.
		if qty.LessThan(minNotional) {
			violations = append(violations, fmt.Sprintf("amount %s is below the minimum notional %s", qty, minNotional))
		}
	}

	if len(violations) > 0 {
		return &exchange.ValidationError{Violations: violations}
	}
	return nil
}

func decimalPlaces(d decimal.Decimal) int32 {
	if e := d.Exponent(); e < 0 {
		return -e
	}
	return 0
}
