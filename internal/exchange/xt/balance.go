package xt

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"lv-exgate/internal/exchange"
	"lv-exgate/internal/types"
)

// splitSymbol breaks an XT BASE_QUOTE symbol (e.g. btc_usdt) into its parts.
func splitSymbol(symbol string) (base, quote string, err error) {
	parts := strings.Split(symbol, "_")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid symbol %q, expected base_quote", symbol)
	}
	return parts[0], parts[1], nil
}

// reserveFor is the balance XT requires to stay behind after a quote-side
// spend: one whole unit when the quote currency is USDT.
func reserveFor(quote string) decimal.Decimal {
	if strings.EqualFold(quote, "usdt") {
		return decimal.NewFromInt(1)
	}
	return decimal.Zero
}

// checkBalance verifies the account can cover the order before it is
// submitted. Buys are funded in quote currency (for MARKET buys the quantity
// already denotes quote spend), sells in base currency.
func (c *Client) checkBalance(ctx context.Context, creds exchange.Credentials, req exchange.OrderRequest) error {
	base, quote, err := splitSymbol(req.Symbol)
	if err != nil {
		return &exchange.ValidationError{Violations: []string{err.Error()}}
	}

	qty := decimal.NewFromFloat(req.Quantity)
	var currency string
	var required decimal.Decimal
	if req.Side == types.OrderSideBuy {
		currency = quote
		if req.Type == types.OrderTypeLimit {
			required = qty.Mul(decimal.NewFromFloat(*req.Price))
		} else {
			required = qty
		}
		required = required.Add(reserveFor(quote))
	} else {
		currency = base
		required = qty
	}

	available, err := c.availableBalance(ctx, creds, currency)
	if err != nil {
		return err
	}
	if available.LessThan(required) {
		return &exchange.InsufficientBalanceError{
			Currency:  strings.ToUpper(currency),
			Required:  required.InexactFloat64(),
			Available: available.InexactFloat64(),
		}
	}
	return nil
}

func (c *Client) availableBalance(ctx context.Context, creds exchange.Credentials, currency string) (decimal.Decimal, error) {
	portfolio, err := c.GetPortfolio(ctx, creds)
	if err != nil {
		return decimal.Zero, err
	}
	for _, a := range portfolio {
		if strings.EqualFold(a.Currency, currency) {
			return decimal.NewFromFloat(a.Available), nil
		}
	}
	return decimal.Zero, nil
}
