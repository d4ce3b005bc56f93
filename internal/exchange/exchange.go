package exchange

import (
	"context"
	"encoding/json"

	"lv-exgate/internal/types"
)

// Adapter is the common capability set every supported exchange implements.
// Adapters are stateless singletons: credentials are passed per call and
// never retained.
type Adapter interface {
	Name() string
	TestConnection(ctx context.Context) error
	GetBalance(ctx context.Context, creds Credentials) (json.RawMessage, error)
	GetPortfolio(ctx context.Context, creds Credentials) ([]Asset, error)
	PlaceOrder(ctx context.Context, creds Credentials, req OrderRequest) (json.RawMessage, error)
	CancelOrder(ctx context.Context, creds Credentials, orderID, symbol string) (json.RawMessage, error)
	GetOrderHistory(ctx context.Context, creds Credentials, symbol string, limit int) (json.RawMessage, error)
	GetTicker(ctx context.Context, symbol string) (json.RawMessage, error)
	GetSymbols(ctx context.Context) (json.RawMessage, error)
	GetDepth(ctx context.Context, symbol string, limit int) (json.RawMessage, error)
}

// OrderRequest is the exchange-agnostic order a caller submits. Price is nil
// for MARKET orders; for MARKET buys Quantity denotes quote-currency spend
// where the venue supports it.
type OrderRequest struct {
	Symbol   string
	Side     types.OrderSide
	Type     types.OrderType
	Quantity float64
	Price    *float64
}

// Asset is one normalized balance row as a single exchange reports it.
// Total is exchange-reported, not recomputed.
type Asset struct {
	Currency    string  `json:"currency"`
	Available   float64 `json:"available"`
	Frozen      float64 `json:"frozen"`
	Total       float64 `json:"total"`
	USDValue    float64 `json:"usdValue,omitempty"`
	AccountType string  `json:"accountType,omitempty"`
}
