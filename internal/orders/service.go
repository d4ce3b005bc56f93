package orders

import (
	"context"
	"encoding/json"
	"strings"

	"lv-exgate/internal/exchange"
	"lv-exgate/internal/types"
)

// PlaceRequest is an inbound order before normalization. Price is nil when
// the caller omitted it.
type PlaceRequest struct {
	Exchange string
	Symbol   string
	Side     types.OrderSide
	Type     string
	Quantity float64
	Price    *float64
	Creds    exchange.Credentials
}

type Service struct {
	registry *exchange.Registry
}

func NewService(registry *exchange.Registry) *Service {
	return &Service{registry: registry}
}

func (s *Service) Place(ctx context.Context, req PlaceRequest) (json.RawMessage, error) {
	order, err := normalizeOrder(req)
	if err != nil {
		return nil, err
	}
	adapter, err := s.registry.Get(req.Exchange)
	if err != nil {
		return nil, err
	}
	if req.Creds.Missing() {
		return nil, exchange.ErrMissingCredentials
	}
	return adapter.PlaceOrder(ctx, req.Creds, order)
}

func (s *Service) Cancel(ctx context.Context, exchangeName, orderID, symbol string, creds exchange.Credentials) (json.RawMessage, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, &exchange.ValidationError{Violations: []string{"orderId is required"}}
	}
	adapter, err := s.registry.Get(exchangeName)
	if err != nil {
		return nil, err
	}
	if creds.Missing() {
		return nil, exchange.ErrMissingCredentials
	}
	return adapter.CancelOrder(ctx, creds, orderID, symbol)
}

func (s *Service) History(ctx context.Context, exchangeName, symbol string, limit int, creds exchange.Credentials) (json.RawMessage, error) {
	adapter, err := s.registry.Get(exchangeName)
	if err != nil {
		return nil, err
	}
	if creds.Missing() {
		return nil, exchange.ErrMissingCredentials
	}
	return adapter.GetOrderHistory(ctx, creds, symbol, limit)
}

// normalizeOrder applies the exchange-agnostic order rules before any
// credential check or network call. The order type defaults to LIMIT and is
// case-insensitive. Every failing rule is reported.
func normalizeOrder(req PlaceRequest) (exchange.OrderRequest, error) {
	var violations []string
	if strings.TrimSpace(req.Symbol) == "" {
		violations = append(violations, "symbol is required")
	}
	if req.Quantity <= 0 {
		violations = append(violations, "quantity must be a positive number")
	}

	orderType := types.OrderType(strings.ToUpper(strings.TrimSpace(req.Type)))
	if orderType == "" {
		orderType = types.OrderTypeLimit
	}
	switch orderType {
	case types.OrderTypeLimit:
		if req.Price == nil {
			violations = append(violations, "Price is required for LIMIT orders")
		} else if *req.Price <= 0 {
			violations = append(violations, "price must be a positive number")
		}
	case types.OrderTypeMarket:
		if req.Price != nil {
			violations = append(violations, "Do not send price for MARKET orders")
		}
	default:
		violations = append(violations, "order type must be LIMIT or MARKET")
	}

	if len(violations) > 0 {
		return exchange.OrderRequest{}, &exchange.ValidationError{Violations: violations}
	}
	return exchange.OrderRequest{
		Symbol:   strings.TrimSpace(req.Symbol),
		Side:     req.Side,
		Type:     orderType,
		Quantity: req.Quantity,
		Price:    req.Price,
	}, nil
}
