package market

import (
	"context"
	"encoding/json"

	"lv-exgate/internal/exchange"
)

// Service fronts the credential-free market data operations. All of them hit
// public exchange endpoints.
type Service struct {
	registry *exchange.Registry
}

func NewService(registry *exchange.Registry) *Service {
	return &Service{registry: registry}
}

func (s *Service) Ticker(ctx context.Context, exchangeName, symbol string) (json.RawMessage, error) {
	adapter, err := s.registry.Get(exchangeName)
	if err != nil {
		return nil, err
	}
	return adapter.GetTicker(ctx, symbol)
}

func (s *Service) Symbols(ctx context.Context, exchangeName string) (json.RawMessage, error) {
	adapter, err := s.registry.Get(exchangeName)
	if err != nil {
		return nil, err
	}
	return adapter.GetSymbols(ctx)
}

func (s *Service) Depth(ctx context.Context, exchangeName, symbol string, limit int) (json.RawMessage, error) {
	adapter, err := s.registry.Get(exchangeName)
	if err != nil {
		return nil, err
	}
	return adapter.GetDepth(ctx, symbol, limit)
}

func (s *Service) Ping(ctx context.Context, exchangeName string) error {
	adapter, err := s.registry.Get(exchangeName)
	if err != nil {
		return err
	}
	return adapter.TestConnection(ctx)
}
