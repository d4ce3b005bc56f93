package balances

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/sourcegraph/conc"

	"lv-exgate/internal/exchange"
)

// ErrNoCredentials means the combined endpoint found no exchange with both
// key headers set.
var ErrNoCredentials = errors.New("no exchange credentials supplied")

// AllFailedError means credentials were supplied but every exchange call
// failed, so there is no aggregate to return.
type AllFailedError struct {
	Errors []ExchangeError
}

func (e *AllFailedError) Error() string { return "all exchange requests failed" }

// ExchangeError records one exchange's failure during a combined fetch.
type ExchangeError struct {
	Exchange string `json:"exchange"`
	Error    string `json:"error"`
	Code     string `json:"code,omitempty"`
}

type PortfolioData struct {
	Exchange    string           `json:"exchange"`
	Portfolio   []exchange.Asset `json:"portfolio"`
	TotalAssets int              `json:"totalAssets"`
	Timestamp   int64            `json:"timestamp"`
}

type CombinedData struct {
	Portfolio   []Entry         `json:"portfolio"`
	TotalAssets int             `json:"totalAssets"`
	Exchanges   []string        `json:"exchanges"`
	Timestamp   int64           `json:"timestamp"`
	Errors      []ExchangeError `json:"errors,omitempty"`
}

type Service struct {
	registry *exchange.Registry
}

func NewService(registry *exchange.Registry) *Service {
	return &Service{registry: registry}
}

func (s *Service) Balance(ctx context.Context, exchangeName string, creds exchange.Credentials) (json.RawMessage, error) {
	adapter, err := s.registry.Get(exchangeName)
	if err != nil {
		return nil, err
	}
	if creds.Missing() {
		return nil, exchange.ErrMissingCredentials
	}
	return adapter.GetBalance(ctx, creds)
}

func (s *Service) Portfolio(ctx context.Context, exchangeName string, creds exchange.Credentials) (*PortfolioData, error) {
	adapter, err := s.registry.Get(exchangeName)
	if err != nil {
		return nil, err
	}
	if creds.Missing() {
		return nil, exchange.ErrMissingCredentials
	}
	assets, err := adapter.GetPortfolio(ctx, creds)
	if err != nil {
		return nil, err
	}
	return &PortfolioData{
		Exchange:    adapter.Name(),
		Portfolio:   assets,
		TotalAssets: len(assets),
		Timestamp:   time.Now().UnixMilli(),
	}, nil
}

// Combined fans out to every exchange with supplied credentials
// concurrently, then aggregates in the fixed priority order. Exchanges that
// fail land in Errors; the call only fails outright when nothing succeeded.
func (s *Service) Combined(ctx context.Context, creds map[string]exchange.Credentials) (*CombinedData, error) {
	if len(creds) == 0 {
		return nil, ErrNoCredentials
	}

	type fetch struct {
		assets []exchange.Asset
		err    error
	}
	results := make(map[string]*fetch, len(creds))
	var mu sync.Mutex
	var wg conc.WaitGroup
	for _, name := range exchange.Priority {
		c, ok := creds[name]
		if !ok {
			continue
		}
		name := name
		wg.Go(func() {
			adapter, err := s.registry.Get(name)
			var assets []exchange.Asset
			if err == nil {
				assets, err = adapter.GetPortfolio(ctx, c)
			}
			mu.Lock()
			results[name] = &fetch{assets: assets, err: err}
			mu.Unlock()
		})
	}
	wg.Wait()

	var portfolios []exchangePortfolio
	var succeeded []string
	var failures []ExchangeError
	for _, name := range exchange.Priority {
		r, ok := results[name]
		if !ok {
			continue
		}
		if r.err != nil {
			failure := ExchangeError{Exchange: name, Error: r.err.Error()}
			var rej *exchange.RejectionError
			if errors.As(r.err, &rej) {
				failure.Error = rej.Message
				failure.Code = rej.Code
			}
			failures = append(failures, failure)
			continue
		}
		portfolios = append(portfolios, exchangePortfolio{Exchange: name, Assets: r.assets})
		succeeded = append(succeeded, name)
	}

	if len(portfolios) == 0 {
		return nil, &AllFailedError{Errors: failures}
	}
	combined := aggregate(portfolios)
	return &CombinedData{
		Portfolio:   combined,
		TotalAssets: len(combined),
		Exchanges:   succeeded,
		Timestamp:   time.Now().UnixMilli(),
		Errors:      failures,
	}, nil
}
