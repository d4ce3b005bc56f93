package xt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"lv-exgate/internal/exchange"
	"lv-exgate/internal/types"
)

const defaultBaseURL = "https://sapi.xt.com"

// Client implements the exchange.Adapter capability set against XT's spot
// REST API, including its custom validate-* signature scheme.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Name() string { return "xt" }

type apiEnvelope struct {
	RC     int             `json:"rc"`
	MC     string          `json:"mc"`
	Result json.RawMessage `json:"result"`
}

// do issues one request. When creds is non-nil the request is signed; the
// body map is stripped of nil values first so a map holding only unset keys
// signs and ships as "no body".
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body map[string]any, creds *exchange.Credentials) (json.RawMessage, error) {
	var bodyBytes []byte
	if len(stripNil(body)) > 0 {
		var err error
		bodyBytes, err = json.Marshal(stripNil(body))
		if err != nil {
			return nil, fmt.Errorf("xt: encode body: %w", err)
		}
	}

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}
	var rdr io.Reader
	if len(bodyBytes) > 0 {
		rdr = bytes.NewReader(bodyBytes)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL, rdr)
	if err != nil {
		return nil, fmt.Errorf("xt: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if creds != nil {
		headers := signHeaders(creds.APIKey, creds.SecretKey, method, path, query, bodyBytes, time.Now().UnixMilli())
		for k, v := range headers {
			req.Header.Set(k, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("xt: request failed: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("xt: read response: %w", err)
	}

	var env apiEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("xt: malformed response (status %d): %w", resp.StatusCode, err)
	}
	if env.RC != 0 {
		return nil, exchange.Reject("xt", env.MC, env.MC, errorTable)
	}
	return env.Result, nil
}

func stripNil(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		if v == nil {
			continue
		}
		out[k] = v
	}
	return out
}

func (c *Client) TestConnection(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/v4/public/time", nil, nil, nil)
	return err
}

func (c *Client) GetBalance(ctx context.Context, creds exchange.Credentials) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/v4/balances", nil, nil, &creds)
}

type balancesPayload struct {
	TotalUsdtAmount string `json:"totalUsdtAmount"`
	Assets          []struct {
		Currency          string `json:"currency"`
		AvailableAmount   string `json:"availableAmount"`
		FrozenAmount      string `json:"frozenAmount"`
		TotalAmount       string `json:"totalAmount"`
		ConvertBtcAmount  string `json:"convertBtcAmount"`
		ConvertUsdtAmount string `json:"convertUsdtAmount"`
	} `json:"assets"`
}

func (c *Client) GetPortfolio(ctx context.Context, creds exchange.Credentials) ([]exchange.Asset, error) {
	raw, err := c.GetBalance(ctx, creds)
	if err != nil {
		return nil, err
	}
	var payload balancesPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("xt: parse balances: %w", err)
	}
	out := make([]exchange.Asset, 0, len(payload.Assets))
	for _, a := range payload.Assets {
		available := parseAmount(a.AvailableAmount)
		frozen := parseAmount(a.FrozenAmount)
		total := parseAmount(a.TotalAmount)
		if a.TotalAmount == "" {
			total = available + frozen
		}
		if total == 0 {
			continue
		}
		out = append(out, exchange.Asset{
			Currency:  a.Currency,
			Available: available,
			Frozen:    frozen,
			Total:     total,
			USDValue:  parseAmount(a.ConvertUsdtAmount),
		})
	}
	return out, nil
}

func (c *Client) PlaceOrder(ctx context.Context, creds exchange.Credentials, req exchange.OrderRequest) (json.RawMessage, error) {
	meta, err := c.SymbolMetadata(ctx, req.Symbol)
	if err != nil {
		return nil, err
	}
	if err := validateOrder(meta, req); err != nil {
		return nil, err
	}
	if err := c.checkBalance(ctx, creds, req); err != nil {
		return nil, err
	}

	body := map[string]any{
		"symbol":  req.Symbol,
		"side":    string(req.Side),
		"type":    string(req.Type),
		"bizType": "SPOT",
	}
	switch req.Type {
	case types.OrderTypeLimit:
		body["timeInForce"] = "GTC"
		body["price"] = formatAmount(*req.Price)
		body["quantity"] = formatAmount(req.Quantity)
	case types.OrderTypeMarket:
		body["timeInForce"] = "FOK"
		if req.Side == types.OrderSideBuy {
			// XT MARKET buys spend quote currency, so quantity is notional.
			body["quoteQty"] = formatAmount(req.Quantity)
		} else {
			body["quantity"] = formatAmount(req.Quantity)
		}
	}
	return c.do(ctx, http.MethodPost, "/v4/order", nil, body, &creds)
}

func (c *Client) CancelOrder(ctx context.Context, creds exchange.Credentials, orderID, _ string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodDelete, "/v4/order/"+orderID, nil, nil, &creds)
}

func (c *Client) GetOrderHistory(ctx context.Context, creds exchange.Credentials, symbol string, limit int) (json.RawMessage, error) {
	query := url.Values{}
	if symbol != "" {
		query.Set("symbol", symbol)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	return c.do(ctx, http.MethodGet, "/v4/history-order", query, nil, &creds)
}

func (c *Client) GetTicker(ctx context.Context, symbol string) (json.RawMessage, error) {
	query := url.Values{"symbol": {symbol}}
	return c.do(ctx, http.MethodGet, "/v4/public/ticker", query, nil, nil)
}

func (c *Client) GetSymbols(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/v4/public/symbol", nil, nil, nil)
}

func (c *Client) GetDepth(ctx context.Context, symbol string, limit int) (json.RawMessage, error) {
	query := url.Values{"symbol": {symbol}}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	return c.do(ctx, http.MethodGet, "/v4/public/depth", query, nil, nil)
}

// SymbolMetadata fetches the trading rules for one symbol. Fetched fresh for
// every order placement; XT rules change without notice so nothing is cached.
func (c *Client) SymbolMetadata(ctx context.Context, symbol string) (SymbolMetadata, error) {
	query := url.Values{"symbol": {symbol}}
	raw, err := c.do(ctx, http.MethodGet, "/v4/public/symbol", query, nil, nil)
	if err != nil {
		return SymbolMetadata{}, err
	}
	var payload struct {
		Symbols []struct {
			Symbol            string `json:"symbol"`
			PricePrecision    int32  `json:"pricePrecision"`
			QuantityPrecision int32  `json:"quantityPrecision"`
			Filters           []struct {
				Filter string `json:"filter"`
				Min    string `json:"min"`
			} `json:"filters"`
		} `json:"symbols"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return SymbolMetadata{}, fmt.Errorf("xt: parse symbol metadata: %w", err)
	}
	if len(payload.Symbols) == 0 {
		return SymbolMetadata{}, &exchange.UnsupportedError{Exchange: "xt", Operation: "place order", Reason: fmt.Sprintf("symbol %q not listed", symbol)}
	}
	s := payload.Symbols[0]
	meta := SymbolMetadata{
		Symbol:         s.Symbol,
		BasePrecision:  s.QuantityPrecision,
		PricePrecision: s.PricePrecision,
	}
	for _, f := range s.Filters {
		switch f.Filter {
		case "QUANTITY":
			meta.MinQty = parseAmount(f.Min)
		case "QUOTE_QTY":
			meta.MinNotional = parseAmount(f.Min)
		}
	}
	return meta, nil
}

func parseAmount(s string) float64 {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func formatAmount(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
