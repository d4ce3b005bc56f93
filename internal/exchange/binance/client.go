package binance

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"lv-exgate/internal/exchange"
	"lv-exgate/internal/types"
)

const defaultBaseURL = "https://api.binance.com"

// Client talks to Binance's spot REST API. Signed endpoints carry the
// signature as a query parameter over the encoded query string.
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

func (c *Client) Name() string { return "binance" }

func (c *Client) do(ctx context.Context, method, path string, params url.Values, creds *exchange.Credentials) (json.RawMessage, error) {
	if params == nil {
		params = url.Values{}
	}
	rawQuery := params.Encode()
	if creds != nil {
		params.Set("timestamp", strconv.FormatInt(time.Now().UnixMilli(), 10))
		params.Set("recvWindow", "5000")
		rawQuery = params.Encode()
		mac := hmac.New(sha256.New, []byte(creds.SecretKey))
		mac.Write([]byte(rawQuery))
		rawQuery += "&signature=" + hex.EncodeToString(mac.Sum(nil))
	}

	reqURL := c.baseURL + path
	if rawQuery != "" {
		reqURL += "?" + rawQuery
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("binance: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if creds != nil {
		req.Header.Set("X-MBX-APIKEY", creds.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("binance: request failed: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("binance: read response: %w", err)
	}

	// Binance signals rejection through the HTTP status plus {code,msg}.
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Code int    `json:"code"`
			Msg  string `json:"msg"`
		}
		if err := json.Unmarshal(raw, &apiErr); err != nil {
			return nil, fmt.Errorf("binance: HTTP %d: %s", resp.StatusCode, string(raw))
		}
		return nil, exchange.Reject("binance", strconv.Itoa(apiErr.Code), apiErr.Msg, errorTable)
	}
	return raw, nil
}

func (c *Client) TestConnection(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/api/v3/ping", nil, nil)
	return err
}

func (c *Client) GetBalance(ctx context.Context, creds exchange.Credentials) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/api/v3/account", nil, &creds)
}

type accountPayload struct {
	Balances []struct {
		Asset  string `json:"asset"`
		Free   string `json:"free"`
		Locked string `json:"locked"`
	} `json:"balances"`
}

func (c *Client) GetPortfolio(ctx context.Context, creds exchange.Credentials) ([]exchange.Asset, error) {
	raw, err := c.GetBalance(ctx, creds)
	if err != nil {
		return nil, err
	}
	var payload accountPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("binance: parse account: %w", err)
	}

	prices, err := c.usdtPrices(ctx)
	if err != nil {
		// Valuation is best-effort; the portfolio itself still stands.
		prices = nil
	}

	var out []exchange.Asset
	for _, b := range payload.Balances {
		free := parseAmount(b.Free)
		locked := parseAmount(b.Locked)
		total := free + locked
		if total == 0 {
			continue
		}
		asset := exchange.Asset{
			Currency:  b.Asset,
			Available: free,
			Frozen:    locked,
			Total:     total,
		}
		if strings.EqualFold(b.Asset, "USDT") {
			asset.USDValue = total
		} else if p, ok := prices[b.Asset+"USDT"]; ok {
			asset.USDValue = total * p
		}
		out = append(out, asset)
	}
	return out, nil
}

// usdtPrices fetches the full spot price list once so each asset's USD value
// comes from its <ASSET>USDT pair without a lookup call per asset.
func (c *Client) usdtPrices(ctx context.Context) (map[string]float64, error) {
	raw, err := c.do(ctx, http.MethodGet, "/api/v3/ticker/price", nil, nil)
	if err != nil {
		return nil, err
	}
	var tickers []struct {
		Symbol string `json:"symbol"`
		Price  string `json:"price"`
	}
	if err := json.Unmarshal(raw, &tickers); err != nil {
		return nil, fmt.Errorf("binance: parse prices: %w", err)
	}
	prices := make(map[string]float64, len(tickers))
	for _, t := range tickers {
		if strings.HasSuffix(t.Symbol, "USDT") {
			prices[t.Symbol] = parseAmount(t.Price)
		}
	}
	return prices, nil
}

func (c *Client) PlaceOrder(ctx context.Context, creds exchange.Credentials, req exchange.OrderRequest) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("symbol", req.Symbol)
	params.Set("side", string(req.Side))
	params.Set("type", string(req.Type))
	params.Set("quantity", formatAmount(req.Quantity))
	if req.Type == types.OrderTypeLimit {
		params.Set("timeInForce", "GTC")
		params.Set("price", formatAmount(*req.Price))
	}
	return c.do(ctx, http.MethodPost, "/api/v3/order", params, &creds)
}

func (c *Client) CancelOrder(ctx context.Context, creds exchange.Credentials, orderID, symbol string) (json.RawMessage, error) {
	if symbol == "" {
		return nil, &exchange.UnsupportedError{Exchange: "binance", Operation: "cancel order", Reason: "requires the order's symbol"}
	}
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("orderId", orderID)
	return c.do(ctx, http.MethodDelete, "/api/v3/order", params, &creds)
}

func (c *Client) GetOrderHistory(ctx context.Context, creds exchange.Credentials, symbol string, limit int) (json.RawMessage, error) {
	if symbol == "" {
		return nil, &exchange.UnsupportedError{Exchange: "binance", Operation: "order history", Reason: "requires a symbol"}
	}
	params := url.Values{}
	params.Set("symbol", symbol)
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	return c.do(ctx, http.MethodGet, "/api/v3/allOrders", params, &creds)
}

func (c *Client) GetTicker(ctx context.Context, symbol string) (json.RawMessage, error) {
	params := url.Values{"symbol": {symbol}}
	return c.do(ctx, http.MethodGet, "/api/v3/ticker/24hr", params, nil)
}

func (c *Client) GetSymbols(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/api/v3/exchangeInfo", nil, nil)
}

func (c *Client) GetDepth(ctx context.Context, symbol string, limit int) (json.RawMessage, error) {
	params := url.Values{"symbol": {symbol}}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	return c.do(ctx, http.MethodGet, "/api/v3/depth", params, nil)
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
