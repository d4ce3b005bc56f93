package bitget

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
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

const defaultBaseURL = "https://api.bitget.com"

// Client talks to Bitget's spot v2 REST API.
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

func (c *Client) Name() string { return "bitget" }

type apiEnvelope struct {
	Code string          `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// sign covers timestamp + method + requestPath (query included) + body.
func sign(secretKey, timestamp, method, requestPath, body string) string {
	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(timestamp + method + requestPath + body))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, creds *exchange.Credentials) (json.RawMessage, error) {
	var bodyBytes []byte
	if body != nil {
		var err error
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("bitget: encode body: %w", err)
		}
	}

	requestPath := path
	if enc := query.Encode(); enc != "" {
		requestPath += "?" + enc
	}
	var rdr io.Reader
	if len(bodyBytes) > 0 {
		rdr = bytes.NewReader(bodyBytes)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+requestPath, rdr)
	if err != nil {
		return nil, fmt.Errorf("bitget: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if creds != nil {
		timestamp := strconv.FormatInt(time.Now().UnixMilli(), 10)
		req.Header.Set("ACCESS-KEY", creds.APIKey)
		req.Header.Set("ACCESS-SIGN", sign(creds.SecretKey, timestamp, method, requestPath, string(bodyBytes)))
		req.Header.Set("ACCESS-TIMESTAMP", timestamp)
		req.Header.Set("ACCESS-PASSPHRASE", creds.Passphrase)
		req.Header.Set("locale", "en-US")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bitget: request failed: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("bitget: read response: %w", err)
	}

	var env apiEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("bitget: malformed response (status %d): %w", resp.StatusCode, err)
	}
	if env.Code != "00000" {
		return nil, exchange.Reject("bitget", env.Code, env.Msg, errorTable)
	}
	return env.Data, nil
}

func (c *Client) TestConnection(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/api/v2/public/time", nil, nil, nil)
	return err
}

func (c *Client) GetBalance(ctx context.Context, creds exchange.Credentials) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/api/v2/spot/account/assets", nil, nil, &creds)
}

type assetEntry struct {
	Coin      string `json:"coin"`
	Available string `json:"available"`
	Frozen    string `json:"frozen"`
	Locked    string `json:"locked"`
	UsdtValue string `json:"usdtValue"`
}

func (c *Client) GetPortfolio(ctx context.Context, creds exchange.Credentials) ([]exchange.Asset, error) {
	raw, err := c.GetBalance(ctx, creds)
	if err != nil {
		return nil, err
	}
	var assets []assetEntry
	if err := json.Unmarshal(raw, &assets); err != nil {
		return nil, fmt.Errorf("bitget: parse assets: %w", err)
	}
	var out []exchange.Asset
	for _, a := range assets {
		available := parseAmount(a.Available)
		frozen := parseAmount(a.Frozen)
		if a.Frozen == "" {
			frozen = parseAmount(a.Locked)
		}
		total := available + frozen
		if total == 0 {
			continue
		}
		out = append(out, exchange.Asset{
			Currency:  a.Coin,
			Available: available,
			Frozen:    frozen,
			Total:     total,
			USDValue:  parseAmount(a.UsdtValue),
		})
	}
	return out, nil
}

func (c *Client) PlaceOrder(ctx context.Context, creds exchange.Credentials, req exchange.OrderRequest) (json.RawMessage, error) {
	body := map[string]any{
		"symbol": req.Symbol,
		"side":   lowerSide(req.Side),
		"size":   formatAmount(req.Quantity),
	}
	if req.Type == types.OrderTypeLimit {
		body["orderType"] = "limit"
		body["force"] = "gtc"
		body["price"] = formatAmount(*req.Price)
	} else {
		body["orderType"] = "market"
	}
	return c.do(ctx, http.MethodPost, "/api/v2/spot/trade/place-order", nil, body, &creds)
}

func (c *Client) CancelOrder(ctx context.Context, creds exchange.Credentials, orderID, symbol string) (json.RawMessage, error) {
	if symbol == "" {
		return nil, &exchange.UnsupportedError{Exchange: "bitget", Operation: "cancel order", Reason: "requires the order's symbol"}
	}
	body := map[string]any{
		"symbol":  symbol,
		"orderId": orderID,
	}
	return c.do(ctx, http.MethodPost, "/api/v2/spot/trade/cancel-order", nil, body, &creds)
}

func (c *Client) GetOrderHistory(ctx context.Context, creds exchange.Credentials, symbol string, limit int) (json.RawMessage, error) {
	query := url.Values{}
	if symbol != "" {
		query.Set("symbol", symbol)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	return c.do(ctx, http.MethodGet, "/api/v2/spot/trade/history-orders", query, nil, &creds)
}

func (c *Client) GetTicker(ctx context.Context, symbol string) (json.RawMessage, error) {
	query := url.Values{"symbol": {symbol}}
	return c.do(ctx, http.MethodGet, "/api/v2/spot/market/tickers", query, nil, nil)
}

func (c *Client) GetSymbols(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/api/v2/spot/public/symbols", nil, nil, nil)
}

func (c *Client) GetDepth(ctx context.Context, symbol string, limit int) (json.RawMessage, error) {
	query := url.Values{"symbol": {symbol}}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	return c.do(ctx, http.MethodGet, "/api/v2/spot/market/orderbook", query, nil, nil)
}

func lowerSide(side types.OrderSide) string {
	if side == types.OrderSideSell {
		return "sell"
	}
	return "buy"
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
