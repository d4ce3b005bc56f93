package kucoin

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

	"github.com/google/uuid"

	"lv-exgate/internal/exchange"
	"lv-exgate/internal/types"
)

const defaultBaseURL = "https://api.kucoin.com"

// Client talks to KuCoin's v1/v2 REST API using the KC-API v2 key scheme,
// where the passphrase itself is signed with the secret.
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

func (c *Client) Name() string { return "kucoin" }

type apiEnvelope struct {
	Code string          `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func hmacBase64(secret, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, creds *exchange.Credentials) (json.RawMessage, error) {
	var bodyBytes []byte
	if body != nil {
		var err error
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("kucoin: encode body: %w", err)
		}
	}

	endpoint := path
	if enc := query.Encode(); enc != "" {
		endpoint += "?" + enc
	}
	var rdr io.Reader
	if len(bodyBytes) > 0 {
		rdr = bytes.NewReader(bodyBytes)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, rdr)
	if err != nil {
		return nil, fmt.Errorf("kucoin: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if creds != nil {
		timestamp := strconv.FormatInt(time.Now().UnixMilli(), 10)
		// The signature covers timestamp + method + endpoint (query
		// included) + body.
		req.Header.Set("KC-API-KEY", creds.APIKey)
		req.Header.Set("KC-API-SIGN", hmacBase64(creds.SecretKey, timestamp+method+endpoint+string(bodyBytes)))
		req.Header.Set("KC-API-TIMESTAMP", timestamp)
		req.Header.Set("KC-API-PASSPHRASE", hmacBase64(creds.SecretKey, creds.Passphrase))
		req.Header.Set("KC-API-KEY-VERSION", "2")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("kucoin: request failed: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("kucoin: read response: %w", err)
	}

	var env apiEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("kucoin: malformed response (status %d): %w", resp.StatusCode, err)
	}
	if env.Code != "200000" {
		return nil, exchange.Reject("kucoin", env.Code, env.Msg, errorTable)
	}
	return env.Data, nil
}

func (c *Client) TestConnection(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/api/v1/timestamp", nil, nil, nil)
	return err
}

func (c *Client) GetBalance(ctx context.Context, creds exchange.Credentials) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/api/v1/accounts", nil, nil, &creds)
}

type accountEntry struct {
	Currency  string `json:"currency"`
	Type      string `json:"type"`
	Balance   string `json:"balance"`
	Available string `json:"available"`
	Holds     string `json:"holds"`
}

func (c *Client) GetPortfolio(ctx context.Context, creds exchange.Credentials) ([]exchange.Asset, error) {
	raw, err := c.GetBalance(ctx, creds)
	if err != nil {
		return nil, err
	}
	var accounts []accountEntry
	if err := json.Unmarshal(raw, &accounts); err != nil {
		return nil, fmt.Errorf("kucoin: parse accounts: %w", err)
	}
	var out []exchange.Asset
	for _, a := range accounts {
		total := parseAmount(a.Balance)
		if total == 0 {
			continue
		}
		out = append(out, exchange.Asset{
			Currency:    a.Currency,
			Available:   parseAmount(a.Available),
			Frozen:      parseAmount(a.Holds),
			Total:       total,
			AccountType: a.Type,
		})
	}
	return out, nil
}

func (c *Client) PlaceOrder(ctx context.Context, creds exchange.Credentials, req exchange.OrderRequest) (json.RawMessage, error) {
	body := map[string]any{
		"clientOid": uuid.NewString(),
		"symbol":    req.Symbol,
		"side":      lowerSide(req.Side),
		"size":      formatAmount(req.Quantity),
	}
	if req.Type == types.OrderTypeLimit {
		body["type"] = "limit"
		body["price"] = formatAmount(*req.Price)
	} else {
		body["type"] = "market"
	}
	return c.do(ctx, http.MethodPost, "/api/v1/orders", nil, body, &creds)
}

func (c *Client) CancelOrder(ctx context.Context, creds exchange.Credentials, orderID, _ string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodDelete, "/api/v1/orders/"+orderID, nil, nil, &creds)
}

func (c *Client) GetOrderHistory(ctx context.Context, creds exchange.Credentials, symbol string, limit int) (json.RawMessage, error) {
	query := url.Values{"status": {"done"}}
	if symbol != "" {
		query.Set("symbol", symbol)
	}
	if limit > 0 {
		query.Set("pageSize", strconv.Itoa(limit))
	}
	return c.do(ctx, http.MethodGet, "/api/v1/orders", query, nil, &creds)
}

func (c *Client) GetTicker(ctx context.Context, symbol string) (json.RawMessage, error) {
	query := url.Values{"symbol": {symbol}}
	return c.do(ctx, http.MethodGet, "/api/v1/market/stats", query, nil, nil)
}

func (c *Client) GetSymbols(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/api/v2/symbols", nil, nil, nil)
}

func (c *Client) GetDepth(ctx context.Context, symbol string, limit int) (json.RawMessage, error) {
	// KuCoin serves fixed-depth public books at 20 and 100 levels.
	path := "/api/v1/market/orderbook/level2_20"
	if limit > 20 {
		path = "/api/v1/market/orderbook/level2_100"
	}
	query := url.Values{"symbol": {symbol}}
	return c.do(ctx, http.MethodGet, path, query, nil, nil)
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
