package bybit

import (
	"bytes"
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
	"time"

	"lv-exgate/internal/exchange"
	"lv-exgate/internal/types"
)

const (
	defaultBaseURL = "https://api.bybit.com"
	recvWindow     = "5000"
)

// Client talks to Bybit's v5 unified-account REST API.
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

func (c *Client) Name() string { return "bybit" }

type apiEnvelope struct {
	RetCode int             `json:"retCode"`
	RetMsg  string          `json:"retMsg"`
	Result  json.RawMessage `json:"result"`
}

// sign covers timestamp + apiKey + recvWindow + payload, where payload is the
// encoded query string for GETs and the JSON body otherwise.
func sign(secretKey, timestamp, apiKey, payload string) string {
	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(timestamp + apiKey + recvWindow + payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, creds *exchange.Credentials) (json.RawMessage, error) {
	var bodyBytes []byte
	if body != nil {
		var err error
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("bybit: encode body: %w", err)
		}
	}

	encodedQuery := query.Encode()
	reqURL := c.baseURL + path
	if encodedQuery != "" {
		reqURL += "?" + encodedQuery
	}
	var rdr io.Reader
	if len(bodyBytes) > 0 {
		rdr = bytes.NewReader(bodyBytes)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL, rdr)
	if err != nil {
		return nil, fmt.Errorf("bybit: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if creds != nil {
		timestamp := strconv.FormatInt(time.Now().UnixMilli(), 10)
		payload := encodedQuery
		if method != http.MethodGet {
			payload = string(bodyBytes)
		}
		req.Header.Set("X-BAPI-API-KEY", creds.APIKey)
		req.Header.Set("X-BAPI-TIMESTAMP", timestamp)
		req.Header.Set("X-BAPI-RECV-WINDOW", recvWindow)
		req.Header.Set("X-BAPI-SIGN", sign(creds.SecretKey, timestamp, creds.APIKey, payload))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bybit: request failed: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("bybit: read response: %w", err)
	}

	var env apiEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("bybit: malformed response (status %d): %w", resp.StatusCode, err)
	}
	if env.RetCode != 0 {
		return nil, exchange.Reject("bybit", strconv.Itoa(env.RetCode), env.RetMsg, errorTable)
	}
	return env.Result, nil
}

func (c *Client) TestConnection(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/v5/market/time", nil, nil, nil)
	return err
}

func (c *Client) GetBalance(ctx context.Context, creds exchange.Credentials) (json.RawMessage, error) {
	query := url.Values{"accountType": {"UNIFIED"}}
	return c.do(ctx, http.MethodGet, "/v5/account/wallet-balance", query, nil, &creds)
}

type walletPayload struct {
	List []struct {
		AccountType string `json:"accountType"`
		Coin        []struct {
			Coin          string `json:"coin"`
			WalletBalance string `json:"walletBalance"`
			Locked        string `json:"locked"`
			UsdValue      string `json:"usdValue"`
			Equity        string `json:"equity"`
		} `json:"coin"`
	} `json:"list"`
}

func (c *Client) GetPortfolio(ctx context.Context, creds exchange.Credentials) ([]exchange.Asset, error) {
	raw, err := c.GetBalance(ctx, creds)
	if err != nil {
		return nil, err
	}
	var payload walletPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("bybit: parse wallet balance: %w", err)
	}
	var out []exchange.Asset
	for _, account := range payload.List {
		for _, coin := range account.Coin {
			total := parseAmount(coin.WalletBalance)
			if total == 0 {
				continue
			}
			locked := parseAmount(coin.Locked)
			out = append(out, exchange.Asset{
				Currency:    coin.Coin,
				Available:   total - locked,
				Frozen:      locked,
				Total:       total,
				USDValue:    parseAmount(coin.UsdValue),
				AccountType: account.AccountType,
			})
		}
	}
	return out, nil
}

func (c *Client) PlaceOrder(ctx context.Context, creds exchange.Credentials, req exchange.OrderRequest) (json.RawMessage, error) {
	body := map[string]any{
		"category": "spot",
		"symbol":   req.Symbol,
		"side":     sideOf(req.Side),
		"qty":      formatAmount(req.Quantity),
	}
	if req.Type == types.OrderTypeLimit {
		body["orderType"] = "Limit"
		body["price"] = formatAmount(*req.Price)
	} else {
		body["orderType"] = "Market"
	}
	return c.do(ctx, http.MethodPost, "/v5/order/create", nil, body, &creds)
}

func (c *Client) CancelOrder(ctx context.Context, creds exchange.Credentials, orderID, symbol string) (json.RawMessage, error) {
	if symbol == "" {
		return nil, &exchange.UnsupportedError{Exchange: "bybit", Operation: "cancel order", Reason: "requires the order's symbol"}
	}
	body := map[string]any{
		"category": "spot",
		"symbol":   symbol,
		"orderId":  orderID,
	}
	return c.do(ctx, http.MethodPost, "/v5/order/cancel", nil, body, &creds)
}

func (c *Client) GetOrderHistory(ctx context.Context, creds exchange.Credentials, symbol string, limit int) (json.RawMessage, error) {
	query := url.Values{"category": {"spot"}}
	if symbol != "" {
		query.Set("symbol", symbol)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	return c.do(ctx, http.MethodGet, "/v5/order/history", query, nil, &creds)
}

func (c *Client) GetTicker(ctx context.Context, symbol string) (json.RawMessage, error) {
	query := url.Values{"category": {"spot"}, "symbol": {symbol}}
	return c.do(ctx, http.MethodGet, "/v5/market/tickers", query, nil, nil)
}

func (c *Client) GetSymbols(ctx context.Context) (json.RawMessage, error) {
	query := url.Values{"category": {"spot"}}
	return c.do(ctx, http.MethodGet, "/v5/market/instruments-info", query, nil, nil)
}

func (c *Client) GetDepth(ctx context.Context, symbol string, limit int) (json.RawMessage, error) {
	query := url.Values{"category": {"spot"}, "symbol": {symbol}}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	return c.do(ctx, http.MethodGet, "/v5/market/orderbook", query, nil, nil)
}

func sideOf(side types.OrderSide) string {
	if side == types.OrderSideSell {
		return "Sell"
	}
	return "Buy"
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
