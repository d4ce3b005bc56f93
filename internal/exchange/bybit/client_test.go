package bybit

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"lv-exgate/internal/exchange"
	"lv-exgate/internal/types"
)

func TestGetPortfolioNormalization(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v5/account/wallet-balance", r.URL.Path)
		require.Equal(t, "UNIFIED", r.URL.Query().Get("accountType"))
		require.NotEmpty(t, r.Header.Get("X-BAPI-SIGN"))
		require.Equal(t, "ak", r.Header.Get("X-BAPI-API-KEY"))
		w.Write([]byte(`{"retCode":0,"retMsg":"OK","result":{"list":[{
			"accountType":"UNIFIED",
			"coin":[
				{"coin":"USDT","walletBalance":"100","locked":"30","usdValue":"100"},
				{"coin":"SHIB","walletBalance":"0","locked":"0","usdValue":"0"}
			]
		}]}}`))
	}))
	defer srv.Close()

	c := New(WithBaseURL(srv.URL))
	assets, err := c.GetPortfolio(context.Background(), exchange.Credentials{APIKey: "ak", SecretKey: "sk"})
	require.NoError(t, err)
	require.Len(t, assets, 1, "zero-balance coins must be dropped")

	a := assets[0]
	require.Equal(t, "USDT", a.Currency)
	require.Equal(t, 70.0, a.Available, "available is walletBalance minus locked")
	require.Equal(t, 30.0, a.Frozen)
	require.Equal(t, 100.0, a.Total)
	require.Equal(t, "UNIFIED", a.AccountType)
}

func TestPlaceOrderBody(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v5/order/create", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"retCode":0,"result":{"orderId":"1"}}`))
	}))
	defer srv.Close()

	c := New(WithBaseURL(srv.URL))
	price := 50000.0
	_, err := c.PlaceOrder(context.Background(), exchange.Credentials{APIKey: "ak", SecretKey: "sk"}, exchange.OrderRequest{
		Symbol:   "BTCUSDT",
		Side:     types.OrderSideBuy,
		Type:     types.OrderTypeLimit,
		Quantity: 0.01,
		Price:    &price,
	})
	require.NoError(t, err)
	require.Equal(t, "spot", got["category"])
	require.Equal(t, "Buy", got["side"], "Bybit sides are title case")
	require.Equal(t, "Limit", got["orderType"])
	require.Equal(t, "0.01", got["qty"])
	require.Equal(t, "50000", got["price"])
}

func TestCancelOrderRequiresSymbol(t *testing.T) {
	c := New()
	_, err := c.CancelOrder(context.Background(), exchange.Credentials{APIKey: "ak", SecretKey: "sk"}, "42", "")
	var uerr *exchange.UnsupportedError
	require.True(t, errors.As(err, &uerr))
	require.Equal(t, "bybit", uerr.Exchange)
}

func TestRejectionMapsErrorTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"retCode":170131,"retMsg":"Balance insufficient"}`))
	}))
	defer srv.Close()

	c := New(WithBaseURL(srv.URL))
	_, err := c.GetBalance(context.Background(), exchange.Credentials{APIKey: "ak", SecretKey: "sk"})
	var rej *exchange.RejectionError
	require.True(t, errors.As(err, &rej))
	require.Equal(t, "170131", rej.Code)
	require.Equal(t, exchange.KindInsufficientBalance, rej.Kind)
	require.NotEmpty(t, rej.Help)
}

func TestRejectionUnmappedCodeKeepsVendorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"retCode":99999,"retMsg":"something new"}`))
	}))
	defer srv.Close()

	c := New(WithBaseURL(srv.URL))
	_, err := c.GetBalance(context.Background(), exchange.Credentials{APIKey: "ak", SecretKey: "sk"})
	var rej *exchange.RejectionError
	require.True(t, errors.As(err, &rej))
	require.Equal(t, exchange.KindUnclassified, rej.Kind)
	require.Equal(t, "something new", rej.Message)
}
