package httpserver

import (
	"net/http"

	"lv-exgate/internal/ai"
	"lv-exgate/internal/balances"
	"lv-exgate/internal/market"
	"lv-exgate/internal/orders"

	"github.com/go-chi/chi/v5"
)

type RouterDeps struct {
	BalanceHandler *balances.Handler
	OrderHandler   *orders.Handler
	MarketHandler  *market.Handler
	ChatHandler    *ai.Handler
	JWTSecret      string
	JWTIssuer      string
	RateLimiter    *RateLimiter
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()

	// CORS middleware; credential headers must be allowed through preflight.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				origin = "*"
			}
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, x-api-key, x-secret-key, x-kucoin-passphrase, x-bitget-passphrase, "+
				"x-xt-api-key, x-xt-secret-key, x-bybit-api-key, x-bybit-secret-key, x-binance-api-key, x-binance-secret-key, "+
				"x-kucoin-api-key, x-kucoin-secret-key, x-bitget-api-key, x-bitget-secret-key")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	r.Use(SecurityHeaders)
	if d.RateLimiter != nil {
		r.Use(d.RateLimiter.Middleware)
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Route("/v1", func(r chi.Router) {
		r.Use(WithAuth(d.JWTSecret, d.JWTIssuer))

		r.Get("/balance", d.BalanceHandler.Balance)
		r.Get("/portfolio", d.BalanceHandler.Portfolio)
		r.Get("/portfolio/combined", d.BalanceHandler.Combined)

		r.Post("/buy", d.OrderHandler.Buy)
		r.Post("/sell", d.OrderHandler.Sell)
		r.Get("/orders", d.OrderHandler.History)
		r.Delete("/orders/{orderId}", func(w http.ResponseWriter, r *http.Request) {
			d.OrderHandler.Cancel(w, r, chi.URLParam(r, "orderId"))
		})

		r.Get("/symbols", d.MarketHandler.Symbols)
		r.Get("/ticker/{symbol}", func(w http.ResponseWriter, r *http.Request) {
			d.MarketHandler.Ticker(w, r, chi.URLParam(r, "symbol"))
		})
		r.Get("/depth/{symbol}", func(w http.ResponseWriter, r *http.Request) {
			d.MarketHandler.Depth(w, r, chi.URLParam(r, "symbol"))
		})
		r.Get("/ping", d.MarketHandler.Ping)

		r.Post("/chat", d.ChatHandler.Chat)
	})
	return r
}
