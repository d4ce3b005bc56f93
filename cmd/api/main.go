package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"lv-exgate/internal/ai"
	"lv-exgate/internal/balances"
	"lv-exgate/internal/config"
	"lv-exgate/internal/exchange"
	"lv-exgate/internal/exchange/binance"
	"lv-exgate/internal/exchange/bitget"
	"lv-exgate/internal/exchange/bybit"
	"lv-exgate/internal/exchange/kucoin"
	"lv-exgate/internal/exchange/xt"
	"lv-exgate/internal/httpserver"
	"lv-exgate/internal/market"
	"lv-exgate/internal/orders"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	registry := exchange.NewRegistry(
		xt.New(xt.WithBaseURL(cfg.XTBaseURL)),
		bybit.New(bybit.WithBaseURL(cfg.BybitBaseURL)),
		binance.New(binance.WithBaseURL(cfg.BinanceBaseURL)),
		kucoin.New(kucoin.WithBaseURL(cfg.KucoinBaseURL)),
		bitget.New(bitget.WithBaseURL(cfg.BitgetBaseURL)),
	)

	balanceSvc := balances.NewService(registry)
	orderSvc := orders.NewService(registry)
	marketSvc := market.NewService(registry)
	chatSvc := ai.NewService(
		ai.NewGeminiClient(cfg.GeminiAPIKey, ""),
		ai.NewChainGPTClient(cfg.ChainGPTAPIKey, ""),
	)

	router := httpserver.NewRouter(httpserver.RouterDeps{
		BalanceHandler: balances.NewHandler(balanceSvc),
		OrderHandler:   orders.NewHandler(orderSvc),
		MarketHandler:  market.NewHandler(marketSvc),
		ChatHandler:    ai.NewHandler(chatSvc),
		JWTSecret:      cfg.JWTSecret,
		JWTIssuer:      cfg.JWTIssuer,
		RateLimiter:    httpserver.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst),
	})
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	log.Printf("server listening on %s", cfg.HTTPAddr)
	log.Printf("health endpoint: http://localhost%s/health", cfg.HTTPAddr)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stop
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
