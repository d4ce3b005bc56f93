package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	HTTPAddr string

	// Optional gateway-level JWT. When JWTSecret is empty the API is open
	// and per-request exchange credentials are the only auth.
	JWTIssuer string
	JWTSecret string

	GeminiAPIKey   string
	ChainGPTAPIKey string

	RateLimitPerSecond float64
	RateLimitBurst     int

	// Per-exchange base URL overrides for testing against mocks.
	XTBaseURL      string
	BybitBaseURL   string
	BinanceBaseURL string
	KucoinBaseURL  string
	BitgetBaseURL  string
}

func Load() (Config, error) {
	var c Config
	var missing []string
	c.HTTPAddr = os.Getenv("HTTP_ADDR")
	if c.HTTPAddr == "" {
		missing = append(missing, "HTTP_ADDR")
	}
	c.JWTSecret = os.Getenv("JWT_SECRET")
	c.JWTIssuer = os.Getenv("JWT_ISSUER")
	if c.JWTSecret != "" && c.JWTIssuer == "" {
		missing = append(missing, "JWT_ISSUER")
	}
	c.GeminiAPIKey = strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	c.ChainGPTAPIKey = strings.TrimSpace(os.Getenv("CHAINGPT_API_KEY"))

	rps := os.Getenv("RATE_LIMIT_RPS")
	if rps == "" {
		c.RateLimitPerSecond = 10
	} else {
		f, err := strconv.ParseFloat(rps, 64)
		if err != nil || f <= 0 {
			return c, errors.New("invalid RATE_LIMIT_RPS")
		}
		c.RateLimitPerSecond = f
	}
	burst := os.Getenv("RATE_LIMIT_BURST")
	if burst == "" {
		c.RateLimitBurst = 20
	} else {
		n, err := strconv.Atoi(burst)
		if err != nil || n <= 0 {
			return c, errors.New("invalid RATE_LIMIT_BURST")
		}
		c.RateLimitBurst = n
	}

	c.XTBaseURL = os.Getenv("XT_BASE_URL")
	c.BybitBaseURL = os.Getenv("BYBIT_BASE_URL")
	c.BinanceBaseURL = os.Getenv("BINANCE_BASE_URL")
	c.KucoinBaseURL = os.Getenv("KUCOIN_BASE_URL")
	c.BitgetBaseURL = os.Getenv("BITGET_BASE_URL")

	if len(missing) > 0 {
		return c, errors.New("missing required env: " + join(missing))
	}
	return c, nil
}

func join(items []string) string {
	if len(items) == 0 {
		return ""
	}
	out := items[0]
	for i := 1; i < len(items); i++ {
		out += "," + items[i]
	}
	return out
}
