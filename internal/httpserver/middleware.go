package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"lv-exgate/internal/httputil"
)

// WithAuth enforces a bearer token on the trading routes when a gateway JWT
// secret is configured. With no secret the gateway runs open and the
// middleware passes everything through.
func WithAuth(secret, issuer string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if secret == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get("Authorization")
			parts := strings.SplitN(authz, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				httputil.Fail(w, http.StatusUnauthorized, "missing bearer token")
				return
			}
			if err := parseToken(parts[1], secret, issuer); err != nil {
				httputil.Fail(w, http.StatusUnauthorized, "invalid token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func parseToken(token, secret, issuer string) error {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return err
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid {
		return errors.New("invalid token")
	}
	if issuer != "" && claims.Issuer != issuer {
		return errors.New("invalid issuer")
	}
	return nil
}
