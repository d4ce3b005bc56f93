package exchange

import "net/http"

// Credentials are request-scoped and never persisted. Passphrase is only
// meaningful for KuCoin and Bitget.
type Credentials struct {
	APIKey     string
	SecretKey  string
	Passphrase string
}

func (c Credentials) Missing() bool {
	return c.APIKey == "" || c.SecretKey == ""
}

// CredentialsFromHeaders reads the single-exchange credential headers.
func CredentialsFromHeaders(h http.Header) Credentials {
	passphrase := h.Get("x-kucoin-passphrase")
	if passphrase == "" {
		passphrase = h.Get("x-bitget-passphrase")
	}
	return Credentials{
		APIKey:     h.Get("x-api-key"),
		SecretKey:  h.Get("x-secret-key"),
		Passphrase: passphrase,
	}
}

// PerExchangeCredentials reads the combined-endpoint header scheme
// (x-<exchange>-api-key / x-<exchange>-secret-key). Exchanges without both
// key headers are omitted from the map.
func PerExchangeCredentials(h http.Header) map[string]Credentials {
	out := make(map[string]Credentials)
	for _, name := range Priority {
		c := Credentials{
			APIKey:     h.Get("x-" + name + "-api-key"),
			SecretKey:  h.Get("x-" + name + "-secret-key"),
			Passphrase: h.Get("x-" + name + "-passphrase"),
		}
		if c.Passphrase == "" {
			// The single-exchange passphrase header also applies.
			switch name {
			case "kucoin":
				c.Passphrase = h.Get("x-kucoin-passphrase")
			case "bitget":
				c.Passphrase = h.Get("x-bitget-passphrase")
			}
		}
		if !c.Missing() {
			out[name] = c
		}
	}
	return out
}

// RequiredHeaders lists every credential header the combined endpoints accept,
// surfaced as a hint when no credentials were supplied at all.
func RequiredHeaders() []string {
	out := make([]string, 0, len(Priority)*2+2)
	for _, name := range Priority {
		out = append(out, "x-"+name+"-api-key", "x-"+name+"-secret-key")
	}
	out = append(out, "x-kucoin-passphrase", "x-bitget-passphrase")
	return out
}
