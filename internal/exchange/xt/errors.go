package xt

import "lv-exgate/internal/exchange"

// errorTable maps XT's documented mc codes to normalized classifications.
// Codes not listed here fall through with the raw vendor message.
var errorTable = map[string]exchange.Classification{
	"AUTH_001": {Kind: exchange.KindAuthFailed, Message: "missing authentication headers", Help: "supply x-api-key and x-secret-key"},
	"AUTH_103": {Kind: exchange.KindAuthFailed, Message: "invalid API key", Help: "check the API key and its permissions"},
	"AUTH_105": {Kind: exchange.KindAuthFailed, Message: "signature verification failed", Help: "check the secret key"},
	"ORDER_002": {Kind: exchange.KindInsufficientBalance, Message: "insufficient balance for this order", Help: "deposit funds or reduce the order size"},
	"ORDER_003": {Kind: exchange.KindMinOrderSize, Message: "order is below the exchange minimum", Help: "increase quantity or notional value"},
	"ORDER_004": {Kind: exchange.KindInvalidOrder, Message: "invalid price or quantity"},
	"ORDER_007": {Kind: exchange.KindUnknownOrder, Message: "order not found or already finished"},
	"SYMBOL_001": {Kind: exchange.KindInvalidSymbol, Message: "unknown trading symbol", Help: "XT symbols use the base_quote form, e.g. btc_usdt"},
}
