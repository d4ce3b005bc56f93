package bitget

import "lv-exgate/internal/exchange"

// errorTable maps Bitget's documented codes to normalized classifications.
var errorTable = map[string]exchange.Classification{
	"40009": {Kind: exchange.KindAuthFailed, Message: "signature verification failed", Help: "check the secret key"},
	"40012": {Kind: exchange.KindAuthFailed, Message: "invalid API passphrase", Help: "check the x-bitget-passphrase header"},
	"40034": {Kind: exchange.KindInvalidOrder, Message: "a required parameter was missing or malformed"},
	"40037": {Kind: exchange.KindAuthFailed, Message: "API key does not exist", Help: "check the API key"},
	"40309": {Kind: exchange.KindInvalidSymbol, Message: "symbol is offline or unknown", Help: "Bitget spot symbols are concatenated, e.g. BTCUSDT"},
	"43012": {Kind: exchange.KindInsufficientBalance, Message: "insufficient balance for this order", Help: "deposit funds or reduce the order size"},
	"43025": {Kind: exchange.KindUnknownOrder, Message: "order not found or already finished"},
	"45110": {Kind: exchange.KindMinOrderSize, Message: "order is below the minimum trade amount", Help: "increase quantity or notional value"},
}
