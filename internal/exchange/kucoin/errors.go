package kucoin

import "lv-exgate/internal/exchange"

// errorTable maps KuCoin's documented codes to normalized classifications.
var errorTable = map[string]exchange.Classification{
	"200004": {Kind: exchange.KindInsufficientBalance, Message: "insufficient balance for this order", Help: "funds may sit in the main account; transfer them to the trade account"},
	"400003": {Kind: exchange.KindAuthFailed, Message: "API key does not exist", Help: "check the API key"},
	"400004": {Kind: exchange.KindAuthFailed, Message: "invalid API passphrase", Help: "check the x-kucoin-passphrase header"},
	"400005": {Kind: exchange.KindAuthFailed, Message: "signature verification failed", Help: "check the secret key"},
	"400100": {Kind: exchange.KindInvalidOrder, Message: "invalid order parameter", Help: "check price, size and symbol against the symbol's increments"},
	"404000": {Kind: exchange.KindUnknownOrder, Message: "order not found"},
	"900001": {Kind: exchange.KindInvalidSymbol, Message: "unknown trading symbol", Help: "KuCoin symbols use a dash, e.g. BTC-USDT"},
}
