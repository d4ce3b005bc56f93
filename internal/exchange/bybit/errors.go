package bybit

import "lv-exgate/internal/exchange"

// errorTable maps Bybit v5 retCode values to normalized classifications.
var errorTable = map[string]exchange.Classification{
	"10001":  {Kind: exchange.KindInvalidOrder, Message: "request parameter error"},
	"10003":  {Kind: exchange.KindAuthFailed, Message: "invalid API key", Help: "check the API key and its permissions"},
	"10004":  {Kind: exchange.KindAuthFailed, Message: "signature verification failed", Help: "check the secret key"},
	"170121": {Kind: exchange.KindInvalidSymbol, Message: "unknown trading symbol", Help: "Bybit spot symbols are concatenated, e.g. BTCUSDT"},
	"170131": {Kind: exchange.KindInsufficientBalance, Message: "insufficient balance for this order", Help: "deposit funds or reduce the order size"},
	"170136": {Kind: exchange.KindMinOrderSize, Message: "order quantity is below the minimum", Help: "increase the order quantity"},
	"170140": {Kind: exchange.KindMinOrderSize, Message: "order value is below the minimum notional", Help: "increase the order value"},
	"170213": {Kind: exchange.KindUnknownOrder, Message: "order not found or already finished"},
}
