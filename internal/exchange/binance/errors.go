package binance

import "lv-exgate/internal/exchange"

// errorTable maps Binance's documented numeric codes to normalized
// classifications.
var errorTable = map[string]exchange.Classification{
	"-1013": {Kind: exchange.KindMinOrderSize, Message: "order violates a symbol filter (size, notional or precision)", Help: "check the symbol's LOT_SIZE and NOTIONAL filters"},
	"-1021": {Kind: exchange.KindAuthFailed, Message: "request timestamp outside the recv window", Help: "sync the local clock"},
	"-1102": {Kind: exchange.KindInvalidOrder, Message: "a mandatory parameter was missing or malformed"},
	"-1121": {Kind: exchange.KindInvalidSymbol, Message: "unknown trading symbol", Help: "Binance spot symbols are concatenated, e.g. BTCUSDT"},
	"-2010": {Kind: exchange.KindInsufficientBalance, Message: "order rejected, insufficient balance", Help: "deposit funds or reduce the order size"},
	"-2011": {Kind: exchange.KindUnknownOrder, Message: "cancel rejected, order not found"},
	"-2013": {Kind: exchange.KindUnknownOrder, Message: "order does not exist"},
	"-2015": {Kind: exchange.KindAuthFailed, Message: "invalid API key, IP, or permissions", Help: "check the API key restrictions"},
}
