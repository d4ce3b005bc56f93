package exchange

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownExchange    = errors.New("unknown exchange")
	ErrMissingCredentials = errors.New("missing api credentials")
)

// Kind is the normalized classification of a vendor rejection.
type Kind string

const (
	KindInsufficientBalance Kind = "insufficient_balance"
	KindMinOrderSize        Kind = "min_order_size"
	KindInvalidOrder        Kind = "invalid_order"
	KindInvalidSymbol       Kind = "invalid_symbol"
	KindAuthFailed          Kind = "auth_failed"
	KindUnknownOrder        Kind = "unknown_order"
	KindUnclassified        Kind = "unclassified"
)

// Classification is one row of an adapter's vendor error-code table.
type Classification struct {
	Kind    Kind
	Message string
	Help    string
}

// RejectionError carries an exchange-native non-success code mapped through
// the adapter's code table. Unmapped codes keep the raw vendor message and
// classify as KindUnclassified.
type RejectionError struct {
	Exchange string
	Code     string
	Kind     Kind
	Message  string
	Help     string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("%s rejected request (%s): %s", e.Exchange, e.Code, e.Message)
}

// Reject builds a RejectionError from a native code and message using the
// adapter's classification table.
func Reject(exchangeName, code, nativeMsg string, table map[string]Classification) *RejectionError {
	if c, ok := table[code]; ok {
		return &RejectionError{
			Exchange: exchangeName,
			Code:     code,
			Kind:     c.Kind,
			Message:  c.Message,
			Help:     c.Help,
		}
	}
	msg := nativeMsg
	if msg == "" {
		msg = "exchange rejected the request"
	}
	return &RejectionError{Exchange: exchangeName, Code: code, Kind: KindUnclassified, Message: msg}
}

// ValidationError reports every failing pre-flight rule at once.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Violations, "; ")
}

// InsufficientBalanceError is raised by the pre-submission balance check
// before any order reaches the exchange.
type InsufficientBalanceError struct {
	Currency  string
	Required  float64
	Available float64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient %s balance: required %v, available %v",
		e.Currency, e.Required, e.Available)
}

// UnsupportedError marks an operation an exchange cannot serve; failures for
// unsupported operations must be explicit, not silent.
type UnsupportedError struct {
	Exchange  string
	Operation string
	Reason    string
}

func (e *UnsupportedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s %s", e.Exchange, e.Operation, e.Reason)
	}
	return fmt.Sprintf("%s does not support %s", e.Exchange, e.Operation)
}
