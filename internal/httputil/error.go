package httputil

import (
	"errors"
	"log"
	"net/http"

	"lv-exgate/internal/exchange"
)

// WriteError maps domain errors to the response envelope. Validation and
// exchange rejections surface as 400, missing credentials as 401; anything
// unrecognized is logged and hidden behind a generic 500.
func WriteError(w http.ResponseWriter, err error) {
	var rej *exchange.RejectionError
	if errors.As(err, &rej) {
		FailCode(w, http.StatusBadRequest, rej.Message, rej.Code, rej.Help)
		return
	}
	var verr *exchange.ValidationError
	if errors.As(err, &verr) {
		WriteJSON(w, http.StatusBadRequest, map[string]any{
			"success":    false,
			"error":      verr.Error(),
			"violations": verr.Violations,
		})
		return
	}
	var ins *exchange.InsufficientBalanceError
	if errors.As(err, &ins) {
		WriteJSON(w, http.StatusBadRequest, map[string]any{
			"success":   false,
			"error":     ins.Error(),
			"required":  ins.Required,
			"available": ins.Available,
			"currency":  ins.Currency,
		})
		return
	}
	var uns *exchange.UnsupportedError
	if errors.As(err, &uns) {
		Fail(w, http.StatusBadRequest, uns.Error())
		return
	}
	if errors.Is(err, exchange.ErrUnknownExchange) {
		Fail(w, http.StatusBadRequest, err.Error())
		return
	}
	if errors.Is(err, exchange.ErrMissingCredentials) {
		Fail(w, http.StatusUnauthorized, err.Error())
		return
	}
	log.Printf("unexpected error: %v", err)
	Fail(w, http.StatusInternalServerError, "internal server error")
}
