package balances

import (
	"errors"
	"net/http"

	"lv-exgate/internal/exchange"
	"lv-exgate/internal/httputil"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Balance(w http.ResponseWriter, r *http.Request) {
	exchangeName := r.URL.Query().Get("exchange")
	if exchangeName == "" {
		httputil.Fail(w, http.StatusBadRequest, "exchange query parameter is required")
		return
	}
	raw, err := h.svc.Balance(r.Context(), exchangeName, exchange.CredentialsFromHeaders(r.Header))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.OK(w, raw)
}

func (h *Handler) Portfolio(w http.ResponseWriter, r *http.Request) {
	exchangeName := r.URL.Query().Get("exchange")
	if exchangeName == "" {
		httputil.Fail(w, http.StatusBadRequest, "exchange query parameter is required")
		return
	}
	data, err := h.svc.Portfolio(r.Context(), exchangeName, exchange.CredentialsFromHeaders(r.Header))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.OK(w, data)
}

func (h *Handler) Combined(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.Combined(r.Context(), exchange.PerExchangeCredentials(r.Header))
	if err != nil {
		if errors.Is(err, ErrNoCredentials) {
			httputil.WriteJSON(w, http.StatusBadRequest, map[string]any{
				"success":         false,
				"error":           err.Error(),
				"requiredHeaders": exchange.RequiredHeaders(),
			})
			return
		}
		var allFailed *AllFailedError
		if errors.As(err, &allFailed) {
			httputil.WriteJSON(w, http.StatusBadRequest, map[string]any{
				"success": false,
				"error":   allFailed.Error(),
				"errors":  allFailed.Errors,
			})
			return
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.OK(w, data)
}
