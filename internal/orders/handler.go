package orders

import (
	"net/http"
	"strconv"

	"lv-exgate/internal/exchange"
	"lv-exgate/internal/httputil"
	"lv-exgate/internal/types"
)

const defaultHistoryLimit = 100

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type placeOrderRequest struct {
	Symbol     string   `json:"symbol"`
	Quantity   float64  `json:"quantity"`
	Price      *float64 `json:"price"`
	Type       string   `json:"type"`
	Exchange   string   `json:"exchange"`
	APIKey     string   `json:"apiKey"`
	SecretKey  string   `json:"secretKey"`
	Passphrase string   `json:"passphrase"`
}

func (h *Handler) Buy(w http.ResponseWriter, r *http.Request) {
	h.place(w, r, types.OrderSideBuy)
}

func (h *Handler) Sell(w http.ResponseWriter, r *http.Request) {
	h.place(w, r, types.OrderSideSell)
}

func (h *Handler) place(w http.ResponseWriter, r *http.Request, side types.OrderSide) {
	var req placeOrderRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.Fail(w, http.StatusBadRequest, err.Error())
		return
	}
	raw, err := h.svc.Place(r.Context(), PlaceRequest{
		Exchange: req.Exchange,
		Symbol:   req.Symbol,
		Side:     side,
		Type:     req.Type,
		Quantity: req.Quantity,
		Price:    req.Price,
		Creds:    mergeCredentials(r, req.APIKey, req.SecretKey, req.Passphrase),
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.Created(w, raw)
}

type cancelOrderRequest struct {
	Exchange   string `json:"exchange"`
	Symbol     string `json:"symbol"`
	APIKey     string `json:"apiKey"`
	SecretKey  string `json:"secretKey"`
	Passphrase string `json:"passphrase"`
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request, orderID string) {
	var req cancelOrderRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.Fail(w, http.StatusBadRequest, err.Error())
		return
	}
	raw, err := h.svc.Cancel(r.Context(), req.Exchange, orderID, req.Symbol,
		mergeCredentials(r, req.APIKey, req.SecretKey, req.Passphrase))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.OK(w, raw)
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	exchangeName := q.Get("exchange")
	if exchangeName == "" {
		httputil.Fail(w, http.StatusBadRequest, "exchange query parameter is required")
		return
	}
	limit := defaultHistoryLimit
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			httputil.Fail(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	raw, err := h.svc.History(r.Context(), exchangeName, q.Get("symbol"), limit,
		exchange.CredentialsFromHeaders(r.Header))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.OK(w, raw)
}

// mergeCredentials lets body fields override the credential headers, so
// clients can pick either channel per call.
func mergeCredentials(r *http.Request, apiKey, secretKey, passphrase string) exchange.Credentials {
	creds := exchange.CredentialsFromHeaders(r.Header)
	if apiKey != "" {
		creds.APIKey = apiKey
	}
	if secretKey != "" {
		creds.SecretKey = secretKey
	}
	if passphrase != "" {
		creds.Passphrase = passphrase
	}
	return creds
}
