package market

import (
	"net/http"
	"strconv"
	"time"

	"lv-exgate/internal/httputil"
)

const defaultDepthLimit = 20

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Ticker(w http.ResponseWriter, r *http.Request, symbol string) {
	exchangeName := r.URL.Query().Get("exchange")
	if exchangeName == "" {
		httputil.Fail(w, http.StatusBadRequest, "exchange query parameter is required")
		return
	}
	raw, err := h.svc.Ticker(r.Context(), exchangeName, symbol)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.OK(w, raw)
}

func (h *Handler) Symbols(w http.ResponseWriter, r *http.Request) {
	exchangeName := r.URL.Query().Get("exchange")
	if exchangeName == "" {
		httputil.Fail(w, http.StatusBadRequest, "exchange query parameter is required")
		return
	}
	raw, err := h.svc.Symbols(r.Context(), exchangeName)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.OK(w, raw)
}

func (h *Handler) Depth(w http.ResponseWriter, r *http.Request, symbol string) {
	q := r.URL.Query()
	exchangeName := q.Get("exchange")
	if exchangeName == "" {
		httputil.Fail(w, http.StatusBadRequest, "exchange query parameter is required")
		return
	}
	limit := defaultDepthLimit
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			httputil.Fail(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	raw, err := h.svc.Depth(r.Context(), exchangeName, symbol, limit)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.OK(w, raw)
}

func (h *Handler) Ping(w http.ResponseWriter, r *http.Request) {
	exchangeName := r.URL.Query().Get("exchange")
	if exchangeName == "" {
		httputil.Fail(w, http.StatusBadRequest, "exchange query parameter is required")
		return
	}
	start := time.Now()
	if err := h.svc.Ping(r.Context(), exchangeName); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.OK(w, map[string]any{
		"exchange":  exchangeName,
		"latencyMs": time.Since(start).Milliseconds(),
	})
}
