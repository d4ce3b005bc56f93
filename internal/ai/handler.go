package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"lv-exgate/internal/httputil"
)

type Service struct {
	gemini   *GeminiClient
	chaingpt *ChainGPTClient
}

func NewService(gemini *GeminiClient, chaingpt *ChainGPTClient) *Service {
	return &Service{gemini: gemini, chaingpt: chaingpt}
}

func (s *Service) Chat(ctx context.Context, provider, message string) (string, error) {
	switch provider {
	case "", "gemini":
		if !s.gemini.Configured() {
			return "", fmt.Errorf("gemini provider is not configured")
		}
		return s.gemini.Chat(ctx, message)
	case "chaingpt":
		if !s.chaingpt.Configured() {
			return "", fmt.Errorf("chaingpt provider is not configured")
		}
		return s.chaingpt.Chat(ctx, message)
	default:
		return "", fmt.Errorf("unknown provider %q (supported: gemini, chaingpt)", provider)
	}
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type chatRequest struct {
	Message  string `json:"message"`
	Provider string `json:"provider"`
}

func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.Fail(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		httputil.Fail(w, http.StatusBadRequest, "message is required")
		return
	}
	provider := strings.ToLower(strings.TrimSpace(req.Provider))
	reply, err := h.svc.Chat(r.Context(), provider, req.Message)
	if err != nil {
		httputil.Fail(w, http.StatusBadRequest, err.Error())
		return
	}
	if provider == "" {
		provider = "gemini"
	}
	httputil.OK(w, map[string]string{"provider": provider, "reply": reply})
}
