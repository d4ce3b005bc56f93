package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultGeminiBaseURL   = "https://generativelanguage.googleapis.com"
	defaultChainGPTBaseURL = "https://api.chaingpt.org"
	geminiModel            = "gemini-1.5-flash"
)

// GeminiClient is a thin passthrough to the Gemini generateContent API.
type GeminiClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewGeminiClient(apiKey, baseURL string) *GeminiClient {
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}
	return &GeminiClient{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *GeminiClient) Configured() bool { return c.apiKey != "" }

func (c *GeminiClient) Chat(ctx context.Context, message string) (string, error) {
	body, err := json.Marshal(map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": message}}},
		},
	})
	if err != nil {
		return "", fmt.Errorf("gemini: encode request: %w", err)
	}
	reqURL := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, geminiModel, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("gemini: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini: request failed: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("gemini: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini: HTTP %d: %s", resp.StatusCode, string(raw))
	}

	var payload struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", fmt.Errorf("gemini: parse response: %w", err)
	}
	if len(payload.Candidates) == 0 || len(payload.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini: empty response")
	}
	return payload.Candidates[0].Content.Parts[0].Text, nil
}

// ChainGPTClient is a thin passthrough to the ChainGPT chat API.
type ChainGPTClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewChainGPTClient(apiKey, baseURL string) *ChainGPTClient {
	if baseURL == "" {
		baseURL = defaultChainGPTBaseURL
	}
	return &ChainGPTClient{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *ChainGPTClient) Configured() bool { return c.apiKey != "" }

func (c *ChainGPTClient) Chat(ctx context.Context, message string) (string, error) {
	body, err := json.Marshal(map[string]string{
		"model":       "general_assistant",
		"question":    message,
		"chatHistory": "off",
	})
	if err != nil {
		return "", fmt.Errorf("chaingpt: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/stream", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("chaingpt: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chaingpt: request failed: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("chaingpt: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chaingpt: HTTP %d: %s", resp.StatusCode, string(raw))
	}
	// The endpoint streams plain text chunks; drained whole it is the reply.
	return string(raw), nil
}
