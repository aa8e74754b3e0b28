package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/recipeclip/backend/internal/domain"
	"golang.org/x/time/rate"
)

// Client handles communication with an OpenAI-compatible chat completions API
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
}

// chatRequest is the chat completions request body
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the subset of the chat completions response we read
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// apiError is the error envelope OpenAI-compatible backends return
type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// NewClient creates a new chat completions client
func NewClient(apiKey, baseURL string) *Client {
	// Stay comfortably under typical per-minute request limits
	limiter := rate.NewLimiter(rate.Limit(2), 5)

	return &Client{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		apiKey:      apiKey,
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		rateLimiter: limiter,
	}
}

// Configured reports whether an API key is present
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Complete sends one prompt to one model and returns the text content of the
// first choice. Quota exhaustion and rate limiting surface as distinct
// sentinel errors so the caller's cascade can skip instead of retrying.
func (c *Client) Complete(ctx context.Context, model, prompt string) (*domain.ChatResponse, error) {
	if c.apiKey == "" {
		return nil, domain.ErrBackendUnavailable
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	reqBody := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		Temperature: 0.2,
		MaxTokens:   2048,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %v", domain.ErrBackendFailure, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", domain.ErrBackendFailure, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[OPENAI] Request error for model %s: %v", model, err)
		return nil, fmt.Errorf("%w: %v", domain.ErrBackendFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", domain.ErrBackendFailure, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.classifyError(model, resp.StatusCode, body)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrBackendFailure, err)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("%w: response contained no choices", domain.ErrBackendFailure)
	}

	content := parsed.Choices[0].Message.Content
	log.Printf("[OPENAI] Model %s returned %d chars", model, len(content))

	return &domain.ChatResponse{Content: content, Model: model}, nil
}

// classifyError maps a non-200 response to the domain error taxonomy.
// 429 with an insufficient_quota code means the account is out of quota,
// which the cascade treats differently from a transient rate limit.
func (c *Client) classifyError(model string, status int, body []byte) error {
	var envelope apiError
	_ = json.Unmarshal(body, &envelope)

	if status == http.StatusTooManyRequests {
		if envelope.Error.Code == "insufficient_quota" || envelope.Error.Type == "insufficient_quota" {
			log.Printf("[OPENAI] Quota exhausted for model %s", model)
			return fmt.Errorf("%w: model %s", domain.ErrQuotaExceeded, model)
		}
		log.Printf("[OPENAI] Rate limited on model %s", model)
		return fmt.Errorf("%w: model %s", domain.ErrRateLimited, model)
	}

	msg := envelope.Error.Message
	if msg == "" {
		msg = string(body)
	}
	log.Printf("[OPENAI] API error for model %s - Status: %d, Body: %s", model, status, msg)
	return fmt.Errorf("%w: status %d: %s", domain.ErrBackendFailure, status, msg)
}
