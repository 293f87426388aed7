package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Turn is one prior exchange forwarded alongside the prompt so the model
// keeps conversational context.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionClient is the hosted generative-chat API. Callers receive an
// instance through their constructor; there is no package-level handle.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string, history []Turn) (string, error)
}

type HTTPCompletionClient struct {
	endpoint   string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewHTTPCompletionClient(endpoint, apiKey, model string) *HTTPCompletionClient {
	return &HTTPCompletionClient{
		endpoint:   strings.TrimRight(endpoint, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: http.DefaultClient,
	}
}

type completionRequest struct {
	Model    string `json:"model"`
	Messages []Turn `json:"messages"`
}

type completionResponse struct {
	Reply string `json:"reply"`
}

func (c *HTTPCompletionClient) Complete(ctx context.Context, prompt string, history []Turn) (string, error) {
	messages := make([]Turn, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, Turn{Role: "user", Content: prompt})

	payload, err := json.Marshal(completionRequest{Model: c.model, Messages: messages})
	if err != nil {
		return "", fmt.Errorf("marshal completion payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/v1/chat", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build completion request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("complete prompt: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("complete prompt: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var response completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}
	if response.Reply == "" {
		return "", fmt.Errorf("completion reply missing from response")
	}

	return response.Reply, nil
}
