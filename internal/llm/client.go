// Package llm drafts review content through the OpenAI chat completions API.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
)

// Doer issues HTTP requests. Satisfied by both httpclient.Client and
// httpclient.CircuitBreakerClient.
type Doer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

const defaultBaseURL = "https://api.openai.com/v1"

// Models the drafting flow uses.
const (
	ModelDefault = "gpt-4o"
	ModelSearch  = "gpt-4o-search-preview"
)

// htmlTags matches markup the search-enabled model sometimes leaks into its
// text responses.
var htmlTags = regexp.MustCompile(`<[^>]+>`)

// Client is a thin chat-completions client.
type Client struct {
	http    Doer
	apiKey  string
	baseURL string
	logger  *slog.Logger
}

// NewClient creates an OpenAI client.
func NewClient(httpClient Doer, apiKey string, logger *slog.Logger) *Client {
	return &Client{
		http:    httpClient,
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		logger:  logger,
	}
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	MaxTokens      int           `json:"max_tokens"`
	ResponseFormat formatSpec    `json:"response_format"`
	Store          bool          `json:"store"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type formatSpec struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Complete sends a single-user-message prompt and returns the response text
// with HTML tags stripped.
func (c *Client) Complete(ctx context.Context, model, prompt string) (string, error) {
	maxTokens := 1500
	if model == ModelDefault {
		maxTokens = 3000
	}

	body, err := json.Marshal(chatRequest{
		Model:          model,
		Messages:       []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:      maxTokens,
		ResponseFormat: formatSpec{Type: "text"},
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion request: %w", err)
	}
	defer resp.Body.Close()

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil {
			return "", fmt.Errorf("chat completion failed: %s (%s)", parsed.Error.Message, parsed.Error.Type)
		}
		return "", fmt.Errorf("chat completion failed: status %d", resp.StatusCode)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	text := htmlTags.ReplaceAllString(parsed.Choices[0].Message.Content, "")

	c.logger.DebugContext(ctx, "chat completion finished",
		slog.String("model", model),
		slog.Int("response_chars", len(text)),
	)

	return text, nil
}
