package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/openquest/gm-api/internal/errors"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o-mini"
	defaultTimeout = 60 * time.Second
)

// OpenAIConfig holds the configuration for the OpenAI-compatible client
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string

	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client
}

// Validate ensures all required dependencies are provided
func (c *OpenAIConfig) Validate() error {
	if c.APIKey == "" {
		return errors.InvalidArgument("API key is required")
	}
	return nil
}

type openAIClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewOpenAIClient creates a client for any OpenAI-compatible
// chat-completions endpoint.
func NewOpenAIClient(cfg *OpenAIConfig) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	return &openAIClient{
		apiKey:     cfg.APIKey,
		model:      model,
		baseURL:    baseURL,
		httpClient: httpClient,
	}, nil
}

// Ensure openAIClient implements Client
var _ Client = (*openAIClient)(nil)

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
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
	} `json:"error,omitempty"`
}

func (c *openAIClient) Complete(ctx context.Context, input CompleteInput) (*CompleteOutput, error) {
	if len(input.Messages) == 0 {
		return nil, errors.InvalidArgument("at least one message is required")
	}

	body, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: input.Messages,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal chat request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to build chat request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Unavailablef("chat provider unreachable: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, errors.Unavailablef("failed to read provider response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Unavailablef("chat provider returned status %d: %s",
			resp.StatusCode, string(data))
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, errors.Unavailablef("failed to decode provider response: %v", err)
	}
	if parsed.Error != nil {
		return nil, errors.Unavailablef("chat provider error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return nil, errors.Unavailable("chat provider returned no choices")
	}

	return &CompleteOutput{Text: parsed.Choices[0].Message.Content}, nil
}
