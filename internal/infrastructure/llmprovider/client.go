package llmprovider

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"catalog-assistant/internal/domain/llm"
	"catalog-assistant/internal/infrastructure/metrics"
)

// Client implements the llm.Provider interface against an OpenAI-compatible
// chat completions endpoint.
type Client struct {
	httpClient *resty.Client
}

// NewClient creates a Resty-backed client. apiKey may be empty for local
// model servers that do not authenticate.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)
	if apiKey != "" {
		httpClient.SetAuthToken(apiKey)
	}
	return &Client{httpClient: httpClient}
}

// CreateChatCompletion calls POST /v1/chat/completions.
func (c *Client) CreateChatCompletion(ctx context.Context, req llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
	var completion llm.ChatCompletionResponse
	start := time.Now()

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&completion).
		Post("/v1/chat/completions")
	if err != nil {
		metrics.RecordModelCall("error", time.Since(start))
		return nil, err
	}

	if resp.IsError() {
		metrics.RecordModelCall("error", time.Since(start))
		return nil, fmt.Errorf("model api error: %s: %s", resp.Status(), resp.String())
	}

	metrics.RecordModelCall("ok", time.Since(start))
	return &completion, nil
}

// Ensure interface compliance.
var _ llm.Provider = (*Client)(nil)
