package inference

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"clipcast/internal/config"
	"clipcast/internal/services"
)

// Client wraps the chat-completions API behind the capability methods.
type Client struct {
	api     *openai.Client
	model   string
	timeout time.Duration
}

// NewClient builds a Client from the LLM configuration.
func NewClient(cfg config.LLM) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, services.Wrap(services.ErrConfiguration, "", "build inference client",
			"llm.api_key is empty (set it in the config file or "+config.EnvAPIKey+")", nil)
	}
	apiConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiConfig.BaseURL = cfg.BaseURL
	}
	return &Client{
		api:     openai.NewClientWithConfig(apiConfig),
		model:   cfg.Model,
		timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
	}, nil
}

// HealthCheck issues a minimal completion to prove the endpoint is
// reachable and the key works.
func (c *Client) HealthCheck(ctx context.Context) error {
	_, err := c.complete(ctx, "You are a health check.", "Reply with the single word: ok")
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "", "inference health check", "endpoint unreachable", err)
	}
	return nil
}

func (c *Client) complete(ctx context.Context, system, user string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0.2,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", services.Wrap(services.ErrTimeout, "", "chat completion",
				fmt.Sprintf("model %s exceeded %s", c.model, c.timeout), err)
		}
		return "", fmt.Errorf("chat completion with %s: %w", c.model, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion with %s returned no choices", c.model)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
