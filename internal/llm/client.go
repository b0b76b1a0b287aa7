package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// callTimeout bounds every LLM invocation. The pipeline maps a timeout to
// the same failed-continue policy as any other step failure.
const callTimeout = 2 * time.Minute

// Client is an abstraction over LLM providers.
type Client interface {
	// GenerateContent generates text for the given role's model
	GenerateContent(ctx context.Context, prompt string, role ModelRole) (string, error)
	// GenerateJSON generates JSON output for the given role's model
	GenerateJSON(ctx context.Context, prompt string, role ModelRole) (string, error)
	// GetModel returns the provider model name assigned to a role
	GetModel(role ModelRole) string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates an LLM client for the configured provider.
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	switch config.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, config, apiKey)
	default:
		return NewGeminiClient(ctx, config, apiKey)
	}
}

// GeminiClient implements Client for Google Gemini.
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini-backed client.
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{client: client, config: config}, nil
}

// GenerateContent generates text content using the model assigned to role.
func (c *GeminiClient) GenerateContent(ctx context.Context, prompt string, role ModelRole) (string, error) {
	return c.generate(ctx, prompt, role, false)
}

// GenerateJSON generates JSON content using the model assigned to role.
// Markdown code-block wrappers are stripped from the response.
func (c *GeminiClient) GenerateJSON(ctx context.Context, prompt string, role ModelRole) (string, error) {
	text, err := c.generate(ctx, prompt, role, true)
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

func (c *GeminiClient) generate(ctx context.Context, prompt string, role ModelRole, asJSON bool) (string, error) {
	modelName := c.config.GetModel(role)
	if modelName == "" {
		return "", fmt.Errorf("no model configured for role %s", role)
	}

	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(0.2)
	if asJSON {
		model.ResponseMIMEType = "application/json"
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return extractTextFromResponse(resp)
}

// GetModel returns the model name assigned to a role.
func (c *GeminiClient) GetModel(role ModelRole) string {
	return c.config.GetModel(role)
}

// Close releases resources held by the client.
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// extractTextFromResponse joins the text parts of a Gemini response.
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}
	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}
	return strings.Join(parts, ""), nil
}
