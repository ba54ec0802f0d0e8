package gemini

import (
	"context"
	"fmt"
	"net/http"

	"chat-relay/llm"

	"google.golang.org/genai"
)

// Client generates content with the Gemini API through the genai SDK.
type Client struct {
	client *genai.Client
	model  string
}

func NewClient(ctx context.Context, apiKey, model string, httpClient *http.Client) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &Client{client: client, model: model}, nil
}

func (c *Client) Name() string { return "gemini" }

func (c *Client) Generate(ctx context.Context, prompt llm.Prompt, cfg llm.GenerationConfig) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, toContents(prompt), toConfig(cfg))
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned no text (finish reason: %s)", resp.Candidates[0].FinishReason)
	}
	return text, nil
}

func (c *Client) Stream(ctx context.Context, prompt llm.Prompt, cfg llm.GenerationConfig) (<-chan llm.StreamChunk, error) {
	contents := toContents(prompt)
	config := toConfig(cfg)

	ch := make(chan llm.StreamChunk)
	go func() {
		defer close(ch)

		for resp, err := range c.client.Models.GenerateContentStream(ctx, c.model, contents, config) {
			if err != nil {
				llm.Send(ctx, ch, llm.StreamChunk{Err: fmt.Errorf("gemini stream: %w", err)})
				return
			}
			text := resp.Text()
			if text == "" {
				continue
			}
			if !llm.Send(ctx, ch, llm.StreamChunk{Text: text}) {
				return
			}
		}
	}()
	return ch, nil
}

func toContents(prompt llm.Prompt) []*genai.Content {
	parts := make([]*genai.Part, 0, len(prompt))
	for _, p := range prompt {
		if p.InlineData != nil {
			parts = append(parts, genai.NewPartFromBytes(p.InlineData.Data, p.InlineData.MIMEType))
			continue
		}
		parts = append(parts, genai.NewPartFromText(p.Text))
	}
	return []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
}

func toConfig(cfg llm.GenerationConfig) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(cfg.Temperature),
		TopP:            genai.Ptr(cfg.TopP),
		MaxOutputTokens: cfg.MaxOutputTokens,
	}
}
