package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"

	"chat-relay/llm"

	goopenai "github.com/sashabaranov/go-openai"
)

// Client generates content with the OpenAI chat completions API.
type Client struct {
	client *goopenai.Client
	model  string
}

func NewClient(apiKey, model, baseURL string, httpClient *http.Client) *Client {
	cfg := goopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	return &Client{
		client: goopenai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (c *Client) Name() string { return "openai" }

func (c *Client) Generate(ctx context.Context, prompt llm.Prompt, cfg llm.GenerationConfig) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, c.request(prompt, cfg, false))
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *Client) Stream(ctx context.Context, prompt llm.Prompt, cfg llm.GenerationConfig) (<-chan llm.StreamChunk, error) {
	stream, err := c.client.CreateChatCompletionStream(ctx, c.request(prompt, cfg, true))
	if err != nil {
		return nil, fmt.Errorf("openai chat completion stream: %w", err)
	}

	ch := make(chan llm.StreamChunk)
	go func() {
		defer close(ch)
		defer stream.Close()

		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				llm.Send(ctx, ch, llm.StreamChunk{Err: fmt.Errorf("openai stream: %w", err)})
				return
			}
			if len(resp.Choices) == 0 || resp.Choices[0].Delta.Content == "" {
				continue
			}
			if !llm.Send(ctx, ch, llm.StreamChunk{Text: resp.Choices[0].Delta.Content}) {
				return
			}
		}
	}()
	return ch, nil
}

func (c *Client) request(prompt llm.Prompt, cfg llm.GenerationConfig, stream bool) goopenai.ChatCompletionRequest {
	parts := make([]goopenai.ChatMessagePart, 0, len(prompt))
	for _, p := range prompt {
		if p.InlineData != nil {
			parts = append(parts, goopenai.ChatMessagePart{
				Type: goopenai.ChatMessagePartTypeImageURL,
				ImageURL: &goopenai.ChatMessageImageURL{
					URL:    "data:" + p.InlineData.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(p.InlineData.Data),
					Detail: goopenai.ImageURLDetailAuto,
				},
			})
			continue
		}
		parts = append(parts, goopenai.ChatMessagePart{
			Type: goopenai.ChatMessagePartTypeText,
			Text: p.Text,
		})
	}

	return goopenai.ChatCompletionRequest{
		Model: c.model,
		Messages: []goopenai.ChatCompletionMessage{{
			Role:         goopenai.ChatMessageRoleUser,
			MultiContent: parts,
		}},
		Temperature: cfg.Temperature,
		TopP:        cfg.TopP,
		MaxTokens:   int(cfg.MaxOutputTokens),
		Stream:      stream,
	}
}
