package stubllm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"chat-relay/llm"
)

var ErrEmptyPrompt = errors.New("contents must not be empty")

// Client is a deterministic, no-network generator for local runs and CI.
// It echoes the prompt text followed by one marker per image, and streams
// the same echo word by word.
type Client struct{}

func NewClient() *Client { return &Client{} }

func (c *Client) Name() string { return "stub" }

func (c *Client) Generate(ctx context.Context, prompt llm.Prompt, _ llm.GenerationConfig) (string, error) {
	if len(prompt) == 0 {
		return "", ErrEmptyPrompt
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return Echo(prompt), nil
}

func (c *Client) Stream(ctx context.Context, prompt llm.Prompt, _ llm.GenerationConfig) (<-chan llm.StreamChunk, error) {
	if len(prompt) == 0 {
		return nil, ErrEmptyPrompt
	}

	ch := make(chan llm.StreamChunk)
	go func() {
		defer close(ch)
		for _, word := range strings.SplitAfter(Echo(prompt), " ") {
			if word == "" {
				continue
			}
			if !llm.Send(ctx, ch, llm.StreamChunk{Text: word}) {
				return
			}
		}
	}()
	return ch, nil
}

// Echo renders the deterministic reply for prompt.
func Echo(prompt llm.Prompt) string {
	var b strings.Builder
	b.WriteString("Echo: ")
	b.WriteString(prompt.Text())
	for _, img := range prompt.Images() {
		fmt.Fprintf(&b, " [%s %d bytes]", img.MIMEType, len(img.Data))
	}
	return b.String()
}
