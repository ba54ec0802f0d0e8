package llm

import (
	"context"
	"strings"
)

// Blob is inline binary content, e.g. an image, sent alongside text.
type Blob struct {
	MIMEType string
	Data     []byte
}

// Part is one item of a prompt. Exactly one of Text or InlineData is set.
type Part struct {
	Text       string
	InlineData *Blob
}

// Prompt is the ordered content list passed to a provider.
type Prompt []Part

// Text returns the concatenated text parts of the prompt.
func (p Prompt) Text() string {
	var b strings.Builder
	for _, part := range p {
		b.WriteString(part.Text)
	}
	return b.String()
}

// Images returns the inline data parts of the prompt in order.
func (p Prompt) Images() []*Blob {
	var out []*Blob
	for _, part := range p {
		if part.InlineData != nil {
			out = append(out, part.InlineData)
		}
	}
	return out
}

// GenerationConfig controls sampling for a single generation call.
type GenerationConfig struct {
	Temperature     float32
	MaxOutputTokens int32
	TopP            float32
}

var (
	ChatConfig = GenerationConfig{
		Temperature:     0.7,
		MaxOutputTokens: 2048,
		TopP:            1,
	}

	// RegenerateConfig samples hotter than ChatConfig so alternatives differ.
	RegenerateConfig = GenerationConfig{
		Temperature:     0.9,
		MaxOutputTokens: 2048,
		TopP:            1,
	}

	TranslationConfig = GenerationConfig{
		Temperature:     0,
		MaxOutputTokens: 2048,
		TopP:            1,
	}
)

// StreamChunk is one increment of a streamed generation. A chunk with Err set
// is always the last one sent before the channel is closed.
type StreamChunk struct {
	Text string
	Err  error
}

// Generator abstracts a generative-language provider.
// Implementations must be safe for concurrent use.
type Generator interface {
	// Generate returns the complete response text.
	Generate(ctx context.Context, prompt Prompt, cfg GenerationConfig) (string, error)
	// Stream returns a channel of text increments that is closed when the
	// upstream response ends. The producer exits when ctx is cancelled.
	Stream(ctx context.Context, prompt Prompt, cfg GenerationConfig) (<-chan StreamChunk, error)
	// Name returns a short provider label for logs and health output.
	Name() string
}

// Send delivers chunk on ch unless ctx is done. It reports whether the
// chunk was delivered.
func Send(ctx context.Context, ch chan<- StreamChunk, chunk StreamChunk) bool {
	select {
	case ch <- chunk:
		return true
	case <-ctx.Done():
		return false
	}
}
