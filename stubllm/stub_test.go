package stubllm

import (
	"context"
	"testing"

	"chat-relay/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	prompt := llm.Prompt{
		{Text: "You must always respond in Brazilian Portuguese. Here's the user message: hi"},
		{InlineData: &llm.Blob{MIMEType: "image/png", Data: make([]byte, 12)}},
	}

	out, err := NewClient().Generate(context.Background(), prompt, llm.ChatConfig)
	require.NoError(t, err)
	assert.Equal(t, "Echo: You must always respond in Brazilian Portuguese. Here's the user message: hi [image/png 12 bytes]", out)
}

func TestGenerate_EmptyPrompt(t *testing.T) {
	_, err := NewClient().Generate(context.Background(), nil, llm.ChatConfig)
	assert.ErrorIs(t, err, ErrEmptyPrompt)

	_, err = NewClient().Stream(context.Background(), llm.Prompt{}, llm.ChatConfig)
	assert.ErrorIs(t, err, ErrEmptyPrompt)
}

func TestStreamReassemblesToGenerate(t *testing.T) {
	prompt := llm.Prompt{{Text: "one two  three"}, {InlineData: &llm.Blob{MIMEType: "image/jpeg", Data: []byte{1, 2}}}}
	c := NewClient()

	single, err := c.Generate(context.Background(), prompt, llm.ChatConfig)
	require.NoError(t, err)

	ch, err := c.Stream(context.Background(), prompt, llm.ChatConfig)
	require.NoError(t, err)

	var chunks []string
	for chunk := range ch {
		require.NoError(t, chunk.Err)
		chunks = append(chunks, chunk.Text)
	}
	assert.Greater(t, len(chunks), 1)

	var joined string
	for _, c := range chunks {
		joined += c
	}
	assert.Equal(t, single, joined)
}

func TestStream_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ch, err := NewClient().Stream(ctx, llm.Prompt{{Text: "a b c d e f"}}, llm.ChatConfig)
	require.NoError(t, err)

	<-ch
	cancel()

	// the producer closes the channel once it observes cancellation
	for range ch {
	}
}
