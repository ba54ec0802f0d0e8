package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPromptAccessors(t *testing.T) {
	png := &Blob{MIMEType: "image/png", Data: []byte{1}}
	jpg := &Blob{MIMEType: "image/jpeg", Data: []byte{2}}
	p := Prompt{{Text: "hello "}, {InlineData: png}, {Text: "world"}, {InlineData: jpg}}

	assert.Equal(t, "hello world", p.Text())
	assert.Equal(t, []*Blob{png, jpg}, p.Images())
	assert.Empty(t, Prompt{}.Images())
}

func TestConfigsDiffer(t *testing.T) {
	assert.Equal(t, float32(0.7), ChatConfig.Temperature)
	assert.Equal(t, float32(0.9), RegenerateConfig.Temperature)
	assert.Equal(t, ChatConfig.MaxOutputTokens, RegenerateConfig.MaxOutputTokens)
	assert.Equal(t, ChatConfig.TopP, RegenerateConfig.TopP)
}

func TestSend_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ch := make(chan StreamChunk)
	assert.False(t, Send(ctx, ch, StreamChunk{Text: "never read"}))
}
