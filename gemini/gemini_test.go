package gemini

import (
	"testing"

	"chat-relay/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToContents(t *testing.T) {
	prompt := llm.Prompt{
		{Text: "You must always respond in Brazilian Portuguese. Here's the user message: hi"},
		{InlineData: &llm.Blob{MIMEType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}}},
		{InlineData: &llm.Blob{MIMEType: "image/jpeg", Data: []byte{0xff, 0xd8}}},
	}

	contents := toContents(prompt)
	require.Len(t, contents, 1)
	assert.Equal(t, "user", string(contents[0].Role))

	parts := contents[0].Parts
	require.Len(t, parts, 3)
	assert.Equal(t, prompt[0].Text, parts[0].Text)
	assert.Nil(t, parts[0].InlineData)
	require.NotNil(t, parts[1].InlineData)
	assert.Equal(t, "image/png", parts[1].InlineData.MIMEType)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, parts[1].InlineData.Data)
	assert.Equal(t, "image/jpeg", parts[2].InlineData.MIMEType)
}

func TestToContents_ImagesOnly(t *testing.T) {
	contents := toContents(llm.Prompt{{InlineData: &llm.Blob{MIMEType: "image/gif", Data: []byte("GIF89a")}}})
	require.Len(t, contents[0].Parts, 1)
	assert.Equal(t, "image/gif", contents[0].Parts[0].InlineData.MIMEType)
}

func TestToConfig(t *testing.T) {
	chat := toConfig(llm.ChatConfig)
	require.NotNil(t, chat.Temperature)
	require.NotNil(t, chat.TopP)
	assert.Equal(t, float32(0.7), *chat.Temperature)
	assert.Equal(t, float32(1), *chat.TopP)
	assert.EqualValues(t, 2048, chat.MaxOutputTokens)

	regen := toConfig(llm.RegenerateConfig)
	assert.Equal(t, float32(0.9), *regen.Temperature)
}
