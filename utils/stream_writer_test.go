package utils

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"chat-relay/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSSEChunk(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSSEChunk(&buf, models.StreamChunk{Chunk: "Olá"}))
	require.NoError(t, WriteSSEChunk(&buf, models.StreamChunk{Chunk: " \"mundo\"\n"}))

	assert.Equal(t, "data: {\"chunk\":\"Olá\"}\n\ndata: {\"chunk\":\" \\\"mundo\\\"\\n\"}\n\n", buf.String())
}

func TestWriteSSEChunk_Flushes(t *testing.T) {
	w := httptest.NewRecorder()
	require.NoError(t, WriteSSEChunk(w, models.StreamChunk{Chunk: "x"}))

	assert.True(t, w.Flushed)
	assert.Equal(t, "data: {\"chunk\":\"x\"}\n\n", w.Body.String())
}
