package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatRequestDefaults(t *testing.T) {
	var req ChatRequest
	require.NoError(t, json.Unmarshal([]byte(`{}`), &req))

	assert.Equal(t, "", req.Message)
	assert.Empty(t, req.ImageURLs)
	assert.False(t, req.Stream)
}

func TestRegenerateRequestImages(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{name: "list only", body: `{"image_urls":["a","b"]}`, want: []string{"a", "b"}},
		{name: "single appended", body: `{"image_urls":["a"],"image_url":"c"}`, want: []string{"a", "c"}},
		{name: "null single", body: `{"previous_message":"hi","image_url":null}`, want: nil},
		{name: "empty single", body: `{"image_url":""}`, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req RegenerateRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			assert.Equal(t, tt.want, req.Images())
		})
	}
}
