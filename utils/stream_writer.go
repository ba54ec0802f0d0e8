package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"chat-relay/models"
)

// WriteSSEChunk writes chunk as a single "data: {...}\n\n" event and flushes
// it to the client when the writer supports flushing.
func WriteSSEChunk(w io.Writer, chunk models.StreamChunk) error {
	data, err := json.Marshal(chunk)
	if err != nil {
		return fmt.Errorf("failed to marshal stream chunk: %w", err)
	}

	if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		return fmt.Errorf("failed to write stream chunk: %w", err)
	}

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	return nil
}
