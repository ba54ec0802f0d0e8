package models

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ChatRequest is the body of POST /api/chat
type ChatRequest struct {
	Message   string   `json:"message"`
	ImageURLs []string `json:"image_urls"`
	Stream    bool     `json:"stream"`
}

// RegenerateRequest is the body of POST /api/regenerate.
// ImageURL is the single-image field sent by the web client.
type RegenerateRequest struct {
	PreviousMessage string   `json:"previous_message"`
	ImageURLs       []string `json:"image_urls"`
	ImageURL        *string  `json:"image_url,omitempty"`
}

// Images returns ImageURLs followed by ImageURL when it is set.
func (r RegenerateRequest) Images() []string {
	images := r.ImageURLs
	if r.ImageURL != nil && *r.ImageURL != "" {
		images = append(append([]string(nil), r.ImageURLs...), *r.ImageURL)
	}
	return images
}

// SuccessResponse is returned by non-streaming endpoints on success
type SuccessResponse struct {
	Response string `json:"response"`
	Status   string `json:"status"`
}

// ErrorResponse is returned on any failure
type ErrorResponse struct {
	Error  string `json:"error"`
	Status string `json:"status"`
}

// StreamChunk is the payload of one server-sent event
type StreamChunk struct {
	Chunk string `json:"chunk"`
}

func NewSuccess(response string) SuccessResponse {
	return SuccessResponse{Response: response, Status: StatusSuccess}
}

func NewError(msg string) ErrorResponse {
	return ErrorResponse{Error: msg, Status: StatusError}
}
