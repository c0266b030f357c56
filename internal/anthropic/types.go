package anthropic

// APIVersion is sent in the anthropic-version header.
const APIVersion = "2023-06-01"

// DefaultBaseURL is the public messages API root.
const DefaultBaseURL = "https://api.anthropic.com/v1"

// DefaultMaxTokens bounds the length of a single reply.
const DefaultMaxTokens = 1024

// MessagesRequest is the body of POST /v1/messages.
type MessagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []Message `json:"messages"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// MessagesResponse is the subset of the messages reply the client reads.
type MessagesResponse struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Model      string         `json:"model"`
	StopReason string         `json:"stop_reason"`
	Content    []ContentBlock `json:"content"`
	Usage      Usage          `json:"usage"`
}

type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

type errorEnvelope struct {
	Type  string       `json:"type"`
	Error errorDetails `json:"error"`
}

type errorDetails struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
