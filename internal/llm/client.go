package llm

import "context"

// Message roles understood by chat completion APIs.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is a single chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request describes one completion call.
type Request struct {
	Messages    []Message
	Temperature float64
	// MaxTokens caps the response length; zero means the provider default.
	MaxTokens int
}

// Response is the completion result.
type Response struct {
	Content string
}

// Client issues blocking completion calls against a language model.
// Implementations must not retry internally; retry policy belongs to the
// surrounding orchestration.
type Client interface {
	Complete(ctx context.Context, req Request) (*Response, error)
}
