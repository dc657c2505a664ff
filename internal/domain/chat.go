package domain

// Role identifies the sender of a chat turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single message in a chat conversation. The history is
// caller-supplied per request; the server never persists it.
type Turn struct {
	Role    Role    `json:"role"`
	Content string  `json:"content"`
	TS      float64 `json:"ts,omitempty"`
}

// ChatResult is one completed chat turn from an upstream model.
type ChatResult struct {
	ID         string  `json:"id"`
	Message    string  `json:"message"`
	Model      string  `json:"model"`
	CreateTS   float64 `json:"create_ts"`
	ResponseTS float64 `json:"response_ts"`
}
