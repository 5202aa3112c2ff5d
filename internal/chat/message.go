package chat

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Pending is the content of the assistant placeholder shown while a reply is
// outstanding. It never leaves the process.
const Pending = "__awaiting_response__"

// Message is one entry of a chat session.
type Message struct {
	ID        string `json:"id,omitempty"`
	Role      Role   `json:"role"`
	Content   string `json:"content"`
	Model     string `json:"model,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// IsPending reports whether m is the awaiting-response placeholder.
func (m Message) IsPending() bool {
	return m.Role == RoleAssistant && m.Content == Pending
}

func newMessage(role Role, content, model string, now time.Time) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Model:     model,
		Timestamp: now.UTC().Format(time.RFC3339),
	}
}

// Credential is a provider API key registered with the CreateMVP backend.
// Only its metadata is ever visible to the client.
type Credential struct {
	ID        string `json:"id"`
	Provider  string `json:"provider"`
	CreatedAt string `json:"createdAt"`
}
