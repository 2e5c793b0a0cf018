package history

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in a conversation. Turns are append-only and never
// mutated after creation.
type Turn struct {
	ID          int64     `json:"id"`
	Owner       string    `json:"email"`
	Role        Role      `json:"role"`
	Text        string    `json:"text,omitempty"`
	Audio       []byte    `json:"audio,omitempty"`
	ContextInfo string    `json:"context_info,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
