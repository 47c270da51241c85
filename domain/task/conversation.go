package task

// Role identifies the speaker of a conversation entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single conversation entry. The conversation is append-only;
// entries are never edited or removed once recorded.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
