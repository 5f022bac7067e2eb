package models

// Role identifies who authored a prompt turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is one turn of a prompt sent to the completion provider.
// Conversation history is kept by the browser, never by the server.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

func SystemMessage(content string) *Message {
	return &Message{Role: RoleSystem, Content: content}
}

func UserMessage(content string) *Message {
	return &Message{Role: RoleUser, Content: content}
}
