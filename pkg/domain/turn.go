package domain

// Role tags a turn in an exchange history.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single role-tagged message within an exchange.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// SystemTurn is a shortcut for a system instruction.
func SystemTurn(content string) Turn { return Turn{Role: RoleSystem, Content: content} }

// UserTurn is a shortcut for a user message.
func UserTurn(content string) Turn { return Turn{Role: RoleUser, Content: content} }

// AssistantTurn is a shortcut for a model reply.
func AssistantTurn(content string) Turn { return Turn{Role: RoleAssistant, Content: content} }
