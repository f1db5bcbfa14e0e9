package conversation

// Role attributes a turn to one side of the conversation.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the roles the generation backend accepts.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Turn is one message exchanged with the model.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Output is the latest generated artifact meant to be copied, kept apart from
// conversational chat.
type Output struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}
