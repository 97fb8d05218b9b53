// Package chat holds the conversation state shared across one Q&A session.
package chat

// Role identifies the author of a turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Turn is a single utterance in a conversation. Turns are immutable once
// created; ordering inside a State is the script of the conversation.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}
