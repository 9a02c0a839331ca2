//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// Role identifies the author of a chat message
type Role string

// Role constants
const (
	RoleUser Role = "user"
	RoleAI   Role = "ai"
)

// ChatMessage is one entry of a workspace transcript. Messages are immutable
// once appended and ordered by append order, not by timestamp.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// CloneMessages copies a transcript slice.
func CloneMessages(msgs []ChatMessage) []ChatMessage {
	if msgs == nil {
		return []ChatMessage{}
	}
	return append([]ChatMessage(nil), msgs...)
}
