package records

import (
	"fmt"

	"github.com/jonathan/resume-assistant/internal/types"
)

type chatMessageRecord struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

func encodeMessages(msgs []types.ChatMessage) []chatMessageRecord {
	out := make([]chatMessageRecord, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, chatMessageRecord{
			ID:        m.ID,
			Role:      string(m.Role),
			Text:      m.Text,
			Timestamp: toMillis(m.Timestamp),
		})
	}
	return out
}

func decodeMessages(recs []chatMessageRecord) []types.ChatMessage {
	out := make([]types.ChatMessage, 0, len(recs))
	for i, r := range recs {
		role := types.RoleAI
		if r.Role == string(types.RoleUser) {
			role = types.RoleUser
		}
		id := r.ID
		if id == "" {
			id = fmt.Sprintf("msg-%d", i+1)
		}
		out = append(out, types.ChatMessage{
			ID:        id,
			Role:      role,
			Text:      r.Text,
			Timestamp: fromMillis(r.Timestamp),
		})
	}
	return out
}
