package records

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/resume-assistant/internal/types"
)

type applicationRecord struct {
	ID               string              `json:"id"`
	CreatedAt        int64               `json:"createdAt"`
	ProfileUsedID    string              `json:"profileUsedId"`
	JobDescription   string              `json:"jobDescription"`
	ChatHistory      []chatMessageRecord `json:"chatHistory"`
	GeneratedContent json.RawMessage     `json:"generatedContent"`
	Status           string              `json:"status"`
	DeletedAt        *int64              `json:"deletedAt,omitempty"`
}

// EncodeApplications serializes the ordered history.
func EncodeApplications(apps []types.SavedApplication) ([]byte, error) {
	recs := make([]applicationRecord, 0, len(apps))
	for _, a := range apps {
		content, err := json.Marshal(a.GeneratedContent)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal generated content of %s: %w", a.ID, err)
		}
		rec := applicationRecord{
			ID:               a.ID,
			CreatedAt:        toMillis(a.CreatedAt),
			ProfileUsedID:    a.ProfileUsedID,
			JobDescription:   a.JobDescription,
			ChatHistory:      encodeMessages(a.ChatHistory),
			GeneratedContent: content,
			Status:           string(a.Status),
		}
		if a.DeletedAt != nil {
			ms := toMillis(*a.DeletedAt)
			rec.DeletedAt = &ms
		}
		recs = append(recs, rec)
	}
	return wrap(recs)
}

// DecodeApplications parses the stored history. A missing or unknown status
// becomes todo. Entries without an id are dropped. Missing generated content
// reads as empty, and content with mistyped fields keeps whatever fields did
// decode; the ids of such entries are returned as repaired.
func DecodeApplications(raw []byte) ([]types.SavedApplication, []string, error) {
	_, data, err := unwrap(raw)
	if err != nil {
		return nil, nil, err
	}
	if isNull(data) {
		return []types.SavedApplication{}, nil, nil
	}

	var recs []applicationRecord
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, nil, fmt.Errorf("%w: applications: %v", ErrDecode, err)
	}

	out := make([]types.SavedApplication, 0, len(recs))
	var repaired []string
	for _, r := range recs {
		if strings.TrimSpace(r.ID) == "" {
			continue
		}
		var content types.GeneratedContent
		if isNull(r.GeneratedContent) {
			repaired = append(repaired, r.ID)
		} else if err := json.Unmarshal(r.GeneratedContent, &content); err != nil {
			repaired = append(repaired, r.ID)
		}

		status, err := types.ParseStatus(r.Status)
		if err != nil {
			status = types.StatusTodo
		}

		app := types.SavedApplication{
			ID:               r.ID,
			CreatedAt:        fromMillis(r.CreatedAt),
			ProfileUsedID:    r.ProfileUsedID,
			JobDescription:   r.JobDescription,
			ChatHistory:      decodeMessages(r.ChatHistory),
			GeneratedContent: content,
			Status:           status,
		}
		if r.DeletedAt != nil {
			t := fromMillis(*r.DeletedAt)
			app.DeletedAt = &t
		}
		out = append(out, app)
	}
	return out, repaired, nil
}
