package records

import (
	"encoding/json"
	"fmt"

	"github.com/jonathan/resume-assistant/internal/types"
)

type draftRecord struct {
	JobDescription string              `json:"jobDescription"`
	LegacyJobDesc  string              `json:"jobDesc,omitempty"`
	ChatHistory    []chatMessageRecord `json:"chatHistory"`
	GeneratedData  json.RawMessage     `json:"generatedData"`
	LastUpdated    int64               `json:"lastUpdated"`
}

// EncodeDraft serializes the workspace draft.
func EncodeDraft(d types.WorkspaceDraft) ([]byte, error) {
	rec := draftRecord{
		JobDescription: d.JobDescription,
		ChatHistory:    encodeMessages(d.ChatHistory),
		GeneratedData:  json.RawMessage("null"),
		LastUpdated:    toMillis(d.LastUpdated),
	}
	if d.GeneratedData != nil {
		content, err := json.Marshal(d.GeneratedData)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal generated data: %w", err)
		}
		rec.GeneratedData = content
	}
	return wrap(rec)
}

// DecodeDraft parses the stored workspace draft. The browser-era field name
// jobDesc is accepted when jobDescription is missing.
func DecodeDraft(raw []byte) (*types.WorkspaceDraft, error) {
	_, data, err := unwrap(raw)
	if err != nil {
		return nil, err
	}
	if isNull(data) {
		return nil, fmt.Errorf("%w: null draft", ErrDecode)
	}

	var rec draftRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: draft: %v", ErrDecode, err)
	}

	d := &types.WorkspaceDraft{
		JobDescription: rec.JobDescription,
		ChatHistory:    decodeMessages(rec.ChatHistory),
		LastUpdated:    fromMillis(rec.LastUpdated),
	}
	if d.JobDescription == "" {
		d.JobDescription = rec.LegacyJobDesc
	}
	if !isNull(rec.GeneratedData) {
		var content types.GeneratedContent
		if err := json.Unmarshal(rec.GeneratedData, &content); err != nil {
			return nil, fmt.Errorf("%w: draft generated data: %v", ErrDecode, err)
		}
		d.GeneratedData = &content
	}
	return d, nil
}
