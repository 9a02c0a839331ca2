package records

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/resume-assistant/internal/types"
)

// DefaultProfileName fills a profile stored without a name.
const DefaultProfileName = "Untitled Profile"

type profileRecord struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	CV     string `json:"cv"`
	Letter string `json:"letter"`
}

// EncodeProfiles serializes the ordered profile list.
func EncodeProfiles(profiles []types.Profile) ([]byte, error) {
	recs := make([]profileRecord, 0, len(profiles))
	for _, p := range profiles {
		recs = append(recs, profileRecord(p))
	}
	return wrap(recs)
}

// DecodeProfiles parses a stored profile list. Entries without an id are
// dropped since nothing can address them.
func DecodeProfiles(raw []byte) ([]types.Profile, error) {
	_, data, err := unwrap(raw)
	if err != nil {
		return nil, err
	}
	if isNull(data) {
		return []types.Profile{}, nil
	}

	var recs []profileRecord
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("%w: profiles: %v", ErrDecode, err)
	}

	out := make([]types.Profile, 0, len(recs))
	for _, r := range recs {
		if strings.TrimSpace(r.ID) == "" {
			continue
		}
		if strings.TrimSpace(r.Name) == "" {
			r.Name = DefaultProfileName
		}
		out = append(out, types.Profile(r))
	}
	return out, nil
}

// EncodeActiveID serializes the active profile pointer.
func EncodeActiveID(id string) ([]byte, error) {
	return wrap(id)
}

// DecodeActiveID parses the active profile pointer. A bare unquoted string or
// a non-string JSON scalar such as a numeric id is accepted as a legacy value
// and read as its raw text.
func DecodeActiveID(raw []byte) (string, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty active profile id", ErrDecode)
	}
	if !json.Valid([]byte(trimmed)) {
		return trimmed, nil
	}

	_, data, err := unwrap(raw)
	if err != nil {
		return "", err
	}
	data = bytes.TrimSpace(data)
	if isNull(data) {
		return "", nil
	}
	switch data[0] {
	case '"':
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return "", fmt.Errorf("%w: active profile id: %v", ErrDecode, err)
		}
		return id, nil
	case '{', '[':
		return "", fmt.Errorf("%w: active profile id is not a scalar", ErrDecode)
	}
	return string(data), nil
}
