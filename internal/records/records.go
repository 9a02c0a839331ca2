// Package records is the single (de)serialization layer between the domain
// types and the bytes kept in a store.Store.
//
// Every record is written inside a versioned envelope:
//
//	{"version": 1, "data": <payload>}
//
// Decoding also accepts a bare payload without envelope (version 0), which is
// the shape the browser client kept in localStorage. All tolerance for missing
// or unknown fields lives here: callers receive fully defaulted domain values
// or ErrDecode, never a half-filled record.
package records

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// CurrentVersion is written into every envelope.
const CurrentVersion = 1

// ErrDecode reports stored bytes that could not be interpreted at all.
var ErrDecode = errors.New("malformed record")

type envelope struct {
	Version int             `json:"version"`
	Data    json.RawMessage `json:"data"`
}

// wrap marshals payload inside an envelope.
func wrap(payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record: %w", err)
	}
	out, err := json.Marshal(envelope{Version: CurrentVersion, Data: data})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal envelope: %w", err)
	}
	return out, nil
}

// unwrap returns the payload of raw and the version it was written with.
func unwrap(raw []byte) (int, json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0, nil, fmt.Errorf("%w: empty value", ErrDecode)
	}
	if !json.Valid(trimmed) {
		return 0, nil, fmt.Errorf("%w: invalid JSON", ErrDecode)
	}

	if trimmed[0] == '{' {
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &probe); err == nil {
			_, hasVersion := probe["version"]
			data, hasData := probe["data"]
			if hasVersion && hasData {
				var env envelope
				if err := json.Unmarshal(trimmed, &env); err != nil {
					return 0, nil, fmt.Errorf("%w: %v", ErrDecode, err)
				}
				return env.Version, data, nil
			}
		}
	}
	return 0, trimmed, nil
}

func isNull(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

// toMillis and fromMillis convert between time.Time and the epoch
// milliseconds used on disk.
func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
