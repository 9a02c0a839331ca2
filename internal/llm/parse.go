package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/resume-assistant/internal/schemas"
	"github.com/jonathan/resume-assistant/internal/types"
)

// ParseGeneratedContent turns raw model text into a validated document.
func ParseGeneratedContent(text string) (*types.GeneratedContent, error) {
	cleaned := CleanJSONBlock(text)
	if strings.TrimSpace(cleaned) == "" {
		return nil, ErrEmptyResponse
	}

	if err := schemas.ValidateGeneratedContent(cleaned); err != nil {
		return nil, fmt.Errorf("generator output failed schema validation: %w", err)
	}

	var content types.GeneratedContent
	if err := json.Unmarshal([]byte(cleaned), &content); err != nil {
		return nil, fmt.Errorf("failed to unmarshal generator output: %w", err)
	}
	if err := content.Design.Validate(); err != nil {
		return nil, fmt.Errorf("generator returned invalid design: %w", err)
	}
	return &content, nil
}
