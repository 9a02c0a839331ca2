package llm

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/resume-assistant/internal/prompts"
)

func systemInstruction() string {
	return prompts.MustGet(prompts.Generation, "system-instruction")
}

// BuildPrompt renders the user prompt for one turn. The first turn is built
// from the master CV and letter; later turns carry the current document.
func BuildPrompt(req GenerateRequest) (string, error) {
	get := func(key string) string { return prompts.MustGet(prompts.Generation, key) }

	var task, section string
	if req.IsInitial() {
		task = get("task-create")
		section = prompts.Format(get("context-create"), map[string]string{
			"MasterCV":     req.MasterCV,
			"MasterLetter": req.MasterLetter,
		})
	} else {
		current, err := json.Marshal(req.Previous)
		if err != nil {
			return "", fmt.Errorf("failed to marshal current document: %w", err)
		}
		task = get("task-update")
		section = prompts.Format(get("context-update"), map[string]string{"Current": string(current)})
	}

	return prompts.Format(get("turn"), map[string]string{
		"Language":       req.Language.Name(),
		"Task":           task,
		"JobDescription": strings.TrimSpace(req.JobDescription),
		"Context":        section,
		"Message":        strconv.Quote(req.Message),
		"Rules":          get("rules"),
	}), nil
}
