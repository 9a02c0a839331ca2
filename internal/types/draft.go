//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// WorkspaceDraft is the durable mirror of the in-progress workspace.
type WorkspaceDraft struct {
	JobDescription string            `json:"jobDescription"`
	ChatHistory    []ChatMessage     `json:"chatHistory"`
	GeneratedData  *GeneratedContent `json:"generatedData"`
	LastUpdated    time.Time         `json:"lastUpdated"`
}

// IsEmpty reports whether none of the content fields carries data.
func (d *WorkspaceDraft) IsEmpty() bool {
	return d.JobDescription == "" && len(d.ChatHistory) == 0 && d.GeneratedData == nil
}

// Language selects the output language of generated content
type Language string

// Language constants
const (
	LanguageFrench  Language = "fr"
	LanguageEnglish Language = "en"
)

// ParseLanguage converts user input into a Language. Empty input yields French.
func ParseLanguage(s string) (Language, bool) {
	switch Language(s) {
	case "", LanguageFrench:
		return LanguageFrench, true
	case LanguageEnglish:
		return LanguageEnglish, true
	}
	return "", false
}

// Name returns the human name of the language used in prompts.
func (l Language) Name() string {
	if l == LanguageEnglish {
		return "English"
	}
	return "Français"
}
