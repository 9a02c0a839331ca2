package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validContent = `{
	"analysis": {"companyName": "Acme", "jobTitle": "Senior Engineer"},
	"ats": {"score": 78, "missingKeywords": ["Kubernetes"], "feedback": "Add k8s"},
	"design": {"layout": "classic", "color": "blue", "font": "serif", "rationale": "Formal sector"},
	"cv": {
		"fullName": "Ada Lovelace",
		"experience": [{"role": "Engineer", "company": "Analytical Engines", "description": ["Wrote notes"]}],
		"skills": ["Go"]
	},
	"coverLetter": "Dear Acme,"
}`

func TestValidateGeneratedContent_Valid(t *testing.T) {
	assert.NoError(t, ValidateGeneratedContent(validContent))
}

func TestValidateGeneratedContent_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		field string
	}{
		{
			name:  "missing cover letter",
			input: `{"analysis":{"companyName":"A","jobTitle":"B"},"design":{"layout":"modern","color":"blue","font":"sans"},"cv":{"fullName":"x","experience":[]}}`,
			field: "(root)",
		},
		{
			name:  "unknown layout",
			input: `{"analysis":{"companyName":"A","jobTitle":"B"},"design":{"layout":"fancy","color":"blue","font":"sans"},"cv":{"fullName":"x","experience":[]},"coverLetter":""}`,
			field: "design.layout",
		},
		{
			name:  "score out of range",
			input: `{"analysis":{"companyName":"A","jobTitle":"B"},"ats":{"score":140},"design":{"layout":"modern","color":"blue","font":"sans"},"cv":{"fullName":"x","experience":[]},"coverLetter":""}`,
			field: "ats.score",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGeneratedContent(tt.input)
			require.Error(t, err)

			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr), "error should be ValidationError type")
			fields := make([]string, 0, len(validationErr.Errors))
			for _, fe := range validationErr.Errors {
				fields = append(fields, fe.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestValidateDesignSettings(t *testing.T) {
	assert.NoError(t, ValidateDesignSettings(`{"layout":"minimal","color":"rose","font":"mono"}`))
	assert.Error(t, ValidateDesignSettings(`{"layout":"minimal","color":"purple","font":"mono"}`))
}

func TestValidateJSONString_InvalidSchema(t *testing.T) {
	err := ValidateJSONString(`{"type": 12}`, `{}`)
	require.Error(t, err)

	var loadErr *SchemaLoadError
	assert.True(t, errors.As(err, &loadErr))
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Errors: []FieldError{{Field: "design.color", Message: "must be one of the following"}}}
	assert.Contains(t, err.Error(), "1. design.color: must be one of the following")
}
