package llm

import "github.com/google/generative-ai-go/genai"

func stringSchema() *genai.Schema {
	return &genai.Schema{Type: genai.TypeString}
}

func stringArraySchema() *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: stringSchema()}
}

// ResponseSchema describes GeneratedContent to the provider so it answers in
// structured JSON mode.
func ResponseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"analysis": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"companyName": stringSchema(),
					"jobTitle":    stringSchema(),
				},
				Required: []string{"companyName", "jobTitle"},
			},
			"ats": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"score":           {Type: genai.TypeInteger},
					"missingKeywords": stringArraySchema(),
					"feedback":        stringSchema(),
				},
			},
			"design": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"layout":    {Type: genai.TypeString, Enum: []string{"modern", "classic", "minimal"}},
					"color":     {Type: genai.TypeString, Enum: []string{"blue", "emerald", "slate", "rose", "amber"}},
					"font":      {Type: genai.TypeString, Enum: []string{"sans", "serif", "mono"}},
					"rationale": {Type: genai.TypeString, Description: "Chat reply explaining the choices to the user."},
				},
				Required: []string{"layout", "color", "font", "rationale"},
			},
			"cv": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"fullName": stringSchema(),
					"title":    stringSchema(),
					"email":    stringSchema(),
					"phone":    stringSchema(),
					"location": stringSchema(),
					"summary":  stringSchema(),
					"skills":   stringArraySchema(),
					"experience": {
						Type: genai.TypeArray,
						Items: &genai.Schema{
							Type: genai.TypeObject,
							Properties: map[string]*genai.Schema{
								"role":        stringSchema(),
								"company":     stringSchema(),
								"duration":    stringSchema(),
								"description": stringArraySchema(),
							},
							Required: []string{"role", "company", "duration", "description"},
						},
					},
					"education": {
						Type: genai.TypeArray,
						Items: &genai.Schema{
							Type: genai.TypeObject,
							Properties: map[string]*genai.Schema{
								"degree":      stringSchema(),
								"institution": stringSchema(),
								"year":        stringSchema(),
							},
							Required: []string{"degree", "institution", "year"},
						},
					},
					"languages": stringArraySchema(),
				},
				Required: []string{"fullName", "title", "summary", "skills", "experience", "education"},
			},
			"coverLetter": stringSchema(),
		},
		Required: []string{"analysis", "design", "cv", "coverLetter"},
	}
}
