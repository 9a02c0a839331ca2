package testutil

import "github.com/jonathan/resume-assistant/internal/types"

// SampleContent returns a complete document for job postings at company.
func SampleContent(company, rationale string) *types.GeneratedContent {
	return &types.GeneratedContent{
		Analysis: types.AnalysisData{CompanyName: company, JobTitle: "Senior Engineer"},
		Ats: &types.AtsAnalysis{
			Score:           81,
			MissingKeywords: []string{"Kubernetes"},
			Feedback:        "Mention container orchestration",
		},
		Design: types.DesignSettings{
			Layout:    types.LayoutModern,
			Color:     types.ColorSlate,
			Font:      types.FontSans,
			Rationale: rationale,
		},
		CV: types.CVData{
			FullName: "Ada Lovelace",
			Title:    "Senior Engineer",
			Email:    "ada@example.com",
			Summary:  "Engineer with a taste for analytical engines.",
			Skills:   []string{"Go", "PostgreSQL"},
			Experience: []types.Experience{
				{Role: "Engineer", Company: "Analytical Engines", Duration: "2019-2024", Description: []string{"Built the difference engine"}},
			},
			Education: []types.Education{
				{Degree: "MSc Mathematics", Institution: "University of London", Year: "2018"},
			},
			Languages: []string{"English", "French"},
		},
		CoverLetter: "Dear " + company + ",",
	}
}
