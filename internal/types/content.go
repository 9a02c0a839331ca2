// Package types provides type definitions for structured data used throughout the resume-assistant system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"github.com/go-playground/validator/v10"
)

// Experience represents a single role on the generated CV
type Experience struct {
	Role        string   `json:"role"`
	Company     string   `json:"company"`
	Duration    string   `json:"duration"`
	Description []string `json:"description"`
}

// Education represents a single diploma on the generated CV
type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        string `json:"year"`
}

// CVData is the structured CV produced by the generator
type CVData struct {
	FullName   string       `json:"fullName"`
	Title      string       `json:"title"`
	Email      string       `json:"email"`
	Phone      string       `json:"phone"`
	Location   string       `json:"location"`
	Summary    string       `json:"summary"`
	Skills     []string     `json:"skills"`
	Experience []Experience `json:"experience"`
	Education  []Education  `json:"education"`
	Languages  []string     `json:"languages"`
}

// AnalysisData identifies the job posting the artifact was tailored to
type AnalysisData struct {
	CompanyName string `json:"companyName"`
	JobTitle    string `json:"jobTitle"`
}

// AtsAnalysis is applicant-tracking-system feedback attached to an artifact.
// The core treats it as an opaque payload.
type AtsAnalysis struct {
	Score           int      `json:"score"`
	MissingKeywords []string `json:"missingKeywords"`
	Feedback        string   `json:"feedback"`
}

// Layout values accepted for DesignSettings.Layout
const (
	LayoutModern  = "modern"
	LayoutClassic = "classic"
	LayoutMinimal = "minimal"
)

// Color values accepted for DesignSettings.Color
const (
	ColorBlue    = "blue"
	ColorEmerald = "emerald"
	ColorSlate   = "slate"
	ColorRose    = "rose"
	ColorAmber   = "amber"
)

// Font values accepted for DesignSettings.Font
const (
	FontSans  = "sans"
	FontSerif = "serif"
	FontMono  = "mono"
)

// DesignSettings controls how the artifact is rendered. It is the only part of
// an artifact that may be edited locally without calling the generator.
type DesignSettings struct {
	Layout    string `json:"layout" validate:"required,oneof=modern classic minimal"`
	Color     string `json:"color" validate:"required,oneof=blue emerald slate rose amber"`
	Font      string `json:"font" validate:"required,oneof=sans serif mono"`
	Rationale string `json:"rationale,omitempty"`
}

// Validate validates the DesignSettings using the validator.
func (d *DesignSettings) Validate() error {
	validate := validator.New()
	return validate.Struct(d)
}

// GeneratedContent is an artifact: the CV, the cover letter and their design,
// produced wholesale by the generator.
type GeneratedContent struct {
	Analysis    AnalysisData   `json:"analysis"`
	Ats         *AtsAnalysis   `json:"ats,omitempty"`
	Design      DesignSettings `json:"design"`
	CV          CVData         `json:"cv"`
	CoverLetter string         `json:"coverLetter"`
}

// Clone returns a deep copy so callers can hand the artifact out without
// sharing slices with the workspace.
func (g *GeneratedContent) Clone() *GeneratedContent {
	if g == nil {
		return nil
	}
	c := *g
	if g.Ats != nil {
		ats := *g.Ats
		ats.MissingKeywords = cloneStrings(g.Ats.MissingKeywords)
		c.Ats = &ats
	}
	c.CV.Skills = cloneStrings(g.CV.Skills)
	c.CV.Languages = cloneStrings(g.CV.Languages)
	if g.CV.Experience != nil {
		c.CV.Experience = make([]Experience, len(g.CV.Experience))
		for i, e := range g.CV.Experience {
			e.Description = cloneStrings(e.Description)
			c.CV.Experience[i] = e
		}
	}
	if g.CV.Education != nil {
		c.CV.Education = append([]Education(nil), g.CV.Education...)
	}
	return &c
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}
