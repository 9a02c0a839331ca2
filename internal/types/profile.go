//nolint:revive // types is a standard Go package name pattern
package types

// Profile is a named bundle of source CV and cover letter text used as
// generator input.
type Profile struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	CV     string `json:"cv"`
	Letter string `json:"letter"`
}

// HasCV reports whether the profile carries any master CV text.
func (p *Profile) HasCV() bool {
	return p != nil && p.CV != ""
}
