// Package schemas holds the JSON Schema documents that describe generator
// output. They are embedded so validation works from any working directory.
package schemas

import "embed"

// Names of the embedded schema documents.
const (
	GeneratedContent = "generated_content.schema.json"
	DesignSettings   = "design_settings.schema.json"
)

// FS contains every *.schema.json file in this directory.
//
//go:embed *.schema.json
var FS embed.FS
