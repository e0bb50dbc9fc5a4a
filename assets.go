// Package imgshare provides the embedded viewer templates.
package imgshare

import "embed"

// TemplateFS holds the viewer's HTML templates.
//
//go:embed all:web/templates
var TemplateFS embed.FS
