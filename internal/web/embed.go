// ABOUTME: Embedded HTML templates for the wiki UI
// ABOUTME: Templates are compiled into the binary via go:embed

package web

import "embed"

//go:embed templates/*.html
var templateFS embed.FS
