// ABOUTME: Markdown rendering for wiki page bodies
// ABOUTME: Converts stored markdown to HTML for the page view

package web

import (
	"bytes"
	"html/template"

	"github.com/yuin/goldmark"
)

// renderMarkdown converts a markdown page body to HTML for embedding in the
// page template.
func renderMarkdown(content string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
