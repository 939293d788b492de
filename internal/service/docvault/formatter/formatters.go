package formatter

import (
	"html"
	"strings"

	docvaultSvc "docvault/internal/domain/services/docvault"

	"github.com/microcosm-cc/bluemonday"
)

// textFormatter escapes plain text and keeps line breaks
type textFormatter struct{}

// NewTextFormatter creates the plain-text formatter
func NewTextFormatter() docvaultSvc.ContentFormatter { return textFormatter{} }

func (textFormatter) Format(content string) string {
	return strings.ReplaceAll(html.EscapeString(content), "\n", "<br>\n")
}

func (textFormatter) Name() string { return "text" }

// markdownFormatter is a passthrough; clients render markdown themselves
type markdownFormatter struct{}

// NewMarkdownFormatter creates the markdown passthrough formatter
func NewMarkdownFormatter() docvaultSvc.ContentFormatter { return markdownFormatter{} }

func (markdownFormatter) Format(content string) string { return content }

func (markdownFormatter) Name() string { return "markdown" }

// htmlFormatter sanitizes rich-text editor output for display
type htmlFormatter struct {
	policy *bluemonday.Policy
}

// NewHTMLFormatter creates the HTML formatter. The UGC policy keeps formatting,
// headings, lists, links and tables while dropping scripts, event handlers and
// javascript: URLs.
func NewHTMLFormatter() docvaultSvc.ContentFormatter {
	policy := bluemonday.UGCPolicy()
	// TOC anchors link to heading ids
	policy.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	return &htmlFormatter{policy: policy}
}

func (f *htmlFormatter) Format(content string) string { return f.policy.Sanitize(content) }

func (f *htmlFormatter) Name() string { return "html" }
