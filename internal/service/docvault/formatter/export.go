package formatter

import (
	"fmt"
	"html"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/microcosm-cc/bluemonday"
)

// Export formats
const (
	ExportMarkdown = "markdown"
	ExportText     = "text"
	ExportHTML     = "html"
)

// Exporter renders stored content in a download format. HTML content is
// sanitized before any conversion.
type Exporter struct {
	sanitize *bluemonday.Policy
	strip    *bluemonday.Policy
	markdown *md.Converter
}

// NewExporter creates an exporter
func NewExporter() *Exporter {
	return &Exporter{
		sanitize: bluemonday.UGCPolicy(),
		strip:    bluemonday.StrictPolicy(),
		markdown: md.NewConverter("", true, nil),
	}
}

// Export converts content to format and returns the body with its media type
func (e *Exporter) Export(content, format string) (string, string, error) {
	switch strings.ToLower(format) {
	case "", ExportMarkdown:
		if !looksLikeHTML(content) {
			return content, "text/markdown; charset=utf-8", nil
		}
		out, err := e.markdown.ConvertString(e.sanitize.Sanitize(content))
		if err != nil {
			return "", "", fmt.Errorf("convert to markdown: %w", err)
		}
		return out, "text/markdown; charset=utf-8", nil
	case ExportText:
		return html.UnescapeString(e.strip.Sanitize(content)), "text/plain; charset=utf-8", nil
	case ExportHTML:
		return e.sanitize.Sanitize(content), "text/html; charset=utf-8", nil
	default:
		return "", "", fmt.Errorf("unsupported export format %q", format)
	}
}

func looksLikeHTML(content string) bool {
	trimmed := strings.TrimSpace(content)
	return strings.HasPrefix(trimmed, "<") && strings.Contains(trimmed, ">")
}
