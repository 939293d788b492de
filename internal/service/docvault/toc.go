package docvault

import (
	"bufio"
	"html"
	"regexp"
	"strings"
	"unicode"

	models "docvault/internal/domain/models/docvault"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

var (
	htmlHeadingProbe = regexp.MustCompile(`(?i)<h[1-6][\s>]`)
	atxHeading       = regexp.MustCompile(`^(#{1,6})[ \t]+(.+?)[ \t]*#*[ \t]*$`)
	whitespaceRun    = regexp.MustCompile(`\s+`)
)

// TOCGenerator extracts headings from stored content. HTML headings win; content
// without any falls back to markdown ATX headings.
type TOCGenerator struct {
	strip *bluemonday.Policy
}

// NewTOCGenerator creates a generator
func NewTOCGenerator() *TOCGenerator {
	return &TOCGenerator{strip: bluemonday.StrictPolicy()}
}

// Generate returns headings in document order
func (g *TOCGenerator) Generate(content string) []models.TOCEntry {
	if htmlHeadingProbe.MatchString(content) {
		if entries := g.fromHTML(content); len(entries) > 0 {
			return entries
		}
	}
	return g.fromMarkdown(content)
}

func (g *TOCGenerator) fromHTML(content string) []models.TOCEntry {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil
	}

	entries := []models.TOCEntry{}
	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, sel *goquery.Selection) {
		level := int(goquery.NodeName(sel)[1] - '0')
		text := collapseSpace(sel.Text())
		entries = append(entries, models.TOCEntry{Level: level, Text: text, ID: HeadingAnchor(text)})
	})
	return entries
}

func (g *TOCGenerator) fromMarkdown(content string) []models.TOCEntry {
	entries := []models.TOCEntry{}
	inFence := false

	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := scanner.Text()
		if trimmed := strings.TrimSpace(line); strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		m := atxHeading.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		// inline markup such as <em> is dropped before the anchor is derived
		text := collapseSpace(html.UnescapeString(g.strip.Sanitize(m[2])))
		entries = append(entries, models.TOCEntry{Level: len(m[1]), Text: text, ID: HeadingAnchor(text)})
	}
	return entries
}

// HeadingAnchor derives an anchor id: lower-cased, trimmed, characters other
// than letters, digits, underscores, whitespace and hyphens removed, whitespace
// runs collapsed to one hyphen
func HeadingAnchor(text string) string {
	text = strings.TrimSpace(strings.ToLower(text))
	text = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, text)
	return whitespaceRun.ReplaceAllString(text, "-")
}

func collapseSpace(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}
