package docvault

import (
	"reflect"
	"testing"

	models "docvault/internal/domain/models/docvault"
)

func TestTOCGenerator_HTML(t *testing.T) {
	g := NewTOCGenerator()

	tests := []struct {
		name    string
		content string
		want    []models.TOCEntry
	}{
		{
			name:    "levels in document order",
			content: "<h1>Overview</h1><p>x</p><h2>Scope</h2><h3>Out of scope</h3><h2>Terms</h2>",
			want: []models.TOCEntry{
				{Level: 1, Text: "Overview", ID: "overview"},
				{Level: 2, Text: "Scope", ID: "scope"},
				{Level: 3, Text: "Out of scope", ID: "out-of-scope"},
				{Level: 2, Text: "Terms", ID: "terms"},
			},
		},
		{
			name:    "heading spanning lines",
			content: "<h2>\n  Payment\n  terms\n</h2>",
			want:    []models.TOCEntry{{Level: 2, Text: "Payment terms", ID: "payment-terms"}},
		},
		{
			name:    "nested markup and attributes",
			content: `<h2 class="title" id="x">The <em>very</em> <a href="/a">best</a> part</h2>`,
			want:    []models.TOCEntry{{Level: 2, Text: "The very best part", ID: "the-very-best-part"}},
		},
		{
			name:    "entities and punctuation",
			content: "<h1>Q&amp;A: what's next?</h1>",
			want:    []models.TOCEntry{{Level: 1, Text: "Q&A: what's next?", ID: "qa-whats-next"}},
		},
		{
			name:    "entity decoded before the anchor",
			content: "<h2>A &amp; B</h2>",
			want:    []models.TOCEntry{{Level: 2, Text: "A & B", ID: "a-b"}},
		},
		{
			name:    "uppercase tags",
			content: "<H4>Annex</H4>",
			want:    []models.TOCEntry{{Level: 4, Text: "Annex", ID: "annex"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := g.Generate(tt.content)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Generate() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTOCGenerator_Markdown(t *testing.T) {
	g := NewTOCGenerator()

	content := "# Title\n\nintro\n\n## Part one ##\n```\n# not a heading\n```\n### *Deep* dive\n#nospace\n"
	want := []models.TOCEntry{
		{Level: 1, Text: "Title", ID: "title"},
		{Level: 2, Text: "Part one", ID: "part-one"},
		{Level: 3, Text: "*Deep* dive", ID: "deep-dive"},
	}

	got := g.Generate(content)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Generate() = %+v, want %+v", got, want)
	}
}

func TestTOCGenerator_NoHeadings(t *testing.T) {
	g := NewTOCGenerator()
	for _, content := range []string{"", "plain text", "<p>para</p>"} {
		if got := g.Generate(content); len(got) != 0 {
			t.Errorf("Generate(%q) = %+v, want empty", content, got)
		}
	}
}

func TestHeadingAnchor(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"  Padded  ", "padded"},
		{"snake_case and-dash", "snake_case-and-dash"},
		{"Tabs\tand\nnewlines", "tabs-and-newlines"},
		{"Ünïcode Straße", "ünïcode-straße"},
		{"100% done!", "100-done"},
	}
	for _, tt := range tests {
		if got := HeadingAnchor(tt.in); got != tt.want {
			t.Errorf("HeadingAnchor(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
