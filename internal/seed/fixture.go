package seed

import (
	"embed"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures/*.yaml
var fixtureFS embed.FS

// DefaultFixture is the embedded sample tree used when no -file is given
const DefaultFixture = "fixtures/handbook.yaml"

// Fixture is a nested category forest with its documents
type Fixture struct {
	Categories []CategoryFixture `yaml:"categories"`
}

// CategoryFixture is one category, its documents and its children
type CategoryFixture struct {
	Name        string            `yaml:"name"`
	Slug        string            `yaml:"slug"`
	Description string            `yaml:"description"`
	Documents   []DocumentFixture `yaml:"documents"`
	Children    []CategoryFixture `yaml:"children"`
}

// DocumentFixture is a document with optional later revisions and changelog
type DocumentFixture struct {
	Title     string             `yaml:"title"`
	Slug      string             `yaml:"slug"`
	Content   string             `yaml:"content"`
	CreatedAt *time.Time         `yaml:"created_at"`
	Author    string             `yaml:"author"`
	Revisions []RevisionFixture  `yaml:"revisions"`
	Changelog []ChangelogFixture `yaml:"changelog"`
}

// RevisionFixture replaces the document content, appending a version
type RevisionFixture struct {
	Content string `yaml:"content"`
	Author  string `yaml:"author"`
}

// ChangelogFixture is one changelog entry; Version links it to a version number
type ChangelogFixture struct {
	Description  string `yaml:"description"`
	Importance   string `yaml:"importance"`
	ShowInGlobal bool   `yaml:"show_in_global"`
	Version      *int   `yaml:"version"`
}

// LoadFixture decodes a fixture, rejecting unknown keys
func LoadFixture(r io.Reader) (*Fixture, error) {
	var f Fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse seed fixture: %w", err)
	}
	if len(f.Categories) == 0 {
		return nil, fmt.Errorf("seed fixture has no categories")
	}
	return &f, nil
}

// LoadFixtureFile reads a fixture from disk, or the embedded default when path is empty
func LoadFixtureFile(path string) (*Fixture, error) {
	var (
		r   io.ReadCloser
		err error
	)
	if path == "" {
		r, err = fixtureFS.Open(DefaultFixture)
	} else {
		r, err = os.Open(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open seed fixture: %w", err)
	}
	defer r.Close()
	return LoadFixture(r)
}
