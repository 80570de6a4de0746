package catalog

import (
	"strings"

	"github.com/adrg/frontmatter"
)

// Meta holds the raw front-matter fields of a SKILL.md document before
// validation. Unknown keys are ignored for forward compatibility.
type Meta struct {
	DisplayName  string        `yaml:"displayName"`
	Description  string        `yaml:"description"`
	Emoji        string        `yaml:"emoji"`
	Version      string        `yaml:"version"`
	License      string        `yaml:"license"`
	Author       string        `yaml:"author"`
	AuthorURL    string        `yaml:"authorUrl"`
	Tags         []string      `yaml:"tags"`
	Category     string        `yaml:"category"`
	DataLevel    string        `yaml:"dataLevel"`
	Tools        []string      `yaml:"tools"`
	Featured     bool          `yaml:"featured"`
	InstallCount int           `yaml:"installCount"`
	Quality      *QualityScore `yaml:"qualityScore"`
}

// Document is a parsed but not yet validated skill document.
type Document struct {
	Meta Meta
	Body string
}

// ParseDocument parses a raw SKILL.md into front-matter and body.
// A document without a front-matter block, or with one that is not valid
// YAML, is a ParseError. The body is kept verbatim.
func ParseDocument(path, content string) (*Document, error) {
	var meta Meta
	body, err := frontmatter.MustParse(strings.NewReader(content), &meta)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &Document{Meta: meta, Body: string(body)}, nil
}
