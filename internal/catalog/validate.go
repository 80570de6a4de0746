package catalog

import (
	"fmt"
	"strings"
)

// Diagnostic is a non-fatal build finding surfaced in the report.
// Unknown categories land here: the record stays published.
type Diagnostic struct {
	Path    string `json:"path"`
	ID      string `json:"id,omitempty"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Diagnostic kinds.
const (
	DiagUnknownCategory = "unknown-category"
	DiagGuardFlag       = "guard-flag"
)

// Validate checks a parsed document and produces a normalized SkillRecord.
// id is derived from the document's container directory; path is kept for
// diagnostics only. Unknown-category findings are returned alongside the
// record, not as errors.
func Validate(id, path string, doc *Document) (*SkillRecord, []Diagnostic, error) {
	meta := doc.Meta

	displayName := strings.TrimSpace(meta.DisplayName)
	if displayName == "" {
		return nil, nil, &ValidationError{Path: path, Field: "displayName", Reason: "required, must be non-empty"}
	}
	description := strings.TrimSpace(meta.Description)
	if description == "" {
		return nil, nil, &ValidationError{Path: path, Field: "description", Reason: "required, must be non-empty"}
	}

	if meta.InstallCount < 0 {
		return nil, nil, &ValidationError{
			Path: path, Field: "installCount",
			Reason: fmt.Sprintf("must be non-negative, got %d", meta.InstallCount),
		}
	}

	dataLevel := meta.DataLevel
	if dataLevel == "" {
		dataLevel = DataLevelFreeNoLimit
	}

	tags := meta.Tags
	if tags == nil {
		tags = []string{}
	}
	tools := meta.Tools
	if tools == nil {
		tools = []string{}
	}

	quality, err := normalizeQuality(path, meta.Quality)
	if err != nil {
		return nil, nil, err
	}

	rec := &SkillRecord{
		ID:           id,
		DisplayName:  displayName,
		Description:  description,
		Emoji:        meta.Emoji,
		Version:      meta.Version,
		License:      meta.License,
		Author:       meta.Author,
		AuthorURL:    meta.AuthorURL,
		Tags:         tags,
		Category:     meta.Category,
		DataLevel:    dataLevel,
		Tools:        tools,
		Featured:     meta.Featured,
		InstallCount: meta.InstallCount,
		Quality:      quality,
		Content:      doc.Body,
		Path:         path,
	}

	var diags []Diagnostic
	if rec.Category != "" && !KnownCategory(rec.Category) {
		diags = append(diags, Diagnostic{
			Path:    path,
			ID:      id,
			Kind:    DiagUnknownCategory,
			Message: fmt.Sprintf("category %q is not in the known set", rec.Category),
		})
	}

	return rec, diags, nil
}

// normalizeQuality range-checks the score block and derives the badge.
func normalizeQuality(path string, q *QualityScore) (*QualityScore, error) {
	if q == nil {
		return nil, nil
	}
	if q.Overall < 0 || q.Overall > 100 {
		return nil, &ValidationError{
			Path: path, Field: "qualityScore.overall",
			Reason: fmt.Sprintf("must be in [0,100], got %d", q.Overall),
		}
	}
	for name, v := range q.Metrics {
		if v < 0 || v > 100 {
			return nil, &ValidationError{
				Path: path, Field: "qualityScore.metrics." + name,
				Reason: fmt.Sprintf("must be in [0,100], got %d", v),
			}
		}
	}
	out := *q
	out.Badge = BadgeForScore(q.Overall)
	return &out, nil
}
