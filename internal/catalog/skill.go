// Package catalog implements the skill catalog build pipeline: parsing
// SKILL.md documents, validating and normalizing their front-matter, and
// emitting the catalog and index artifacts consumed by the marketplace UI
// and the plugin loader.
package catalog

// Category ids known to the marketplace. Records with a category outside
// this set are published with a warning, never dropped; the taxonomy
// evolves faster than the content.
var Categories = []string{
	"macro",
	"equity",
	"crypto",
	"forex",
	"commodity",
	"real-estate",
	"industry",
	"policy",
	"data-eng",
	"general",
}

// KnownCategory returns true if id is in the fixed category set.
func KnownCategory(id string) bool {
	for _, c := range Categories {
		if c == id {
			return true
		}
	}
	return false
}

// Data access tiers for a skill's underlying data sources.
const (
	DataLevelFreeNoLimit = "free-nolimit" // default
	DataLevelFreeLimited = "free-limited"
	DataLevelPaidAPI     = "paid-api"
	DataLevelSub         = "subscription"
)

// Quality badges, derived from the overall score.
const (
	BadgeTop      = "top"       // 頂級
	BadgeHigh     = "high"      // 高級
	BadgeUpperMid = "upper-mid" // 中高級
	BadgeMid      = "mid"       // 中級
	BadgeEntry    = "entry"     // 初級
)

// BadgeForScore maps an overall quality score to its badge tier.
// Boundaries are inclusive on the lower bound: 90 is top, 89 is high.
// The caller validates the 0–100 range.
func BadgeForScore(overall int) string {
	switch {
	case overall >= 90:
		return BadgeTop
	case overall >= 80:
		return BadgeHigh
	case overall >= 60:
		return BadgeUpperMid
	case overall >= 40:
		return BadgeMid
	default:
		return BadgeEntry
	}
}

// QualityScore holds the graded quality assessment of a skill.
// Badge is derived from Overall at build time, never read from source.
type QualityScore struct {
	Overall int            `json:"overall" yaml:"overall"`
	Metrics map[string]int `json:"metrics,omitempty" yaml:"metrics"`
	Details string         `json:"details,omitempty" yaml:"details"`
	Badge   string         `json:"badge,omitempty" yaml:"-"`
}

// SkillRecord is one validated skill document, as published in catalog.json.
type SkillRecord struct {
	ID           string        `json:"id"`
	DisplayName  string        `json:"displayName"`
	Description  string        `json:"description"`
	Emoji        string        `json:"emoji,omitempty"`
	Version      string        `json:"version,omitempty"`
	License      string        `json:"license,omitempty"`
	Author       string        `json:"author,omitempty"`
	AuthorURL    string        `json:"authorUrl,omitempty"`
	Tags         []string      `json:"tags"`
	Category     string        `json:"category"`
	DataLevel    string        `json:"dataLevel"`
	Tools        []string      `json:"tools"`
	Featured     bool          `json:"featured"`
	InstallCount int           `json:"installCount"`
	Quality      *QualityScore `json:"qualityScore,omitempty"`
	Content      string        `json:"content"`
	Path         string        `json:"path"`
}

// maxIndexTags caps the tag list in the lightweight index artifact.
const maxIndexTags = 5

// IndexEntry is the reduced projection of a SkillRecord for index.json:
// identity and sort-relevant fields only, tags capped, content dropped.
type IndexEntry struct {
	ID           string   `json:"id"`
	DisplayName  string   `json:"displayName"`
	Description  string   `json:"description"`
	Emoji        string   `json:"emoji,omitempty"`
	Category     string   `json:"category"`
	DataLevel    string   `json:"dataLevel"`
	Tags         []string `json:"tags"`
	Featured     bool     `json:"featured"`
	InstallCount int      `json:"installCount"`
	Badge        string   `json:"badge,omitempty"`
}

// Index is the index.json artifact: build metadata plus the entry list.
type Index struct {
	Version     string       `json:"version"`
	GeneratedAt string       `json:"generatedAt"`
	TotalCount  int          `json:"totalCount"`
	Skills      []IndexEntry `json:"skills"`
}

// toIndexEntry projects a record into its index form.
func toIndexEntry(r SkillRecord) IndexEntry {
	tags := r.Tags
	if len(tags) > maxIndexTags {
		tags = tags[:maxIndexTags]
	}
	// Copy so the index never aliases the catalog's backing array.
	capped := make([]string, len(tags))
	copy(capped, tags)

	badge := ""
	if r.Quality != nil {
		badge = r.Quality.Badge
	}

	return IndexEntry{
		ID:           r.ID,
		DisplayName:  r.DisplayName,
		Description:  r.Description,
		Emoji:        r.Emoji,
		Category:     r.Category,
		DataLevel:    r.DataLevel,
		Tags:         capped,
		Featured:     r.Featured,
		InstallCount: r.InstallCount,
		Badge:        badge,
	}
}
