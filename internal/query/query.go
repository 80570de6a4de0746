// Package query implements the client-side query engine over a loaded
// catalog snapshot: filter, stable sort, and pagination. Pure functions,
// no I/O beyond LoadCatalog, safe for concurrent readers.
package query

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/skillmart/skillmart/internal/catalog"
)

// Sort options.
const (
	SortRecommended = "recommended" // catalog order: featured first, installs desc
	SortPopular     = "popular"     // installCount desc, id asc
	SortFeatured    = "featured"    // featured desc, installCount desc
)

// ValidSort reports whether s names a known sort option.
func ValidSort(s string) bool {
	switch s {
	case SortRecommended, SortPopular, SortFeatured:
		return true
	}
	return false
}

// Query describes one request against the catalog.
// Page is 1-indexed. Zero-value Category/Search mean "no filter".
type Query struct {
	Category string
	Search   string
	Sort     string
	Page     int
	PageSize int
}

// Result is one page of matching records plus total counts.
type Result struct {
	Items         []catalog.SkillRecord `json:"items"`
	TotalMatching int                   `json:"totalMatching"`
	TotalPages    int                   `json:"totalPages"`
	Page          int                   `json:"page"`
}

// LoadCatalog reads the full catalog artifact. This is the one fetch per
// page lifetime; everything after operates on the returned snapshot.
func LoadCatalog(path string) ([]catalog.SkillRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	var records []catalog.SkillRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("invalid catalog JSON %s: %w", path, err)
	}
	return records, nil
}

// Run filters, sorts, and paginates the catalog snapshot. The input order
// is assumed to be the canonical catalog order; the snapshot is never
// mutated. An out-of-range page yields empty items, never an error.
func Run(records []catalog.SkillRecord, q Query) Result {
	matched := filter(records, q.Category, q.Search)
	sortRecords(matched, q.Sort)

	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = 1
	}
	totalPages := (len(matched) + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	end := start + pageSize
	items := []catalog.SkillRecord{}
	if start < len(matched) {
		if end > len(matched) {
			end = len(matched)
		}
		items = matched[start:end]
	}

	return Result{
		Items:         items,
		TotalMatching: len(matched),
		TotalPages:    totalPages,
		Page:          page,
	}
}

// FindByID returns the record with the given id, relying on the build-time
// uniqueness guarantee.
func FindByID(records []catalog.SkillRecord, id string) (*catalog.SkillRecord, bool) {
	for i := range records {
		if records[i].ID == id {
			return &records[i], true
		}
	}
	return nil, false
}

// CategoryCounts tallies records per literal category string, including
// categories outside the known set.
func CategoryCounts(records []catalog.SkillRecord) map[string]int {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.Category]++
	}
	return counts
}

// filter is order-preserving: a record passes if the category matches (when
// set) and the lowercased search text appears in displayName, description,
// or any tag (when set).
func filter(records []catalog.SkillRecord, category, search string) []catalog.SkillRecord {
	needle := strings.ToLower(strings.TrimSpace(search))
	out := make([]catalog.SkillRecord, 0, len(records))
	for _, r := range records {
		if category != "" && r.Category != category {
			continue
		}
		if needle != "" && !matchesText(r, needle) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchesText(r catalog.SkillRecord, needle string) bool {
	if strings.Contains(strings.ToLower(r.DisplayName), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(r.Description), needle) {
		return true
	}
	for _, tag := range r.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

// sortRecords applies the selected sort in place on the filtered copy.
// All sorts are stable so equal keys keep their filter-stage order and
// page boundaries never duplicate or drop items across calls.
func sortRecords(records []catalog.SkillRecord, sortOpt string) {
	switch sortOpt {
	case SortPopular:
		sort.SliceStable(records, func(i, j int) bool {
			if records[i].InstallCount != records[j].InstallCount {
				return records[i].InstallCount > records[j].InstallCount
			}
			return records[i].ID < records[j].ID
		})
	case SortFeatured:
		sort.SliceStable(records, func(i, j int) bool {
			if records[i].Featured != records[j].Featured {
				return records[i].Featured
			}
			return records[i].InstallCount > records[j].InstallCount
		})
	default:
		// recommended: keep the catalog's canonical order.
	}
}
