package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const skillFileName = "SKILL.md"

// Failure kinds in a build report.
const (
	FailureParse      = "parse"
	FailureValidation = "validation"
)

// Failure records one document that did not make it into the artifacts.
type Failure struct {
	Path    string `json:"path"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// BuildReport summarizes one build run. Saved next to the artifacts and
// printed by `skillmart build`.
type BuildReport struct {
	Version        string       `json:"version"`
	Timestamp      string       `json:"timestamp"`
	TotalDocuments int          `json:"total_documents"`
	Published      int          `json:"published"`
	Failures       []Failure    `json:"failures,omitempty"`
	Warnings       []Diagnostic `json:"warnings,omitempty"`
}

// HasValidationFailures reports whether any document was rejected by
// validation (as opposed to merely unparseable). Callers use this to
// decide the exit code.
func (r *BuildReport) HasValidationFailures() bool {
	for _, f := range r.Failures {
		if f.Kind == FailureValidation {
			return true
		}
	}
	return false
}

// Builder aggregates validated records and emits the two artifacts.
type Builder struct {
	SkillsDir string
	DistDir   string
	Version   string

	// Installs maps skill id to locally recorded install counts, added on
	// top of the front-matter baseline. Nil means no ledger.
	Installs map[string]int

	// Screen, when set, runs over each published record and returns extra
	// diagnostics (content guard findings).
	Screen func(*SkillRecord) []Diagnostic
}

// Run executes the full pipeline: walk, parse, validate, sort, project,
// write. Per-document failures are collected in the report; a duplicate id
// aborts the build before anything is written.
func (b *Builder) Run() ([]SkillRecord, *BuildReport, error) {
	report := &BuildReport{
		Version:   b.Version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	docs, err := findSkillFiles(b.SkillsDir)
	if err != nil {
		return nil, nil, err
	}
	report.TotalDocuments = len(docs)

	var records []SkillRecord
	seen := make(map[string]string) // id -> path
	for _, d := range docs {
		content, err := os.ReadFile(d.absPath)
		if err != nil {
			report.Failures = append(report.Failures, Failure{
				Path: d.relPath, Kind: FailureParse, Message: fmt.Sprintf("read file: %v", err),
			})
			continue
		}

		doc, err := ParseDocument(d.relPath, string(content))
		if err != nil {
			report.Failures = append(report.Failures, Failure{
				Path: d.relPath, Kind: FailureParse, Message: err.Error(),
			})
			continue
		}

		rec, diags, err := Validate(d.id, d.relPath, doc)
		if err != nil {
			report.Failures = append(report.Failures, Failure{
				Path: d.relPath, Kind: FailureValidation, Message: err.Error(),
			})
			continue
		}

		if prev, ok := seen[rec.ID]; ok {
			return nil, nil, &DuplicateIDError{ID: rec.ID, Paths: [2]string{prev, d.relPath}}
		}
		seen[rec.ID] = d.relPath

		if b.Installs != nil {
			rec.InstallCount += b.Installs[rec.ID]
		}

		report.Warnings = append(report.Warnings, diags...)
		if b.Screen != nil {
			report.Warnings = append(report.Warnings, b.Screen(rec)...)
		}
		records = append(records, *rec)
	}

	SortCatalog(records)
	report.Published = len(records)

	if err := os.MkdirAll(b.DistDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create dist dir: %w", err)
	}
	if err := writeJSONAtomic(filepath.Join(b.DistDir, "catalog.json"), records); err != nil {
		return nil, nil, fmt.Errorf("write catalog: %w", err)
	}
	idx := buildIndex(b.Version, report.Timestamp, records)
	if err := writeJSONAtomic(filepath.Join(b.DistDir, "index.json"), idx); err != nil {
		return nil, nil, fmt.Errorf("write index: %w", err)
	}

	saveReport(b.DistDir, report)
	return records, report, nil
}

// SortCatalog applies the canonical catalog order: featured first, then
// installCount descending, then id ascending. The full tie-break chain
// makes rebuilds byte-for-byte reproducible.
func SortCatalog(records []SkillRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, z := records[i], records[j]
		if a.Featured != z.Featured {
			return a.Featured
		}
		if a.InstallCount != z.InstallCount {
			return a.InstallCount > z.InstallCount
		}
		return a.ID < z.ID
	})
}

// buildIndex projects the sorted catalog into the index artifact.
func buildIndex(version, generatedAt string, records []SkillRecord) Index {
	entries := make([]IndexEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, toIndexEntry(r))
	}
	return Index{
		Version:     version,
		GeneratedAt: generatedAt,
		TotalCount:  len(entries),
		Skills:      entries,
	}
}

type skillFile struct {
	id      string
	absPath string
	relPath string
}

// findSkillFiles walks the skills tree collecting every SKILL.md, sorted by
// path so the build visits documents in a deterministic order.
func findSkillFiles(dir string) ([]skillFile, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("stat skills dir %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("skills path is not a directory: %s", dir)
	}

	var out []skillFile
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() != skillFileName {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		out = append(out, skillFile{
			id:      filepath.Base(filepath.Dir(path)),
			absPath: path,
			relPath: filepath.ToSlash(rel),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan skills dir: %w", err)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].relPath < out[j].relPath })
	return out, nil
}

// writeJSONAtomic marshals v and replaces path via temp file + rename, so a
// crashed build never leaves a truncated artifact visible to consumers.
func writeJSONAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// saveReport writes the build report next to the artifacts. Best effort:
// a failed report write never fails the build.
func saveReport(distDir string, report *BuildReport) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return
	}
	os.WriteFile(filepath.Join(distDir, "build_report.json"), append(data, '\n'), 0o644)
}

// LoadReport reads a previously saved build report.
func LoadReport(path string) (*BuildReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r BuildReport
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("invalid build report %s: %w", path, err)
	}
	return &r, nil
}

// IsDuplicateID reports whether err is a duplicate-id build failure.
func IsDuplicateID(err error) bool {
	var dup *DuplicateIDError
	return errors.As(err, &dup)
}
