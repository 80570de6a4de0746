// Package guard screens skill document bodies before publication.
// Marketplace documents are third-party prose that ends up inside agent
// context windows, so bodies are run through the go-promptguard
// multi-detector. Findings are report warnings, never rejections, the
// same degrade-gracefully policy as unknown categories.
package guard

import (
	"context"
	"fmt"

	"github.com/mdombrov-33/go-promptguard/detector"

	"github.com/skillmart/skillmart/internal/catalog"
)

// maxScanChars caps how much of a body is scanned per chunk. Bodies are
// long-form markdown; the detector is tuned for shorter inputs.
const maxScanChars = 4000

// promptGuard is the package-level detector instance. Initialized once at
// import time with all pattern-matching and statistical detectors enabled,
// no LLM judge, so scanning stays sub-millisecond per chunk.
var promptGuard = detector.New(
	detector.WithThreshold(0.6), // stricter than the 0.7 default for published marketplace content
	detector.WithAllDetectors(), // role injection, prompt leak, instruction override, obfuscation
	detector.WithMaxInputLength(maxScanChars),
)

// Scanner runs the detector over skill records and keeps an audit trail.
type Scanner struct {
	auditLog string
}

// New creates a Scanner. auditLog may be empty to disable the audit trail.
func New(auditLog string) *Scanner {
	return &Scanner{auditLog: auditLog}
}

// ScanRecord checks a record's body and returns diagnostics for any
// detection. Also appends an audit entry when a log path is configured.
func (s *Scanner) ScanRecord(rec *catalog.SkillRecord) []catalog.Diagnostic {
	flagged := detectInjection(rec.Content)
	if s.auditLog != "" {
		appendAudit(s.auditLog, auditEntry{
			Action:  "scan",
			SkillID: rec.ID,
			Path:    rec.Path,
			Passed:  !flagged,
		})
	}
	if !flagged {
		return nil
	}
	return []catalog.Diagnostic{{
		Path:    rec.Path,
		ID:      rec.ID,
		Kind:    catalog.DiagGuardFlag,
		Message: fmt.Sprintf("skill %q body matched prompt-injection patterns", rec.ID),
	}}
}

// detectInjection scans text in chunks so long documents don't slip
// detections past the detector's input cap. Returns true if any chunk is
// flagged as unsafe.
func detectInjection(text string) bool {
	if len(text) == 0 {
		return false
	}
	for start := 0; start < len(text); start += maxScanChars {
		end := start + maxScanChars
		if end > len(text) {
			end = len(text)
		}
		result := promptGuard.Detect(context.Background(), text[start:end])
		if !result.Safe {
			return true
		}
	}
	return false
}
