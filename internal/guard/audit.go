package guard

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// auditEntry is a single line in the append-only audit log (JSONL).
type auditEntry struct {
	Timestamp string `json:"timestamp"`
	Action    string `json:"action"`
	SkillID   string `json:"skill_id,omitempty"`
	Path      string `json:"path,omitempty"`
	Passed    bool   `json:"passed"`
}

// appendAudit appends an entry to the audit log. Best effort: audit
// failures never fail a build.
func appendAudit(logPath string, entry auditEntry) {
	if err := os.MkdirAll(filepath.Dir(logPath), 0o700); err != nil {
		return
	}
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	data = append(data, '\n')

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return
	}
	defer f.Close()
	f.Write(data)
}
