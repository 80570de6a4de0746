package catalog

import "fmt"

// ParseError reports a document whose front-matter could not be parsed.
// Recoverable per-document: the build skips the document and continues.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: malformed front-matter: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError reports a document that parsed but failed validation:
// a missing required field or an out-of-range quality score.
// Fatal for that document only.
type ValidationError struct {
	Path   string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: field %q: %s", e.Path, e.Field, e.Reason)
}

// DuplicateIDError reports two documents resolving to the same id.
// Fatal for the whole build: no artifact is written.
type DuplicateIDError struct {
	ID    string
	Paths [2]string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate skill id %q: %s and %s", e.ID, e.Paths[0], e.Paths[1])
}
