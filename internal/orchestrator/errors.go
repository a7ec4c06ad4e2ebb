// Package orchestrator implements the ingestion entry point: it resolves a
// file's modality, routes it to either the relational or document path, and
// reports a uniform envelope.
package orchestrator

import "fmt"

// ErrKind tags which stage of the pipeline produced an error, surfaced as
// the envelope's error prefix.
type ErrKind string

const (
	ErrParse     ErrKind = "parse"
	ErrExtract   ErrKind = "extract"
	ErrSchema    ErrKind = "schema"
	ErrInsert    ErrKind = "insert"
	ErrStore     ErrKind = "store"
	ErrVector    ErrKind = "vector"
	ErrIO        ErrKind = "io"
	ErrCancelled ErrKind = "cancelled"
)

// StageError wraps an underlying error with the kind the envelope reports,
// so callers can both render "kind/message" and errors.As back to the
// cause.
type StageError struct {
	Kind ErrKind
	Err  error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s/%s", e.Kind, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

func wrapf(kind ErrKind, format string, args ...any) error {
	return &StageError{Kind: kind, Err: fmt.Errorf(format, args...)}
}
