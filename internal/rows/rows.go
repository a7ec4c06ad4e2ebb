// Package rows extracts a sequence of row records from any structured
// input, dispatching by detected modality to a format-specific parser.
package rows

import (
	"context"
	"fmt"

	"github.com/ingestd/ingestd/internal/detector"
	"github.com/ingestd/ingestd/internal/model"
)

// Result is the outcome of extracting rows from a file. error is populated
// iff the input was malformed for its declared type; a single file never
// produces a partial result.
type Result struct {
	Rows         []model.Row
	DetectedType string

	// Parsed is the unflattened payload behind Rows: the decoded JSON/YAML
	// value (object, array, or scalar) for those two formats, or a []any
	// of row maps for tabular/XML/HTML sources. The structure classifier
	// inspects this directly — nesting depth, divergent key sets, oversized
	// string fields — signal that Rows' flattened, key-aligned projection
	// has already discarded.
	Parsed any

	// XMLSiblingTags/XMLSiblingAttrs describe every element found directly
	// under an XML document's root, in document order — the full sibling
	// set, not just the majority row group alignRowKeys settled on — so the
	// classifier can measure tag and attribute uniformity.
	XMLSiblingTags  []string
	XMLSiblingAttrs []map[string]struct{}

	// HTMLHasTableHeader reports whether an HTML source had a <table> with
	// a <th> header row.
	HTMLHasTableHeader bool
}

// rawAsAny widens a row-map slice to []any, the shape the structure
// classifier inspects regardless of source format.
func rawAsAny(raw []map[string]any) []any {
	out := make([]any, len(raw))
	for i, r := range raw {
		out[i] = r
	}
	return out
}

// ParseError wraps a row-extraction failure with a "parse/<kind>" prefix
// so the orchestrator envelope can report which parser failed.
type ParseError struct {
	Kind string // e.g. "csv", "json", "xml"
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse/%s: %v", e.Kind, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Extract dispatches to the format-specific extractor selected by modality.
func Extract(ctx context.Context, path string, modality detector.Modality) (Result, error) {
	switch modality {
	case detector.Tabular:
		return extractTabular(ctx, path)
	case detector.JSON:
		return extractJSON(ctx, path)
	case detector.XML:
		return extractXML(ctx, path)
	case detector.YAML:
		return extractYAML(ctx, path)
	case detector.HTML:
		return extractHTML(ctx, path)
	default:
		return Result{}, &ParseError{Kind: string(modality), Err: fmt.Errorf("modality %q is not a structured row source", modality)}
	}
}

// alignRowKeys gives every row the union of all rows' keys, filling a key a
// row lacks with Null. Keys keep their original spelling (normalization
// happens downstream in attrmatch); nothing is lowercased here.
func alignRowKeys(allRows []map[string]any) []model.Row {
	keySet := make(map[string]struct{})
	for _, r := range allRows {
		for k := range r {
			keySet[k] = struct{}{}
		}
	}
	out := make([]model.Row, len(allRows))
	for i, r := range allRows {
		row := make(model.Row, len(keySet))
		for k := range keySet {
			v, ok := r[k]
			if !ok {
				row[k] = model.Null()
				continue
			}
			row[k] = toScalar(v)
		}
		out[i] = row
	}
	return out
}
