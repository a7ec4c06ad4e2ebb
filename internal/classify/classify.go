// Package classify scores a parsed payload's evidence for a relational
// (SQL) versus document (NoSQL) destination.
package classify

import (
	"github.com/ingestd/ingestd/internal/attrmatch"
)

// Kind identifies which analysis branch applies to a payload, mirroring the
// detected container type.
type Kind string

const (
	KindTabular Kind = "tabular"
	KindJSON    Kind = "json"
	KindYAML    Kind = "yaml"
	KindXML     Kind = "xml"
	KindHTML    Kind = "html"
	KindText    Kind = "text"
)

// largeStringThreshold is the sample string length that counts as evidence
// of a free-text field.
const largeStringThreshold = 500

// largeTextBlobThreshold is the plain-text length above which, absent
// delimiter regularity, a file is scored as unstructured.
const largeTextBlobThreshold = 5000

// Signal is one contributing piece of evidence, retained for audit.
type Signal struct {
	Name       string
	SQLDelta   float64
	NoSQLDelta float64
}

// Result is the classifier's verdict.
type Result struct {
	Classification string // "SQL" or "NoSQL"
	SQLScore       float64
	NoSQLScore     float64
	Confidence     float64
	Signals        []Signal
}

// Input bundles what the classifier needs to know about a payload. Not every
// field applies to every Kind.
type Input struct {
	Kind Kind

	// ColumnNames: header/key names sampled from the payload (tabular
	// header row, or the keys of a JSON/YAML object or first array
	// element).
	ColumnNames []string

	// Parsed is the unflattened decoded structure for JSON/YAML payloads
	// (map[string]any, []any, or a scalar) — unlike rows.Result, which has
	// already dropped nested fields, this retains nesting so depth and
	// key-set-consistency can be measured.
	Parsed any

	// XMLSiblingTags are the tag names of the repeating elements found
	// under the XML root, in document order, one per sibling.
	XMLSiblingTags []string
	// XMLSiblingAttrs holds, per sibling, its attribute-name set.
	XMLSiblingAttrs []map[string]struct{}

	// HTMLHasTableHeader reports whether a <table> with <th> headers was
	// found.
	HTMLHasTableHeader bool

	// TextContent is the raw decoded text for Kind == KindText (or the
	// unknown/plain-text fallback path).
	TextContent string
	// TextHasDelimiterRegularity reports whether re-attempted CSV/TSV
	// delimiter sniffing found a consistent delimiter across the sample,
	// giving a plain-text blob one more chance before it defaults to NoSQL.
	TextHasDelimiterRegularity bool
}

type scorer struct {
	sqlScore   float64
	nosqlScore float64
	signals    []Signal
}

func (s *scorer) addSQL(delta float64, name string) {
	s.sqlScore += delta
	s.signals = append(s.signals, Signal{Name: name, SQLDelta: delta})
}

func (s *scorer) addNoSQL(delta float64, name string) {
	s.nosqlScore += delta
	s.signals = append(s.signals, Signal{Name: name, NoSQLDelta: delta})
}

// Classify scores in as SQL or NoSQL.
func Classify(in Input) Result {
	s := &scorer{}

	switch in.Kind {
	case KindTabular:
		s.addSQL(5, "tabular container (CSV/XLSX)")
	case KindJSON, KindYAML:
		scoreNestedPayload(s, in.Kind, in.Parsed)
	case KindXML:
		scoreXML(s, in.XMLSiblingTags, in.XMLSiblingAttrs)
	case KindHTML:
		if in.HTMLHasTableHeader {
			s.addSQL(3, "HTML table with <th> headers")
		}
	case KindText:
		scoreText(s, in.TextContent, in.TextHasDelimiterRegularity)
	}

	if hasIDLikeAttribute(in.ColumnNames) {
		s.addSQL(1, "contains ID-like attribute")
	}
	if hasLargeStringField(in.Parsed) {
		s.addNoSQL(2, "string field with length > 500 in sample")
	}

	classification := "NoSQL"
	if s.sqlScore >= s.nosqlScore {
		classification = "SQL"
	}
	denom := s.sqlScore
	if s.nosqlScore > denom {
		denom = s.nosqlScore
	}
	if denom < 1 {
		denom = 1
	}
	confidence := (s.sqlScore - s.nosqlScore) / denom
	if confidence < 0 {
		confidence = -confidence
	}

	return Result{
		Classification: classification,
		SQLScore:       s.sqlScore,
		NoSQLScore:     s.nosqlScore,
		Confidence:     confidence,
		Signals:        s.signals,
	}
}

func scoreNestedPayload(s *scorer, kind Kind, parsed any) {
	label := "JSON"
	if kind == KindYAML {
		label = "YAML"
	}

	if depth := nestedDepth(parsed, 0); depth > 0 {
		s.addNoSQL(4, label+" nested object/array depth >= 1")
	}

	if arr, ok := parsed.([]any); ok && len(arr) > 0 {
		if identicalKeySets(arr) {
			s.addSQL(4, label+" array, objects share identical key set")
		} else if anyObjects(arr) {
			s.addNoSQL(3, label+" array, objects with divergent key sets")
		}
	}
}

func scoreXML(s *scorer, tags []string, attrs []map[string]struct{}) {
	if len(tags) < 2 {
		return
	}
	uniform := true
	for _, t := range tags[1:] {
		if t != tags[0] {
			uniform = false
			break
		}
	}
	if !uniform {
		return
	}
	uniformAttrs := true
	if len(attrs) > 1 {
		first := attrs[0]
		for _, a := range attrs[1:] {
			if !sameKeySet(first, a) {
				uniformAttrs = false
				break
			}
		}
	}
	if uniformAttrs {
		s.addSQL(3, "repeating XML siblings, uniform attributes")
	}
}

func scoreText(s *scorer, content string, delimiterRegular bool) {
	if delimiterRegular {
		// A text blob that re-attempts CSV/TSV detection and finds a
		// consistent delimiter is tabular evidence, not a NoSQL default.
		s.addSQL(5, "plain text has delimiter regularity on re-attempt")
		return
	}
	if len(content) >= largeTextBlobThreshold {
		s.addNoSQL(5, "plain text >= 5000 chars, no delimiter regularity")
	}
}

func hasIDLikeAttribute(columns []string) bool {
	for _, c := range columns {
		if attrmatch.IsIDAttribute(c) {
			return true
		}
	}
	return false
}

// hasLargeStringField walks a nested structure looking for any string value
// longer than largeStringThreshold.
func hasLargeStringField(v any) bool {
	switch val := v.(type) {
	case string:
		return len(val) > largeStringThreshold
	case map[string]any:
		for _, child := range val {
			if hasLargeStringField(child) {
				return true
			}
		}
	case []any:
		for _, child := range val {
			if hasLargeStringField(child) {
				return true
			}
		}
	}
	return false
}

// nestedDepth returns the deepest level reached below v, where every step
// into a map value or slice element (scalar or not) counts one level: a
// non-empty flat object has depth 1, and an empty map or slice adds none.
func nestedDepth(v any, current int) int {
	switch val := v.(type) {
	case map[string]any:
		if len(val) == 0 {
			return current
		}
		max := current
		for _, child := range val {
			if d := nestedDepth(child, current+1); d > max {
				max = d
			}
		}
		return max
	case []any:
		if len(val) == 0 {
			return current
		}
		max := current
		for _, child := range val {
			if d := nestedDepth(child, current+1); d > max {
				max = d
			}
		}
		return max
	default:
		return current
	}
}

func identicalKeySets(arr []any) bool {
	var first map[string]struct{}
	for _, elem := range arr {
		obj, ok := elem.(map[string]any)
		if !ok {
			return false
		}
		keys := keySet(obj)
		if first == nil {
			first = keys
			continue
		}
		if !sameKeySet(first, keys) {
			return false
		}
	}
	return first != nil
}

func anyObjects(arr []any) bool {
	for _, elem := range arr {
		if _, ok := elem.(map[string]any); ok {
			return true
		}
	}
	return false
}

func keySet(obj map[string]any) map[string]struct{} {
	keys := make(map[string]struct{}, len(obj))
	for k := range obj {
		keys[k] = struct{}{}
	}
	return keys
}

func sameKeySet(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
