package orchestrator

import (
	"os"
	"sort"
	"strings"

	"github.com/ingestd/ingestd/internal/classify"
	"github.com/ingestd/ingestd/internal/detector"
	"github.com/ingestd/ingestd/internal/rows"
)

// structuredKind maps a detector.Modality that rows.Extract can parse to
// the classify.Kind that scores it.
var structuredKind = map[detector.Modality]classify.Kind{
	detector.Tabular: classify.KindTabular,
	detector.JSON:     classify.KindJSON,
	detector.YAML:     classify.KindYAML,
	detector.XML:      classify.KindXML,
	detector.HTML:     classify.KindHTML,
}

// classifyInputFromRows builds a classify.Input from a rows.Result, reusing
// the same parse pass already performed instead of re-reading the file: the
// classifier inspects the unflattened payload the flat Rows projection has
// already discarded.
func classifyInputFromRows(kind classify.Kind, result rows.Result) classify.Input {
	return classify.Input{
		Kind:               kind,
		ColumnNames:        columnNames(result),
		Parsed:             result.Parsed,
		XMLSiblingTags:     result.XMLSiblingTags,
		XMLSiblingAttrs:    result.XMLSiblingAttrs,
		HTMLHasTableHeader: result.HTMLHasTableHeader,
	}
}

// classifyInputFromText builds a classify.Input for a plain-text source,
// which never goes through rows.Extract (no row shape to extract).
func classifyInputFromText(content string) classify.Input {
	return classify.Input{
		Kind:                       classify.KindText,
		TextContent:                content,
		TextHasDelimiterRegularity: textHasDelimiterRegularity(content),
	}
}

func columnNames(result rows.Result) []string {
	if len(result.Rows) == 0 {
		return nil
	}
	names := result.Rows[0].Keys()
	sort.Strings(names)
	return names
}

// sniffSampleLines bounds how many non-empty lines are checked for
// delimiter consistency (mirrors internal/rows/csv.go's sniffLines).
const sniffSampleLines = 10

// textHasDelimiterRegularity re-attempts CSV/TSV delimiter sniffing on a
// plain-text blob already classified as unstructured text, giving it one
// more look before defaulting to NoSQL.
func textHasDelimiterRegularity(content string) bool {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) >= sniffSampleLines {
			break
		}
	}
	if len(lines) < 2 {
		return false
	}
	for _, delim := range []string{",", "\t"} {
		if consistentFieldCount(lines, delim) {
			return true
		}
	}
	return false
}

func consistentFieldCount(lines []string, delim string) bool {
	want := -1
	for _, line := range lines {
		count := strings.Count(line, delim) + 1
		if want == -1 {
			want = count
		} else if count != want {
			return false
		}
	}
	return want > 1
}

// readTextContent reads the whole of path as UTF-8 text, for Kind ==
// KindText classification input (the fine modality detector already
// confirmed the file decodes as valid UTF-8).
func readTextContent(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
