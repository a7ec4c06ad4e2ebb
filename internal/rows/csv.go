package rows

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// extractTabular dispatches CSV/TSV delimiter sniffing or, for .xlsx files,
// the spreadsheet reader.
func extractTabular(ctx context.Context, path string) (Result, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return extractXLSX(ctx, path)
	}
	return extractDelimited(ctx, path)
}

// sniffLines is the number of leading non-empty lines sampled for delimiter
// consistency checking.
const sniffLines = 10

// sniffDelimiter detects the field delimiter by checking that the first
// sniffLines non-empty lines all split into the same field count under a
// candidate delimiter, preferring comma over tab.
func sniffDelimiter(path string) (rune, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() && len(lines) < sniffLines {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return 0, err
	}
	if len(lines) == 0 {
		return 0, fmt.Errorf("no non-empty lines to sniff delimiter from")
	}

	for _, delim := range []rune{',', '\t'} {
		if consistentFieldCount(lines, delim) {
			return delim, nil
		}
	}
	return 0, fmt.Errorf("inconsistent field count under comma or tab delimiter")
}

func consistentFieldCount(lines []string, delim rune) bool {
	want := -1
	for _, line := range lines {
		count := strings.Count(line, string(delim)) + 1
		if want == -1 {
			want = count
		} else if count != want {
			return false
		}
	}
	return want > 1 // a single field means this delimiter isn't actually in use
}

func extractDelimited(ctx context.Context, path string) (Result, error) {
	delim, err := sniffDelimiter(path)
	if err != nil {
		return Result{}, &ParseError{Kind: "csv", Err: err}
	}

	f, err := os.Open(path)
	if err != nil {
		return Result{}, &ParseError{Kind: "csv", Err: err}
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return Result{}, &ParseError{Kind: "csv", Err: err}
	}
	if len(records) == 0 {
		return Result{}, &ParseError{Kind: "csv", Err: fmt.Errorf("file has no rows")}
	}

	header := records[0]
	var raw []map[string]any
	for _, record := range records[1:] {
		if len(record) != len(header) {
			return Result{}, &ParseError{Kind: "csv", Err: fmt.Errorf("row has %d fields, header has %d", len(record), len(header))}
		}
		row := make(map[string]any, len(header))
		for i, col := range header {
			row[col] = record[i]
		}
		raw = append(raw, row)
	}

	detectedType := "csv"
	if delim == '\t' {
		detectedType = "tsv"
	}
	return Result{Rows: alignRowKeys(raw), DetectedType: detectedType, Parsed: rawAsAny(raw)}, nil
}

// extractXLSX reads the first sheet of a workbook, requiring a header row.
func extractXLSX(ctx context.Context, path string) (Result, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Result{}, &ParseError{Kind: "xlsx", Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Result{}, &ParseError{Kind: "xlsx", Err: fmt.Errorf("workbook has no sheets")}
	}

	allRows, err := f.GetRows(sheets[0])
	if err != nil {
		return Result{}, &ParseError{Kind: "xlsx", Err: err}
	}
	if len(allRows) == 0 {
		return Result{}, &ParseError{Kind: "xlsx", Err: fmt.Errorf("sheet has no rows")}
	}

	header := allRows[0]
	var raw []map[string]any
	for _, record := range allRows[1:] {
		row := make(map[string]any, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			} else {
				row[col] = ""
			}
		}
		raw = append(raw, row)
	}

	return Result{Rows: alignRowKeys(raw), DetectedType: "xlsx", Parsed: rawAsAny(raw)}, nil
}
