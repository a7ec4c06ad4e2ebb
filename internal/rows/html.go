package rows

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/net/html"
)

// extractHTML locates the first <table> element with a <th> header row and
// extracts its body rows. Tables without a recognizable header are skipped
// in favor of the next candidate.
func extractHTML(ctx context.Context, path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, &ParseError{Kind: "html", Err: err}
	}
	defer f.Close()

	doc, err := html.Parse(f)
	if err != nil {
		return Result{}, &ParseError{Kind: "html", Err: err}
	}

	table := findFirstTableWithHeader(doc)
	if table == nil {
		return Result{}, &ParseError{Kind: "html", Err: fmt.Errorf("no <table> with a <th> header row found")}
	}

	header, bodyRows := splitTableRows(table)
	if len(header) == 0 {
		return Result{}, &ParseError{Kind: "html", Err: fmt.Errorf("table header row is empty")}
	}

	var raw []map[string]any
	for _, cells := range bodyRows {
		row := make(map[string]any, len(header))
		for i, col := range header {
			if i < len(cells) {
				row[col] = cells[i]
			} else {
				row[col] = ""
			}
		}
		raw = append(raw, row)
	}

	return Result{Rows: alignRowKeys(raw), DetectedType: "html", Parsed: rawAsAny(raw), HTMLHasTableHeader: true}, nil
}

// findFirstTableWithHeader walks the document in order and returns the first
// <table> node containing at least one <th> cell.
func findFirstTableWithHeader(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "table" {
		if tableHasHeader(n) {
			return n
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirstTableWithHeader(c); found != nil {
			return found
		}
	}
	return nil
}

func tableHasHeader(table *html.Node) bool {
	found := false
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found || n.Type != html.ElementNode {
			return
		}
		if n.Data == "th" {
			found = true
			return
		}
		if n.Data == "table" && n != table {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(table)
	return found
}

// splitTableRows collects every <tr> under table (including inside <thead>/
// <tbody>), treating the first row containing <th> cells as the header and
// every other row as a body row of cell text.
func splitTableRows(table *html.Node) ([]string, [][]string) {
	var header []string
	var body [][]string
	headerSeen := false

	var walkRows func(*html.Node)
	walkRows = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.Data == "tr" {
				cells, isHeader := rowCells(c)
				if isHeader && !headerSeen {
					header = cells
					headerSeen = true
				} else if headerSeen {
					body = append(body, cells)
				}
				continue
			}
			if c.Type == html.ElementNode && c.Data == "table" {
				continue
			}
			walkRows(c)
		}
	}
	walkRows(table)
	return header, body
}

// rowCells extracts the text of each <td>/<th> cell in document order,
// reporting whether the row is a header row (contains any <th>).
func rowCells(tr *html.Node) ([]string, bool) {
	var cells []string
	isHeader := false
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "th":
			isHeader = true
			cells = append(cells, strings.TrimSpace(cellText(c)))
		case "td":
			cells = append(cells, strings.TrimSpace(cellText(c)))
		}
	}
	return cells, isHeader
}

func cellText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
