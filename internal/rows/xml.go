package rows

import (
	"context"
	"encoding/xml"
	"fmt"
	"os"
	"strings"
)

// xmlNode is a generic XML element: attributes, a flat list of children
// (in document order), and any leaf text content.
type xmlNode struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []xmlNode  `xml:",any"`
	Text     string     `xml:",chardata"`
}

// UnmarshalXML recursively builds an xmlNode tree, capturing attributes,
// child elements, and chardata at every level.
func (n *xmlNode) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	n.XMLName = start.Name
	n.Attrs = start.Attr
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var child xmlNode
			if err := child.UnmarshalXML(d, t); err != nil {
				return err
			}
			n.Children = append(n.Children, child)
		case xml.CharData:
			n.Text += string(t)
		case xml.EndElement:
			return nil
		}
	}
}

// extractXML treats repeating sibling elements directly under the root as
// rows, flattening attributes and leaf-text children into scalar columns.
// Each row also gets a parent_id column holding its 1-based position among
// the row elements. A child with its own child elements is left out of the
// row; no child-table rows are produced for it.
func extractXML(ctx context.Context, path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, &ParseError{Kind: "xml", Err: err}
	}

	var root xmlNode
	if err := xml.Unmarshal(data, &root); err != nil {
		return Result{}, &ParseError{Kind: "xml", Err: err}
	}

	if len(root.Children) == 0 {
		return Result{}, &ParseError{Kind: "xml", Err: fmt.Errorf("root element %q has no child elements to treat as rows", root.XMLName.Local)}
	}

	// Group children by tag name; the most frequent repeating tag is the
	// row element.
	groups := make(map[string][]xmlNode)
	for _, child := range root.Children {
		groups[child.XMLName.Local] = append(groups[child.XMLName.Local], child)
	}
	var rowNodes []xmlNode
	for _, nodes := range groups {
		if len(nodes) > len(rowNodes) {
			rowNodes = nodes
		}
	}
	if len(rowNodes) == 0 {
		return Result{}, &ParseError{Kind: "xml", Err: fmt.Errorf("no repeating sibling elements found under root")}
	}

	var raw []map[string]any
	for i, node := range rowNodes {
		parentID := fmt.Sprintf("%d", i+1)
		row := make(map[string]any)
		row["parent_id"] = parentID
		for _, attr := range node.Attrs {
			row[attr.Name.Local] = attr.Value
		}
		for _, child := range node.Children {
			if len(child.Children) > 0 {
				// Nested content is not part of the flat row and is
				// not extracted anywhere else.
				continue
			}
			row[child.XMLName.Local] = strings.TrimSpace(child.Text)
		}
		raw = append(raw, row)
	}

	siblingTags := make([]string, len(root.Children))
	siblingAttrs := make([]map[string]struct{}, len(root.Children))
	for i, child := range root.Children {
		siblingTags[i] = child.XMLName.Local
		attrs := make(map[string]struct{}, len(child.Attrs))
		for _, a := range child.Attrs {
			attrs[a.Name.Local] = struct{}{}
		}
		siblingAttrs[i] = attrs
	}

	return Result{
		Rows:            alignRowKeys(raw),
		DetectedType:    "xml",
		Parsed:          rawAsAny(raw),
		XMLSiblingTags:  siblingTags,
		XMLSiblingAttrs: siblingAttrs,
	}, nil
}
