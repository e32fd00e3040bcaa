// Package htmltable parses HTML table markup, as produced by external
// table detectors, into the model table representation.
package htmltable

import (
	"errors"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/folio/model"
)

// ErrNoTable is returned when the markup contains no table element.
var ErrNoTable = errors.New("markup contains no table element")

// Parse parses an HTML fragment and returns the first table it
// contains. Cell text is whitespace-collapsed and NFC-normalized, since
// detector output frequently arrives with decomposed code points.
func Parse(content string) (*model.Table, error) {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return nil, err
	}

	tableNode := findElement(doc, "table")
	if tableNode == nil {
		return nil, ErrNoTable
	}

	table := &model.Table{}
	collectRows(tableNode, table)
	if len(table.Rows) == 0 {
		return nil, ErrNoTable
	}
	return table, nil
}

// collectRows walks a table element gathering tr rows. Nested tables
// are skipped; only the outermost table's rows are collected.
func collectRows(n *html.Node, table *model.Table) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "tr":
			if row := parseRow(c); len(row) > 0 {
				table.Rows = append(table.Rows, row)
			}
		case "thead", "tbody", "tfoot":
			collectRows(c, table)
		}
	}
}

// parseRow parses the th/td cells of a tr element
func parseRow(tr *html.Node) []model.Cell {
	var row []model.Cell
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if c.Data != "td" && c.Data != "th" {
			continue
		}
		row = append(row, model.Cell{
			Text:     normalizeText(getTextContent(c)),
			IsHeader: c.Data == "th",
			RowSpan:  spanAttr(c, "rowspan"),
			ColSpan:  spanAttr(c, "colspan"),
		})
	}
	return row
}

// spanAttr reads a rowspan/colspan attribute, defaulting to 1
func spanAttr(n *html.Node, name string) int {
	for _, attr := range n.Attr {
		if attr.Key == name {
			if v, err := strconv.Atoi(strings.TrimSpace(attr.Val)); err == nil && v > 0 {
				return v
			}
		}
	}
	return 1
}

// findElement finds the first element with the given tag name
func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// getTextContent returns the concatenated text of a node's subtree
func getTextContent(n *html.Node) string {
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

// normalizeText collapses runs of whitespace and applies NFC
func normalizeText(s string) string {
	return norm.NFC.String(strings.Join(strings.Fields(s), " "))
}
