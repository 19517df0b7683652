package docs

import (
	"fmt"
	"strings"

	docs "google.golang.org/api/docs/v1"
)

// DocumentToPlainText flattens a Google Doc to plain text. The title comes
// first, then either the tab contents in order or the legacy body.
func DocumentToPlainText(doc *docs.Document) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("document is nil")
	}

	var b strings.Builder
	if doc.Title != "" {
		b.WriteString(doc.Title)
		b.WriteString("\n\n")
	}

	if len(doc.Tabs) > 0 {
		writeTabs(&b, doc.Tabs)
	} else if doc.Body != nil {
		writeContent(&b, doc.Body.Content)
	}

	return b.String(), nil
}

func writeTabs(b *strings.Builder, tabs []*docs.Tab) {
	for _, tab := range tabs {
		if tab.TabProperties != nil && tab.TabProperties.Title != "" {
			b.WriteString(tab.TabProperties.Title)
			b.WriteString("\n\n")
		}
		if tab.DocumentTab != nil && tab.DocumentTab.Body != nil {
			writeContent(b, tab.DocumentTab.Body.Content)
		}
		// Child tabs nest arbitrarily deep.
		writeTabs(b, tab.ChildTabs)
	}
}

func writeContent(b *strings.Builder, content []*docs.StructuralElement) {
	for _, element := range content {
		switch {
		case element.Paragraph != nil:
			writeParagraph(b, element.Paragraph)
		case element.Table != nil:
			writeTable(b, element.Table)
		}
	}
}

func writeParagraph(b *strings.Builder, para *docs.Paragraph) {
	for _, elem := range para.Elements {
		if elem.TextRun != nil {
			b.WriteString(elem.TextRun.Content)
		}
	}
}

func writeTable(b *strings.Builder, table *docs.Table) {
	for _, row := range table.TableRows {
		for _, cell := range row.TableCells {
			writeContent(b, cell.Content)
			b.WriteString("\t")
		}
		b.WriteString("\n")
	}
}
