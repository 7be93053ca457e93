package docs

import (
	"errors"
	"fmt"
	"strings"

	docs "google.golang.org/api/docs/v1"
)

var errNilDocument = errors.New("document is nil")

// DocumentToMarkdown renders a document, including all of its tabs, as markdown.
func DocumentToMarkdown(doc *docs.Document) (string, error) {
	if doc == nil {
		return "", errNilDocument
	}

	var md strings.Builder
	if doc.Title != "" {
		fmt.Fprintf(&md, "# %s\n\n", doc.Title)
	}

	tabs := FlattenTabs(doc)
	for i, tab := range tabs {
		if len(tabs) > 1 {
			level := min(2+tab.Depth, 6)
			title := tab.Title
			if title == "" {
				title = fmt.Sprintf("Tab %d", i+1)
			}
			fmt.Fprintf(&md, "%s %s\n\n", strings.Repeat("#", level), title)
		}
		if tab.Body != nil {
			w := markdownWriter{out: &md}
			w.elements(tab.Body.Content)
		}
	}
	return md.String(), nil
}

// DocumentToPlainText renders a document, including all of its tabs, as plain text.
func DocumentToPlainText(doc *docs.Document) (string, error) {
	if doc == nil {
		return "", errNilDocument
	}

	var text strings.Builder
	if doc.Title != "" {
		text.WriteString(doc.Title)
		text.WriteString("\n\n")
	}

	tabs := FlattenTabs(doc)
	for i, tab := range tabs {
		if len(tabs) > 1 {
			title := tab.Title
			if title == "" {
				title = fmt.Sprintf("Tab %d", i+1)
			}
			fmt.Fprintf(&text, "%s=== %s ===\n\n", strings.Repeat("  ", tab.Depth), title)
		}
		if tab.Body != nil {
			plainElements(&text, tab.Body.Content)
		}
	}
	return text.String(), nil
}

type markdownWriter struct {
	out *strings.Builder
}

func (w markdownWriter) elements(content []*docs.StructuralElement) {
	for _, el := range content {
		switch {
		case el == nil:
		case el.Paragraph != nil:
			w.paragraph(el.Paragraph)
		case el.Table != nil:
			w.table(el.Table)
		case el.SectionBreak != nil && el.StartIndex > 0:
			// The leading section break of every body carries no content.
			w.out.WriteString("---\n\n")
		}
	}
}

func (w markdownWriter) paragraph(p *docs.Paragraph) {
	var line strings.Builder
	for _, pe := range p.Elements {
		switch {
		case pe.TextRun != nil:
			line.WriteString(styledRun(pe.TextRun))
		case pe.InlineObjectElement != nil:
			line.WriteString("[image]")
		}
	}
	content := strings.TrimRight(line.String(), "\n")
	if content == "" {
		return
	}

	if p.Bullet != nil {
		w.out.WriteString(strings.Repeat("  ", int(p.Bullet.NestingLevel)))
		w.out.WriteString("- ")
		w.out.WriteString(content)
		w.out.WriteString("\n")
		return
	}
	if level := paragraphHeadingLevel(p.ParagraphStyle); level > 0 {
		w.out.WriteString(strings.Repeat("#", level))
		w.out.WriteString(" ")
	}
	w.out.WriteString(content)
	w.out.WriteString("\n\n")
}

func paragraphHeadingLevel(style *docs.ParagraphStyle) int {
	if style == nil {
		return 0
	}
	switch style.NamedStyleType {
	case "TITLE":
		return 1
	case "SUBTITLE":
		return 2
	}
	var level int
	if _, err := fmt.Sscanf(style.NamedStyleType, "HEADING_%d", &level); err != nil {
		return 0
	}
	return headingLevel(level)
}

// styledRun wraps a text run in markdown markers. Markers are placed inside
// surrounding whitespace so "bold " renders as "**bold** ".
func styledRun(run *docs.TextRun) string {
	content := run.Content
	style := run.TextStyle
	if content == "" || style == nil {
		return content
	}

	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return content
	}
	lead := content[:strings.Index(content, trimmed)]
	trail := content[len(lead)+len(trimmed):]

	body := trimmed
	switch {
	case style.Link != nil && style.Link.Url != "":
		body = fmt.Sprintf("[%s](%s)", trimmed, style.Link.Url)
	case style.WeightedFontFamily != nil && strings.Contains(style.WeightedFontFamily.FontFamily, "Courier"):
		body = "`" + trimmed + "`"
	case style.Bold && style.Italic:
		body = "***" + trimmed + "***"
	case style.Bold:
		body = "**" + trimmed + "**"
	case style.Italic:
		body = "*" + trimmed + "*"
	case style.Strikethrough:
		body = "~~" + trimmed + "~~"
	}
	return lead + body + trail
}

func (w markdownWriter) table(t *docs.Table) {
	if len(t.TableRows) == 0 {
		return
	}
	for i, row := range t.TableRows {
		w.out.WriteString("|")
		for _, cell := range row.TableCells {
			var cellText strings.Builder
			plainElements(&cellText, cell.Content)
			text := strings.TrimSpace(strings.ReplaceAll(cellText.String(), "\n", " "))
			w.out.WriteString(" ")
			w.out.WriteString(strings.ReplaceAll(text, "|", `\|`))
			w.out.WriteString(" |")
		}
		w.out.WriteString("\n")
		if i == 0 {
			w.out.WriteString("|")
			w.out.WriteString(strings.Repeat(" --- |", len(row.TableCells)))
			w.out.WriteString("\n")
		}
	}
	w.out.WriteString("\n")
}

func plainElements(out *strings.Builder, content []*docs.StructuralElement) {
	for _, el := range content {
		switch {
		case el == nil:
		case el.Paragraph != nil:
			for _, pe := range el.Paragraph.Elements {
				if pe.TextRun != nil {
					out.WriteString(pe.TextRun.Content)
				}
			}
		case el.Table != nil:
			for _, row := range el.Table.TableRows {
				for j, cell := range row.TableCells {
					if j > 0 {
						out.WriteString("\t")
					}
					var cellText strings.Builder
					plainElements(&cellText, cell.Content)
					out.WriteString(strings.TrimRight(cellText.String(), "\n"))
				}
				out.WriteString("\n")
			}
		}
	}
}
