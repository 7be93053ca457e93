package docs

import (
	"strings"

	docs "google.golang.org/api/docs/v1"
)

// DocTab is one tab of a document flattened out of the tab tree.
// Legacy documents without tabs produce a single DocTab with an empty ID.
type DocTab struct {
	ID    string
	Title string
	Depth int // 0 for top-level tabs
	Body  *docs.Body
}

// FlattenTabs lists the tabs of doc depth first, child tabs after their parent.
func FlattenTabs(doc *docs.Document) []DocTab {
	if doc == nil {
		return nil
	}
	if len(doc.Tabs) == 0 {
		return []DocTab{{Body: doc.Body}}
	}
	var out []DocTab
	var visit func(tabs []*docs.Tab, depth int)
	visit = func(tabs []*docs.Tab, depth int) {
		for _, tab := range tabs {
			if tab == nil {
				continue
			}
			t := DocTab{Depth: depth}
			if tab.TabProperties != nil {
				t.ID = tab.TabProperties.TabId
				t.Title = tab.TabProperties.Title
			}
			if tab.DocumentTab != nil {
				t.Body = tab.DocumentTab.Body
			}
			out = append(out, t)
			visit(tab.ChildTabs, depth+1)
		}
	}
	visit(doc.Tabs, 0)
	return out
}

// ExtractTabTexts returns the positional text of every tab of doc.
func ExtractTabTexts(doc *docs.Document) []TabText {
	tabs := FlattenTabs(doc)
	out := make([]TabText, 0, len(tabs))
	for _, tab := range tabs {
		out = append(out, TabText{TabID: tab.ID, Title: tab.Title, Text: PositionalText(tab.Body)})
	}
	return out
}

// PositionalText extracts the text of body so that the UTF-16 offset of
// every character plus one is its document index. Structural gaps, such as
// table starts and inline objects, are filled with NUL characters.
func PositionalText(body *docs.Body) string {
	if body == nil {
		return ""
	}
	e := &positionalExtractor{}
	e.elements(body.Content)
	return e.buf.String()
}

type positionalExtractor struct {
	buf strings.Builder
	pos int64 // UTF-16 length of buf
}

func (e *positionalExtractor) elements(content []*docs.StructuralElement) {
	for _, el := range content {
		if el == nil {
			continue
		}
		switch {
		case el.Paragraph != nil:
			for _, pe := range el.Paragraph.Elements {
				if pe != nil && pe.TextRun != nil {
					e.place(pe.StartIndex, pe.TextRun.Content)
				}
			}
		case el.Table != nil:
			for _, row := range el.Table.TableRows {
				for _, cell := range row.TableCells {
					e.elements(cell.Content)
				}
			}
		case el.TableOfContents != nil:
			e.elements(el.TableOfContents.Content)
		}
	}
}

func (e *positionalExtractor) place(startIndex int64, content string) {
	if content == "" {
		return
	}
	target := startIndex - 1
	if target < e.pos {
		// Overlapping or unindexed runs are appended as they come.
		target = e.pos
	}
	if gap := target - e.pos; gap > 0 {
		e.buf.WriteString(strings.Repeat("\x00", int(gap)))
		e.pos += gap
	}
	e.buf.WriteString(content)
	e.pos += utf16Len(content)
}

// EndIndex returns the index just before the final newline of body, where
// appended text belongs.
func EndIndex(body *docs.Body) int64 {
	if body == nil || len(body.Content) == 0 {
		return 1
	}
	last := body.Content[len(body.Content)-1]
	if last == nil || last.EndIndex < 2 {
		return 1
	}
	return last.EndIndex - 1
}
