package docs

import (
	"fmt"

	docs "google.golang.org/api/docs/v1"
)

// EditOperation is one positional edit against a single tab of a document.
// Indices are 1-based document indices in UTF-16 code units.
type EditOperation interface {
	// Request lowers the operation to a Docs API batch request entry.
	Request() *docs.Request
	// TabID returns the tab the operation targets, empty for the first tab.
	TabID() string
}

// InsertText inserts Text at Index.
type InsertText struct {
	Index int64
	Text  string
	Tab   string
}

// DeleteRange deletes [Start, End).
type DeleteRange struct {
	Start int64
	End   int64
	Tab   string
}

// UpdateTextStyle applies inline formatting to [Start, End).
type UpdateTextStyle struct {
	Start int64
	End   int64
	Kind  StyleKind
	URL   string
	Tab   string
}

// UpdateParagraphStyle turns the paragraphs overlapping [Start, End) into a heading.
type UpdateParagraphStyle struct {
	Start int64
	End   int64
	Level int
	Tab   string
}

var (
	codeBackground = &docs.OptionalColor{Color: &docs.Color{RgbColor: &docs.RgbColor{Red: 0.95, Green: 0.95, Blue: 0.95}}}
	linkForeground = &docs.OptionalColor{Color: &docs.Color{RgbColor: &docs.RgbColor{Red: 0.0667, Green: 0.3333, Blue: 0.8}}}
)

const codeFontFamily = "Courier New"

func (o InsertText) TabID() string           { return o.Tab }
func (o DeleteRange) TabID() string          { return o.Tab }
func (o UpdateTextStyle) TabID() string      { return o.Tab }
func (o UpdateParagraphStyle) TabID() string { return o.Tab }

// Request implements EditOperation.
func (o InsertText) Request() *docs.Request {
	return &docs.Request{
		InsertText: &docs.InsertTextRequest{
			Text:     o.Text,
			Location: &docs.Location{Index: o.Index, TabId: o.Tab},
		},
	}
}

// Request implements EditOperation.
func (o DeleteRange) Request() *docs.Request {
	return &docs.Request{
		DeleteContentRange: &docs.DeleteContentRangeRequest{
			Range: &docs.Range{StartIndex: o.Start, EndIndex: o.End, TabId: o.Tab},
		},
	}
}

// Request implements EditOperation.
func (o UpdateTextStyle) Request() *docs.Request {
	style, fields := textStyleFor(o.Kind, o.URL)
	return &docs.Request{
		UpdateTextStyle: &docs.UpdateTextStyleRequest{
			Range:     &docs.Range{StartIndex: o.Start, EndIndex: o.End, TabId: o.Tab},
			TextStyle: style,
			Fields:    fields,
		},
	}
}

// Request implements EditOperation.
func (o UpdateParagraphStyle) Request() *docs.Request {
	return &docs.Request{
		UpdateParagraphStyle: &docs.UpdateParagraphStyleRequest{
			Range:          &docs.Range{StartIndex: o.Start, EndIndex: o.End, TabId: o.Tab},
			ParagraphStyle: &docs.ParagraphStyle{NamedStyleType: fmt.Sprintf("HEADING_%d", headingLevel(o.Level))},
			Fields:         "namedStyleType",
		},
	}
}

func textStyleFor(kind StyleKind, url string) (*docs.TextStyle, string) {
	switch kind {
	case StyleBold:
		return &docs.TextStyle{Bold: true}, "bold"
	case StyleItalic:
		return &docs.TextStyle{Italic: true}, "italic"
	case StyleCode:
		return &docs.TextStyle{
			WeightedFontFamily: &docs.WeightedFontFamily{FontFamily: codeFontFamily},
			BackgroundColor:    codeBackground,
		}, "weightedFontFamily,backgroundColor"
	case StyleLink:
		return &docs.TextStyle{
			Link:            &docs.Link{Url: url},
			Underline:       true,
			ForegroundColor: linkForeground,
		}, "link,underline,foregroundColor"
	default:
		return &docs.TextStyle{}, ""
	}
}

// Requests lowers operations to a batch, preserving order.
func Requests(ops []EditOperation) []*docs.Request {
	reqs := make([]*docs.Request, 0, len(ops))
	for _, op := range ops {
		reqs = append(reqs, op.Request())
	}
	return reqs
}
