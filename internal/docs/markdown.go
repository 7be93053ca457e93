package docs

import (
	"regexp"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// StyleKind is the formatting a StyleRange applies.
type StyleKind int

const (
	StyleBold StyleKind = iota
	StyleItalic
	StyleCode
	StyleLink
	StyleHeading
)

// String implements fmt.Stringer.
func (k StyleKind) String() string {
	switch k {
	case StyleBold:
		return "bold"
	case StyleItalic:
		return "italic"
	case StyleCode:
		return "code"
	case StyleLink:
		return "link"
	case StyleHeading:
		return "heading"
	default:
		return "unknown"
	}
}

// StyleRange marks [Start, End) of the compiled plain text, in UTF-16 code
// units, with one kind of formatting.
type StyleRange struct {
	Start int64
	End   int64
	Kind  StyleKind
	URL   string // StyleLink only
	Level int    // StyleHeading only, 1-6
}

// Markdown is the result of compiling markdown: the plain text to insert
// and the style ranges over it, in discovery order.
type Markdown struct {
	Text   string
	Ranges []StyleRange
}

// Len returns the length of Text in UTF-16 code units.
func (m Markdown) Len() int64 {
	return utf16Len(m.Text)
}

var headingPattern = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)

// newInlineParser recognizes inline markdown only. With the paragraph
// parser as the sole block parser, list markers, quotes and fences stay literal.
func newInlineParser() parser.Parser {
	return parser.NewParser(
		parser.WithBlockParsers(util.Prioritized(parser.NewParagraphParser(), 1000)),
		parser.WithInlineParsers(parser.DefaultInlineParsers()...),
	)
}

// Compile converts markdown into plain text plus style ranges.
//
// Input is processed line by line. A line is a heading only when the whole
// line is an ATX heading of one to six hashes; every other line is inline
// content. Lines are joined with "\n", with no newline after the last line.
// Compile is deterministic and never fails: unsupported constructs keep
// their text.
func Compile(markdown string) Markdown {
	c := &compiler{p: newInlineParser()}
	lines := strings.Split(markdown, "\n")
	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		lineStart := c.pos

		if m := headingPattern.FindStringSubmatch(line); m != nil {
			c.line(m[2])
			c.ranges = append(c.ranges, StyleRange{
				Start: lineStart,
				End:   c.pos,
				Kind:  StyleHeading,
				Level: headingLevel(len(m[1])),
			})
		} else {
			c.line(line)
		}

		if i < len(lines)-1 {
			c.write("\n")
		}
	}
	return Markdown{Text: c.buf.String(), Ranges: c.ranges}
}

// headingLevel clamps out-of-range heading levels to 1.
func headingLevel(hashes int) int {
	if hashes < 1 || hashes > 6 {
		return 1
	}
	return hashes
}

type compiler struct {
	p      parser.Parser
	buf    strings.Builder
	pos    int64
	ranges []StyleRange
}

func (c *compiler) write(s string) {
	c.buf.WriteString(s)
	c.pos += utf16Len(s)
}

// lineSpace is the whitespace goldmark strips around a paragraph line.
const lineSpace = " \t\v\f"

// line compiles one line of inline markdown. Leading and trailing
// whitespace is copied verbatim; goldmark would drop it, and with four or
// more leading spaces or a tab it would drop the whole line as indented code.
func (c *compiler) line(line string) {
	body := strings.TrimLeft(line, lineSpace)
	c.write(line[:len(line)-len(body)])
	trimmed := strings.TrimRight(body, lineSpace)
	c.inline(trimmed)
	c.write(body[len(trimmed):])
}

func (c *compiler) inline(line string) {
	if line == "" {
		return
	}
	src := []byte(line)
	doc := c.p.Parse(text.NewReader(src))
	c.walk(doc, src, false)
}

func (c *compiler) walk(n ast.Node, src []byte, inCode bool) {
	switch node := n.(type) {
	case *ast.Text:
		v := node.Segment.Value(src)
		if !inCode {
			v = util.UnescapePunctuations(v)
			v = util.ResolveNumericReferences(v)
			v = util.ResolveEntityNames(v)
		}
		c.write(string(v))
		if node.SoftLineBreak() || node.HardLineBreak() {
			c.write(" ")
		}
		return
	case *ast.String:
		c.write(string(node.Value))
		return
	case *ast.CodeSpan:
		start := c.pos
		c.children(node, src, true)
		c.ranges = append(c.ranges, StyleRange{Start: start, End: c.pos, Kind: StyleCode})
		return
	case *ast.Emphasis:
		start := c.pos
		c.children(node, src, inCode)
		kind := StyleItalic
		if node.Level >= 2 {
			kind = StyleBold
		}
		c.ranges = append(c.ranges, StyleRange{Start: start, End: c.pos, Kind: kind})
		return
	case *ast.Link:
		start := c.pos
		c.children(node, src, inCode)
		c.ranges = append(c.ranges, StyleRange{Start: start, End: c.pos, Kind: StyleLink, URL: string(node.Destination)})
		return
	case *ast.AutoLink:
		start := c.pos
		c.write(string(node.Label(src)))
		c.ranges = append(c.ranges, StyleRange{Start: start, End: c.pos, Kind: StyleLink, URL: string(node.URL(src))})
		return
	case *ast.RawHTML:
		for i := 0; i < node.Segments.Len(); i++ {
			seg := node.Segments.At(i)
			c.write(string(seg.Value(src)))
		}
		return
	}
	c.children(n, src, inCode)
}

func (c *compiler) children(n ast.Node, src []byte, inCode bool) {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		c.walk(child, src, inCode)
	}
}

// StyleOperations lowers the style ranges to edit operations for text
// inserted at offset. Headings become paragraph style updates only.
func (m Markdown) StyleOperations(offset int64, tabID string) []EditOperation {
	ops := make([]EditOperation, 0, len(m.Ranges))
	for _, r := range m.Ranges {
		if r.Kind == StyleHeading {
			ops = append(ops, UpdateParagraphStyle{
				Start: offset + r.Start,
				End:   offset + r.End,
				Level: r.Level,
				Tab:   tabID,
			})
			continue
		}
		ops = append(ops, UpdateTextStyle{
			Start: offset + r.Start,
			End:   offset + r.End,
			Kind:  r.Kind,
			URL:   r.URL,
			Tab:   tabID,
		})
	}
	return ops
}

// CompileAt compiles markdown for insertion at offset and returns the plain
// text and the style operations anchored at offset.
func CompileAt(markdown string, offset int64, tabID string) (string, []EditOperation) {
	m := Compile(markdown)
	return m.Text, m.StyleOperations(offset, tabID)
}

// utf16Len returns the length of s in UTF-16 code units, the unit of all
// Docs API indices.
func utf16Len(s string) int64 {
	var n int64
	for _, r := range s {
		if r >= 0x10000 && r <= utf8.MaxRune {
			n += 2
		} else {
			n++
		}
	}
	return n
}

// SliceUTF16 returns s[start:end] with start and end in UTF-16 code units.
func SliceUTF16(s string, start, end int64) string {
	units := utf16.Encode([]rune(s))
	if start < 0 {
		start = 0
	}
	if end > int64(len(units)) {
		end = int64(len(units))
	}
	if start >= end {
		return ""
	}
	return string(utf16.Decode(units[start:end]))
}
