package docs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		name       string
		markdown   string
		wantText   string
		wantRanges []StyleRange
	}{
		{
			name:       "bold",
			markdown:   "Hello **world**",
			wantText:   "Hello world",
			wantRanges: []StyleRange{{Start: 6, End: 11, Kind: StyleBold}},
		},
		{
			name:     "italic and code",
			markdown: "*a* and `code`",
			wantText: "a and code",
			wantRanges: []StyleRange{
				{Start: 0, End: 1, Kind: StyleItalic},
				{Start: 6, End: 10, Kind: StyleCode},
			},
		},
		{
			name:       "link",
			markdown:   "[docs](https://example.com/docs) here",
			wantText:   "docs here",
			wantRanges: []StyleRange{{Start: 0, End: 4, Kind: StyleLink, URL: "https://example.com/docs"}},
		},
		{
			name:       "autolink",
			markdown:   "see <https://example.com>",
			wantText:   "see https://example.com",
			wantRanges: []StyleRange{{Start: 4, End: 23, Kind: StyleLink, URL: "https://example.com"}},
		},
		{
			name:     "heading keeps inline styles",
			markdown: "# Title **b**",
			wantText: "Title b",
			wantRanges: []StyleRange{
				{Start: 6, End: 7, Kind: StyleBold},
				{Start: 0, End: 7, Kind: StyleHeading, Level: 1},
			},
		},
		{
			name:       "heading on a later line",
			markdown:   "line1\n## Two\nthree",
			wantText:   "line1\nTwo\nthree",
			wantRanges: []StyleRange{{Start: 6, End: 9, Kind: StyleHeading, Level: 2}},
		},
		{
			name:       "seven hashes are not a heading",
			markdown:   "####### too many hashes",
			wantText:   "####### too many hashes",
			wantRanges: nil,
		},
		{
			name:       "hashes mid-line are not a heading",
			markdown:   "issue #1 and ## two",
			wantText:   "issue #1 and ## two",
			wantRanges: nil,
		},
		{
			name:       "block syntax stays literal",
			markdown:   "- item\n> quote",
			wantText:   "- item\n> quote",
			wantRanges: nil,
		},
		{
			name:       "blank lines are kept",
			markdown:   "a\n\nb",
			wantText:   "a\n\nb",
			wantRanges: nil,
		},
		{
			name:       "no newline after the last line",
			markdown:   "a\nb",
			wantText:   "a\nb",
			wantRanges: nil,
		},
		{
			name:       "escaped punctuation",
			markdown:   `\*not bold\*`,
			wantText:   "*not bold*",
			wantRanges: nil,
		},
		{
			name:       "raw html is kept verbatim",
			markdown:   "a <b>x</b>",
			wantText:   "a <b>x</b>",
			wantRanges: nil,
		},
		{
			name:       "image falls back to its text",
			markdown:   "![alt](pic.png)",
			wantText:   "alt",
			wantRanges: nil,
		},
		{
			name:       "surrogate pairs count as two units",
			markdown:   "😀 **x**",
			wantText:   "😀 x",
			wantRanges: []StyleRange{{Start: 3, End: 4, Kind: StyleBold}},
		},
		{
			name:       "four-space indent is not a code block",
			markdown:   "    **bold** keep me",
			wantText:   "    bold keep me",
			wantRanges: []StyleRange{{Start: 4, End: 8, Kind: StyleBold}},
		},
		{
			name:       "tab indent is kept",
			markdown:   "\tTabbed",
			wantText:   "\tTabbed",
			wantRanges: nil,
		},
		{
			name:       "indented continuation line",
			markdown:   "intro\n    indented continuation",
			wantText:   "intro\n    indented continuation",
			wantRanges: nil,
		},
		{
			name:       "short indent and trailing spaces are kept",
			markdown:   "  *a*  ",
			wantText:   "  a  ",
			wantRanges: []StyleRange{{Start: 2, End: 3, Kind: StyleItalic}},
		},
		{
			name:       "whitespace-only line is kept",
			markdown:   "a\n   \nb",
			wantText:   "a\n   \nb",
			wantRanges: nil,
		},
		{
			name:       "entity references are resolved",
			markdown:   "Q&amp;A &#35;1 &copy;",
			wantText:   "Q&A #1 ©",
			wantRanges: nil,
		},
		{
			name:       "entities inside code stay literal",
			markdown:   "`&amp;`",
			wantText:   "&amp;",
			wantRanges: []StyleRange{{Start: 0, End: 5, Kind: StyleCode}},
		},
		{
			name:       "empty input",
			markdown:   "",
			wantText:   "",
			wantRanges: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compile(tt.markdown)
			assert.Equal(t, tt.wantText, got.Text)
			assert.Equal(t, tt.wantRanges, got.Ranges)
		})
	}
}

func TestCompile_NestedEmphasis(t *testing.T) {
	got := Compile("***both***")
	assert.Equal(t, "both", got.Text)
	require.Len(t, got.Ranges, 2)

	var kinds []StyleKind
	for _, r := range got.Ranges {
		assert.Equal(t, int64(0), r.Start)
		assert.Equal(t, int64(4), r.End)
		kinds = append(kinds, r.Kind)
	}
	assert.ElementsMatch(t, []StyleKind{StyleBold, StyleItalic}, kinds)
}

func TestCompile_Idempotent(t *testing.T) {
	md := "# Plan\nShip **v2** with `flag` and [notes](https://example.com)\n\n- *later*"
	a := Compile(md)
	b := Compile(md)
	assert.Equal(t, a, b)

	textA, opsA := CompileAt(md, 5, "t.1")
	textB, opsB := CompileAt(md, 5, "t.1")
	assert.Equal(t, textA, textB)
	assert.Equal(t, opsA, opsB)
}

func TestCompile_RangesCoverTheirSource(t *testing.T) {
	md := "## **Bold** heading\nplain *it* `c` [l](https://x.test)\nend"
	got := Compile(md)

	want := map[StyleKind][]string{
		StyleBold:    {"Bold"},
		StyleHeading: {"Bold heading"},
		StyleItalic:  {"it"},
		StyleCode:    {"c"},
		StyleLink:    {"l"},
	}
	seen := map[StyleKind][]string{}
	for _, r := range got.Ranges {
		assert.LessOrEqual(t, r.Start, r.End)
		seen[r.Kind] = append(seen[r.Kind], SliceUTF16(got.Text, r.Start, r.End))
	}
	assert.Equal(t, want, seen)
}

func TestCompile_RangesInDiscoveryOrder(t *testing.T) {
	got := Compile("**a** *b* `c`")
	require.Len(t, got.Ranges, 3)
	for i := 1; i < len(got.Ranges); i++ {
		assert.Less(t, got.Ranges[i-1].Start, got.Ranges[i].Start)
	}
}

func TestHeadingLevel(t *testing.T) {
	assert.Equal(t, 1, headingLevel(0))
	assert.Equal(t, 1, headingLevel(1))
	assert.Equal(t, 6, headingLevel(6))
	assert.Equal(t, 1, headingLevel(7))
}

func TestStyleOperations(t *testing.T) {
	text, ops := CompileAt("Hello **world**", 1, "")
	assert.Equal(t, "Hello world", text)
	require.Len(t, ops, 1)
	assert.Equal(t, UpdateTextStyle{Start: 7, End: 12, Kind: StyleBold}, ops[0])

	req := ops[0].Request()
	require.NotNil(t, req.UpdateTextStyle)
	assert.Equal(t, int64(7), req.UpdateTextStyle.Range.StartIndex)
	assert.Equal(t, int64(12), req.UpdateTextStyle.Range.EndIndex)
	assert.True(t, req.UpdateTextStyle.TextStyle.Bold)
	assert.Equal(t, "bold", req.UpdateTextStyle.Fields)
}

func TestStyleOperations_HeadingIsParagraphStyleOnly(t *testing.T) {
	_, ops := CompileAt("### Title", 10, "tab-1")
	require.Len(t, ops, 1)
	assert.Equal(t, UpdateParagraphStyle{Start: 10, End: 15, Level: 3, Tab: "tab-1"}, ops[0])
}

func TestSliceUTF16(t *testing.T) {
	s := "a😀b"
	assert.Equal(t, "a", SliceUTF16(s, 0, 1))
	assert.Equal(t, "😀", SliceUTF16(s, 1, 3))
	assert.Equal(t, "b", SliceUTF16(s, 3, 4))
	assert.Equal(t, "", SliceUTF16(s, 3, 2))
	assert.Equal(t, "b", SliceUTF16(s, 3, 99))
	assert.Equal(t, int64(4), utf16Len(s))
}
