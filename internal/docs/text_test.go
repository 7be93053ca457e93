package docs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	docs "google.golang.org/api/docs/v1"
)

func para(start int64, runs ...string) *docs.StructuralElement {
	p := &docs.Paragraph{}
	idx := start
	for _, r := range runs {
		p.Elements = append(p.Elements, &docs.ParagraphElement{
			StartIndex: idx,
			EndIndex:   idx + utf16Len(r),
			TextRun:    &docs.TextRun{Content: r},
		})
		idx += utf16Len(r)
	}
	return &docs.StructuralElement{StartIndex: start, EndIndex: idx, Paragraph: p}
}

func sampleBody() *docs.Body {
	return &docs.Body{Content: []*docs.StructuralElement{
		{EndIndex: 1, SectionBreak: &docs.SectionBreak{}},
		para(1, "Hello ", "world\n"),
		{
			StartIndex: 13,
			EndIndex:   24,
			Table: &docs.Table{TableRows: []*docs.TableRow{{
				TableCells: []*docs.TableCell{{
					Content: []*docs.StructuralElement{para(16, "cell\n")},
				}},
			}}},
		},
		para(25, "end\n"),
	}}
}

func TestPositionalText(t *testing.T) {
	text := PositionalText(sampleBody())

	assert.Equal(t, "Hello world\n"+strings.Repeat("\x00", 3)+"cell\n"+strings.Repeat("\x00", 4)+"end\n", text)

	// Position + 1 is the document index.
	assert.Equal(t, []int64{15}, FindOccurrences(text, "cell"))
	assert.Equal(t, []int64{24}, FindOccurrences(text, "end"))
}

func TestPositionalText_Nil(t *testing.T) {
	assert.Equal(t, "", PositionalText(nil))
}

func TestEndIndex(t *testing.T) {
	assert.Equal(t, int64(28), EndIndex(sampleBody()))
	assert.Equal(t, int64(1), EndIndex(nil))
	assert.Equal(t, int64(1), EndIndex(&docs.Body{}))
}

func TestFlattenTabs(t *testing.T) {
	legacy := &docs.Document{Body: sampleBody()}
	tabs := FlattenTabs(legacy)
	require.Len(t, tabs, 1)
	assert.Equal(t, "", tabs[0].ID)

	doc := &docs.Document{Tabs: []*docs.Tab{
		{
			TabProperties: &docs.TabProperties{TabId: "t.0", Title: "Main"},
			DocumentTab:   &docs.DocumentTab{Body: sampleBody()},
			ChildTabs: []*docs.Tab{{
				TabProperties: &docs.TabProperties{TabId: "t.0.1", Title: "Child"},
				DocumentTab:   &docs.DocumentTab{Body: &docs.Body{}},
			}},
		},
		{TabProperties: &docs.TabProperties{TabId: "t.1"}},
	}}
	tabs = FlattenTabs(doc)
	require.Len(t, tabs, 3)
	assert.Equal(t, []string{"t.0", "t.0.1", "t.1"}, []string{tabs[0].ID, tabs[1].ID, tabs[2].ID})
	assert.Equal(t, 1, tabs[1].Depth)
	assert.Nil(t, tabs[2].Body)

	texts := ExtractTabTexts(doc)
	require.Len(t, texts, 3)
	assert.Contains(t, texts[0].Text, "Hello world")
	assert.Equal(t, "", texts[2].Text)

	assert.Nil(t, FlattenTabs(nil))
}
