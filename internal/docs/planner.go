package docs

import (
	"strings"
)

// FindOccurrences returns the UTF-16 start offsets of every non-overlapping
// occurrence of find in text. Matching is exact and case-sensitive and
// resumes after the end of each match. An empty find matches nothing.
func FindOccurrences(text, find string) []int64 {
	if find == "" {
		return nil
	}
	var (
		out    []int64
		units  int64
		offset int
	)
	findLen := utf16Len(find)
	for {
		i := strings.Index(text[offset:], find)
		if i < 0 {
			return out
		}
		units += utf16Len(text[offset : offset+i])
		out = append(out, units)
		units += findLen
		offset += i + len(find)
	}
}

// PlanReplace builds the edits that replace every occurrence of find in
// fullText with the compiled replacement.
//
// fullText position p is document index p+1. For each occurrence, in order,
// the plan deletes the found text, inserts the replacement's plain text at
// the same index and applies the replacement's styles there. Each later
// occurrence is shifted by the accumulated length difference of the edits
// before it. No occurrences yield an empty plan.
func PlanReplace(fullText, find string, replacement Markdown, tabID string) []EditOperation {
	occurrences := FindOccurrences(fullText, find)
	if len(occurrences) == 0 {
		return nil
	}

	findLen := utf16Len(find)
	replLen := replacement.Len()
	delta := replLen - findLen

	var (
		ops    []EditOperation
		offset int64
	)
	for _, occ := range occurrences {
		pos := occ + 1 + offset
		ops = append(ops, DeleteRange{Start: pos, End: pos + findLen, Tab: tabID})
		// The Docs API rejects empty inserts; deleting alone is the replacement.
		if replLen > 0 {
			ops = append(ops, InsertText{Index: pos, Text: replacement.Text, Tab: tabID})
			ops = append(ops, replacement.StyleOperations(pos, tabID)...)
		}
		offset += delta
	}
	return ops
}

// TabText is the extracted text of one document tab.
type TabText struct {
	TabID string
	Title string
	Text  string
}

// PlanDocumentReplace plans a replacement across tabs. With a tab ID only
// that tab is planned; otherwise each tab is planned and the results are
// concatenated. It returns the operations and the occurrence count.
func PlanDocumentReplace(tabs []TabText, find string, replacementMarkdown, tabID string) ([]EditOperation, int) {
	replacement := Compile(replacementMarkdown)

	var (
		ops   []EditOperation
		count int
	)
	for _, tab := range tabs {
		if tabID != "" && tab.TabID != tabID {
			continue
		}
		count += len(FindOccurrences(tab.Text, find))
		ops = append(ops, PlanReplace(tab.Text, find, replacement, tab.TabID)...)
	}
	return ops, count
}
