// Package docs reads and edits Google Docs.
//
// Edits are expressed as EditOperation values (insert, delete, text style,
// paragraph style) that are lowered to one Docs API batch update. Two pieces
// produce them:
//
//   - Compile turns markdown into plain text plus style ranges. Only whole
//     line ATX headings are block level; everything else is inline markdown
//     (bold, italic, code, links) parsed with goldmark.
//   - PlanReplace finds every occurrence of a search string in a tab's
//     positional text and emits delete, insert and restyle operations per
//     occurrence, shifting later occurrences by the length change of the
//     earlier replacements.
//
// All indices are Docs API indices: 1-based UTF-16 code units.
//
// DocumentToMarkdown and DocumentToPlainText render documents, including
// every tab, for reading.
package docs
