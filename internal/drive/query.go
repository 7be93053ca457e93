package drive

import (
	"strings"
)

// BuildQuery turns opts into a Drive query string.
func BuildQuery(opts SearchOptions) string {
	var clauses []string
	if opts.Name != "" {
		clauses = append(clauses, "name contains "+quote(opts.Name))
	}
	if opts.FullText != "" {
		clauses = append(clauses, "fullText contains "+quote(opts.FullText))
	}
	if opts.MimeType != "" {
		clauses = append(clauses, "mimeType = "+quote(opts.MimeType))
	}
	if opts.FolderID != "" {
		clauses = append(clauses, quote(opts.FolderID)+" in parents")
	}
	if q := strings.TrimSpace(opts.Query); q != "" {
		clauses = append(clauses, "("+q+")")
	}
	if !opts.IncludeTrashed {
		clauses = append(clauses, "trashed = false")
	}
	return strings.Join(clauses, " and ")
}

// quote renders s as a Drive query string literal.
func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}
