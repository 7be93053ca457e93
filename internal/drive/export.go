package drive

import (
	"fmt"
	"strings"
)

const (
	FolderMimeType       = "application/vnd.google-apps.folder"
	DocumentMimeType     = "application/vnd.google-apps.document"
	SpreadsheetMimeType  = "application/vnd.google-apps.spreadsheet"
	PresentationMimeType = "application/vnd.google-apps.presentation"
	DrawingMimeType      = "application/vnd.google-apps.drawing"

	googleAppsPrefix = "application/vnd.google-apps."
)

type exportFormat struct {
	mimeType  string
	extension string
}

var exportFormats = map[string]map[string]exportFormat{
	DocumentMimeType: {
		"pdf":  {"application/pdf", ".pdf"},
		"docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document", ".docx"},
		"txt":  {"text/plain", ".txt"},
		"md":   {"text/markdown", ".md"},
		"html": {"text/html", ".html"},
	},
	SpreadsheetMimeType: {
		"xlsx": {"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", ".xlsx"},
		"csv":  {"text/csv", ".csv"},
		"pdf":  {"application/pdf", ".pdf"},
	},
	PresentationMimeType: {
		"pptx": {"application/vnd.openxmlformats-officedocument.presentationml.presentation", ".pptx"},
		"pdf":  {"application/pdf", ".pdf"},
		"txt":  {"text/plain", ".txt"},
	},
	DrawingMimeType: {
		"png": {"image/png", ".png"},
		"svg": {"image/svg+xml", ".svg"},
		"pdf": {"application/pdf", ".pdf"},
	},
}

var defaultExport = map[string]string{
	DocumentMimeType:     "pdf",
	SpreadsheetMimeType:  "xlsx",
	PresentationMimeType: "pdf",
	DrawingMimeType:      "png",
}

// IsGoogleNative reports whether mimeType is a Google Workspace type that
// has no binary content and must be exported.
func IsGoogleNative(mimeType string) bool {
	return strings.HasPrefix(mimeType, googleAppsPrefix)
}

// resolveExport picks the export format for a Google-native file. An empty
// format selects the type's default.
func resolveExport(mimeType, format string) (exportFormat, error) {
	formats, ok := exportFormats[mimeType]
	if !ok {
		return exportFormat{}, fmt.Errorf("files of type %s cannot be downloaded", mimeType)
	}
	if format == "" {
		format = defaultExport[mimeType]
	}
	f, ok := formats[strings.ToLower(strings.TrimPrefix(format, "."))]
	if !ok {
		return exportFormat{}, fmt.Errorf("unsupported export format %q for %s", format, mimeType)
	}
	return f, nil
}
