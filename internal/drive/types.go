package drive

import "time"

// FileInfo represents metadata about a file or folder in Google Drive
type FileInfo struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	MimeType     string    `json:"mimeType"`
	Size         int64     `json:"size,omitempty"`
	CreatedTime  time.Time `json:"createdTime"`
	ModifiedTime time.Time `json:"modifiedTime"`
	WebViewLink  string    `json:"webViewLink,omitempty"`
	Parents      []string  `json:"parents,omitempty"`
	Owners       []User    `json:"owners,omitempty"`
	Shared       bool      `json:"shared"`
	Trashed      bool      `json:"trashed"`
}

// User represents a Google Drive user
type User struct {
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress"`
}

// SearchOptions describes a file search. Structured fields are combined
// with "and"; Query is appended verbatim for anything they cannot express.
type SearchOptions struct {
	// Name matches files whose name contains the value
	Name string

	// FullText matches the name, description and indexed content
	FullText string

	// MimeType matches the exact MIME type, e.g. "application/pdf"
	MimeType string

	// FolderID restricts results to direct children of a folder
	FolderID string

	// Query is a raw Drive query, see
	// https://developers.google.com/drive/api/guides/search-files
	Query string

	// MaxResults defaults to 25 and is capped at 1000
	MaxResults int

	// OrderBy, e.g. "modifiedTime desc"
	OrderBy string

	PageToken string

	// IncludeTrashed includes trashed files in results
	IncludeTrashed bool
}

// SearchResult is one page of search results.
type SearchResult struct {
	Query         string      `json:"query"`
	Files         []*FileInfo `json:"files"`
	NextPageToken string      `json:"nextPageToken,omitempty"`
}

// DownloadResult reports a file written to disk.
type DownloadResult struct {
	FileID   string `json:"fileId"`
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
	Path     string `json:"path"`
	Size     int64  `json:"size"`
	Exported bool   `json:"exported"`
}
