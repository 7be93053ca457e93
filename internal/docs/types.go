package docs

// DocumentMetadata represents metadata about a Google Drive file
type DocumentMetadata struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MimeType     string `json:"mimeType"`
	CreatedTime  string `json:"createdTime"`
	ModifiedTime string `json:"modifiedTime"`
	Size         int64  `json:"size,omitempty"`
	WebViewLink  string `json:"webViewLink,omitempty"`
	Owners       []User `json:"owners,omitempty"`
}

// User represents a Google Drive user
type User struct {
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress"`
}

// CreatedDocument describes a newly created document.
type CreatedDocument struct {
	DocumentID string `json:"documentId"`
	Title      string `json:"title"`
	URL        string `json:"url"`
}

// InsertResult reports a markdown insertion.
type InsertResult struct {
	DocumentID     string `json:"documentId"`
	Index          int64  `json:"index"`
	InsertedLength int64  `json:"insertedLength"`
	StyleUpdates   int    `json:"styleUpdates"`
}

// ReplaceResult reports a formatted text replacement.
type ReplaceResult struct {
	DocumentID  string `json:"documentId"`
	Occurrences int    `json:"occurrences"`
	Operations  int    `json:"operations"`
}

// TextReplacement is one find/replace pair for ReplaceAllText.
type TextReplacement struct {
	Find       string `json:"find"`
	Replace    string `json:"replace"`
	IgnoreCase bool   `json:"ignoreCase,omitempty"`
}

// ReplacementCount is the number of changes made for one pair.
type ReplacementCount struct {
	Find               string `json:"find"`
	OccurrencesChanged int64  `json:"occurrencesChanged"`
}

// ReplaceAllResult reports a ReplaceAllText batch.
type ReplaceAllResult struct {
	DocumentID   string             `json:"documentId"`
	TotalChanged int64              `json:"totalChanged"`
	Results      []ReplacementCount `json:"results"`
}
