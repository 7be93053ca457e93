package docs

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	docs "google.golang.org/api/docs/v1"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// ErrNoReplacements is returned by ReplaceAllText for an empty replacement list.
var ErrNoReplacements = errors.New("no replacements provided")

// Client wraps the Google Docs and Drive API services
type Client struct {
	docsService  *docs.Service
	driveService *drive.Service
}

// NewClient creates a Docs client on top of an authenticated HTTP client.
// Extra options are appended, which lets tests point the client at a fake endpoint.
func NewClient(ctx context.Context, httpClient *http.Client, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)

	docsService, err := docs.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Docs service: %w", err)
	}
	driveService, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}
	return &Client{docsService: docsService, driveService: driveService}, nil
}

// GetDocument retrieves a document with the content of all tabs.
func (c *Client) GetDocument(ctx context.Context, documentID string) (*docs.Document, error) {
	if documentID == "" {
		return nil, fmt.Errorf("documentID is required")
	}
	doc, err := c.docsService.Documents.Get(documentID).IncludeTabsContent(true).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s: %w", documentID, err)
	}
	return doc, nil
}

// GetDocumentAsMarkdown converts a Google Doc to Markdown format
func (c *Client) GetDocumentAsMarkdown(ctx context.Context, documentID string) (string, error) {
	doc, err := c.GetDocument(ctx, documentID)
	if err != nil {
		return "", err
	}
	return DocumentToMarkdown(doc)
}

// GetDocumentAsPlainText extracts plain text from a Google Doc
func (c *Client) GetDocumentAsPlainText(ctx context.Context, documentID string) (string, error) {
	doc, err := c.GetDocument(ctx, documentID)
	if err != nil {
		return "", err
	}
	return DocumentToPlainText(doc)
}

// GetFileMetadata retrieves metadata for any Google Drive file
func (c *Client) GetFileMetadata(ctx context.Context, fileID string) (*DocumentMetadata, error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}

	file, err := c.driveService.Files.Get(fileID).
		Fields("id, name, mimeType, createdTime, modifiedTime, size, owners, webViewLink").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get file metadata %s: %w", fileID, err)
	}

	metadata := &DocumentMetadata{
		ID:           file.Id,
		Name:         file.Name,
		MimeType:     file.MimeType,
		CreatedTime:  file.CreatedTime,
		ModifiedTime: file.ModifiedTime,
		Size:         file.Size,
		WebViewLink:  file.WebViewLink,
	}
	for _, owner := range file.Owners {
		metadata.Owners = append(metadata.Owners, User{
			DisplayName:  owner.DisplayName,
			EmailAddress: owner.EmailAddress,
		})
	}
	return metadata, nil
}

// CreateDocument creates an empty document, optionally filled with markdown.
func (c *Client) CreateDocument(ctx context.Context, title, markdown string) (*CreatedDocument, error) {
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}
	doc, err := c.docsService.Documents.Create(&docs.Document{Title: title}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}
	created := &CreatedDocument{
		DocumentID: doc.DocumentId,
		Title:      doc.Title,
		URL:        documentURL(doc.DocumentId),
	}
	if markdown == "" {
		return created, nil
	}
	if _, err := c.InsertMarkdown(ctx, doc.DocumentId, markdown, 1, ""); err != nil {
		return created, err
	}
	return created, nil
}

// BatchUpdate submits ops as one atomic batch. An empty batch is not sent.
func (c *Client) BatchUpdate(ctx context.Context, documentID string, ops []EditOperation) error {
	if len(ops) == 0 {
		return nil
	}
	req := &docs.BatchUpdateDocumentRequest{Requests: Requests(ops)}
	if _, err := c.docsService.Documents.BatchUpdate(documentID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to update document %s: %w", documentID, err)
	}
	return nil
}

// InsertMarkdown compiles markdown and inserts it, formatted, at index.
func (c *Client) InsertMarkdown(ctx context.Context, documentID, markdown string, index int64, tabID string) (*InsertResult, error) {
	if documentID == "" {
		return nil, fmt.Errorf("documentID is required")
	}
	if index < 1 {
		return nil, fmt.Errorf("index must be at least 1, got %d", index)
	}
	compiled := Compile(markdown)
	if compiled.Text == "" {
		return nil, fmt.Errorf("markdown produced no text to insert")
	}

	ops := []EditOperation{InsertText{Index: index, Text: compiled.Text, Tab: tabID}}
	ops = append(ops, compiled.StyleOperations(index, tabID)...)
	if err := c.BatchUpdate(ctx, documentID, ops); err != nil {
		return nil, err
	}
	return &InsertResult{
		DocumentID:     documentID,
		Index:          index,
		InsertedLength: compiled.Len(),
		StyleUpdates:   len(ops) - 1,
	}, nil
}

// AppendMarkdown inserts markdown at the end of a tab's body.
func (c *Client) AppendMarkdown(ctx context.Context, documentID, markdown, tabID string) (*InsertResult, error) {
	doc, err := c.GetDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	tab, err := findTab(doc, tabID)
	if err != nil {
		return nil, err
	}
	return c.InsertMarkdown(ctx, documentID, markdown, EndIndex(tab.Body), tab.ID)
}

// ReplaceText replaces every occurrence of find with formatted markdown.
// Without a tab ID every tab is searched. Zero occurrences is a successful
// no-op and sends nothing.
func (c *Client) ReplaceText(ctx context.Context, documentID, find, replacementMarkdown, tabID string) (*ReplaceResult, error) {
	if find == "" {
		return &ReplaceResult{DocumentID: documentID}, nil
	}
	doc, err := c.GetDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if tabID != "" {
		if _, err := findTab(doc, tabID); err != nil {
			return nil, err
		}
	}

	ops, count := PlanDocumentReplace(ExtractTabTexts(doc), find, replacementMarkdown, tabID)
	if err := c.BatchUpdate(ctx, documentID, ops); err != nil {
		return nil, err
	}
	return &ReplaceResult{
		DocumentID:  documentID,
		Occurrences: count,
		Operations:  len(ops),
	}, nil
}

// ReplaceAllText runs the Docs API's own plain-text replace for each pair
// in one batch.
func (c *Client) ReplaceAllText(ctx context.Context, documentID string, replacements []TextReplacement) (*ReplaceAllResult, error) {
	if len(replacements) == 0 {
		return nil, ErrNoReplacements
	}
	reqs := make([]*docs.Request, 0, len(replacements))
	for _, r := range replacements {
		if r.Find == "" {
			return nil, fmt.Errorf("replacement find text must not be empty")
		}
		reqs = append(reqs, &docs.Request{
			ReplaceAllText: &docs.ReplaceAllTextRequest{
				ContainsText: &docs.SubstringMatchCriteria{Text: r.Find, MatchCase: !r.IgnoreCase},
				ReplaceText:  r.Replace,
			},
		})
	}

	resp, err := c.docsService.Documents.BatchUpdate(documentID, &docs.BatchUpdateDocumentRequest{Requests: reqs}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to update document %s: %w", documentID, err)
	}

	result := &ReplaceAllResult{DocumentID: documentID}
	for i, reply := range resp.Replies {
		if i >= len(replacements) {
			break
		}
		changed := int64(0)
		if reply != nil && reply.ReplaceAllText != nil {
			changed = reply.ReplaceAllText.OccurrencesChanged
		}
		result.Results = append(result.Results, ReplacementCount{Find: replacements[i].Find, OccurrencesChanged: changed})
		result.TotalChanged += changed
	}
	return result, nil
}

func findTab(doc *docs.Document, tabID string) (DocTab, error) {
	tabs := FlattenTabs(doc)
	if len(tabs) == 0 {
		return DocTab{}, fmt.Errorf("document has no content")
	}
	if tabID == "" {
		return tabs[0], nil
	}
	for _, t := range tabs {
		if t.ID == tabID {
			return t, nil
		}
	}
	return DocTab{}, fmt.Errorf("tab %q not found in document", tabID)
}

func documentURL(id string) string {
	return "https://docs.google.com/document/d/" + id + "/edit"
}
