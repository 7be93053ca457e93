package drive

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/teemow/workspace-mcp/internal/download"
)

const (
	defaultMaxResults = 25
	maxResults        = 1000

	fileFields = "id, name, mimeType, size, createdTime, modifiedTime, webViewLink, parents, owners, shared, trashed"
)

// Client wraps the Google Drive API service
type Client struct {
	service *drive.Service
}

// NewClient creates a Drive client on top of an authenticated HTTP client.
func NewClient(ctx context.Context, httpClient *http.Client, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}
	return &Client{service: svc}, nil
}

// Search lists files matching opts across My Drive and shared drives.
func (c *Client) Search(ctx context.Context, opts SearchOptions) (*SearchResult, error) {
	pageSize := opts.MaxResults
	if pageSize <= 0 {
		pageSize = defaultMaxResults
	}
	pageSize = min(pageSize, maxResults)

	query := BuildQuery(opts)
	call := c.service.Files.List().
		Context(ctx).
		Q(query).
		PageSize(int64(pageSize)).
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Fields("nextPageToken, files(" + fileFields + ")")
	if opts.OrderBy != "" {
		call = call.OrderBy(opts.OrderBy)
	}
	if opts.PageToken != "" {
		call = call.PageToken(opts.PageToken)
	}

	list, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to search files: %w", err)
	}

	result := &SearchResult{Query: query, NextPageToken: list.NextPageToken, Files: make([]*FileInfo, 0, len(list.Files))}
	for _, f := range list.Files {
		result.Files = append(result.Files, convertToFileInfo(f))
	}
	return result, nil
}

// GetFile retrieves metadata for a specific file
func (c *Client) GetFile(ctx context.Context, fileID string) (*FileInfo, error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}
	f, err := c.service.Files.Get(fileID).
		Context(ctx).
		SupportsAllDrives(true).
		Fields(fileFields).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get file %s: %w", fileID, err)
	}
	return convertToFileInfo(f), nil
}

// Download writes a file's content into dir. Google-native files are
// exported in format (e.g. "pdf", "docx", "md"), or in their default format
// when format is empty. Binary files ignore format.
func (c *Client) Download(ctx context.Context, fileID, dir, format string) (*DownloadResult, error) {
	info, err := c.GetFile(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if info.MimeType == FolderMimeType {
		return nil, fmt.Errorf("%s is a folder and cannot be downloaded", info.Name)
	}

	result := &DownloadResult{FileID: info.ID, Name: info.Name, MimeType: info.MimeType}
	var resp *http.Response
	filename := info.Name

	if IsGoogleNative(info.MimeType) {
		export, err := resolveExport(info.MimeType, format)
		if err != nil {
			return nil, err
		}
		resp, err = c.service.Files.Export(fileID, export.mimeType).Context(ctx).Download()
		if err != nil {
			return nil, fmt.Errorf("failed to export file %s: %w", fileID, err)
		}
		if !strings.EqualFold(filepath.Ext(filename), export.extension) {
			filename += export.extension
		}
		result.MimeType = export.mimeType
		result.Exported = true
	} else {
		resp, err = c.service.Files.Get(fileID).Context(ctx).SupportsAllDrives(true).Download()
		if err != nil {
			return nil, fmt.Errorf("failed to download file %s: %w", fileID, err)
		}
	}
	defer resp.Body.Close()

	path, n, err := download.SaveReader(dir, filename, resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to save %s: %w", info.Name, err)
	}
	result.Path = path
	result.Size = n
	return result, nil
}

func convertToFileInfo(f *drive.File) *FileInfo {
	info := &FileInfo{
		ID:          f.Id,
		Name:        f.Name,
		MimeType:    f.MimeType,
		Size:        f.Size,
		WebViewLink: f.WebViewLink,
		Parents:     f.Parents,
		Shared:      f.Shared,
		Trashed:     f.Trashed,
	}
	if t, err := time.Parse(time.RFC3339, f.CreatedTime); err == nil {
		info.CreatedTime = t
	}
	if t, err := time.Parse(time.RFC3339, f.ModifiedTime); err == nil {
		info.ModifiedTime = t
	}
	for _, owner := range f.Owners {
		info.Owners = append(info.Owners, User{
			DisplayName:  owner.DisplayName,
			EmailAddress: owner.EmailAddress,
		})
	}
	return info
}
