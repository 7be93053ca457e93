package drive_tools

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	driveapi "google.golang.org/api/drive/v3"

	"github.com/teemow/workspace-mcp/internal/tools/common"
	"github.com/teemow/workspace-mcp/internal/tools/toolstest"
)

type fakeDrive struct {
	mu    sync.Mutex
	lastQ string
}

var driveFiles = map[string]*driveapi.File{
	"pdf-1": {Id: "pdf-1", Name: "invoice.pdf", MimeType: "application/pdf"},
	"doc-1": {Id: "doc-1", Name: "Plan", MimeType: "application/vnd.google-apps.document"},
	"dir-1": {Id: "dir-1", Name: "Reports", MimeType: "application/vnd.google-apps.folder"},
}

func (f *fakeDrive) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case r.URL.Path == "/files":
		f.lastQ = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(&driveapi.FileList{Files: []*driveapi.File{driveFiles["pdf-1"]}})
	case strings.HasSuffix(r.URL.Path, "/export"):
		_, _ = w.Write([]byte("exported as " + r.URL.Query().Get("mimeType")))
	case strings.HasPrefix(r.URL.Path, "/files/"):
		file, ok := driveFiles[strings.TrimPrefix(r.URL.Path, "/files/")]
		if !ok {
			http.Error(w, `{"error":{"code":404,"message":"File not found"}}`, http.StatusNotFound)
			return
		}
		if r.URL.Query().Get("alt") == "media" {
			_, _ = w.Write([]byte("%PDF-1.4"))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(file)
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeDrive) query() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastQ
}

func TestRegisterDriveTools(t *testing.T) {
	s := toolstest.NewMCPServer()
	require.NoError(t, RegisterDriveTools(s, toolstest.NewServerContext(t, nil, toolstest.Options{ReadOnly: true})))
	assert.Equal(t, []string{"drive_download_file", "drive_get_file", "drive_search"}, toolstest.ToolNames(s))
}

func TestSearch(t *testing.T) {
	api := &fakeDrive{}
	sc := toolstest.NewServerContext(t, api, toolstest.Options{})

	result, err := handleSearch(context.Background(), toolstest.Request(map[string]any{
		"name":     "invoice",
		"mimeType": "application/pdf",
		"folderId": "dir-1",
	}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError, common.ResultText(result))
	assert.Contains(t, common.ResultText(result), `"name": "invoice.pdf"`)
	assert.Equal(t, "name contains 'invoice' and mimeType = 'application/pdf' and 'dir-1' in parents and trashed = false", api.query())
}

func TestGetFile(t *testing.T) {
	sc := toolstest.NewServerContext(t, &fakeDrive{}, toolstest.Options{})

	result, err := handleGetFile(context.Background(), toolstest.Request(map[string]any{"fileId": "doc-1"}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError, common.ResultText(result))
	assert.Contains(t, common.ResultText(result), `"mimeType": "application/vnd.google-apps.document"`)

	result, err = handleGetFile(context.Background(), toolstest.Request(map[string]any{"fileId": "missing"}), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, common.ResultText(result), "failed to get file")
}

func TestDownloadFile(t *testing.T) {
	sc := toolstest.NewServerContext(t, &fakeDrive{}, toolstest.Options{})
	ctx := context.Background()

	result, err := handleDownloadFile(ctx, toolstest.Request(map[string]any{"fileId": "pdf-1"}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError, common.ResultText(result))
	var binary struct {
		Path     string `json:"path"`
		Exported bool   `json:"exported"`
	}
	require.NoError(t, json.Unmarshal([]byte(common.ResultText(result)), &binary))
	assert.False(t, binary.Exported)
	assert.Equal(t, "invoice.pdf", filepath.Base(binary.Path))
	data, err := os.ReadFile(binary.Path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))

	result, err = handleDownloadFile(ctx, toolstest.Request(map[string]any{"fileId": "doc-1", "format": "md"}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError, common.ResultText(result))
	var exported struct {
		Path     string `json:"path"`
		Exported bool   `json:"exported"`
	}
	require.NoError(t, json.Unmarshal([]byte(common.ResultText(result)), &exported))
	assert.True(t, exported.Exported)
	assert.Equal(t, "Plan.md", filepath.Base(exported.Path))

	result, err = handleDownloadFile(ctx, toolstest.Request(map[string]any{"fileId": "dir-1"}), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, common.ResultText(result), "is a folder")
}
