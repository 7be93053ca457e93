package docs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	docs "google.golang.org/api/docs/v1"
	"google.golang.org/api/option"
)

// fakeDocsAPI serves a single document and records batch updates.
type fakeDocsAPI struct {
	mu      sync.Mutex
	doc     *docs.Document
	batches []*docs.BatchUpdateDocumentRequest
	replies []*docs.Response
}

func (f *fakeDocsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/v1/documents/"):
		if r.URL.Query().Get("includeTabsContent") != "true" {
			http.Error(w, `{"error":{"code":400,"message":"tabs required"}}`, http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(f.doc)
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":batchUpdate"):
		var req docs.BatchUpdateDocumentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.batches = append(f.batches, &req)
		_ = json.NewEncoder(w).Encode(&docs.BatchUpdateDocumentResponse{
			DocumentId: f.doc.DocumentId,
			Replies:    f.replies,
		})
	case r.Method == http.MethodPost && r.URL.Path == "/v1/documents":
		_ = json.NewEncoder(w).Encode(&docs.Document{DocumentId: "new-doc", Title: "Created"})
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeDocsAPI) batchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.batches)
}

func newTestClient(t *testing.T, api *fakeDocsAPI) *Client {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	client, err := NewClient(context.Background(), srv.Client(), option.WithEndpoint(srv.URL+"/"))
	require.NoError(t, err)
	return client
}

func helloDocument() *docs.Document {
	return &docs.Document{
		DocumentId: "doc-1",
		Title:      "Greetings",
		Body: &docs.Body{Content: []*docs.StructuralElement{
			{EndIndex: 1, SectionBreak: &docs.SectionBreak{}},
			para(1, "Hello world! Hello again!\n"),
		}},
	}
}

func TestClient_ReplaceText(t *testing.T) {
	api := &fakeDocsAPI{doc: helloDocument()}
	client := newTestClient(t, api)

	result, err := client.ReplaceText(context.Background(), "doc-1", "Hello", "Hi", "")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Occurrences)
	assert.Equal(t, 4, result.Operations)

	require.Len(t, api.batches, 1)
	reqs := api.batches[0].Requests
	require.Len(t, reqs, 4)

	require.NotNil(t, reqs[0].DeleteContentRange)
	assert.Equal(t, int64(1), reqs[0].DeleteContentRange.Range.StartIndex)
	assert.Equal(t, int64(6), reqs[0].DeleteContentRange.Range.EndIndex)

	require.NotNil(t, reqs[1].InsertText)
	assert.Equal(t, int64(1), reqs[1].InsertText.Location.Index)
	assert.Equal(t, "Hi", reqs[1].InsertText.Text)

	require.NotNil(t, reqs[2].DeleteContentRange)
	assert.Equal(t, int64(11), reqs[2].DeleteContentRange.Range.StartIndex)
	assert.Equal(t, int64(16), reqs[2].DeleteContentRange.Range.EndIndex)

	require.NotNil(t, reqs[3].InsertText)
	assert.Equal(t, int64(11), reqs[3].InsertText.Location.Index)
}

func TestClient_ReplaceText_NoMatchSendsNothing(t *testing.T) {
	api := &fakeDocsAPI{doc: helloDocument()}
	client := newTestClient(t, api)

	result, err := client.ReplaceText(context.Background(), "doc-1", "Goodbye", "**Bye**", "")
	require.NoError(t, err)
	assert.Equal(t, 0, result.Occurrences)
	assert.Equal(t, 0, api.batchCount())
}

func TestClient_ReplaceText_UnknownTab(t *testing.T) {
	api := &fakeDocsAPI{doc: helloDocument()}
	client := newTestClient(t, api)

	_, err := client.ReplaceText(context.Background(), "doc-1", "Hello", "Hi", "t.missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "t.missing")
	assert.Equal(t, 0, api.batchCount())
}

func TestClient_InsertMarkdown(t *testing.T) {
	api := &fakeDocsAPI{doc: helloDocument()}
	client := newTestClient(t, api)

	result, err := client.InsertMarkdown(context.Background(), "doc-1", "# Title\nSome **bold**", 1, "")
	require.NoError(t, err)
	assert.Equal(t, int64(len("Title\nSome bold")), result.InsertedLength)
	assert.Equal(t, 2, result.StyleUpdates)

	require.Len(t, api.batches, 1)
	reqs := api.batches[0].Requests
	require.Len(t, reqs, 3)
	assert.Equal(t, "Title\nSome bold", reqs[0].InsertText.Text)
	require.NotNil(t, reqs[1].UpdateParagraphStyle)
	assert.Equal(t, int64(1), reqs[1].UpdateParagraphStyle.Range.StartIndex)
	assert.Equal(t, int64(6), reqs[1].UpdateParagraphStyle.Range.EndIndex)
	require.NotNil(t, reqs[2].UpdateTextStyle)
	assert.Equal(t, int64(12), reqs[2].UpdateTextStyle.Range.StartIndex)
	assert.Equal(t, int64(16), reqs[2].UpdateTextStyle.Range.EndIndex)
}

func TestClient_InsertMarkdown_Validation(t *testing.T) {
	api := &fakeDocsAPI{doc: helloDocument()}
	client := newTestClient(t, api)
	ctx := context.Background()

	_, err := client.InsertMarkdown(ctx, "doc-1", "text", 0, "")
	assert.Error(t, err)

	_, err = client.InsertMarkdown(ctx, "doc-1", "", 1, "")
	assert.Error(t, err)

	_, err = client.InsertMarkdown(ctx, "", "text", 1, "")
	assert.Error(t, err)

	assert.Equal(t, 0, api.batchCount())
}

func TestClient_AppendMarkdown(t *testing.T) {
	api := &fakeDocsAPI{doc: helloDocument()}
	client := newTestClient(t, api)

	result, err := client.AppendMarkdown(context.Background(), "doc-1", "*more*", "")
	require.NoError(t, err)
	// The body ends at 27, the final newline sits at 26.
	assert.Equal(t, int64(26), result.Index)

	require.Len(t, api.batches, 1)
	reqs := api.batches[0].Requests
	require.Len(t, reqs, 2)
	assert.Equal(t, int64(26), reqs[0].InsertText.Location.Index)
	require.NotNil(t, reqs[1].UpdateTextStyle)
	assert.True(t, reqs[1].UpdateTextStyle.TextStyle.Italic)
}

func TestClient_ReplaceAllText(t *testing.T) {
	api := &fakeDocsAPI{
		doc: helloDocument(),
		replies: []*docs.Response{
			{ReplaceAllText: &docs.ReplaceAllTextResponse{OccurrencesChanged: 2}},
			{ReplaceAllText: &docs.ReplaceAllTextResponse{OccurrencesChanged: 0}},
		},
	}
	client := newTestClient(t, api)

	result, err := client.ReplaceAllText(context.Background(), "doc-1", []TextReplacement{
		{Find: "Hello", Replace: "Hi"},
		{Find: "absent", Replace: "x", IgnoreCase: true},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.TotalChanged)
	require.Len(t, result.Results, 2)
	assert.Equal(t, "absent", result.Results[1].Find)

	require.Len(t, api.batches, 1)
	reqs := api.batches[0].Requests
	require.Len(t, reqs, 2)
	assert.True(t, reqs[0].ReplaceAllText.ContainsText.MatchCase)
	assert.False(t, reqs[1].ReplaceAllText.ContainsText.MatchCase)
}

func TestClient_ReplaceAllText_Empty(t *testing.T) {
	api := &fakeDocsAPI{doc: helloDocument()}
	client := newTestClient(t, api)

	_, err := client.ReplaceAllText(context.Background(), "doc-1", nil)
	assert.ErrorIs(t, err, ErrNoReplacements)
	assert.Equal(t, 0, api.batchCount())
}

func TestClient_GetDocumentAsMarkdown(t *testing.T) {
	api := &fakeDocsAPI{doc: helloDocument()}
	client := newTestClient(t, api)

	md, err := client.GetDocumentAsMarkdown(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "# Greetings\n\nHello world! Hello again!\n\n", md)
}

func TestClient_CreateDocument(t *testing.T) {
	api := &fakeDocsAPI{doc: helloDocument()}
	client := newTestClient(t, api)

	created, err := client.CreateDocument(context.Background(), "Created", "")
	require.NoError(t, err)
	assert.Equal(t, "new-doc", created.DocumentID)
	assert.Equal(t, "https://docs.google.com/document/d/new-doc/edit", created.URL)
	assert.Equal(t, 0, api.batchCount())
}
