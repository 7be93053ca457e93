package gmail_tools

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gmailapi "google.golang.org/api/gmail/v1"

	"github.com/teemow/workspace-mcp/internal/tools/common"
	"github.com/teemow/workspace-mcp/internal/tools/toolstest"
)

const messagesPath = "/gmail/v1/users/me/messages"

func b64(s string) string {
	return base64.URLEncoding.EncodeToString([]byte(s))
}

type fakeGmail struct {
	mu   sync.Mutex
	sent []*gmailapi.Message
}

func (f *fakeGmail) message() *gmailapi.Message {
	return &gmailapi.Message{
		Id:       "m1",
		ThreadId: "t1",
		Snippet:  "Agenda attached",
		Payload: &gmailapi.MessagePart{
			MimeType: "multipart/mixed",
			Headers: []*gmailapi.MessagePartHeader{
				{Name: "From", Value: "ada@example.com"},
				{Name: "Subject", Value: "Agenda"},
			},
			Parts: []*gmailapi.MessagePart{
				{PartId: "0", MimeType: "text/plain", Body: &gmailapi.MessagePartBody{Data: b64("See attached.")}},
				{PartId: "1", MimeType: "text/calendar", Filename: "invite.ics", Body: &gmailapi.MessagePartBody{AttachmentId: "att-1", Size: 15}},
			},
		},
	}
}

func (f *fakeGmail) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	path := r.URL.Path
	switch {
	case path == "/gmail/v1/users/me/settings/sendAs":
		_ = json.NewEncoder(w).Encode(&gmailapi.ListSendAsResponse{})
	case path == messagesPath+"/send" && r.Method == http.MethodPost:
		var m gmailapi.Message
		_ = json.NewDecoder(r.Body).Decode(&m)
		f.sent = append(f.sent, &m)
		_ = json.NewEncoder(w).Encode(&gmailapi.Message{Id: "sent-1", ThreadId: m.ThreadId})
	case path == messagesPath:
		_ = json.NewEncoder(w).Encode(&gmailapi.ListMessagesResponse{Messages: []*gmailapi.Message{{Id: "m1"}}})
	case path == messagesPath+"/m1/attachments/att-1":
		_ = json.NewEncoder(w).Encode(&gmailapi.MessagePartBody{Data: b64("BEGIN:VCALENDAR"), Size: 15})
	case path == messagesPath+"/m1":
		_ = json.NewEncoder(w).Encode(f.message())
	default:
		http.Error(w, `{"error":{"code":404,"message":"not found"}}`, http.StatusNotFound)
	}
}

func (f *fakeGmail) sentMessages() []*gmailapi.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*gmailapi.Message(nil), f.sent...)
}

func TestRegisterGmailTools(t *testing.T) {
	s := toolstest.NewMCPServer()
	require.NoError(t, RegisterGmailTools(s, toolstest.NewServerContext(t, nil, toolstest.Options{ReadOnly: true})))
	assert.Equal(t, []string{"gmail_download_attachment", "gmail_get_message", "gmail_search"}, toolstest.ToolNames(s))

	s = toolstest.NewMCPServer()
	require.NoError(t, RegisterGmailTools(s, toolstest.NewServerContext(t, nil, toolstest.Options{})))
	assert.Equal(t, []string{"gmail_download_attachment", "gmail_get_message", "gmail_search", "gmail_send"}, toolstest.ToolNames(s))
}

func TestSearch(t *testing.T) {
	sc := toolstest.NewServerContext(t, &fakeGmail{}, toolstest.Options{})

	result, err := handleSearch(context.Background(), toolstest.Request(map[string]any{"query": "from:ada"}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError, common.ResultText(result))
	assert.Contains(t, common.ResultText(result), `"count": 1`)
	assert.Contains(t, common.ResultText(result), `"subject": "Agenda"`)

	result, err = handleSearch(context.Background(), toolstest.Request(nil), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestGetMessage(t *testing.T) {
	sc := toolstest.NewServerContext(t, &fakeGmail{}, toolstest.Options{})

	result, err := handleGetMessage(context.Background(), toolstest.Request(map[string]any{"messageId": "m1"}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError, common.ResultText(result))
	text := common.ResultText(result)
	assert.Contains(t, text, `"body": "See attached."`)
	assert.Contains(t, text, `"filename": "invite.ics"`)

	result, err = handleGetMessage(context.Background(), toolstest.Request(map[string]any{"messageId": "missing"}), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestDownloadAttachment(t *testing.T) {
	sc := toolstest.NewServerContext(t, &fakeGmail{}, toolstest.Options{})

	result, err := handleDownloadAttachment(context.Background(), toolstest.Request(map[string]any{
		"messageId":  "m1",
		"attachment": "invite.ics",
	}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError, common.ResultText(result))

	var saved struct {
		Path string `json:"path"`
		Size int    `json:"size"`
	}
	require.NoError(t, json.Unmarshal([]byte(common.ResultText(result)), &saved))
	assert.True(t, strings.HasPrefix(saved.Path, sc.DownloadDir()))
	data, err := os.ReadFile(saved.Path)
	require.NoError(t, err)
	assert.Equal(t, "BEGIN:VCALENDAR", string(data))

	result, err = handleDownloadAttachment(context.Background(), toolstest.Request(map[string]any{
		"messageId":  "m1",
		"attachment": "nope.pdf",
	}), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestSend(t *testing.T) {
	api := &fakeGmail{}
	sc := toolstest.NewServerContext(t, api, toolstest.Options{})

	result, err := handleSend(context.Background(), toolstest.Request(map[string]any{
		"to":       "ada@example.com, grace@example.com",
		"cc":       []any{"team@example.com"},
		"subject":  "Hello",
		"body":     "Hi there",
		"threadId": "t1",
	}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError, common.ResultText(result))
	assert.Contains(t, common.ResultText(result), `"messageId": "sent-1"`)

	sent := api.sentMessages()
	require.Len(t, sent, 1)
	assert.Equal(t, "t1", sent[0].ThreadId)
	raw, err := base64.URLEncoding.DecodeString(sent[0].Raw)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "To: ada@example.com, grace@example.com\r\n")
	assert.Contains(t, string(raw), "Cc: team@example.com\r\n")
}

func TestSend_Validation(t *testing.T) {
	api := &fakeGmail{}
	sc := toolstest.NewServerContext(t, api, toolstest.Options{})

	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"missing to", map[string]any{"subject": "s", "body": "b"}, "'to' field is required"},
		{"blank to", map[string]any{"to": " , ", "subject": "s", "body": "b"}, "'to' field is required"},
		{"missing subject", map[string]any{"to": "a@example.com", "body": "b"}, "'subject' field is required"},
		{"missing body", map[string]any{"to": "a@example.com", "subject": "s"}, "'body' field is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := handleSend(context.Background(), toolstest.Request(tt.args), sc)
			require.NoError(t, err)
			assert.True(t, result.IsError)
			assert.Contains(t, common.ResultText(result), tt.want)
		})
	}
	assert.Empty(t, api.sentMessages())
}
