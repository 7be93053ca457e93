package gmail

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gmail "google.golang.org/api/gmail/v1"
)

func messageWithAttachments() *gmail.Message {
	return &gmail.Message{
		Id: "msg1",
		Payload: &gmail.MessagePart{
			MimeType: "multipart/mixed",
			Parts: []*gmail.MessagePart{
				{PartId: "0", MimeType: "text/plain", Body: &gmail.MessagePartBody{Data: b64("see attached")}},
				{PartId: "1", MimeType: "application/pdf", Filename: "report.pdf", Body: &gmail.MessagePartBody{AttachmentId: "att-1", Size: 2048}},
				{PartId: "2", MimeType: "multipart/related", Parts: []*gmail.MessagePart{
					{PartId: "2.1", MimeType: "image/png", Filename: "chart.png", Body: &gmail.MessagePartBody{AttachmentId: "att-2", Size: 512}},
				}},
			},
		},
	}
}

func TestListAttachments(t *testing.T) {
	attachments := listAttachments(messageWithAttachments())

	require.Len(t, attachments, 2)
	assert.Equal(t, &AttachmentInfo{PartID: "1", AttachmentID: "att-1", Filename: "report.pdf", MimeType: "application/pdf", Size: 2048}, attachments[0])
	assert.Equal(t, "2.1", attachments[1].PartID)
	assert.Equal(t, "chart.png", attachments[1].Filename)
}

func TestFindAttachment(t *testing.T) {
	m := messageWithAttachments()

	tests := []struct {
		ref      string
		wantName string
		found    bool
	}{
		{ref: "att-2", wantName: "chart.png", found: true},
		{ref: "1", wantName: "report.pdf", found: true},
		{ref: "2.1", wantName: "chart.png", found: true},
		{ref: "report.pdf", wantName: "report.pdf", found: true},
		{ref: "missing.doc"},
		{ref: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			info, ok := FindAttachment(m, tt.ref)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, tt.wantName, info.Filename)
			}
		})
	}
}
