package gmail

import (
	"context"
	"fmt"

	gmail "google.golang.org/api/gmail/v1"

	"github.com/teemow/workspace-mcp/internal/download"
)

// MaxAttachmentSize defines the maximum attachment size in bytes (25MB)
const MaxAttachmentSize = 25 * 1024 * 1024

// AttachmentInfo represents an attachment's metadata
type AttachmentInfo struct {
	PartID       string `json:"partId"`
	AttachmentID string `json:"attachmentId"`
	Filename     string `json:"filename"`
	MimeType     string `json:"mimeType"`
	Size         int64  `json:"size"`
}

// SavedAttachment reports an attachment written to disk.
type SavedAttachment struct {
	MessageID string `json:"messageId"`
	Filename  string `json:"filename"`
	MimeType  string `json:"mimeType"`
	Path      string `json:"path"`
	Size      int    `json:"size"`
}

// listAttachments returns every part of m that carries a named attachment.
func listAttachments(m *gmail.Message) []*AttachmentInfo {
	var out []*AttachmentInfo
	walkParts(m.Payload, func(part *gmail.MessagePart) {
		if part.Filename == "" || part.Body == nil || part.Body.AttachmentId == "" {
			return
		}
		out = append(out, &AttachmentInfo{
			PartID:       part.PartId,
			AttachmentID: part.Body.AttachmentId,
			Filename:     part.Filename,
			MimeType:     part.MimeType,
			Size:         part.Body.Size,
		})
	})
	return out
}

// FindAttachment looks up an attachment of m by attachment ID, part ID or
// filename, in that order. Attachment IDs change between fetches of the
// same message, so part IDs and filenames are accepted as stable references.
func FindAttachment(m *gmail.Message, ref string) (*AttachmentInfo, bool) {
	attachments := listAttachments(m)
	for _, match := range []func(*AttachmentInfo) bool{
		func(a *AttachmentInfo) bool { return a.AttachmentID == ref },
		func(a *AttachmentInfo) bool { return a.PartID == ref },
		func(a *AttachmentInfo) bool { return a.Filename == ref },
	} {
		for _, a := range attachments {
			if match(a) {
				return a, true
			}
		}
	}
	return nil, false
}

// GetAttachment retrieves the decoded content of an attachment.
func (c *Client) GetAttachment(ctx context.Context, messageID, attachmentID string) ([]byte, error) {
	if messageID == "" {
		return nil, fmt.Errorf("messageID is required")
	}
	if attachmentID == "" {
		return nil, fmt.Errorf("attachmentID is required")
	}

	att, err := c.svc.Messages.Attachments.Get("me", messageID, attachmentID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get attachment %s: %w", attachmentID, err)
	}
	if att.Size > MaxAttachmentSize {
		return nil, fmt.Errorf("attachment size %d exceeds maximum size %d", att.Size, MaxAttachmentSize)
	}
	data, err := decodeBase64URL(att.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode attachment data: %w", err)
	}
	return data, nil
}

// DownloadAttachment saves the attachment of messageID identified by ref
// (see FindAttachment) into dir.
func (c *Client) DownloadAttachment(ctx context.Context, messageID, ref, dir string) (*SavedAttachment, error) {
	if ref == "" {
		return nil, fmt.Errorf("attachment reference is required")
	}
	msg, err := c.getRawMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}
	info, ok := FindAttachment(msg, ref)
	if !ok {
		return nil, fmt.Errorf("attachment %q not found in message %s", ref, messageID)
	}

	data, err := c.GetAttachment(ctx, messageID, info.AttachmentID)
	if err != nil {
		return nil, err
	}
	path, err := download.Save(dir, info.Filename, data)
	if err != nil {
		return nil, err
	}
	return &SavedAttachment{
		MessageID: messageID,
		Filename:  info.Filename,
		MimeType:  info.MimeType,
		Path:      path,
		Size:      len(data),
	}, nil
}
