package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"sync"

	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

const (
	defaultSearchResults = 10
	maxPageSize          = 100
)

// Client wraps the Gmail Users service
type Client struct {
	svc *gmail.UsersService

	signatureOnce sync.Once
	signature     string
}

// NewClient creates a Gmail client on top of an authenticated HTTP client.
func NewClient(ctx context.Context, httpClient *http.Client, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}
	return &Client{svc: svc.Users}, nil
}

// Search returns up to maxResults messages matching a Gmail search query
// (the same syntax as the Gmail search box), newest first.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]MessageSummary, error) {
	if maxResults <= 0 {
		maxResults = defaultSearchResults
	}

	var ids []*gmail.Message
	pageToken := ""
	for len(ids) < maxResults {
		req := c.svc.Messages.List("me").Context(ctx).Q(query).MaxResults(int64(min(maxResults-len(ids), maxPageSize)))
		if pageToken != "" {
			req = req.PageToken(pageToken)
		}
		res, err := req.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to search messages: %w", err)
		}
		ids = append(ids, res.Messages...)
		if res.NextPageToken == "" {
			break
		}
		pageToken = res.NextPageToken
	}
	if len(ids) > maxResults {
		ids = ids[:maxResults]
	}

	out := make([]MessageSummary, 0, len(ids))
	for _, ref := range ids {
		m, err := c.svc.Messages.Get("me", ref.Id).
			Context(ctx).
			Format("metadata").
			MetadataHeaders("From", "To", "Subject", "Date").
			Do()
		if err != nil {
			return nil, fmt.Errorf("failed to get message %s: %w", ref.Id, err)
		}
		out = append(out, summarize(m))
	}
	return out, nil
}

func (c *Client) getRawMessage(ctx context.Context, messageID string) (*gmail.Message, error) {
	if messageID == "" {
		return nil, fmt.Errorf("messageID is required")
	}
	msg, err := c.svc.Messages.Get("me", messageID).Context(ctx).Format("full").Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get message %s: %w", messageID, err)
	}
	return msg, nil
}

// GetMessage reads a message with its headers, text body and attachment list.
func (c *Client) GetMessage(ctx context.Context, messageID string) (*Message, error) {
	raw, err := c.getRawMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}
	body, format, err := messageBody(raw)
	if err != nil {
		return nil, err
	}
	return &Message{
		MessageSummary: summarize(raw),
		Cc:             HeaderValue(raw, "Cc"),
		Body:           body,
		BodyFormat:     format,
		Attachments:    listAttachments(raw),
	}, nil
}

// signatureFor returns the signature of the primary send-as address. A
// failed lookup yields no signature rather than failing the send.
func (c *Client) signatureFor(ctx context.Context) string {
	c.signatureOnce.Do(func() {
		sendAs, err := c.svc.Settings.SendAs.List("me").Context(ctx).Do()
		if err != nil {
			return
		}
		for _, s := range sendAs.SendAs {
			if s.IsPrimary {
				c.signature = s.Signature
				return
			}
		}
	})
	return c.signature
}

// Send sends msg and returns the ID of the sent message.
func (c *Client) Send(ctx context.Context, msg *EmailMessage) (string, error) {
	if msg == nil || len(msg.To) == 0 {
		return "", fmt.Errorf("at least one recipient is required")
	}
	if msg.Subject == "" {
		return "", fmt.Errorf("subject is required")
	}
	if msg.Body == "" {
		return "", fmt.Errorf("body is required")
	}

	body := withSignature(msg.Body, c.signatureFor(ctx), msg.IsHTML)
	raw := base64.URLEncoding.EncodeToString([]byte(buildRawMessage(msg, body)))

	sent, err := c.svc.Messages.Send("me", &gmail.Message{Raw: raw, ThreadId: msg.ThreadID}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}
	return sent.Id, nil
}
