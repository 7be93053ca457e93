package gmail

import (
	"encoding/base64"
	"fmt"
	"mime"
	"strings"

	gmail "google.golang.org/api/gmail/v1"
)

// MessageSummary is one search hit.
type MessageSummary struct {
	ID       string   `json:"id"`
	ThreadID string   `json:"threadId"`
	From     string   `json:"from,omitempty"`
	To       string   `json:"to,omitempty"`
	Subject  string   `json:"subject,omitempty"`
	Date     string   `json:"date,omitempty"`
	Snippet  string   `json:"snippet,omitempty"`
	Labels   []string `json:"labels,omitempty"`
}

// Message is a fully read message.
type Message struct {
	MessageSummary
	Cc          string            `json:"cc,omitempty"`
	Body        string            `json:"body"`
	BodyFormat  string            `json:"bodyFormat"`
	Attachments []*AttachmentInfo `json:"attachments,omitempty"`
}

// EmailMessage represents an email to be sent
type EmailMessage struct {
	To      []string
	Cc      []string
	Bcc     []string
	Subject string
	Body    string
	IsHTML  bool

	// ThreadID and InReplyTo thread a reply into an existing conversation.
	ThreadID  string
	InReplyTo string
}

// HeaderValue returns the first header of the message payload named header,
// compared case-insensitively.
func HeaderValue(m *gmail.Message, header string) string {
	if m == nil || m.Payload == nil {
		return ""
	}
	for _, h := range m.Payload.Headers {
		if strings.EqualFold(h.Name, header) {
			return h.Value
		}
	}
	return ""
}

func summarize(m *gmail.Message) MessageSummary {
	return MessageSummary{
		ID:       m.Id,
		ThreadID: m.ThreadId,
		From:     HeaderValue(m, "From"),
		To:       HeaderValue(m, "To"),
		Subject:  HeaderValue(m, "Subject"),
		Date:     HeaderValue(m, "Date"),
		Snippet:  m.Snippet,
		Labels:   m.LabelIds,
	}
}

// messageBody returns the text/plain body of m, falling back to text/html.
func messageBody(m *gmail.Message) (string, string, error) {
	for _, format := range []struct{ name, mimeType string }{
		{"text", "text/plain"},
		{"html", "text/html"},
	} {
		var data string
		walkParts(m.Payload, func(part *gmail.MessagePart) {
			if data == "" && part.MimeType == format.mimeType && part.Filename == "" &&
				part.Body != nil && part.Body.Data != "" {
				data = part.Body.Data
			}
		})
		if data == "" {
			continue
		}
		decoded, err := decodeBase64URL(data)
		if err != nil {
			return "", "", fmt.Errorf("failed to decode message body: %w", err)
		}
		return string(decoded), format.name, nil
	}
	return "", "", nil
}

// walkParts visits part and all nested parts depth first.
func walkParts(part *gmail.MessagePart, fn func(*gmail.MessagePart)) {
	if part == nil {
		return
	}
	fn(part)
	for _, sub := range part.Parts {
		walkParts(sub, fn)
	}
}

// decodeBase64URL decodes Gmail body data, which is base64url with or
// without padding.
func decodeBase64URL(s string) ([]byte, error) {
	if data, err := base64.URLEncoding.DecodeString(s); err == nil {
		return data, nil
	}
	if data, err := base64.RawURLEncoding.DecodeString(s); err == nil {
		return data, nil
	}
	return base64.StdEncoding.DecodeString(s)
}

// encodeRFC2047 encodes non-ASCII header text such as umlauts in subjects.
func encodeRFC2047(s string) string {
	for _, r := range s {
		if r > 127 {
			return mime.BEncoding.Encode("UTF-8", s)
		}
	}
	return s
}

// buildRawMessage renders msg as an RFC 2822 document.
func buildRawMessage(msg *EmailMessage, body string) string {
	var b strings.Builder
	writeHeader := func(name, value string) {
		if value == "" {
			return
		}
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteString("\r\n")
	}

	writeHeader("To", strings.Join(msg.To, ", "))
	writeHeader("Cc", strings.Join(msg.Cc, ", "))
	writeHeader("Bcc", strings.Join(msg.Bcc, ", "))
	writeHeader("Subject", encodeRFC2047(msg.Subject))
	writeHeader("In-Reply-To", msg.InReplyTo)
	writeHeader("References", msg.InReplyTo)
	if msg.IsHTML {
		writeHeader("Content-Type", `text/html; charset="UTF-8"`)
	} else {
		writeHeader("Content-Type", `text/plain; charset="UTF-8"`)
	}
	writeHeader("MIME-Version", "1.0")
	b.WriteString("\r\n")
	b.WriteString(body)
	return b.String()
}

// withSignature appends signature to body using the body's format.
func withSignature(body, signature string, isHTML bool) string {
	if signature == "" {
		return body
	}
	if isHTML {
		return body + "<br><br>-- <br>" + signature
	}
	return body + "\n\n-- \n" + signature
}
