package slides

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/option"
	slides "google.golang.org/api/slides/v1"
)

// ErrNoReplacements is returned by ReplaceAllText for an empty replacement list.
var ErrNoReplacements = errors.New("no replacements provided")

// Client wraps the Google Slides API service
type Client struct {
	svc *slides.Service
}

// NewClient creates a Slides client on top of an authenticated HTTP client.
func NewClient(ctx context.Context, httpClient *http.Client, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := slides.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Slides service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// GetPresentation returns the text summary of a presentation.
func (c *Client) GetPresentation(ctx context.Context, presentationID string) (*Presentation, error) {
	if presentationID == "" {
		return nil, fmt.Errorf("presentationID is required")
	}
	p, err := c.svc.Presentations.Get(presentationID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get presentation %s: %w", presentationID, err)
	}
	return Summarize(p), nil
}

// ReplaceAllText replaces every occurrence of each pair across all slides
// in one batch.
func (c *Client) ReplaceAllText(ctx context.Context, presentationID string, replacements []TextReplacement) (*ReplaceAllResult, error) {
	if len(replacements) == 0 {
		return nil, ErrNoReplacements
	}
	if presentationID == "" {
		return nil, fmt.Errorf("presentationID is required")
	}
	reqs := make([]*slides.Request, 0, len(replacements))
	for _, r := range replacements {
		if r.Find == "" {
			return nil, fmt.Errorf("replacement find text must not be empty")
		}
		reqs = append(reqs, &slides.Request{
			ReplaceAllText: &slides.ReplaceAllTextRequest{
				ContainsText: &slides.SubstringMatchCriteria{Text: r.Find, MatchCase: !r.IgnoreCase},
				ReplaceText:  r.Replace,
			},
		})
	}

	resp, err := c.svc.Presentations.BatchUpdate(presentationID, &slides.BatchUpdatePresentationRequest{Requests: reqs}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to update presentation %s: %w", presentationID, err)
	}

	result := &ReplaceAllResult{PresentationID: presentationID}
	for i, r := range replacements {
		changed := int64(0)
		if i < len(resp.Replies) && resp.Replies[i] != nil && resp.Replies[i].ReplaceAllText != nil {
			changed = resp.Replies[i].ReplaceAllText.OccurrencesChanged
		}
		result.Results = append(result.Results, ReplacementCount{Find: r.Find, OccurrencesChanged: changed})
		result.TotalChanged += changed
	}
	return result, nil
}

// CreatePresentation creates an empty presentation with the given title.
func (c *Client) CreatePresentation(ctx context.Context, title string) (*CreatedPresentation, error) {
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}
	p, err := c.svc.Presentations.Create(&slides.Presentation{Title: title}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create presentation: %w", err)
	}
	return &CreatedPresentation{
		PresentationID: p.PresentationId,
		Title:          p.Title,
		URL:            presentationURL(p.PresentationId),
	}, nil
}
