package people

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/option"
	people "google.golang.org/api/people/v1"
)

const (
	readMask       = "names,emailAddresses,phoneNumbers"
	profileFields  = "names,emailAddresses,phoneNumbers,organizations,photos"
	defaultResults = 10
	// maxOtherContactPages bounds the client-side scan of other contacts,
	// which the API cannot filter by query.
	maxOtherContactPages = 10
)

// Contact represents a simplified contact entry
type Contact struct {
	ResourceName string `json:"resourceName"`
	DisplayName  string `json:"displayName,omitempty"`
	EmailAddress string `json:"emailAddress,omitempty"`
	PhoneNumber  string `json:"phoneNumber,omitempty"`
	Organization string `json:"organization,omitempty"`
	Source       string `json:"source,omitempty"`
}

// Contact sources.
const (
	SourceContacts  = "contacts"
	SourceOther     = "other"
	SourceDirectory = "directory"
)

// ConnectionsPage is one page of the user's saved contacts.
type ConnectionsPage struct {
	Contacts      []*Contact `json:"contacts"`
	NextPageToken string     `json:"nextPageToken,omitempty"`
	TotalItems    int64      `json:"totalItems"`
}

// Client wraps the People service
type Client struct {
	svc *people.Service
}

// NewClient creates a People client on top of an authenticated HTTP client.
func NewClient(ctx context.Context, httpClient *http.Client, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := people.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create People service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// SearchContacts searches for contacts across all sources (personal, other
// contacts and directory) and returns at most pageSize of them.
// A failing source is skipped; consumer accounts have no directory. The
// search fails only when every source fails.
func (c *Client) SearchContacts(ctx context.Context, query string, pageSize int) ([]*Contact, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query is required")
	}
	if pageSize <= 0 {
		pageSize = defaultResults
	}

	var all []*Contact
	seen := make(map[string]bool)
	add := func(contact *Contact) {
		if contact == nil || contact.EmailAddress == "" {
			return
		}
		key := strings.ToLower(contact.EmailAddress)
		if seen[key] {
			return
		}
		seen[key] = true
		all = append(all, contact)
	}

	var firstErr error
	failed := 0
	fail := func(err error) {
		if firstErr == nil {
			firstErr = err
		}
		failed++
	}

	resp, err := c.svc.People.SearchContacts().
		Context(ctx).
		Query(query).
		ReadMask(readMask).
		PageSize(int64(pageSize * 2)).
		Do()
	if err == nil {
		for _, result := range resp.Results {
			add(extractContact(result.Person, SourceContacts))
		}
	} else {
		fail(err)
	}

	queryLower := strings.ToLower(query)
	pageToken := ""
	for page := 0; page < maxOtherContactPages && len(all) < pageSize; page++ {
		req := c.svc.OtherContacts.List().Context(ctx).ReadMask(readMask).PageSize(100)
		if pageToken != "" {
			req = req.PageToken(pageToken)
		}
		otherResp, err := req.Do()
		if err != nil {
			if page == 0 {
				fail(err)
			}
			break
		}
		for _, person := range otherResp.OtherContacts {
			if contact := extractContact(person, SourceOther); contact != nil && matchesQuery(contact, queryLower) {
				add(contact)
			}
		}
		pageToken = otherResp.NextPageToken
		if pageToken == "" {
			break
		}
	}

	dirResp, err := c.svc.People.SearchDirectoryPeople().
		Context(ctx).
		Query(query).
		ReadMask(readMask).
		Sources("DIRECTORY_SOURCE_TYPE_DOMAIN_PROFILE", "DIRECTORY_SOURCE_TYPE_DOMAIN_CONTACT").
		PageSize(int64(pageSize * 2)).
		Do()
	if err == nil {
		for _, person := range dirResp.People {
			add(extractContact(person, SourceDirectory))
		}
	} else {
		fail(err)
	}

	if failed == 3 {
		return nil, fmt.Errorf("failed to search contacts: %w", firstErr)
	}

	if len(all) > pageSize {
		all = all[:pageSize]
	}
	return all, nil
}

// ListConnections returns one page of the user's saved contacts, sorted by
// last name.
func (c *Client) ListConnections(ctx context.Context, pageSize int, pageToken string) (*ConnectionsPage, error) {
	if pageSize <= 0 {
		pageSize = 100
	}
	req := c.svc.People.Connections.List("people/me").
		Context(ctx).
		PersonFields(readMask).
		SortOrder("LAST_NAME_ASCENDING").
		PageSize(int64(min(pageSize, 1000)))
	if pageToken != "" {
		req = req.PageToken(pageToken)
	}
	resp, err := req.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}

	page := &ConnectionsPage{
		Contacts:      make([]*Contact, 0, len(resp.Connections)),
		NextPageToken: resp.NextPageToken,
		TotalItems:    resp.TotalItems,
	}
	for _, person := range resp.Connections {
		if contact := extractContact(person, SourceContacts); contact != nil {
			page.Contacts = append(page.Contacts, contact)
		}
	}
	return page, nil
}

// GetMe returns the authenticated user's own profile.
func (c *Client) GetMe(ctx context.Context) (*Contact, error) {
	person, err := c.svc.People.Get("people/me").Context(ctx).PersonFields(profileFields).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	contact := extractContact(person, "")
	if contact == nil {
		return &Contact{ResourceName: person.ResourceName}, nil
	}
	return contact, nil
}

// extractContact extracts contact information from a Person object
func extractContact(person *people.Person, source string) *Contact {
	if person == nil {
		return nil
	}

	contact := &Contact{
		ResourceName: person.ResourceName,
		DisplayName:  primaryName(person.Names),
		EmailAddress: primaryEmail(person.EmailAddresses),
		Source:       source,
	}
	if len(person.PhoneNumbers) > 0 {
		contact.PhoneNumber = person.PhoneNumbers[0].Value
	}
	if len(person.Organizations) > 0 {
		contact.Organization = person.Organizations[0].Name
	}

	// Skip contacts without any useful information
	if contact.DisplayName == "" && contact.EmailAddress == "" && contact.PhoneNumber == "" {
		return nil
	}
	return contact
}

func primaryName(names []*people.Name) string {
	for _, n := range names {
		if n.Metadata != nil && n.Metadata.Primary {
			return n.DisplayName
		}
	}
	if len(names) > 0 {
		return names[0].DisplayName
	}
	return ""
}

func primaryEmail(emails []*people.EmailAddress) string {
	for _, e := range emails {
		if e.Metadata != nil && e.Metadata.Primary {
			return e.Value
		}
	}
	if len(emails) > 0 {
		return emails[0].Value
	}
	return ""
}

// matchesQuery checks if a contact matches the search query
func matchesQuery(contact *Contact, queryLower string) bool {
	if queryLower == "" {
		return true
	}
	return strings.Contains(strings.ToLower(contact.DisplayName), queryLower) ||
		strings.Contains(strings.ToLower(contact.EmailAddress), queryLower) ||
		strings.Contains(contact.PhoneNumber, queryLower)
}
