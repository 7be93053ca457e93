package google

// DefaultOAuthScopes are the Google OAuth scopes requested during consent.
//
// The scopes provide access to:
//   - Google Docs: read and write
//   - Google Slides: read and write
//   - Gmail: read and send
//   - Google Drive: full access (downloads and document creation)
//   - Contacts: read-only (including other contacts and the Workspace directory)
var DefaultOAuthScopes = []string{
	// OpenID Connect scopes (required for user info)
	"openid",
	"https://www.googleapis.com/auth/userinfo.email",

	// Google Docs and Slides
	"https://www.googleapis.com/auth/documents",
	"https://www.googleapis.com/auth/presentations",

	// Gmail scopes
	"https://www.googleapis.com/auth/gmail.readonly",
	"https://www.googleapis.com/auth/gmail.send",

	// Google Drive scope
	"https://www.googleapis.com/auth/drive",

	// Contacts scopes
	"https://www.googleapis.com/auth/contacts.readonly",
	"https://www.googleapis.com/auth/contacts.other.readonly",
	"https://www.googleapis.com/auth/directory.readonly",
}

// ReadOnlyOAuthScopes are requested when the server runs in read-only mode.
var ReadOnlyOAuthScopes = []string{
	"openid",
	"https://www.googleapis.com/auth/userinfo.email",
	"https://www.googleapis.com/auth/documents.readonly",
	"https://www.googleapis.com/auth/presentations.readonly",
	"https://www.googleapis.com/auth/gmail.readonly",
	"https://www.googleapis.com/auth/drive.readonly",
	"https://www.googleapis.com/auth/contacts.readonly",
	"https://www.googleapis.com/auth/contacts.other.readonly",
	"https://www.googleapis.com/auth/directory.readonly",
}

// Scopes returns the scope set for the given mode.
func Scopes(readOnly bool) []string {
	if readOnly {
		return ReadOnlyOAuthScopes
	}
	return DefaultOAuthScopes
}
