// Package google provides OAuth2 authentication for Google APIs on behalf of
// a single local user.
//
// The Manager owns the in-memory credential and a lazily constructed HTTP
// client. Tokens are refreshed in three ways:
//
//   - proactively, when Client is asked for a client whose token expires
//     within the configured margin;
//   - reactively, by the client's token source when a request finds the
//     token expired;
//   - manually, through Manager.RefreshToken.
//
// Every new token flows through one merge path that keeps the previously
// seen refresh token when a refresh response omits it, and persists the
// merged record to the configured CredentialStore. Concurrent refreshes are
// collapsed into a single upstream exchange.
//
// Credentials are stored in the OS keyring with an AES-GCM encrypted file
// fallback for headless hosts.
package google
