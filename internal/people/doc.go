// Package people provides a Google People API client for looking up
// contacts and the authenticated user's own profile.
//
// SearchContacts merges three sources: saved contacts, "other contacts"
// (addresses the user has corresponded with) and, for Workspace accounts,
// the domain directory. Results are de-duplicated by email address.
package people
