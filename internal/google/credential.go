package google

import (
	"time"

	"golang.org/x/oauth2"
)

// Credential is the persisted OAuth2 credential record for the single local
// Google account. Empty fields mean "not known".
type Credential struct {
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	// ExpiryDate is the access token expiry in milliseconds since the Unix epoch.
	ExpiryDate int64  `json:"expiry_date,omitempty"`
	Scope      string `json:"scope,omitempty"`
	TokenType  string `json:"token_type,omitempty"`
	IDToken    string `json:"id_token,omitempty"`
}

// Expiry returns the access token expiry, or the zero time when unknown.
func (c Credential) Expiry() time.Time {
	if c.ExpiryDate == 0 {
		return time.Time{}
	}
	return time.UnixMilli(c.ExpiryDate)
}

// IsZero reports whether the credential carries no tokens at all.
func (c Credential) IsZero() bool {
	return c.AccessToken == "" && c.RefreshToken == ""
}

// ExpiresWithin reports whether the access token is missing, expired, or
// expires within margin of now. A credential without a known expiry is
// treated as valid as long as it has an access token.
func (c Credential) ExpiresWithin(now time.Time, margin time.Duration) bool {
	if c.AccessToken == "" {
		return true
	}
	if c.ExpiryDate == 0 {
		return false
	}
	return !now.Add(margin).Before(c.Expiry())
}

// Token converts the credential into an oauth2.Token for use by HTTP transports.
func (c Credential) Token() *oauth2.Token {
	tokenType := c.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}
	tok := &oauth2.Token{
		AccessToken:  c.AccessToken,
		TokenType:    tokenType,
		RefreshToken: c.RefreshToken,
		Expiry:       c.Expiry(),
	}
	extra := map[string]interface{}{}
	if c.Scope != "" {
		extra["scope"] = c.Scope
	}
	if c.IDToken != "" {
		extra["id_token"] = c.IDToken
	}
	if len(extra) == 0 {
		return tok
	}
	return tok.WithExtra(extra)
}

// CredentialFromToken copies an oauth2.Token into a Credential snapshot.
// The returned value shares no state with t, so later mutations of t by the
// oauth2 library are not observed.
func CredentialFromToken(t *oauth2.Token) Credential {
	if t == nil {
		return Credential{}
	}
	c := Credential{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
	}
	if !t.Expiry.IsZero() {
		c.ExpiryDate = t.Expiry.UnixMilli()
	}
	if scope, ok := t.Extra("scope").(string); ok {
		c.Scope = scope
	}
	if idToken, ok := t.Extra("id_token").(string); ok {
		c.IDToken = idToken
	}
	return c
}

// MergeCredential layers update on top of prev. Every field set in update
// wins, except that an update without a refresh token keeps the refresh
// token of prev: once observed, a refresh token is never dropped.
func MergeCredential(prev, update Credential) Credential {
	merged := prev
	if update.AccessToken != "" {
		merged.AccessToken = update.AccessToken
	}
	if update.ExpiryDate != 0 {
		merged.ExpiryDate = update.ExpiryDate
	}
	if update.Scope != "" {
		merged.Scope = update.Scope
	}
	if update.TokenType != "" {
		merged.TokenType = update.TokenType
	}
	if update.IDToken != "" {
		merged.IDToken = update.IDToken
	}
	if update.RefreshToken != "" {
		merged.RefreshToken = update.RefreshToken
	}
	return merged
}
