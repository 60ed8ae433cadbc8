package token

import (
	"strings"
	"time"

	"github.com/jrsteele09/go-oura-client/internal/utils"
	"golang.org/x/oauth2"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Token is the persistable form of an Oura token, in the shape the token
// endpoint returns it plus the absolute expiry.
type Token struct {
	// AccessToken is sent as "Authorization: Bearer <access_token>".
	AccessToken string `json:"access_token"`

	// TokenType is "bearer" for Oura.
	TokenType string `json:"token_type,omitempty"`

	// RefreshToken is exchanged at the token endpoint with
	// grant_type=refresh_token once the access token expires.
	// Security: Should be stored securely, may rotate on each use
	RefreshToken string `json:"refresh_token,omitempty"`

	// ExpiresIn is the lifetime in seconds reported by the token endpoint.
	ExpiresIn int64 `json:"expires_in,omitempty"`

	// Expiry is the absolute expiry. Zero means the token does not expire
	// locally and is only refreshed when the API answers 401.
	Expiry time.Time `json:"expiry"`

	// Scope is the space separated list of granted scopes, when reported.
	Scope string `json:"scope,omitempty"`
}

// FromOAuth2 converts an oauth2 token into its persistable form.
func FromOAuth2(t *oauth2.Token) Token {
	if t == nil {
		return Token{}
	}
	out := Token{
		AccessToken:  t.AccessToken,
		TokenType:    t.TokenType,
		RefreshToken: t.RefreshToken,
		ExpiresIn:    t.ExpiresIn,
		Expiry:       t.Expiry,
	}
	switch scope := t.Extra("scope").(type) {
	case string:
		out.Scope = scope
	case []any:
		out.Scope = strings.Join(utils.ToStringSlice(scope), " ")
	}
	return out
}

// OAuth2 converts back to an oauth2 token. When only ExpiresIn is known the
// expiry is counted from now.
func (t Token) OAuth2() *oauth2.Token {
	expiry := t.Expiry
	if expiry.IsZero() && t.ExpiresIn > 0 {
		expiry = NowTimeFunc().Add(time.Duration(t.ExpiresIn) * time.Second)
	}
	tok := &oauth2.Token{
		AccessToken:  t.AccessToken,
		TokenType:    t.TokenType,
		RefreshToken: t.RefreshToken,
		ExpiresIn:    t.ExpiresIn,
		Expiry:       expiry,
	}
	if t.Scope != "" {
		tok = tok.WithExtra(map[string]any{"scope": t.Scope})
	}
	return tok
}
