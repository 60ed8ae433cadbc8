// Package authflow drives the OAuth2 authorization-code flow against the Oura
// cloud: it builds the consent URL a user is sent to and exchanges the
// resulting code, or the full callback URL, for a token.
package authflow

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-oura-client/authflowrepo"
	"github.com/jrsteele09/go-oura-client/internal/config"
	ouraerrors "github.com/jrsteele09/go-oura-client/internal/errors"
	"github.com/jrsteele09/go-oura-client/oauthmodel"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Config holds the registered application's credentials and the vendor
// endpoints. It is copied on New and never changed afterwards.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	AuthURL      string
	TokenURL     string

	// Scopes is the default scope set, used when AuthorizationURL is called
	// without an override.
	Scopes []string

	// AuthCodeTimeout bounds how long an issued state is accepted on the
	// callback. Zero disables the check.
	AuthCodeTimeout time.Duration

	// HTTPClient is used for the token request. Nil means http.DefaultClient.
	HTTPClient *http.Client
}

// ConfigFrom builds a Config from the application configuration.
func ConfigFrom(c config.OAuthConfig) Config {
	return Config{
		ClientID:        c.GetClientID(),
		ClientSecret:    c.GetClientSecret(),
		RedirectURI:     c.GetRedirectURI(),
		AuthURL:         c.GetAuthURL(),
		TokenURL:        c.GetTokenURL(),
		Scopes:          c.GetScopes(),
		AuthCodeTimeout: c.GetAuthCodeTimeout(),
	}
}

// Flow builds authorization URLs and exchanges codes for tokens.
type Flow struct {
	oauth      oauth2.Config
	scopes     []string
	states     authflowrepo.Repo
	ttl        time.Duration
	httpClient *http.Client
}

// New validates cfg and returns a Flow. A nil states repo defaults to an
// in-memory one.
func New(cfg Config, states authflowrepo.Repo) (*Flow, error) {
	if cfg.ClientID == "" {
		return nil, ouraerrors.Invalidf("client id is required")
	}
	if cfg.AuthURL == "" || cfg.TokenURL == "" {
		return nil, ouraerrors.Invalidf("auth url and token url are required")
	}
	if states == nil {
		states = authflowrepo.NewInMemoryRepo()
	}

	return &Flow{
		oauth: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthURL,
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		scopes:     append([]string(nil), cfg.Scopes...),
		states:     states,
		ttl:        cfg.AuthCodeTimeout,
		httpClient: cfg.HTTPClient,
	}, nil
}

// DefaultScopes returns a copy of the scope set used when no override is given.
func (f *Flow) DefaultScopes() []string {
	return append([]string(nil), f.scopes...)
}

// AuthorizationURL returns the URL to send the user to for consent, and the
// state value embedded in it. scopes overrides the default scope set when
// non-empty. The state is remembered so the callback can be verified.
func (f *Flow) AuthorizationURL(scopes ...string) (authURL string, state string, err error) {
	if len(scopes) == 0 {
		scopes = f.scopes
	}

	now := NowTimeFunc()
	if f.ttl > 0 {
		if n := f.states.Purge(now.Add(-f.ttl)); n > 0 {
			log.Debug().Int("purged", n).Msg("expired authorization states dropped")
		}
	}

	state = uuid.New().String()
	if err := f.states.Upsert(state, &authflowrepo.AuthFlowState{
		Scopes:    scopes,
		CreatedAt: now,
	}); err != nil {
		return "", "", fmt.Errorf("[authflow AuthorizationURL] storing state: %w", err)
	}

	cfg := f.oauth
	cfg.Scopes = append([]string(nil), scopes...)

	log.Debug().Str("client_id", f.oauth.ClientID).Strs("scopes", cfg.Scopes).Msg("authorization url built")
	return cfg.AuthCodeURL(state), state, nil
}

// ExchangeToken trades the authorization for a token. Exactly one of
// callbackURL (the full redirect URL, state verified) or code (a bare
// authorization code) must be set; anything else fails without I/O.
func (f *Flow) ExchangeToken(ctx context.Context, callbackURL, code string) (*oauth2.Token, error) {
	switch {
	case callbackURL != "" && code != "":
		return nil, ouraerrors.Invalidf("provide either a callback url or a code, not both")
	case callbackURL == "" && code == "":
		return nil, ouraerrors.Invalidf("a callback url or a code is required")
	}

	var requested []string
	if callbackURL != "" {
		authState, c, err := f.verifyCallback(callbackURL)
		if err != nil {
			return nil, err
		}
		code, requested = c, authState.Scopes
	}

	return f.exchange(ctx, code, requested)
}

// verifyCallback consumes the pending state named by the callback and
// returns it with the authorization code.
func (f *Flow) verifyCallback(callbackURL string) (*authflowrepo.AuthFlowState, string, error) {
	params, err := oauthmodel.ParseCallbackURL(callbackURL)
	if err != nil {
		return nil, "", ouraerrors.Invalidf("callback url: %v", err)
	}
	if err := params.Validate(); err != nil {
		return nil, "", fmt.Errorf("%w: %w", ouraerrors.ErrAuthorization, err)
	}

	authState, err := f.states.Take(params.State)
	if err != nil {
		log.Warn().Str("client_id", f.oauth.ClientID).Msg("callback state not recognised")
		return nil, "", fmt.Errorf("%w: %w", ouraerrors.ErrAuthorization, ouraerrors.ErrStateMismatch)
	}
	if authState.Expired(NowTimeFunc(), f.ttl) {
		return nil, "", fmt.Errorf("%w: %w", ouraerrors.ErrAuthorization, ouraerrors.ErrStateExpired)
	}
	return authState, params.Code, nil
}

// exchange redeems code. requested is the scope set the consent URL asked
// for, nil for a bare code.
func (f *Flow) exchange(ctx context.Context, code string, requested []string) (*oauth2.Token, error) {
	if f.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, f.httpClient)
	}

	tok, err := f.oauth.Exchange(ctx, code)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if ouraerrors.As(err, &retrieveErr) {
			return nil, fmt.Errorf("%w: %w", ouraerrors.ErrAuthorization, err)
		}
		return nil, fmt.Errorf("%w: %w", ouraerrors.ErrTransport, err)
	}

	event := log.Debug().Str("client_id", f.oauth.ClientID).Time("expiry", tok.Expiry)
	if requested != nil {
		event = event.Strs("requested_scopes", requested)
	}
	if granted, ok := tok.Extra("scope").(string); ok {
		event = event.Str("granted_scope", granted)
	}
	event.Msg("authorization code exchanged")
	return tok, nil
}
