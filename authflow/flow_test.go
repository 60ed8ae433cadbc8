package authflow_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jrsteele09/go-oura-client/authflow"
	"github.com/jrsteele09/go-oura-client/authflowrepo"
	"github.com/jrsteele09/go-oura-client/oauthmodel"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	ouraerrors "github.com/jrsteele09/go-oura-client/internal/errors"
	"github.com/stretchr/testify/require"
)

const (
	testClientID     = "test-client-1"
	testClientSecret = "test-secret-1"
	testRedirectURI  = "http://127.0.0.1:5353/callback"
	testGoodCode     = "good-code"
)

type fakeVendor struct {
	server   *httptest.Server
	requests atomic.Int32
	lastForm url.Values
}

func newFakeVendor(t *testing.T) *fakeVendor {
	t.Helper()
	v := &fakeVendor{}
	v.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v.requests.Add(1)
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/oauth/token", r.URL.Path)
		require.NoError(t, r.ParseForm())
		v.lastForm = r.PostForm

		w.Header().Set("Content-Type", "application/json")
		if r.PostForm.Get(oauthmodel.ParamCode) != testGoodCode {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_grant"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "access-1",
			"token_type":    "bearer",
			"refresh_token": "refresh-1",
			"expires_in":    86400,
		})
	}))
	t.Cleanup(v.server.Close)
	return v
}

func newFlow(t *testing.T, tokenURL string) *authflow.Flow {
	t.Helper()
	flow, err := authflow.New(authflow.Config{
		ClientID:        testClientID,
		ClientSecret:    testClientSecret,
		RedirectURI:     testRedirectURI,
		AuthURL:         "https://cloud.example.com/oauth/authorize",
		TokenURL:        tokenURL,
		Scopes:          []string{"email", "personal", "daily"},
		AuthCodeTimeout: 15 * time.Minute,
	}, nil)
	require.NoError(t, err)
	return flow
}

func TestNewValidation(t *testing.T) {
	_, err := authflow.New(authflow.Config{AuthURL: "a", TokenURL: "b"}, nil)
	require.ErrorIs(t, err, ouraerrors.ErrInvalidRequest)

	_, err = authflow.New(authflow.Config{ClientID: "c"}, nil)
	require.ErrorIs(t, err, ouraerrors.ErrInvalidRequest)
}

func TestAuthorizationURL(t *testing.T) {
	flow := newFlow(t, "https://api.example.com/oauth/token")

	tests := []struct {
		name      string
		scopes    []string
		wantScope string
	}{
		{name: "default scope", scopes: nil, wantScope: "email personal daily"},
		{name: "override", scopes: []string{"daily"}, wantScope: "daily"},
		{name: "override several", scopes: []string{"heartrate", "workout"}, wantScope: "heartrate workout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authURL, state, err := flow.AuthorizationURL(tt.scopes...)
			require.NoError(t, err)
			require.NotEmpty(t, state)

			u, err := url.Parse(authURL)
			require.NoError(t, err)
			require.Equal(t, "cloud.example.com", u.Host)
			require.Equal(t, "/oauth/authorize", u.Path)

			q := u.Query()
			require.Equal(t, tt.wantScope, q.Get(oauthmodel.ParamScope))
			require.Equal(t, testClientID, q.Get(oauthmodel.ParamClientID))
			require.Equal(t, testRedirectURI, q.Get(oauthmodel.ParamRedirectURI))
			require.Equal(t, string(oauthmodel.CodeResponseType), q.Get(oauthmodel.ParamResponseType))
			require.Equal(t, state, q.Get(oauthmodel.ParamState))
			require.NotContains(t, authURL, testClientSecret)
		})
	}

	// Overrides never leak into the default
	require.Equal(t, []string{"email", "personal", "daily"}, flow.DefaultScopes())
}

func TestAuthorizationURLStatesAreUnique(t *testing.T) {
	flow := newFlow(t, "https://api.example.com/oauth/token")

	_, s1, err := flow.AuthorizationURL()
	require.NoError(t, err)
	_, s2, err := flow.AuthorizationURL()
	require.NoError(t, err)
	require.NotEqual(t, s1, s2)
}

func TestExchangeTokenArgumentErrors(t *testing.T) {
	vendor := newFakeVendor(t)
	flow := newFlow(t, vendor.server.URL+"/oauth/token")

	_, err := flow.ExchangeToken(context.Background(), "", "")
	require.ErrorIs(t, err, ouraerrors.ErrInvalidRequest)

	_, err = flow.ExchangeToken(context.Background(), testRedirectURI+"?code=x&state=y", testGoodCode)
	require.ErrorIs(t, err, ouraerrors.ErrInvalidRequest)

	require.Zero(t, vendor.requests.Load())
}

func TestExchangeTokenWithCode(t *testing.T) {
	vendor := newFakeVendor(t)
	flow := newFlow(t, vendor.server.URL+"/oauth/token")

	tok, err := flow.ExchangeToken(context.Background(), "", testGoodCode)
	require.NoError(t, err)
	require.Equal(t, "access-1", tok.AccessToken)
	require.Equal(t, "refresh-1", tok.RefreshToken)
	require.True(t, tok.Expiry.After(time.Now()))

	require.EqualValues(t, 1, vendor.requests.Load())
	require.Equal(t, string(oauthmodel.AuthorizationCodeGrant), vendor.lastForm.Get(oauthmodel.ParamGrantType))
	require.Equal(t, testRedirectURI, vendor.lastForm.Get(oauthmodel.ParamRedirectURI))
	require.Equal(t, testClientID, vendor.lastForm.Get(oauthmodel.ParamClientID))
	require.Equal(t, testClientSecret, vendor.lastForm.Get(oauthmodel.ParamClientSecret))
}

func TestExchangeTokenWithCallbackURL(t *testing.T) {
	vendor := newFakeVendor(t)
	flow := newFlow(t, vendor.server.URL+"/oauth/token")

	_, state, err := flow.AuthorizationURL()
	require.NoError(t, err)

	callback := testRedirectURI + "?code=" + testGoodCode + "&state=" + state
	tok, err := flow.ExchangeToken(context.Background(), callback, "")
	require.NoError(t, err)
	require.Equal(t, "access-1", tok.AccessToken)

	// The state is consumed: replaying the callback is rejected without I/O
	_, err = flow.ExchangeToken(context.Background(), callback, "")
	require.ErrorIs(t, err, ouraerrors.ErrAuthorization)
	require.ErrorIs(t, err, ouraerrors.ErrStateMismatch)
	require.EqualValues(t, 1, vendor.requests.Load())
}

func TestExchangeTokenCallbackFailures(t *testing.T) {
	vendor := newFakeVendor(t)
	flow := newFlow(t, vendor.server.URL+"/oauth/token")

	tests := []struct {
		name     string
		callback string
	}{
		{name: "unknown state", callback: testRedirectURI + "?code=" + testGoodCode + "&state=forged"},
		{name: "vendor error", callback: testRedirectURI + "?error=access_denied&state=whatever"},
		{name: "missing code", callback: testRedirectURI + "?state=whatever"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := flow.ExchangeToken(context.Background(), tt.callback, "")
			require.ErrorIs(t, err, ouraerrors.ErrAuthorization)
		})
	}
	require.Zero(t, vendor.requests.Load())
}

func TestExchangeTokenExpiredState(t *testing.T) {
	vendor := newFakeVendor(t)
	flow := newFlow(t, vendor.server.URL+"/oauth/token")

	issued := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)
	authflow.NowTimeFunc = func() time.Time { return issued }
	t.Cleanup(func() { authflow.NowTimeFunc = time.Now })

	_, state, err := flow.AuthorizationURL()
	require.NoError(t, err)

	authflow.NowTimeFunc = func() time.Time { return issued.Add(time.Hour) }
	_, err = flow.ExchangeToken(context.Background(), testRedirectURI+"?code="+testGoodCode+"&state="+state, "")
	require.ErrorIs(t, err, ouraerrors.ErrStateExpired)
	require.Zero(t, vendor.requests.Load())
}

func TestExchangeTokenRejectedCode(t *testing.T) {
	vendor := newFakeVendor(t)
	flow := newFlow(t, vendor.server.URL+"/oauth/token")

	_, err := flow.ExchangeToken(context.Background(), "", "expired-code")
	require.ErrorIs(t, err, ouraerrors.ErrAuthorization)
	require.True(t, strings.Contains(err.Error(), "invalid_grant"))
	require.EqualValues(t, 1, vendor.requests.Load())
}

func TestExchangeTokenTransportFailure(t *testing.T) {
	vendor := newFakeVendor(t)
	tokenURL := vendor.server.URL + "/oauth/token"
	vendor.server.Close()

	flow := newFlow(t, tokenURL)
	_, err := flow.ExchangeToken(context.Background(), "", testGoodCode)
	require.ErrorIs(t, err, ouraerrors.ErrTransport)
	require.NotErrorIs(t, err, ouraerrors.ErrAuthorization)
}

func TestAuthorizationURLPurgesExpiredStates(t *testing.T) {
	issued := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)
	authflow.NowTimeFunc = func() time.Time { return issued }
	t.Cleanup(func() { authflow.NowTimeFunc = time.Now })

	states := authflowrepo.NewInMemoryRepo()
	flow, err := authflow.New(authflow.Config{
		ClientID:        testClientID,
		AuthURL:         "https://cloud.example.com/oauth/authorize",
		TokenURL:        "https://api.example.com/oauth/token",
		AuthCodeTimeout: 15 * time.Minute,
	}, states)
	require.NoError(t, err)

	_, _, err = flow.AuthorizationURL()
	require.NoError(t, err)
	_, _, err = flow.AuthorizationURL()
	require.NoError(t, err)
	require.Equal(t, 2, states.Len())

	authflow.NowTimeFunc = func() time.Time { return issued.Add(time.Hour) }
	_, fresh, err := flow.AuthorizationURL()
	require.NoError(t, err)
	require.Equal(t, 1, states.Len())

	_, err = states.Take(fresh)
	require.NoError(t, err)
}

func TestExchangeTokenLogsRequestedScopes(t *testing.T) {
	var buf bytes.Buffer
	orig := log.Logger
	log.Logger = zerolog.New(&buf).Level(zerolog.DebugLevel)
	t.Cleanup(func() { log.Logger = orig })

	vendor := newFakeVendor(t)
	flow := newFlow(t, vendor.server.URL+"/oauth/token")

	_, state, err := flow.AuthorizationURL("email", "heartrate")
	require.NoError(t, err)

	callback := testRedirectURI + "?code=" + testGoodCode + "&state=" + state
	_, err = flow.ExchangeToken(context.Background(), callback, "")
	require.NoError(t, err)
	require.Contains(t, buf.String(), `"requested_scopes":["email","heartrate"]`)
}
