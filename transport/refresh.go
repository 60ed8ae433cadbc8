package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// TokenRefresher supplies the bearer token and refreshes it on demand.
// token.Source implements it.
type TokenRefresher interface {
	TokenContext(ctx context.Context) (*oauth2.Token, error)
	Refresh(ctx context.Context, stale *oauth2.Token) (*oauth2.Token, error)
}

// Refresh authorises each request with the current token. When the API
// answers 401 the token is refreshed and the request is sent again, once.
// If the refresh fails the original 401 response is returned.
type Refresh struct {
	Source TokenRefresher
	Base   http.RoundTripper
}

// WithRefresh returns Refresh as a Middleware.
func WithRefresh(src TokenRefresher) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return &Refresh{Source: src, Base: next}
	}
}

func (t *Refresh) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	tok, err := t.Source.TokenContext(ctx)
	if err != nil {
		closeBody(req)
		return nil, err
	}

	rewindable := req.Body == nil || req.Body == http.NoBody || req.GetBody != nil
	resp, err := t.base().RoundTrip(authorise(req, tok, req.Body))
	if err != nil || resp.StatusCode != http.StatusUnauthorized || !rewindable {
		return resp, err
	}

	// Keep the rejected response readable in case the refresh fails
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("reading 401 response: %w", err)
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))

	fresh, err := t.Source.Refresh(ctx, tok)
	if err != nil {
		log.Warn().Err(err).Str("path", req.URL.Path).Msg("token refresh after 401 failed")
		return resp, nil
	}

	retryBody := req.Body
	if req.GetBody != nil {
		if retryBody, err = req.GetBody(); err != nil {
			return nil, fmt.Errorf("rewinding request body: %w", err)
		}
	}
	log.Debug().Str("path", req.URL.Path).Msg("retrying request with refreshed token")
	return t.base().RoundTrip(authorise(req, fresh, retryBody))
}

func (t *Refresh) base() http.RoundTripper {
	if t.Base == nil {
		return http.DefaultTransport
	}
	return t.Base
}

// authorise clones req with body and the token's Authorization header.
// RoundTrippers must not modify the caller's request.
func authorise(req *http.Request, tok *oauth2.Token, body io.ReadCloser) *http.Request {
	r := req.Clone(req.Context())
	r.Body = body
	tok.SetAuthHeader(r)
	return r
}

func closeBody(req *http.Request) {
	if req.Body != nil {
		req.Body.Close()
	}
}
