// Package server receives the vendor's redirect after the user has granted
// consent and completes the token exchange.
package server

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/jrsteele09/go-oura-client/internal/ui"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// Exchanger turns a callback URL into a token. *authflow.Flow implements it.
type Exchanger interface {
	ExchangeToken(ctx context.Context, callbackURL, code string) (*oauth2.Token, error)
}

// result is the outcome of one callback.
type result struct {
	Token *oauth2.Token
	Err   error
}

type Server struct {
	env         string // Environment (e.g., "DEV", "PROD")
	mux         *http.ServeMux
	routes      []string
	flow        Exchanger
	redirectURL *url.URL
	results     chan result
}

// New returns a Server answering on the path of redirectURI.
func New(env, redirectURI string, flow Exchanger) (*Server, error) {
	u, err := url.Parse(redirectURI)
	if err != nil {
		return nil, fmt.Errorf("[Server New] invalid redirect uri: %w", err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("[Server New] redirect uri %q has no host", redirectURI)
	}
	if u.Path == "" {
		u.Path = "/"
	}

	s := &Server{
		env:         env,
		mux:         http.NewServeMux(),
		flow:        flow,
		redirectURL: u,
		results:     make(chan result, 1),
	}

	s.initRoutes()
	s.logRoutes()
	return s, nil
}

func (s *Server) initRoutes() {
	callback := ChainMiddleware(s.OAuthCallbackHandler(), s.LoggingMiddleware, s.RecoverMiddleware)
	s.RegisterRouteFunc("GET "+s.redirectURL.Path, callback)
	s.RegisterRouteFunc("POST "+s.redirectURL.Path, callback) // For form_post response mode
}

// Addr is the host:port the redirect URI points at.
func (s *Server) Addr() string {
	return s.redirectURL.Host
}

// WaitForToken blocks until a callback has been handled or ctx is done.
func (s *Server) WaitForToken(ctx context.Context) (*oauth2.Token, error) {
	select {
	case res := <-s.results:
		return res.Token, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	log.Printf("[%-19s] %s", ui.Method(method), path)
}
