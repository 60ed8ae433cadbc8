package token

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	ouraerrors "github.com/jrsteele09/go-oura-client/internal/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// Saver is called with the new token every time the working token is
// refreshed, exactly once per refresh. It is the only way a caller learns
// about a refreshed token and must not call back into the Source.
type Saver func(tok *oauth2.Token)

// Source holds the working token and refreshes it against the vendor's token
// endpoint, either because it expired or because the API rejected it.
type Source struct {
	mu         sync.Mutex
	conf       *oauth2.Config
	current    *oauth2.Token
	saver      Saver
	httpClient *http.Client
}

var _ oauth2.TokenSource = (*Source)(nil)

// NewSource returns a Source starting from initial. conf supplies the client
// credentials and the token endpoint used for refreshes. httpClient is used
// for refresh requests and may be nil.
func NewSource(conf *oauth2.Config, initial *oauth2.Token, saver Saver, httpClient *http.Client) *Source {
	return &Source{
		conf:       conf,
		current:    initial,
		saver:      saver,
		httpClient: httpClient,
	}
}

// Token implements oauth2.TokenSource.
func (s *Source) Token() (*oauth2.Token, error) {
	return s.TokenContext(context.Background())
}

// TokenContext returns the working token, refreshing it first if it has
// expired.
func (s *Source) TokenContext(ctx context.Context) (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current.Valid() {
		return s.current, nil
	}
	return s.refreshLocked(ctx)
}

// Refresh forces a refresh of stale. If another caller already replaced
// stale, the newer token is returned without another round trip.
func (s *Source) Refresh(ctx context.Context, stale *oauth2.Token) (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if stale != nil && s.current != nil && s.current.AccessToken != stale.AccessToken {
		return s.current, nil
	}
	return s.refreshLocked(ctx)
}

func (s *Source) refreshLocked(ctx context.Context) (*oauth2.Token, error) {
	if s.current == nil || s.current.RefreshToken == "" {
		return nil, fmt.Errorf("%w: token expired and no refresh token is available", ouraerrors.ErrAuthorization)
	}
	if s.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
	}

	// x/oauth2 keeps the old refresh token when the response has none.
	tok, err := s.conf.TokenSource(ctx, &oauth2.Token{RefreshToken: s.current.RefreshToken}).Token()
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if ouraerrors.As(err, &retrieveErr) {
			return nil, fmt.Errorf("%w: refreshing token: %w", ouraerrors.ErrAuthorization, err)
		}
		return nil, fmt.Errorf("%w: refreshing token: %w", ouraerrors.ErrTransport, err)
	}

	s.current = tok
	log.Debug().Str("client_id", s.conf.ClientID).Time("expiry", tok.Expiry).Msg("token refreshed")

	if s.saver != nil {
		s.saver(tok)
	}
	return tok, nil
}
