package oura

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	ouraerrors "github.com/jrsteele09/go-oura-client/internal/errors"
	"github.com/jrsteele09/go-oura-client/token"
	"github.com/jrsteele09/go-oura-client/transport"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// Config is everything a Client needs. Token, RefreshURL and BaseURL are
// required.
type Config struct {
	ClientID     string
	ClientSecret string

	// Token is the caller's current token. The client works on its own copy.
	Token *oauth2.Token

	// TokenSaver is called once with every refreshed token.
	TokenSaver token.Saver

	// RefreshURL is the token endpoint used for refresh_token grants.
	RefreshURL string

	// BaseURL is the API root, e.g. https://api.ouraring.com.
	BaseURL string

	// Diagnostics receives 401 responses. Nil logs them through zerolog.
	Diagnostics DiagnosticSink

	// HTTPClient supplies the underlying transport and timeout. Nil means
	// http.DefaultTransport and no timeout.
	HTTPClient *http.Client

	// StrictQuery joins start and end with "&" instead of a second "?".
	StrictQuery bool

	// Env enables request logging when set to "DEV".
	Env string
}

// Client issues authenticated GET requests against the Oura API.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	source      *token.Source
	diagnostics DiagnosticSink
	strictQuery bool
}

// NewClient validates cfg and assembles the refreshing HTTP client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Token == nil || cfg.Token.AccessToken == "" {
		return nil, ouraerrors.Invalidf("an access token is required")
	}
	if cfg.BaseURL == "" || cfg.RefreshURL == "" {
		return nil, ouraerrors.Invalidf("base url and refresh url are required")
	}

	base := http.DefaultTransport
	httpClient := &http.Client{}
	if cfg.HTTPClient != nil {
		if cfg.HTTPClient.Transport != nil {
			base = cfg.HTTPClient.Transport
		}
		httpClient.Timeout = cfg.HTTPClient.Timeout
	}

	initial := *cfg.Token
	src := token.NewSource(&oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  cfg.RefreshURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}, &initial, cfg.TokenSaver, cfg.HTTPClient)

	httpClient.Transport = transport.Chain(base,
		transport.WithRefresh(src),
		transport.Logging(cfg.Env),
	)

	diagnostics := cfg.Diagnostics
	if diagnostics == nil {
		diagnostics = LogSink{}
	}

	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:  httpClient,
		source:      src,
		diagnostics: diagnostics,
		strictQuery: cfg.StrictQuery,
	}, nil
}

// GetUserInfo returns the authorised user's personal info.
func (c *Client) GetUserInfo(ctx context.Context) (any, error) {
	return c.Do(ctx, http.MethodGet, c.baseURL+userInfoPath, nil)
}

// GetSleep returns the sleep summaries for the date range. Either date may be
// empty, not both.
func (c *Client) GetSleep(ctx context.Context, start, end string) (any, error) {
	return c.summary(ctx, SummarySleep, start, end)
}

// GetActivity returns the activity summaries for the date range.
func (c *Client) GetActivity(ctx context.Context, start, end string) (any, error) {
	return c.summary(ctx, SummaryActivity, start, end)
}

// GetReadiness returns the readiness summaries for the date range.
func (c *Client) GetReadiness(ctx context.Context, start, end string) (any, error) {
	return c.summary(ctx, SummaryReadiness, start, end)
}

// SummaryURL returns the URL GetSleep, GetActivity and GetReadiness request.
func (c *Client) SummaryURL(summaryType SummaryType, start, end string) (string, error) {
	return SummaryURL(c.baseURL, summaryType, start, end, c.strictQuery)
}

// Token returns the client's working token, refreshed if it had expired.
func (c *Client) Token(ctx context.Context) (*oauth2.Token, error) {
	return c.source.TokenContext(ctx)
}

func (c *Client) summary(ctx context.Context, summaryType SummaryType, start, end string) (any, error) {
	url, err := c.SummaryURL(summaryType, start, end)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, http.MethodGet, url, nil)
}

// Do sends a request to url and decodes the JSON response whatever its
// status. method defaults to GET and a nil body sends none. A 401 is recorded
// on the diagnostic sink before the body is decoded.
//
// The request is only retried after a token refresh if the body can be
// replayed: *bytes.Buffer, *bytes.Reader and *strings.Reader can.
func (c *Client) Do(ctx context.Context, method, url string, body io.Reader) (any, error) {
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, ouraerrors.Invalidf("building request for %s: %v", url, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ouraerrors.Is(err, ouraerrors.ErrAuthorization) || ouraerrors.Is(err, ouraerrors.ErrTransport) {
			return nil, fmt.Errorf("[oura Do] %s %s: %w", method, url, err)
		}
		return nil, fmt.Errorf("%w: %s %s: %w", ouraerrors.ErrTransport, method, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.diagnostics.Record(DiagnosticLabelUnauthorized, fmt.Sprintf("Error %d", resp.StatusCode))
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s response: %w", ouraerrors.ErrTransport, url, err)
	}

	var payload any
	if err := json.Unmarshal(respBody, &payload); err != nil {
		return nil, fmt.Errorf("%w: decoding %s response (status %d): %w", ouraerrors.ErrProtocol, url, resp.StatusCode, err)
	}

	log.Debug().Str("method", method).Str("path", req.URL.Path).Int("status", resp.StatusCode).Msg("oura request complete")
	return payload, nil
}
