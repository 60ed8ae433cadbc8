package config

import (
	"strings"
	"time"
)

const (
	clientIDVar     = "OURA_CLIENT_ID"
	clientSecretVar = "OURA_CLIENT_SECRET"
	redirectURIVar  = "OURA_REDIRECT_URI"
	authURLVar      = "OURA_AUTH_URL"
	tokenURLVar     = "OURA_TOKEN_URL"
	apiURLVar       = "OURA_API_URL"
	scopesVar       = "OURA_SCOPES"
)

const (
	DefaultAuthURL     = "https://cloud.ouraring.com/oauth/authorize"
	DefaultTokenURL    = "https://api.ouraring.com/oauth/token" //nolint:gosec // endpoint, not a credential
	DefaultAPIURL      = "https://api.ouraring.com"
	DefaultRedirectURI = "http://127.0.0.1:5353/callback"
)

// DefaultScopes are requested when neither the caller nor the config names any.
var DefaultScopes = []string{"email", "personal", "daily"}

type OAuth struct {
	file *fileValues
}

var _ OAuthConfig = OAuth{}

func (o OAuth) GetClientID() string {
	return lookup(clientIDVar, o.file.oauth().ClientID, "")
}

func (o OAuth) GetClientSecret() string {
	return lookup(clientSecretVar, o.file.oauth().ClientSecret, "")
}

func (o OAuth) GetRedirectURI() string {
	return lookup(redirectURIVar, o.file.oauth().RedirectURI, DefaultRedirectURI)
}

func (o OAuth) GetAuthURL() string {
	return lookup(authURLVar, o.file.oauth().AuthURL, DefaultAuthURL)
}

func (o OAuth) GetTokenURL() string {
	return lookup(tokenURLVar, o.file.oauth().TokenURL, DefaultTokenURL)
}

func (o OAuth) GetAPIURL() string {
	return lookup(apiURLVar, o.file.oauth().APIURL, DefaultAPIURL)
}

// GetScopes reads OURA_SCOPES as a space separated list.
func (o OAuth) GetScopes() []string {
	if v := GetEnv(scopesVar, ""); v != "" {
		return strings.Fields(v)
	}
	if scopes := o.file.oauth().Scopes; len(scopes) > 0 {
		return append([]string(nil), scopes...)
	}
	return append([]string(nil), DefaultScopes...)
}

func (OAuth) GetAuthCodeTimeout() time.Duration {
	return 15 * time.Minute
}
