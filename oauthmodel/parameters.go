package oauthmodel

// Query and form parameter names used on the authorize and token endpoints.
const (
	ParamClientID         = "client_id"
	ParamClientSecret     = "client_secret"
	ParamRedirectURI      = "redirect_uri"
	ParamResponseType     = "response_type"
	ParamScope            = "scope"
	ParamState            = "state"
	ParamCode             = "code"
	ParamGrantType        = "grant_type"
	ParamRefreshToken     = "refresh_token"
	ParamError            = "error"
	ParamErrorDescription = "error_description"
)

// ResponseType represents the OAuth 2.0 response type.
type ResponseType string

const (
	// CodeResponseType indicates the authorization code flow.
	// Example: /oauth/authorize?response_type=code&client_id=...
	CodeResponseType ResponseType = "code"
)

// GrantType represents the OAuth 2.0 grant type used at the token endpoint.
type GrantType string

const (
	// AuthorizationCodeGrant exchanges an authorization code for tokens.
	// Token request includes: code, redirect_uri, client_id, client_secret
	AuthorizationCodeGrant GrantType = "authorization_code"

	// RefreshTokenGrant exchanges a refresh token for new tokens.
	// Token request includes: refresh_token, client_id, client_secret
	// Returns: new access_token and usually a rotated refresh_token
	RefreshTokenGrant GrantType = "refresh_token"
)
