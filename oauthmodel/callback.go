package oauthmodel

import (
	"fmt"
	"net/url"
)

// CallbackParameters holds what the vendor appends to the redirect URI once
// the user has answered the consent screen.
type CallbackParameters struct {
	// Code is the authorization code to exchange at the token endpoint.
	// Usage: Exchanged once for tokens, then becomes invalid
	Code string

	// State echoes the anti-forgery value sent on the authorize request.
	State string

	// Error and ErrorDescription are set instead of Code when the user
	// denied access or the request was rejected.
	Error            string
	ErrorDescription string
}

// ParseCallbackURL extracts the callback parameters from the full URL the
// vendor redirected to. Parameters are read from the query string.
func ParseCallbackURL(rawURL string) (CallbackParameters, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return CallbackParameters{}, fmt.Errorf("oauthmodel.ParseCallbackURL: %w", err)
	}
	return CallbackFromValues(u.Query()), nil
}

// CallbackFromValues reads callback parameters from already parsed values.
func CallbackFromValues(v url.Values) CallbackParameters {
	return CallbackParameters{
		Code:             v.Get(ParamCode),
		State:            v.Get(ParamState),
		Error:            v.Get(ParamError),
		ErrorDescription: v.Get(ParamErrorDescription),
	}
}

// Validate reports a vendor error first, then missing state or code.
func (p CallbackParameters) Validate() error {
	if p.Error != "" {
		return &ProviderError{Code: p.Error, Description: p.ErrorDescription}
	}
	if p.State == "" {
		return ErrMissingState
	}
	if p.Code == "" {
		return ErrMissingCode
	}
	return nil
}
