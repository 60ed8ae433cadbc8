package oauthmodel

import (
	"errors"
	"fmt"
)

var (
	ErrMissingCode  = errors.New("callback has no authorization code")
	ErrMissingState = errors.New("callback has no state")
)

// ProviderError is an error the vendor reported on the redirect back to the
// client, e.g. ?error=access_denied&error_description=...
type ProviderError struct {
	Code        string
	Description string
}

func (e *ProviderError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("provider error: %s", e.Code)
	}
	return fmt.Sprintf("provider error: %s - %s", e.Code, e.Description)
}
