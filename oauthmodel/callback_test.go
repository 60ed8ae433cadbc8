package oauthmodel_test

import (
	"errors"
	"testing"

	"github.com/jrsteele09/go-oura-client/oauthmodel"
	"github.com/stretchr/testify/require"
)

func TestParseCallbackURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    oauthmodel.CallbackParameters
		wantErr error
	}{
		{
			name: "code and state",
			url:  "http://127.0.0.1:5353/callback?code=abc&state=xyz",
			want: oauthmodel.CallbackParameters{Code: "abc", State: "xyz"},
		},
		{
			name:    "missing code",
			url:     "http://127.0.0.1:5353/callback?state=xyz",
			want:    oauthmodel.CallbackParameters{State: "xyz"},
			wantErr: oauthmodel.ErrMissingCode,
		},
		{
			name:    "missing state",
			url:     "http://127.0.0.1:5353/callback?code=abc",
			want:    oauthmodel.CallbackParameters{Code: "abc"},
			wantErr: oauthmodel.ErrMissingState,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := oauthmodel.ParseCallbackURL(tt.url)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			if tt.wantErr == nil {
				require.NoError(t, got.Validate())
			} else {
				require.ErrorIs(t, got.Validate(), tt.wantErr)
			}
		})
	}
}

func TestProviderError(t *testing.T) {
	p, err := oauthmodel.ParseCallbackURL("http://localhost/cb?error=access_denied&error_description=User+denied&state=s")
	require.NoError(t, err)

	var providerErr *oauthmodel.ProviderError
	require.True(t, errors.As(p.Validate(), &providerErr))
	require.Equal(t, "access_denied", providerErr.Code)
	require.Equal(t, "provider error: access_denied - User denied", providerErr.Error())
}

func TestParseCallbackURLInvalid(t *testing.T) {
	_, err := oauthmodel.ParseCallbackURL("http://[::1")
	require.Error(t, err)
}
