package config

import "time"

type Config interface {
	EnvConfig
	OAuthConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
	GetTokenFile() string
}

type OAuthConfig interface {
	GetClientID() string
	GetClientSecret() string
	GetRedirectURI() string
	GetAuthURL() string
	GetTokenURL() string
	GetAPIURL() string
	GetScopes() []string
	GetAuthCodeTimeout() time.Duration
}

type mainConfig struct {
	EnvVars
	OAuth
}

// New returns a Config backed by environment variables only.
func New() Config {
	return mainConfig{}
}

// Load returns a Config that reads environment variables first and falls back
// to the values in the TOML file at path. An empty path behaves like New.
func Load(path string) (Config, error) {
	if path == "" {
		return New(), nil
	}
	fv, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return mainConfig{
		EnvVars: EnvVars{file: fv},
		OAuth:   OAuth{file: fv},
	}, nil
}
