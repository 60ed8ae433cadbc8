package config

import (
	"os"

	ouraerrors "github.com/jrsteele09/go-oura-client/internal/errors"
	"github.com/pelletier/go-toml/v2"
)

// fileValues mirrors the TOML config file:
//
//	app_name = "Oura Client"
//	env = "DEV"
//	token_file = "./data/oura_token.json"
//
//	[oauth]
//	client_id = "..."
//	client_secret = "..."
//	scopes = ["email", "personal", "daily"]
type fileValues struct {
	AppName   string      `toml:"app_name"`
	Env       string      `toml:"env"`
	TokenFile string      `toml:"token_file"`
	OAuth     oauthValues `toml:"oauth"`
}

type oauthValues struct {
	ClientID     string   `toml:"client_id"`
	ClientSecret string   `toml:"client_secret"`
	RedirectURI  string   `toml:"redirect_uri"`
	AuthURL      string   `toml:"auth_url"`
	TokenURL     string   `toml:"token_url"`
	APIURL       string   `toml:"api_url"`
	Scopes       []string `toml:"scopes"`
}

func readFile(path string) (*fileValues, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ouraerrors.Wrapf(err, "config.readFile")
	}
	var fv fileValues
	if err := toml.Unmarshal(data, &fv); err != nil {
		return nil, ouraerrors.Wrapf(err, "config.readFile parse %s", path)
	}
	return &fv, nil
}

// Accessors are nil-safe so env-only configs share the same getters.

func (f *fileValues) appName() string {
	if f == nil {
		return ""
	}
	return f.AppName
}

func (f *fileValues) env() string {
	if f == nil {
		return ""
	}
	return f.Env
}

func (f *fileValues) tokenFile() string {
	if f == nil {
		return ""
	}
	return f.TokenFile
}

func (f *fileValues) oauth() oauthValues {
	if f == nil {
		return oauthValues{}
	}
	return f.OAuth
}
