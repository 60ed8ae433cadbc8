package config

import (
	"os"
)

const (
	appNameVar   = "APP_NAME"
	envVar       = "ENV"
	tokenFileVar = "OURA_TOKEN_FILE"
)

type EnvVars struct {
	file *fileValues
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetAppName() string {
	return lookup(appNameVar, e.file.appName(), "Oura Client")
}

func (e EnvVars) GetEnv() string {
	return lookup(envVar, e.file.env(), "DEV")
}

// GetTokenFile returns where the CLI keeps the current token between runs.
func (e EnvVars) GetTokenFile() string {
	return lookup(tokenFileVar, e.file.tokenFile(), "./data/oura_token.json")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

// lookup resolves envVar, then the file value, then defaultValue.
func lookup(envVar, fileValue, defaultValue string) string {
	if fileValue != "" {
		defaultValue = fileValue
	}
	return GetEnv(envVar, defaultValue)
}
