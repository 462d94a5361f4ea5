package config

import (
	"log/slog"
	"os"
	"strings"
)

// Environment variables holding the API credentials.
const (
	EnvEmail  = "DEHASH_EMAIL"
	EnvAPIKey = "DEHASH_API"
)

// Credentials authenticate against the breach-data API with HTTP Basic Auth.
// The format is not checked; bad credentials surface as an API error.
type Credentials struct {
	// Email is the account identifier.
	Email string

	// APIKey is the account API key.
	APIKey string
}

// LookupFunc reads one environment variable. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// LoadCredentials reads the credentials from the environment.
// A nil lookup uses os.LookupEnv.
func LoadCredentials(lookup LookupFunc) (Credentials, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	email, ok := lookup(EnvEmail)
	if !ok || strings.TrimSpace(email) == "" {
		return Credentials{}, ErrMissingCredentials
	}
	key, ok := lookup(EnvAPIKey)
	if !ok || strings.TrimSpace(key) == "" {
		return Credentials{}, ErrMissingCredentials
	}
	return Credentials{
		Email:  strings.TrimSpace(email),
		APIKey: strings.TrimSpace(key),
	}, nil
}

// LogValue implements slog.LogValuer. The API key is never logged.
func (c Credentials) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("account", c.Email),
		slog.Bool("key_set", c.APIKey != ""),
	)
}
