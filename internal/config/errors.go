package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and LoadCredentials() and
// provide specific information about what is wrong with the configuration.
var (
	// ErrNoDomain is returned when no target domain is specified.
	ErrNoDomain = errors.New("no domain specified: provide one with --domain or -d")

	// ErrInvalidDomain is returned when the domain cannot be used as a
	// search term or as a workspace directory name.
	ErrInvalidDomain = errors.New("invalid domain")

	// ErrMissingCredentials is returned when DEHASH_EMAIL or DEHASH_API is
	// absent or empty.
	ErrMissingCredentials = errors.New("missing API credentials: set " + EnvEmail + " and " + EnvAPIKey)

	// ErrInvalidPageSize is returned when the page size is outside 1..MaxPageSize.
	ErrInvalidPageSize = errors.New("invalid page size: must be between 1 and 10000")

	// ErrInvalidProxyAddress is returned when the proxy address is not host:port.
	ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected host:port")

	// ErrInvalidTimeout is returned when the request timeout is negative.
	// Zero disables the timeout.
	ErrInvalidTimeout = errors.New("invalid timeout: must be non-negative")

	// ErrNoClassifier is returned when the hash identifier command is empty.
	ErrNoClassifier = errors.New("no hash identifier command configured")
)
