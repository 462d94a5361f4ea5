// Package log provides secure logging built on top of log/slog.
//
// SecureHandler wraps any slog.Handler and masks attribute values before
// they reach the output:
//   - API credentials and HTTP auth headers, by key name
//   - breach data fields such as password and hashed_password, by key name
//   - values that look like tokens, long keys, hex digests or crypt hashes,
//     by pattern
//
// Even in verbose mode, sensitive values are masked so that a shared debug
// log never leaks the operator's API key or the breach data being handled.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose) // colored on a terminal
//	slog.SetDefault(logger)
//
//	logger.Debug("request sent",
//	    "authorization", "Basic dXNlcjprZXk=", // masked
//	    "domain", "example.com",
//	)
package log
