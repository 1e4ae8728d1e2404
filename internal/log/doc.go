// Package log provides secure logging functionality with automatic sanitization
// of sensitive information, built on top of the standard slog package.
//
// seoscan talks to four credentialed APIs (Reddit OAuth, a language model,
// a clustering service, and a spreadsheet), and raw response bodies are
// logged for debugging. The SecureHandler makes sure none of those log
// lines leak a credential:
//   - HTTP headers (Authorization, Cookie, X-Api-Key)
//   - API keys and OAuth tokens detected by key name or value pattern
//   - Account passwords used for the Reddit password grant
//
// Even in verbose mode, sensitive values are masked to prevent accidental
// exposure of secrets in logs that may be shared or stored.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, true) // verbose=true
//	logger.Info("token obtained",
//	    "access_token", token, // sanitized to ***REDACTED***
//	    "target", "example.com",
//	)
//	slog.SetDefault(logger)
package log
