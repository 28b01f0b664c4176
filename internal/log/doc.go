// Package log provides the slog setup used by vistoria, with a handler that
// keeps credentials and inspector e-mail addresses out of log output.
//
// The RedactingHandler masks:
//   - attributes whose key names a credential (password, password_hash,
//     authorization, token, secret, cookie)
//   - string values that look like credentials (bcrypt hashes, Basic and
//     Bearer authorization values)
//   - e-mail addresses, keeping the first letter and the domain
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, log.WithVerbose(true))
//	logger.Info("record loaded",
//	    "inspector", "ana@example.com", // logged as a***@example.com
//	    "password", "hunter2",          // logged as ***REDACTED***
//	)
//	slog.SetDefault(logger)
package log
