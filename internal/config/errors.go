package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoSource is returned when no data source is configured.
	// At least one of the spreadsheet file, the CSV file or the remote
	// sheet must be set.
	ErrNoSource = errors.New("no data source configured: set an xlsx file, a csv file or a remote sheet")

	// ErrInvalidRetries is returned when the remote fetch attempt count is
	// not positive.
	ErrInvalidRetries = errors.New("invalid retries: must be positive")

	// ErrInvalidRetryDelay is returned when the delay between remote fetch
	// attempts is negative.
	ErrInvalidRetryDelay = errors.New("invalid retry delay: must be non-negative")

	// ErrInvalidFetchTimeout is returned when the remote fetch timeout is
	// not positive.
	ErrInvalidFetchTimeout = errors.New("invalid fetch timeout: must be positive")

	// ErrInvalidCacheTTL is returned when the cache TTL is negative.
	// Use 0 to disable caching.
	ErrInvalidCacheTTL = errors.New("invalid cache ttl: must be non-negative")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	// A batch size of zero would mean no report is ever rendered.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrInvalidUser is returned when a configured user has no password hash.
	ErrInvalidUser = errors.New("invalid user: password_hash is required")
)
