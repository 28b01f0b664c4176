package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// The file names and timings follow the conventions of the inspection
// team's existing spreadsheets.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "vistoria"

	// DefaultXLSXPath is the local inspection spreadsheet.
	DefaultXLSXPath = "base_de_dados.xlsx"

	// DefaultMappingPath is the column mapping spreadsheet.
	DefaultMappingPath = "formatacao_colunas.xlsx"

	// DefaultRetries is the number of attempts made against the remote
	// sheet before falling back to local files.
	DefaultRetries = 3

	// DefaultRetryDelay is the base delay between remote attempts. The
	// n-th retry waits n times this delay.
	DefaultRetryDelay = 1 * time.Second

	// DefaultFetchTimeout bounds a single remote fetch.
	DefaultFetchTimeout = 30 * time.Second

	// DefaultCacheTTL keeps fetched datasets fresh enough for a dashboard
	// while sparing the remote sheet.
	DefaultCacheTTL = 5 * time.Minute

	// DefaultBatchSize is the number of reports rendered concurrently by
	// batch exports.
	DefaultBatchSize = 10

	// DefaultServerAddress is the listen address of the HTTP server.
	DefaultServerAddress = "127.0.0.1:8080"

	// DefaultFormat is the default report format.
	DefaultFormat = "text"

	// SheetIDEnv is the environment variable holding the remote sheet id.
	SheetIDEnv = "GOOGLE_SHEETS_ID"
)

// Config holds all configuration options for vistoria.
// This struct is populated from the configuration file and CLI flags and
// passed through the application rather than kept as global state.
type Config struct {
	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .vistoria in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// XLSXPath is the local inspection spreadsheet. The first sheet is read.
	XLSXPath string

	// CSVPath is an optional CSV export of the inspection form.
	CSVPath string

	// SheetID identifies the remote spreadsheet. When set, the sheet is
	// fetched as CSV before falling back to local files.
	SheetID string

	// SheetURL overrides the CSV export URL derived from SheetID.
	SheetURL string

	// Retries is the number of attempts made against the remote sheet.
	Retries int

	// RetryDelay is the base delay between remote attempts.
	RetryDelay time.Duration

	// FetchTimeout bounds a single remote fetch.
	FetchTimeout time.Duration

	// MappingPath is the column mapping spreadsheet. A missing mapping
	// file enables the keyword heuristic.
	MappingPath string

	// CacheTTL is how long a fetched dataset is served from the cache.
	// Zero disables caching.
	CacheTTL time.Duration

	// DBDir is the directory of the cache database.
	// Defaults to the XDG cache directory (~/.cache/vistoria on Linux).
	DBDir string

	// Format is the report output format (text, markdown or json).
	Format string

	// OutputDir is where batch exports are written.
	OutputDir string

	// BatchSize is the number of reports rendered concurrently.
	BatchSize int

	// ServerAddress is the listen address of the HTTP server.
	ServerAddress string

	// Users are the accounts allowed to use the HTTP server.
	Users map[string]User
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (file names, retries,
// TTL). This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		XLSXPath:      DefaultXLSXPath,
		Retries:       DefaultRetries,
		RetryDelay:    DefaultRetryDelay,
		FetchTimeout:  DefaultFetchTimeout,
		MappingPath:   DefaultMappingPath,
		CacheTTL:      DefaultCacheTTL,
		DBDir:         XDGCacheDir(),
		Format:        DefaultFormat,
		OutputDir:     ".",
		BatchSize:     DefaultBatchSize,
		ServerAddress: DefaultServerAddress,
		Users:         make(map[string]User),
	}
}

// RemoteURL returns the CSV export URL of the remote sheet, or "" when no
// remote sheet is configured.
func (c *Config) RemoteURL() string {
	if c.SheetURL != "" {
		return c.SheetURL
	}
	if c.SheetID == "" {
		return ""
	}
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/export?format=csv", c.SheetID)
}

// CacheEnabled reports whether fetched datasets should be cached.
func (c *Config) CacheEnabled() bool {
	return c.CacheTTL > 0 && c.DBDir != ""
}

// XDGConfigDir returns the XDG config directory for vistoria.
// On Linux: ~/.config/vistoria
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for vistoria.
// On Linux: ~/.cache/vistoria
// On macOS: ~/Library/Caches/vistoria
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	if c.XLSXPath == "" && c.CSVPath == "" && c.RemoteURL() == "" {
		return ErrNoSource
	}

	if c.RemoteURL() != "" {
		if c.Retries <= 0 {
			return ErrInvalidRetries
		}
		if c.RetryDelay < 0 {
			return ErrInvalidRetryDelay
		}
		if c.FetchTimeout <= 0 {
			return ErrInvalidFetchTimeout
		}
	}

	if c.CacheTTL < 0 {
		return ErrInvalidCacheTTL
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	for name, u := range c.Users {
		if u.PasswordHash == "" {
			return fmt.Errorf("%w: %s", ErrInvalidUser, name)
		}
	}

	return nil
}
