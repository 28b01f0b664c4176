package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/nao1215/vistoria/internal/config"
	"github.com/nao1215/vistoria/internal/database"
	applog "github.com/nao1215/vistoria/internal/log"
	"github.com/nao1215/vistoria/internal/model"
	"github.com/nao1215/vistoria/internal/source"
)

// addSourceFlags registers the flags that select where inspections are
// read from. Commands that read the dataset share them.
func addSourceFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("xlsx", config.DefaultXLSXPath, "Local inspection workbook")
	f.String("csv", "", "CSV export of the inspection form")
	f.String("sheet-id", "", "Remote spreadsheet id (default: $"+config.SheetIDEnv+")")
	f.String("sheet-url", "", "CSV export URL of the remote spreadsheet")
	f.Int("retries", config.DefaultRetries, "Attempts against the remote spreadsheet")
	f.StringP("mapping", "m", config.DefaultMappingPath, "Column mapping workbook")
	f.Duration("cache-ttl", config.DefaultCacheTTL, "How long fetched datasets are served from the cache")
	f.Bool("no-cache", false, "Neither read nor write the dataset cache")
}

// addFormatFlag registers the output format flag.
func addFormatFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", config.DefaultFormat, "Output format (text, markdown, json)")
}

// lookupFlag finds a flag on the command or on the root's persistent
// flags, so subcommands also work when executed on their own.
func lookupFlag(cmd *cobra.Command, name string) *pflag.Flag {
	if f := cmd.Flags().Lookup(name); f != nil {
		return f
	}
	return cmd.Root().PersistentFlags().Lookup(name)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	f := lookupFlag(cmd, "verbose")
	return f != nil && f.Value.String() == "true"
}

// getConfigFlag retrieves the configuration file path.
func getConfigFlag(cmd *cobra.Command) string {
	if f := lookupFlag(cmd, "config"); f != nil {
		return f.Value.String()
	}
	return ""
}

// setupLogger creates the structured logger, redacting credentials.
// Logs go to stderr so that reports can be piped.
func setupLogger(cmd *cobra.Command, verbose bool) *slog.Logger {
	logger := applog.NewLogger(cmd.ErrOrStderr(), applog.WithVerbose(verbose))
	slog.SetDefault(logger)
	return logger
}

// buildConfig assembles the configuration: defaults, then the
// configuration file, then the environment, then explicitly set flags.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)
	cfg.ConfigFilePath = getConfigFlag(cmd)

	// An explicit path must exist. Without one, a missing file means
	// defaults.
	if path := config.FindConfigFile(cfg.ConfigFilePath); path != "" {
		file, err := config.LoadConfigFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		file.ApplyTo(cfg)
	} else if cfg.ConfigFilePath != "" {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	if cfg.SheetID == "" {
		cfg.SheetID = os.Getenv(config.SheetIDEnv)
	}

	if err := applyFlags(cmd.Flags(), cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// applyFlags copies the flags the user actually set onto cfg. Flags left
// at their default do not override the configuration file.
func applyFlags(f *pflag.FlagSet, cfg *config.Config) error {
	strs := []struct {
		name string
		dst  *string
	}{
		{"xlsx", &cfg.XLSXPath},
		{"csv", &cfg.CSVPath},
		{"sheet-id", &cfg.SheetID},
		{"sheet-url", &cfg.SheetURL},
		{"mapping", &cfg.MappingPath},
		{"format", &cfg.Format},
		{"addr", &cfg.ServerAddress},
	}
	for _, s := range strs {
		if !f.Changed(s.name) {
			continue
		}
		v, err := f.GetString(s.name)
		if err != nil {
			return err
		}
		*s.dst = v
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"retries", &cfg.Retries},
		{"batch", &cfg.BatchSize},
	}
	for _, i := range ints {
		if !f.Changed(i.name) {
			continue
		}
		v, err := f.GetInt(i.name)
		if err != nil {
			return err
		}
		*i.dst = v
	}

	if f.Changed("cache-ttl") {
		ttl, err := f.GetDuration("cache-ttl")
		if err != nil {
			return err
		}
		cfg.CacheTTL = ttl
	}
	if f.Changed("no-cache") {
		noCache, err := f.GetBool("no-cache")
		if err != nil {
			return err
		}
		if noCache {
			cfg.CacheTTL = 0
		}
	}
	return nil
}

// setup builds the configuration and the logger of a command.
func setup(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	return cfg, setupLogger(cmd, cfg.Verbose), nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// newChain creates the source chain: the remote sheet, then the CSV
// export, then the workbook, each only when configured.
func newChain(cfg *config.Config, logger *slog.Logger) (*source.Chain, error) {
	var sources []source.Source
	if url := cfg.RemoteURL(); url != "" {
		sources = append(sources, source.NewRemoteSource(url,
			source.WithRetries(cfg.Retries),
			source.WithRetryDelay(cfg.RetryDelay),
			source.WithTimeout(cfg.FetchTimeout),
			source.WithHeader("User-Agent", userAgent()),
			source.WithRemoteLogger(logger),
		))
	}
	if cfg.CSVPath != "" {
		sources = append(sources, source.NewCSVSource(cfg.CSVPath))
	}
	if cfg.XLSXPath != "" {
		sources = append(sources, source.NewXLSXSource(cfg.XLSXPath))
	}
	return source.NewChain(sources, source.WithChainLogger(logger))
}

// openCache opens the snapshot database, creating it if needed.
// It returns nil when caching is disabled or the database is unusable;
// the dataset is then fetched on every call.
func openCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) *database.SnapshotDB {
	if !cfg.CacheEnabled() {
		return nil
	}

	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		logger.Warn("dataset cache unavailable", "dir", cfg.DBDir, "error", err)
		return nil
	}

	// Snapshots older than the TTL are never served again.
	if n, err := db.PruneSnapshots(ctx, cfg.CacheTTL); err != nil {
		logger.Warn("failed to prune dataset cache", "error", err)
	} else if n > 0 {
		logger.Debug("pruned dataset cache", "removed", n)
	}
	return db
}

// newFetcher creates the dataset fetcher of a command. The returned
// function releases the cache database.
func newFetcher(ctx context.Context, cfg *config.Config, logger *slog.Logger) (source.Fetcher, func(), error) {
	chain, err := newChain(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	db := openCache(ctx, cfg, logger)
	if db == nil {
		return chain, func() {}, nil
	}

	release := func() {
		if err := db.Close(); err != nil {
			logger.Warn("failed to close dataset cache", "error", err)
		}
	}
	return source.NewCached(chain, db, cfg.CacheTTL, source.WithCacheLogger(logger)), release, nil
}

// loadMapping reads the column mapping workbook. A missing or unreadable
// workbook yields an empty mapping, which enables keyword classification.
func loadMapping(cfg *config.Config, logger *slog.Logger) *model.ColumnMapping {
	if cfg.MappingPath == "" {
		return model.NewColumnMapping()
	}

	m, err := source.LoadMapping(cfg.MappingPath)
	if err != nil {
		level := slog.LevelWarn
		if errors.Is(err, os.ErrNotExist) {
			level = slog.LevelInfo
		}
		logger.Log(context.Background(), level, "column mapping unavailable, classifying by keyword",
			"path", cfg.MappingPath, "error", err)
		return model.NewColumnMapping()
	}

	logger.Debug("column mapping loaded", "path", cfg.MappingPath, "columns", m.Len())
	return m
}

// fetchDataset loads the dataset once.
func fetchDataset(ctx context.Context, cfg *config.Config, logger *slog.Logger) (source.Result, error) {
	fetcher, release, err := newFetcher(ctx, cfg, logger)
	if err != nil {
		return source.Result{}, err
	}
	defer release()

	res, err := fetcher.Fetch(ctx)
	if err != nil {
		return source.Result{}, fmt.Errorf("failed to load inspections: %w", err)
	}
	logger.Debug("dataset loaded", "source", res.Source, "records", res.Dataset.Len(), "cached", res.Cached)
	return res, nil
}
