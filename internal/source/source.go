package source

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/nao1215/vistoria/internal/model"
)

// Source loads a complete inspection dataset from one place.
type Source interface {
	// Name is the short label reported to users, e.g. "google" or "xlsx".
	Name() string

	// Location identifies what is read: a file path or a URL.
	Location() string

	// Load reads the dataset. Rows are returned in source order.
	Load(ctx context.Context) (*model.Dataset, error)
}

// Result is a dataset together with where it came from.
type Result struct {
	// Dataset is never nil. It is empty when every source failed.
	Dataset *model.Dataset

	// Source is the Name of the source that served the dataset.
	Source string

	// FetchedAt is when the dataset was read from its source.
	FetchedAt time.Time

	// Cached is true when the dataset came from the snapshot database.
	Cached bool
}

// Fetcher produces normalized datasets. Chain and Cached implement it.
type Fetcher interface {
	Fetch(ctx context.Context) (Result, error)
}

// Chain tries sources in order.
// A source that fails, or that returns no rows while another source is
// left to try, is skipped with a log entry. The last source is always
// returned, so an acquisition failure reaches the caller as an empty
// dataset rather than an error.
type Chain struct {
	sources []Source
	logger  *slog.Logger
	now     func() time.Time
}

// ChainOption configures a Chain.
type ChainOption func(*Chain)

// WithChainLogger sets the logger used to report skipped sources.
func WithChainLogger(logger *slog.Logger) ChainOption {
	return func(c *Chain) {
		c.logger = logger
	}
}

// NewChain creates a chain over sources, tried in the given order.
func NewChain(sources []Source, opts ...ChainOption) (*Chain, error) {
	if len(sources) == 0 {
		return nil, ErrNoSources
	}
	c := &Chain{
		sources: sources,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Key identifies the chain's configuration, e.g.
// "google=https://...;xlsx=base_de_dados.xlsx". Snapshots are stored
// under this key so that a configuration change never serves stale data
// from another spreadsheet.
func (c *Chain) Key() string {
	parts := make([]string, len(c.sources))
	for i, s := range c.sources {
		parts[i] = s.Name() + "=" + s.Location()
	}
	return strings.Join(parts, ";")
}

// Fetch loads from the first source that yields rows.
// Only context cancellation is returned as an error.
func (c *Chain) Fetch(ctx context.Context) (Result, error) {
	last := len(c.sources) - 1
	for i, s := range c.sources {
		d, err := s.Load(ctx)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, ctxErr
		}
		if err != nil {
			c.logger.Warn("data source failed",
				"source", s.Name(),
				"location", s.Location(),
				"error", err,
			)
			if i < last {
				continue
			}
			d = model.NewDataset(nil)
		}
		if d == nil {
			d = model.NewDataset(nil)
		}

		Normalize(d)
		if d.Empty() && i < last {
			c.logger.Info("data source returned no rows", "source", s.Name())
			continue
		}

		c.logger.Debug("dataset loaded", "source", s.Name(), "rows", d.Len())
		return Result{
			Dataset:   d,
			Source:    s.Name(),
			FetchedAt: c.now(),
		}, nil
	}

	return Result{}, ErrNoSources
}
