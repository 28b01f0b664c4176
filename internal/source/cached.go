package source

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/vistoria/internal/database"
	"github.com/nao1215/vistoria/internal/model"
)

// SnapshotStore persists fetched datasets. *database.SnapshotDB implements it.
type SnapshotStore interface {
	LatestSnapshot(ctx context.Context, key string, maxAge time.Duration) (*database.Snapshot, error)
	SaveSnapshot(ctx context.Context, key, servedBy string, d *model.Dataset) (*database.Snapshot, error)
}

// Cached serves datasets from a SnapshotStore while they are younger than
// the TTL and refreshes them from a Chain otherwise. Cache failures are
// logged and never fail a fetch.
type Cached struct {
	chain  *Chain
	store  SnapshotStore
	ttl    time.Duration
	logger *slog.Logger
}

// CachedOption configures Cached.
type CachedOption func(*Cached)

// WithCacheLogger sets the logger used to report cache failures.
func WithCacheLogger(logger *slog.Logger) CachedOption {
	return func(c *Cached) {
		c.logger = logger
	}
}

// NewCached wraps chain with a snapshot cache.
func NewCached(chain *Chain, store SnapshotStore, ttl time.Duration, opts ...CachedOption) *Cached {
	c := &Cached{
		chain:  chain,
		store:  store,
		ttl:    ttl,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch implements Fetcher.
func (c *Cached) Fetch(ctx context.Context) (Result, error) {
	key := c.chain.Key()

	snap, err := c.store.LatestSnapshot(ctx, key, c.ttl)
	switch {
	case err != nil:
		c.logger.Warn("failed to read dataset cache", "error", err)
	case snap != nil:
		c.logger.Debug("dataset served from cache",
			"source", snap.ServedBy,
			"snapshot", snap.ID,
			"rows", snap.RowCount,
		)
		return Result{
			Dataset:   snap.Dataset,
			Source:    snap.ServedBy,
			FetchedAt: snap.CreatedAt,
			Cached:    true,
		}, nil
	}

	res, err := c.chain.Fetch(ctx)
	if err != nil {
		return Result{}, err
	}

	// Empty datasets are acquisition failures and are retried next time.
	if !res.Dataset.Empty() {
		if _, err := c.store.SaveSnapshot(ctx, key, res.Source, res.Dataset); err != nil {
			c.logger.Warn("failed to write dataset cache", "error", err)
		}
	}
	return res, nil
}
