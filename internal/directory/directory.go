// Package directory owns the process-wide coin list and its lookup tables.
package directory

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"coinscope/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// CoinSource fetches the authoritative coin list.
type CoinSource interface {
	FetchCoinList(ctx context.Context) ([]domain.Coin, error)
}

// Runner executes blocking work on a bounded pool.
type Runner interface {
	Do(ctx context.Context, name string, fn func(ctx context.Context) error) error
}

// Origin tells where the bootstrap snapshot came from.
type Origin string

const (
	OriginStore    Origin = "store"
	OriginUpstream Origin = "upstream"
	OriginNone     Origin = "none"
)

// Directory holds the active Snapshot behind an atomic pointer. Refreshes build a
// complete new Snapshot off to the side and swap it in with a single store.
type Directory struct {
	tracer trace.Tracer
	logger *zap.Logger
	source CoinSource
	store  Store
	runner Runner
	now    func() time.Time

	current atomic.Pointer[Snapshot]
}

func New(tracer trace.Tracer, logger *zap.Logger, source CoinSource, store Store, runner Runner) *Directory {
	d := &Directory{
		tracer: tracer,
		logger: logger,
		source: source,
		store:  store,
		runner: runner,
		now:    time.Now,
	}
	d.current.Store(emptySnapshot)
	return d
}

// Snapshot returns the active snapshot. It is never nil; before the first load it is empty.
func (d *Directory) Snapshot() *Snapshot {
	return d.current.Load()
}

// Load reads the persisted coin list. It fails when none exists or it does not parse.
func (d *Directory) Load(ctx context.Context) ([]domain.Coin, error) {
	ctx, span := d.tracer.Start(ctx, "directory.load")
	defer span.End()

	if d.store == nil {
		return nil, ErrNoSnapshot
	}
	coins, err := d.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("coins", len(coins)))
	return coins, nil
}

// Refresh fetches the coin list upstream on the worker pool and persists it. The active
// snapshot is left untouched; callers decide whether to swap.
func (d *Directory) Refresh(ctx context.Context) ([]domain.Coin, error) {
	ctx, span := d.tracer.Start(ctx, "directory.refresh")
	defer span.End()

	var coins []domain.Coin
	fetch := func(ctx context.Context) error {
		var err error
		coins, err = d.source.FetchCoinList(ctx)
		return err
	}

	var err error
	if d.runner != nil {
		err = d.runner.Do(ctx, "directory.fetch-coin-list", fetch)
	} else {
		err = fetch(ctx)
	}
	if err == nil {
		err = validate(coins)
	}
	if err != nil {
		RefreshTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("refresh coin list: %w", err)
	}
	RefreshTotal.WithLabelValues("ok").Inc()
	span.SetAttributes(attribute.Int("coins", len(coins)))

	if d.store != nil {
		if err := d.store.Save(ctx, coins); err != nil {
			d.logger.Warn("coin-list-persist-failed", zap.Error(err))
		}
	}
	return coins, nil
}

// Replace installs a snapshot built from coins and returns it.
func (d *Directory) Replace(coins []domain.Coin) *Snapshot {
	snap := newSnapshot(coins, d.now())
	d.current.Store(snap)
	CoinsLoaded.Set(float64(snap.Len()))
	LastSwapTimestamp.Set(float64(snap.LoadedAt.Unix()))
	return snap
}

// Update refreshes from upstream and swaps in the result. On failure the old snapshot keeps serving.
func (d *Directory) Update(ctx context.Context) error {
	coins, err := d.Refresh(ctx)
	if err != nil {
		return err
	}
	snap := d.Replace(coins)
	d.logger.Info("coin-directory-updated", zap.Int("coins", snap.Len()))
	return nil
}

// Bootstrap prefers the persisted list and falls back to a blocking refresh. When both
// fail the directory stays empty and ErrDirectoryEmpty is returned; the process keeps running.
func (d *Directory) Bootstrap(ctx context.Context) (Origin, error) {
	ctx, span := d.tracer.Start(ctx, "directory.bootstrap")
	defer span.End()

	coins, err := d.Load(ctx)
	if err == nil {
		snap := d.Replace(coins)
		d.logger.Info("coin-directory-loaded",
			zap.String("origin", string(OriginStore)),
			zap.Int("coins", snap.Len()))
		return OriginStore, nil
	}
	if errors.Is(err, ErrNoSnapshot) {
		d.logger.Info("coin-list-not-persisted")
	} else {
		d.logger.Warn("coin-list-load-failed", zap.Error(err))
	}

	coins, err = d.Refresh(ctx)
	if err != nil {
		d.logger.Error("coin-directory-unavailable", zap.Error(err))
		return OriginNone, fmt.Errorf("%w: %w", domain.ErrDirectoryEmpty, err)
	}
	snap := d.Replace(coins)
	d.logger.Info("coin-directory-loaded",
		zap.String("origin", string(OriginUpstream)),
		zap.Int("coins", snap.Len()))
	return OriginUpstream, nil
}
