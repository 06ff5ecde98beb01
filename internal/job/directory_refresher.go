// Package job holds the long-running background loops.
package job

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const DefaultRefreshInterval = 6 * time.Hour

// DirectoryUpdater swaps in a freshly fetched coin list, keeping the old one on failure.
type DirectoryUpdater interface {
	Update(ctx context.Context) error
}

// DirectoryRefresher keeps the coin directory current on a fixed interval.
type DirectoryRefresher struct {
	tracer     trace.Tracer
	logger     *zap.Logger
	directory  DirectoryUpdater
	interval   time.Duration
	runOnStart bool
}

func NewDirectoryRefresher(tracer trace.Tracer, logger *zap.Logger, dir DirectoryUpdater, interval time.Duration, runOnStart bool) *DirectoryRefresher {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &DirectoryRefresher{
		tracer:     tracer,
		logger:     logger,
		directory:  dir,
		interval:   interval,
		runOnStart: runOnStart,
	}
}

// RunsOnStart reports whether Start refreshes before waiting for the first tick.
func (r *DirectoryRefresher) RunsOnStart() bool { return r.runOnStart }

// Start blocks until ctx is cancelled. Failures are logged and the loop carries on.
func (r *DirectoryRefresher) Start(ctx context.Context) {
	r.logger.Info("directory-refresher-started",
		zap.Duration("interval", r.interval),
		zap.Bool("run_on_start", r.runOnStart))

	if r.runOnStart {
		r.runOnce(ctx)
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("directory-refresher-stopped")
			return
		case <-ticker.C:
			r.runOnce(ctx)
		}
	}
}

func (r *DirectoryRefresher) runOnce(ctx context.Context) {
	ctx, span := r.tracer.Start(ctx, "directory-refresher.run-once")
	defer span.End()

	if err := r.directory.Update(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		r.logger.Warn("directory-refresh-failed", zap.Error(err))
	}
}
