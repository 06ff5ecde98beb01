package service

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

const DefaultPoolSize = 8

// WorkService bounds how many blocking upstream calls run at once. Callers beyond the
// limit wait for a slot or give up when their context ends.
type WorkService struct {
	tracer trace.Tracer
	logger *zap.Logger
	sem    *semaphore.Weighted
	size   int
}

func NewWorkService(tracer trace.Tracer, logger *zap.Logger, size int) *WorkService {
	if size <= 0 {
		size = DefaultPoolSize
	}
	return &WorkService{
		tracer: tracer,
		logger: logger,
		sem:    semaphore.NewWeighted(int64(size)),
		size:   size,
	}
}

// Size is the number of concurrent slots.
func (s *WorkService) Size() int {
	return s.size
}

// Do runs fn once a slot is free.
func (s *WorkService) Do(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, "work."+name)
	defer span.End()

	waitStart := time.Now()
	if err := s.sem.Acquire(ctx, 1); err != nil {
		WorkTotal.WithLabelValues(name, "cancelled").Inc()
		return fmt.Errorf("wait for worker (%s): %w", name, err)
	}
	defer s.sem.Release(1)

	waited := time.Since(waitStart)
	WorkWaitSeconds.Observe(waited.Seconds())
	span.SetAttributes(attribute.Int64("wait_ms", waited.Milliseconds()))

	WorkersBusy.Inc()
	defer WorkersBusy.Dec()

	if err := fn(ctx); err != nil {
		WorkTotal.WithLabelValues(name, "error").Inc()
		s.logger.Debug("work-failed", zap.String("task", name), zap.Error(err))
		return err
	}
	WorkTotal.WithLabelValues(name, "ok").Inc()
	return nil
}
