package job

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

var testTracer = noop.NewTracerProvider().Tracer("test")

func TestNewDirectoryRefresherDefaultsInterval(t *testing.T) {
	r := NewDirectoryRefresher(testTracer, zap.NewNop(), &stubUpdater{}, 0, false)
	if r.interval != DefaultRefreshInterval {
		t.Fatalf("expected %v, got %v", DefaultRefreshInterval, r.interval)
	}
}

func TestDirectoryRefresherRunsOnStart(t *testing.T) {
	t.Parallel()

	stub := &stubUpdater{}
	r := NewDirectoryRefresher(testTracer, zap.NewNop(), stub, time.Hour, true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.Start(ctx)

	eventually(t, func() bool { return stub.count() == 1 })
}

func TestDirectoryRefresherWaitsForTickWithoutRunOnStart(t *testing.T) {
	t.Parallel()

	stub := &stubUpdater{}
	r := NewDirectoryRefresher(testTracer, zap.NewNop(), stub, 10*time.Millisecond, false)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.Start(ctx)

	if stub.count() != 0 {
		t.Fatal("expected no immediate refresh")
	}
	eventually(t, func() bool { return stub.count() >= 2 })
}

func TestDirectoryRefresherKeepsGoingAfterFailure(t *testing.T) {
	t.Parallel()

	stub := &stubUpdater{err: errors.New("upstream down")}
	r := NewDirectoryRefresher(testTracer, zap.NewNop(), stub, 10*time.Millisecond, true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.Start(ctx)

	eventually(t, func() bool { return stub.count() >= 3 })
}

func TestDirectoryRefresherStopsOnCancel(t *testing.T) {
	stub := &stubUpdater{}
	r := NewDirectoryRefresher(testTracer, zap.NewNop(), stub, time.Hour, false)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Start(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("refresher did not stop")
	}
}

func eventually(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(500 * time.Millisecond)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met")
}

type stubUpdater struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (s *stubUpdater) Update(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.err
}

func (s *stubUpdater) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
