package directory

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"coinscope/internal/domain"

	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

var testTracer = noop.NewTracerProvider().Tracer("test")

type stubSource struct {
	mu    sync.Mutex
	coins []domain.Coin
	err   error
	calls int
}

func (s *stubSource) FetchCoinList(ctx context.Context) ([]domain.Coin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.coins, nil
}

type countingRunner struct {
	calls atomic.Int32
}

func (r *countingRunner) Do(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	r.calls.Add(1)
	return fn(ctx)
}

func newTestDirectory(t *testing.T, source *stubSource) (*Directory, *FileStore) {
	t.Helper()
	store := NewFileStore(filepath.Join(t.TempDir(), "coin_list.json"))
	return New(testTracer, zap.NewNop(), source, store, &countingRunner{}), store
}

func TestDirectoryStartsEmpty(t *testing.T) {
	d, _ := newTestDirectory(t, &stubSource{})
	snap := d.Snapshot()
	if snap == nil || !snap.Empty() {
		t.Fatalf("expected empty snapshot, got %+v", snap)
	}
}

func TestBootstrapPrefersPersistedList(t *testing.T) {
	source := &stubSource{coins: []domain.Coin{{ID: "ethereum", Name: "Ethereum", Symbol: "eth"}}}
	d, store := newTestDirectory(t, source)
	if err := store.Save(context.Background(), sampleCoins); err != nil {
		t.Fatal(err)
	}

	origin, err := d.Bootstrap(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if origin != OriginStore {
		t.Fatalf("expected store origin, got %s", origin)
	}
	if source.calls != 0 {
		t.Fatalf("expected no upstream call, got %d", source.calls)
	}
	if d.Snapshot().Maps.BySymbol["btc"] != "bitcoin" {
		t.Fatal("expected persisted coins to be active")
	}
}

func TestBootstrapFetchesWhenNothingPersisted(t *testing.T) {
	source := &stubSource{coins: sampleCoins}
	d, store := newTestDirectory(t, source)

	origin, err := d.Bootstrap(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if origin != OriginUpstream || source.calls != 1 {
		t.Fatalf("expected one upstream fetch, origin=%s calls=%d", origin, source.calls)
	}
	persisted, err := store.Load(context.Background())
	if err != nil || len(persisted) != 2 {
		t.Fatalf("expected fetched list to be persisted: %+v %v", persisted, err)
	}
	if d.Snapshot().Len() != 2 {
		t.Fatalf("expected 2 coins active, got %d", d.Snapshot().Len())
	}
}

func TestBootstrapBothFailLeavesDirectoryEmpty(t *testing.T) {
	source := &stubSource{err: domain.ErrUpstreamUnavailable}
	d, _ := newTestDirectory(t, source)

	origin, err := d.Bootstrap(context.Background())
	if !errors.Is(err, domain.ErrDirectoryEmpty) {
		t.Fatalf("expected ErrDirectoryEmpty, got %v", err)
	}
	if origin != OriginNone {
		t.Fatalf("expected no origin, got %s", origin)
	}
	if !d.Snapshot().Empty() {
		t.Fatal("expected directory to stay empty")
	}
}

func TestRefreshFailureKeepsSnapshot(t *testing.T) {
	source := &stubSource{coins: sampleCoins}
	d, _ := newTestDirectory(t, source)
	if err := d.Update(context.Background()); err != nil {
		t.Fatalf("initial update: %v", err)
	}
	before := d.Snapshot()

	source.err = errors.New("boom")
	if err := d.Update(context.Background()); err == nil {
		t.Fatal("expected update to fail")
	}
	if d.Snapshot() != before {
		t.Fatal("expected previous snapshot to keep serving")
	}
}

func TestRefreshRejectsEmptyUpstreamList(t *testing.T) {
	source := &stubSource{coins: []domain.Coin{}}
	d, store := newTestDirectory(t, source)

	if _, err := d.Refresh(context.Background()); err == nil {
		t.Fatal("expected empty upstream list to be rejected")
	}
	if _, err := store.Load(context.Background()); !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("empty list must not be persisted, got %v", err)
	}
}

func TestRefreshDoesNotSwap(t *testing.T) {
	source := &stubSource{coins: sampleCoins}
	d, _ := newTestDirectory(t, source)

	coins, err := d.Refresh(context.Background())
	if err != nil || len(coins) != 2 {
		t.Fatalf("unexpected refresh result: %+v %v", coins, err)
	}
	if !d.Snapshot().Empty() {
		t.Fatal("refresh alone must not swap the snapshot")
	}
}

func TestRefreshRunsOnRunner(t *testing.T) {
	runner := &countingRunner{}
	d := New(testTracer, zap.NewNop(), &stubSource{coins: sampleCoins}, nil, runner)

	if err := d.Update(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if runner.calls.Load() != 1 {
		t.Fatalf("expected fetch to go through the runner, got %d", runner.calls.Load())
	}
}

func TestReplaceCopiesInput(t *testing.T) {
	d, _ := newTestDirectory(t, &stubSource{})
	coins := append([]domain.Coin(nil), sampleCoins...)

	snap := d.Replace(coins)
	coins[0] = domain.Coin{ID: "mutated"}

	if snap.Coins[0].ID != "bitcoin" {
		t.Fatal("snapshot must not alias the caller's slice")
	}
	if snap.Labels[0] != "Bitcoin (BTC)" {
		t.Fatalf("unexpected label: %s", snap.Labels[0])
	}
}

func TestConcurrentReadersSeeWholeSnapshots(t *testing.T) {
	d, _ := newTestDirectory(t, &stubSource{})
	small := sampleCoins[:1]
	large := sampleCoins
	d.Replace(small)

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				snap := d.Snapshot()
				if len(snap.Coins) != len(snap.Labels) || len(snap.Maps.ByID) != len(snap.Coins) {
					t.Errorf("inconsistent snapshot: %d coins, %d labels, %d ids",
						len(snap.Coins), len(snap.Labels), len(snap.Maps.ByID))
					return
				}
			}
		}()
	}
	for i := 0; i < 200; i++ {
		if i%2 == 0 {
			d.Replace(large)
		} else {
			d.Replace(small)
		}
	}
	close(stop)
	wg.Wait()
}
