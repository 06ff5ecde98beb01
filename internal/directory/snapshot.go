package directory

import (
	"time"

	"coinscope/internal/domain"
)

// Snapshot is an immutable coin list plus its derived tables. A new list always
// produces a new Snapshot; readers never see one being built.
type Snapshot struct {
	Coins    []domain.Coin
	Labels   []string
	Maps     Maps
	LoadedAt time.Time
}

func newSnapshot(coins []domain.Coin, loadedAt time.Time) *Snapshot {
	owned := make([]domain.Coin, len(coins))
	copy(owned, coins)

	labels := make([]string, len(owned))
	for i, c := range owned {
		labels[i] = c.Label()
	}
	return &Snapshot{
		Coins:    owned,
		Labels:   labels,
		Maps:     BuildMaps(owned),
		LoadedAt: loadedAt,
	}
}

var emptySnapshot = newSnapshot(nil, time.Time{})

// Len is the number of coins in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.Coins)
}

// Empty reports whether no coin list has been loaded.
func (s *Snapshot) Empty() bool {
	return len(s.Coins) == 0
}
