// Package resolver turns free-text user queries into canonical coin ids.
package resolver

import (
	"sort"
	"strings"
	"sync/atomic"

	"coinscope/internal/directory"
	"coinscope/internal/domain"
)

const (
	DefaultMaxResults = 25
	DefaultMinScore   = 50
)

// SnapshotSource hands out the active directory snapshot.
type SnapshotSource interface {
	Snapshot() *directory.Snapshot
}

// Resolver answers exact and fuzzy lookups against whatever snapshot is active at call time.
type Resolver struct {
	source SnapshotSource
	index  atomic.Pointer[labelIndex]
}

// labelIndex holds the processed labels of one snapshot.
type labelIndex struct {
	snap      *directory.Snapshot
	processed []string
}

func New(source SnapshotSource) *Resolver {
	return &Resolver{source: source}
}

// ExactMatch looks the query up in the id, name and symbol tables, in that order.
func (r *Resolver) ExactMatch(query string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(query))
	if key == "" {
		return "", false
	}
	snap := r.source.Snapshot()
	if snap == nil || snap.Empty() {
		return "", false
	}
	for _, table := range []map[string]string{snap.Maps.ByID, snap.Maps.ByName, snap.Maps.BySymbol} {
		if id, ok := table[key]; ok {
			return id, true
		}
	}
	return "", false
}

// FuzzySearch scores the query against every coin label and returns at most maxResults
// candidates scoring at least minScore, best first. Equal scores keep directory order.
func (r *Resolver) FuzzySearch(query string, maxResults, minScore int) []domain.Candidate {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	q := process(query)
	if q == "" {
		return nil
	}
	snap := r.source.Snapshot()
	if snap == nil || snap.Empty() {
		return nil
	}

	idx := r.indexFor(snap)
	var out []domain.Candidate
	for i, label := range idx.processed {
		score := weightedRatio(q, label)
		if score < minScore {
			continue
		}
		out = append(out, domain.Candidate{Name: snap.Labels[i], ID: snap.Coins[i].ID, Score: score})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > maxResults {
		out = out[:maxResults]
	}
	return out
}

func (r *Resolver) indexFor(snap *directory.Snapshot) *labelIndex {
	if idx := r.index.Load(); idx != nil && idx.snap == snap {
		return idx
	}
	processed := make([]string, len(snap.Labels))
	for i, label := range snap.Labels {
		processed[i] = process(label)
	}
	idx := &labelIndex{snap: snap, processed: processed}
	r.index.Store(idx)
	return idx
}
